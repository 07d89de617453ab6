package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/btcalls/newsdesk/internal/api"
)

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

type listRow struct {
	title  string
	meta   string
	marked bool
}

func articleRow(a api.Article, saved bool) listRow {
	return listRow{
		title:  a.Title,
		meta:   itemSourceStyle.Render(a.Source.Name) + " " + itemTimeStyle.Render("· "+relativeTime(a.PublishedAt)),
		marked: saved,
	}
}

// renderRows draws a scrolling two-line-per-item list keeping the cursor
// visible within height.
func renderRows(rows []listRow, cursor, height, width int) string {
	if len(rows) == 0 {
		return centerText("Nothing here yet", width, height)
	}
	if width < 10 {
		width = 30
	}

	const itemHeight = 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(rows) {
		end = len(rows)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		r := rows[i]
		mark := "  "
		if r.marked {
			mark = savedMarkStyle.Render("* ")
		}
		title := truncate(r.title, width-4)
		if i == cursor {
			b.WriteString(itemSelectedStyle.Render("> "+title) + "\n")
		} else {
			b.WriteString(mark + itemTitleStyle.Render(title) + "\n")
		}
		b.WriteString("  " + r.meta)
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func centerText(s string, width, height int) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
