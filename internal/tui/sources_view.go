package tui

import (
	"strings"

	"github.com/btcalls/newsdesk/internal/store"
)

// renderSourcePicker draws the working selection as a scrolling checklist.
// Edits stay local until committed.
func renderSourcePicker(working []store.Source, cursor, height, width int) string {
	if len(working) == 0 {
		return centerText("No sources available", width, height)
	}
	if width < 10 {
		width = 30
	}

	visible := height
	if visible < 1 {
		visible = 1
	}
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(working) {
		end = len(working)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		s := working[i]
		box := "[ ]"
		if s.Selected {
			box = savedMarkStyle.Render("[x]")
		}
		label := truncate(s.Name, width-12)
		if s.Category != "" {
			label += " " + itemTimeStyle.Render("("+s.Category+")")
		}
		if i == cursor {
			b.WriteString(itemSelectedStyle.Render("> ") + box + " " + label)
		} else {
			b.WriteString("  " + box + " " + label)
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func countSelected(working []store.Source) int {
	n := 0
	for _, s := range working {
		if s.Selected {
			n++
		}
	}
	return n
}
