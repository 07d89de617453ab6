package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/btcalls/newsdesk/internal/imgcache"
)

func thumbLine(imageURL string, thumb imgcache.Update) string {
	if imageURL == "" {
		return ""
	}
	if thumb.URL != imageURL {
		// Loader has not reported on this article yet.
		return thumbStateStyle.Render("[image]")
	}
	switch thumb.State {
	case imgcache.StateLoading:
		return thumbStateStyle.Render("[image loading...]")
	case imgcache.StateSuccess:
		b := thumb.Image.Bounds()
		return thumbStateStyle.Render(fmt.Sprintf("[image %dx%d cached]", b.Dx(), b.Dy()))
	case imgcache.StateFailure:
		return thumbStateStyle.Render("[image unavailable]")
	default:
		return ""
	}
}

type previewItem struct {
	Title       string
	SourceName  string
	Author      string
	Description string
	URL         string
	ImageURL    string
	When        string
}

func renderPreview(item *previewItem, thumb imgcache.Update, width, height, scroll int) string {
	if item == nil {
		return centerText("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(item.Title)

	byline := item.SourceName
	if item.When != "" {
		byline += " · " + item.When
	}
	if item.Author != "" {
		byline += " · " + item.Author
	}
	source := previewSourceStyle.Render(byline)

	desc := item.Description
	if desc == "" {
		desc = "(No description available)"
	}
	body := previewBodyStyle.Width(contentWidth).Render(wrapText(desc, contentWidth))

	parts := []string{title, source}
	if t := thumbLine(item.ImageURL, thumb); t != "" {
		parts = append(parts, t)
	}
	parts = append(parts, "", body)
	if item.URL != "" {
		parts = append(parts, "", previewLinkStyle.Width(contentWidth).Render("Read more: "+item.URL))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
