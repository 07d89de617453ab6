package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	colorSecondary = lipgloss.AdaptiveColor{Light: "#4C4F69", Dark: "#BAC2DE"}
	colorDim       = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#585B70"}
	colorAccent    = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"}
	colorGreen     = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"}
	colorBorder    = lipgloss.AdaptiveColor{Light: "#CCD0DA", Dark: "#313244"}
	colorActiveBdr = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	colorStatusBg  = lipgloss.AdaptiveColor{Light: "#E6E9EF", Dark: "#181825"}
	colorStatusFg  = lipgloss.AdaptiveColor{Light: "#4C4F69", Dark: "#BAC2DE"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			PaddingLeft(1)

	headerStatusStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Align(lipgloss.Right)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	paneActiveStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorActiveBdr)

	itemTitleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	itemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	itemSourceStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	itemTimeStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	savedMarkStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	previewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary).
				MarginBottom(1)

	previewSourceStyle = lipgloss.NewStyle().
				Foreground(colorGreen).
				MarginBottom(1)

	previewBodyStyle = lipgloss.NewStyle().
				Foreground(colorSecondary)

	previewLinkStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Italic(true).
				MarginTop(1)

	thumbStateStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(colorStatusBg).
			Foreground(colorStatusFg).
			PaddingLeft(1).
			PaddingRight(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	searchPromptStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	helpDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 3)
)
