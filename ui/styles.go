package ui

import (
	"github.com/charmbracelet/lipgloss"
	te "github.com/muesli/termenv"
)

var (
	pink      = lipgloss.AdaptiveColor{Light: "#D6277D", Dark: "#F25D94"}
	purple    = lipgloss.AdaptiveColor{Light: "#6B3FA0", Dark: "#A77BE0"}
	deepPurp  = lipgloss.AdaptiveColor{Light: "#E7DAF7", Dark: "#3C1F5C"}
	gray      = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}
	dimGray   = lipgloss.AdaptiveColor{Light: "#DDDADA", Dark: "#3C3C3C"}
	red       = lipgloss.AdaptiveColor{Light: "#D93A3A", Dark: "#FF5F5F"}
	cream     = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#FFFDF5"}
	greenish  = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	hasDarkBg = true
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(pink)
	subtitleStyle = lipgloss.NewStyle().Foreground(purple)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Padding(1, 2)
	focusedPanelStyle = panelStyle.BorderForeground(pink)

	chipStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(deepPurp).
			Padding(0, 1)
	selectedChipStyle = chipStyle.Background(pink).Foreground(lipgloss.Color("#FFFDF5"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(pink).
			Padding(0, 2).
			Bold(true)
	disabledButtonStyle = buttonStyle.Background(dimGray).Foreground(gray).Bold(false)

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(pink)
	captionStyle = lipgloss.NewStyle().Italic(true).Foreground(purple)
	mutedStyle   = lipgloss.NewStyle().Foreground(gray)
	playingStyle = lipgloss.NewStyle().Foreground(greenish)
	errorStyle   = lipgloss.NewStyle().Foreground(red)
	statusStyle  = lipgloss.NewStyle().Foreground(greenish)

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(red).
			Padding(1, 3)
)

// detectBackground records whether the terminal has a dark background so
// the progress bars can pick matching gradients.
func detectBackground() {
	hasDarkBg = te.HasDarkBackground()
	lipgloss.SetHasDarkBackground(hasDarkBg)
}
