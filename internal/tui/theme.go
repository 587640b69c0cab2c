package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the desk uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	activeTabStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Background(colorMantle).
				Foreground(colorOverlay1).
				Padding(0, 1)
	tabBarStyle = lipgloss.NewStyle().Background(colorMantle)

	statusStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorSubtext0)
	warnStyle      = lipgloss.NewStyle().Foreground(colorWarning)
	labelStyle     = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)

	pageStyle       = lipgloss.NewStyle().Foreground(colorSubtext0).Padding(0, 1)
	activePageStyle = lipgloss.NewStyle().Foreground(colorMantle).Background(colorFocus).Bold(true).Padding(0, 1)
	pageEdgeStyle   = lipgloss.NewStyle().Foreground(colorSurface2).Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFocus).
			Padding(1, 2)
	avatarStyle = lipgloss.NewStyle().Foreground(colorPeach).Bold(true)
)
