package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the status TUI. Grounded on the
// teacher's internal/tui/theme.go; trimmed to the one palette a status
// display needs instead of the dictation TUI's user-selectable set.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Dimmed    lipgloss.Color
}

var synthwave = Theme{
	Primary:   lipgloss.Color("#FF6AC1"),
	Secondary: lipgloss.Color("#00E5FF"),
	Success:   lipgloss.Color("#64FFDA"),
	Warning:   lipgloss.Color("#FFAB40"),
	Dimmed:    lipgloss.Color("#666666"),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(synthwave.Primary).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(synthwave.Secondary).Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(synthwave.Success).Bold(true)
	logStyle    = lipgloss.NewStyle().Foreground(synthwave.Dimmed)
	quitStyle   = lipgloss.NewStyle().Foreground(synthwave.Dimmed)
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(synthwave.Secondary).
			Padding(1, 2)
)
