package report

import "github.com/charmbracelet/lipgloss"

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().Padding(0, 1)

	NameStyle = CellStyle.
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	RuinStyle = CellStyle.
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)
