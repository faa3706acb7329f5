package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// Panel renders body inside a rounded border with a bold title line.
// width <= 0 lets the panel size itself to its content.
func Panel(title, body string, width int) string {
	style := panelStyle
	if width > 4 {
		style = style.Width(width - 2)
	}
	content := panelTitleStyle.Render(title) + "\n\n" + strings.TrimRight(body, "\n")
	return style.Render(content)
}

// ErrorLine renders an error message for the menu loop.
func ErrorLine(msg string) string {
	return errorStyle.Render("Error: " + msg)
}

// Muted renders secondary text such as hints and prompts.
func Muted(s string) string {
	return mutedStyle.Render(s)
}
