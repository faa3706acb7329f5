package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Header renders the interviewcrew banner shown when the shell starts.
type Header struct {
	width int
}

// NewHeader creates a new Header.
func NewHeader() *Header {
	return &Header{
		width: 60,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// View renders the header.
func (h *Header) View() string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ECDC4")).
		Bold(true).
		Render("Interview Analysis Crew")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("243")).
		Italic(true).
		Render("Analyze interviews and generate practice questions")

	box := lipgloss.NewStyle().
		Width(h.width).
		Align(lipgloss.Center).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("#45B7D1"))

	return box.Render(lipgloss.JoinVertical(lipgloss.Center, title, subtitle))
}
