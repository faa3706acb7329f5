package tui

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPanel(t *testing.T) {
	tests := []struct {
		name  string
		title string
		body  string
		width int
	}{
		{"analysis", "Interview Analysis", "## Topics\n- Spark\n- SQL", 0},
		{"questions", "Practice Questions", "1. What is a DAG?", 60},
		{"trailing newline", "Study Guide", "Week 1\n\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Panel(tt.title, tt.body, tt.width)
			if !strings.Contains(out, tt.title) {
				t.Errorf("panel missing title %q:\n%s", tt.title, out)
			}
			for _, line := range strings.Split(strings.TrimRight(tt.body, "\n"), "\n") {
				if line != "" && !strings.Contains(out, line) {
					t.Errorf("panel missing body line %q:\n%s", line, out)
				}
			}
			if strings.Index(out, tt.title) > strings.Index(out, strings.Split(tt.body, "\n")[0]) {
				t.Error("title should come before the body")
			}
		})
	}
}

func TestErrorLine(t *testing.T) {
	out := ErrorLine("kickoff analysis: timeout")
	if !strings.Contains(out, "Error: kickoff analysis: timeout") {
		t.Errorf("ErrorLine = %q", out)
	}
}

func TestHeaderView(t *testing.T) {
	h := NewHeader()
	h.SetWidth(70)
	out := h.View()
	if !strings.Contains(out, "Interview Analysis Crew") {
		t.Errorf("header missing title:\n%s", out)
	}
	// Width excludes the two border columns.
	if w := lipgloss.Width(out); w != 72 {
		t.Errorf("header width = %d, want 72", w)
	}
}

func TestMuted(t *testing.T) {
	if out := Muted("Session usage: 1 call(s)"); !strings.Contains(out, "Session usage: 1 call(s)") {
		t.Errorf("Muted = %q", out)
	}
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if w := TerminalWidth(f); w != 0 {
		t.Errorf("TerminalWidth(regular file) = %d, want 0", w)
	}
}
