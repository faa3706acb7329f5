package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TerminalWidth returns the column count of the terminal behind f, or 0
// when f is not a terminal.
func TerminalWidth(f *os.File) int {
	if !IsTerminal(f) {
		return 0
	}
	width, _, err := term.GetSize(f.Fd())
	if err != nil {
		return 0
	}
	return width
}

// workDoneMsg carries the result of the wrapped call.
type workDoneMsg struct {
	err error
}

// waitModel shows a spinner until it receives workDoneMsg.
type waitModel struct {
	spinner spinner.Model
	label   string
	err     error
	done    bool
}

func newWaitModel(label string) waitModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return waitModel{
		spinner: s,
		label:   label,
	}
}

// Init implements tea.Model.
func (m waitModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m waitModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.label)
}

// Wait runs fn while a spinner labelled label animates on out, and returns
// fn's error. Keyboard input is left to the caller. Cancelling ctx stops the
// spinner and is passed on to fn, but Wait always returns after fn does, so
// anything fn writes is safe to read afterwards.
func Wait(ctx context.Context, out io.Writer, label string, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		newWaitModel(label),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)

	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		// Send returns at once if the program has already stopped.
		p.Send(workDoneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		// The program was killed, most likely by ctx; fn still owns the outcome.
		cancel()
	}
	return <-result
}
