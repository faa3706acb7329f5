package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/ShayCichocki/interviewcrew/internal/config"
	"github.com/ShayCichocki/interviewcrew/internal/corpus"
	"github.com/ShayCichocki/interviewcrew/internal/crew"
	"github.com/ShayCichocki/interviewcrew/internal/history"
	"github.com/ShayCichocki/interviewcrew/internal/logging"
	"github.com/ShayCichocki/interviewcrew/internal/prompt"
	"github.com/ShayCichocki/interviewcrew/internal/shell"
	"github.com/ShayCichocki/interviewcrew/internal/tui"
)

// preflight checks the credential for the selected backend. On failure it
// prints setup instructions and returns false; no backend is constructed.
func preflight(out io.Writer, cfg *config.Config) bool {
	err := config.CheckCredentials(cfg)
	if err == nil {
		return true
	}

	red := color.New(color.FgRed, color.Bold)
	name := config.CredentialEnv(cfg.Backend.Provider)
	if !config.ValidProvider(cfg.Backend.Provider) {
		red.Fprintf(out, "Error: %v\n", err)
		fmt.Fprintln(out, "Supported backends: anthropic, bedrock, openai, gemini")
		return false
	}
	red.Fprintf(out, "Error: %s not found in environment variables\n", name)
	fmt.Fprintf(out, "Please create a .env file with: %s=your_key_here\n", name)
	fmt.Fprintln(out, "Or set it as an environment variable.")
	return false
}

// session holds everything one invocation needs to run the crew.
type session struct {
	shell   *shell.Shell
	closers []io.Closer
}

func (s *session) Close() {
	for _, c := range s.closers {
		c.Close()
	}
}

// newSession wires the loader, personas, backend and history into a shell.
func newSession(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, wait shell.Waiter) (*session, error) {
	log := logging.For("session")

	root, err := filepath.Abs(flagDir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}

	personas := prompt.DefaultPersonas()
	if cfg.Personas.File != "" {
		personas, err = prompt.LoadPersonas(cfg.Personas.File)
		if err != nil {
			return nil, fmt.Errorf("load personas: %w", err)
		}
	}

	backend, err := backendFactory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.WithField("backend", backend.Name()).Debug("backend ready")

	sess := &session{}
	var recorder history.Recorder
	if cfg.History.Enabled {
		db, err := openHistory(root, cfg)
		if err != nil {
			// History is optional; the menu works without it.
			log.WithError(err).Warn("history disabled")
		} else {
			recorder = db
			sess.closers = append(sess.closers, db)
		}
	}

	sess.shell = shell.New(shell.Config{
		In:        in,
		Out:       out,
		Loader:    corpus.NewLoader(root, cfg.Discovery.Pattern),
		Assembler: prompt.NewAssembler(personas),
		Crew:      crew.New(backend, crew.WithTimeout(cfg.Backend.RequestTimeout)),
		Recorder:  recorder,
		Wait:      wait,
		Width:     terminalWidth(out),
	})
	return sess, nil
}

// openHistory opens the run log; a relative history.path is under root.
func openHistory(root string, cfg *config.Config) (*history.DB, error) {
	path := cfg.History.Path
	if path == "" {
		path = history.ProjectDBPath(root)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return history.OpenMigrated(path)
}

// terminalWidth is the width of out when it is a terminal, else 0.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok {
		return 0
	}
	return tui.TerminalWidth(f)
}

// waiterFor returns a spinner waiter when out is a terminal.
func waiterFor(out io.Writer) shell.Waiter {
	f, ok := out.(*os.File)
	if !ok || !tui.IsTerminal(f) {
		return shell.PlainWait
	}
	return func(ctx context.Context, label string, fn func(context.Context) error) error {
		// The spinner owns the terminal; keep log lines from tearing it.
		prev := logging.Logger().Out
		logging.SetOutput(io.Discard)
		defer logging.SetOutput(prev)
		return tui.Wait(ctx, f, label, fn)
	}
}

func runInteractive(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !preflight(out, appCfg) {
		return nil
	}

	sess, err := newSession(ctx, appCfg, in, out, waiterFor(out))
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.shell.Run(ctx)
}
