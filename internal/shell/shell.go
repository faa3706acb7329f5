// Package shell implements the interactive menu loop and the single-action
// runner shared with the one-shot commands.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ShayCichocki/interviewcrew/internal/corpus"
	"github.com/ShayCichocki/interviewcrew/internal/crew"
	"github.com/ShayCichocki/interviewcrew/internal/history"
	"github.com/ShayCichocki/interviewcrew/internal/logging"
	"github.com/ShayCichocki/interviewcrew/internal/prompt"
	"github.com/ShayCichocki/interviewcrew/internal/tui"
)

// Menu prompts.
const (
	TopicPrompt      = "Enter topic (or press Enter for all topics): "
	DifficultyPrompt = "Difficulty (easy/medium/hard) [medium]: "
	ChoicePrompt     = "Select an option (1-4): "
	InvalidMessage   = "Invalid option. Please try again."
	GoodbyeMessage   = "Goodbye!"
)

// Waiter runs fn while the user waits. The interactive shell uses a spinner
// on a terminal and PlainWait otherwise.
type Waiter func(ctx context.Context, label string, fn func(context.Context) error) error

// PlainWait runs fn with no progress display.
func PlainWait(ctx context.Context, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}

// Config wires a Shell.
type Config struct {
	In        io.Reader
	Out       io.Writer
	Loader    *corpus.Loader
	Assembler *prompt.Assembler
	Crew      *crew.Crew
	// Recorder is optional; nil disables history.
	Recorder history.Recorder
	// Wait defaults to PlainWait.
	Wait Waiter
	// Width of result panels; zero sizes panels to content.
	Width int
}

// Shell is the interactive menu.
type Shell struct {
	in        *bufio.Reader
	out       io.Writer
	loader    *corpus.Loader
	assembler *prompt.Assembler
	crew      *crew.Crew
	recorder  history.Recorder
	wait      Waiter
	width     int
	log       *logrus.Entry
}

// New creates a shell from cfg.
func New(cfg Config) *Shell {
	wait := cfg.Wait
	if wait == nil {
		wait = PlainWait
	}
	assembler := cfg.Assembler
	if assembler == nil {
		assembler = prompt.NewAssembler(prompt.DefaultPersonas())
	}
	return &Shell{
		in:        bufio.NewReader(cfg.In),
		out:       cfg.Out,
		loader:    cfg.Loader,
		assembler: assembler,
		crew:      cfg.Crew,
		recorder:  cfg.Recorder,
		wait:      wait,
		width:     cfg.Width,
		log:       logging.For("shell"),
	}
}

// Run prints the banner and loops over the menu until Exit or end of input.
// Action failures are shown and the loop continues; Run only returns an
// error when output cannot be written.
func (s *Shell) Run(ctx context.Context) error {
	header := tui.NewHeader()
	if s.width > 0 {
		// The double border adds two columns.
		header.SetWidth(s.width - 2)
	}
	if _, err := fmt.Fprintln(s.out, header.View()); err != nil {
		return fmt.Errorf("write banner: %w", err)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		s.printMenu()
		line, eof := s.readLine("\n" + ChoicePrompt)
		if eof && line == "" {
			fmt.Fprintln(s.out)
			s.goodbye()
			return nil
		}

		switch ParseChoice(line) {
		case AnalyzeAll:
			s.act(ctx, prompt.KindAnalysis, "", "")
		case GenerateQuestions:
			topic, _ := s.readLine(TopicPrompt)
			difficulty, _ := s.readLine(DifficultyPrompt)
			s.act(ctx, prompt.KindQuestions, topic, difficulty)
		case CreateStudyGuide:
			s.act(ctx, prompt.KindStudyGuide, "", "")
		case Exit:
			s.goodbye()
			return nil
		default:
			fmt.Fprintln(s.out, InvalidMessage)
		}

		if eof {
			s.goodbye()
			return nil
		}
	}
}

// goodbye prints the session's token usage, when the backend reports any,
// and the exit message.
func (s *Shell) goodbye() {
	if line := UsageLine(s.crew.Backend()); line != "" {
		fmt.Fprintln(s.out, tui.Muted(line))
	}
	fmt.Fprintln(s.out, GoodbyeMessage)
}

// UsageLine summarizes the tokens a backend has used, or returns "" when the
// backend does not track usage or has not been called.
func UsageLine(backend crew.Backend) string {
	reporter, ok := backend.(crew.UsageReporter)
	if !ok {
		return ""
	}
	u := reporter.Usage()
	if u.Calls == 0 {
		return ""
	}
	return fmt.Sprintf("Session usage: %d call(s), %d input / %d output tokens", u.Calls, u.InputTokens, u.OutputTokens)
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out, "\nOptions:")
	fmt.Fprintln(s.out, "1. Analyze all interviews")
	fmt.Fprintln(s.out, "2. Generate practice questions")
	fmt.Fprintln(s.out, "3. Create study guide")
	fmt.Fprintln(s.out, "4. Exit")
}

// readLine prints label and returns one line without its line ending.
// eof reports that input is exhausted.
func (s *Shell) readLine(label string) (line string, eof bool) {
	fmt.Fprint(s.out, label)
	raw, err := s.in.ReadString('\n')
	line = strings.TrimRight(raw, "\r\n")
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.log.WithError(err).Warn("read input")
		}
		return line, true
	}
	return line, false
}

func (s *Shell) act(ctx context.Context, kind prompt.Kind, topic, difficulty string) {
	fmt.Fprintf(s.out, "\n%s\n", progressLabel(kind))

	result, err := s.Execute(ctx, kind, topic, difficulty)
	if err != nil {
		fmt.Fprintln(s.out, tui.ErrorLine(err.Error()))
		return
	}

	fmt.Fprintf(s.out, "\n%s\n", doneLabel(kind))
	fmt.Fprintln(s.out, tui.Panel(kind.Title(), result.Text, s.width))
}

// Execute rebuilds the corpus, assembles the request for kind and runs the
// crew once. The run is recorded in history whether it succeeds or fails.
func (s *Shell) Execute(ctx context.Context, kind prompt.Kind, topic, difficulty string) (crew.Result, error) {
	started := time.Now()

	files, err := s.loader.Scan()
	if err != nil {
		return crew.Result{}, fmt.Errorf("discover interview files: %w", err)
	}
	text := s.loader.Corpus()
	s.log.WithFields(logrus.Fields{
		"root":  s.loader.Root(),
		"kind":  kind,
		"files": len(files),
		"chars": len(text),
	}).Debug("corpus built")

	req := s.build(kind, text, topic, difficulty)

	var result crew.Result
	err = s.wait(ctx, progressLabel(kind), func(ctx context.Context) error {
		var kerr error
		result, kerr = s.crew.Kickoff(ctx, req)
		return kerr
	})

	s.record(kind, req, files, text, result, started, err)
	if err != nil {
		return crew.Result{}, err
	}
	return result, nil
}

func (s *Shell) build(kind prompt.Kind, text, topic, difficulty string) prompt.TaskRequest {
	switch kind {
	case prompt.KindQuestions:
		return s.assembler.BuildQuestionRequest(text, topic, difficulty)
	case prompt.KindStudyGuide:
		return s.assembler.BuildStudyGuideRequest(text)
	default:
		return s.assembler.BuildAnalysisRequest(text)
	}
}

func (s *Shell) record(kind prompt.Kind, req prompt.TaskRequest, files []corpus.InterviewFile, text string,
	result crew.Result, started time.Time, runErr error) {
	if s.recorder == nil {
		return
	}

	backend, model, _ := strings.Cut(s.crew.Backend().Name(), ":")
	run := &history.Run{
		Kind:         string(kind),
		Topic:        req.Topic,
		Difficulty:   req.Difficulty,
		Backend:      backend,
		Model:        model,
		FileCount:    len(files),
		CorpusChars:  len(text),
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
		Status:       history.RunOK,
		StartedAt:    started,
		Duration:     time.Since(started),
	}
	if runErr != nil {
		run.Status = history.RunFailed
		run.Error = runErr.Error()
	}

	if err := s.recorder.Record(run); err != nil {
		s.log.WithError(err).Warn("record run")
	}
}

func progressLabel(kind prompt.Kind) string {
	switch kind {
	case prompt.KindQuestions:
		return "Generating practice questions..."
	case prompt.KindStudyGuide:
		return "Creating study guide..."
	default:
		return "Analyzing interviews..."
	}
}

func doneLabel(kind prompt.Kind) string {
	switch kind {
	case prompt.KindQuestions:
		return "Questions Generated:"
	case prompt.KindStudyGuide:
		return "Study Guide Created:"
	default:
		return "Analysis Complete:"
	}
}
