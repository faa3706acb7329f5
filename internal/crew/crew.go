// Package crew runs a single-step task against a language-model backend.
//
// A Crew pairs one persona with one task request and runs it to
// completion. Everything model-specific lives behind the Backend
// interface, so callers can be tested with a fake backend and no network.
package crew

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShayCichocki/interviewcrew/internal/prompt"
)

// ErrEmptyResult is returned when the backend produced no text.
var ErrEmptyResult = errors.New("backend returned an empty result")

// Backend sends a system prompt and a user prompt to a language model and
// returns the generated text.
type Backend interface {
	// Complete runs one generation. It must not retry on its own.
	Complete(ctx context.Context, system, prompt string) (Completion, error)
	// Name identifies the backend and model, e.g. "anthropic:claude-sonnet-4-20250514".
	Name() string
}

// Completion is a backend's raw answer plus token usage when reported.
type Completion struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Usage totals the token consumption of a backend across calls.
type Usage struct {
	Calls        int
	InputTokens  int64
	OutputTokens int64
}

// UsageReporter is implemented by backends that keep a running token count.
type UsageReporter interface {
	Usage() Usage
}

// Result is the generated text for a task request.
type Result struct {
	Kind         prompt.Kind
	Text         string
	InputTokens  int64
	OutputTokens int64
	Duration     time.Duration
}

// Crew runs task requests on a backend.
type Crew struct {
	backend Backend
	timeout time.Duration
}

// Option configures a Crew.
type Option func(*Crew)

// WithTimeout bounds each Kickoff. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Crew) {
		c.timeout = d
	}
}

// New creates a crew on backend.
func New(backend Backend, opts ...Option) *Crew {
	c := &Crew{backend: backend}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backend returns the crew's backend.
func (c *Crew) Backend() Backend {
	return c.backend
}

// Kickoff runs req as one sequential step and returns the generated text.
// Backend failures are returned wrapped; they are never swallowed.
func (c *Crew) Kickoff(ctx context.Context, req prompt.TaskRequest) (Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	completion, err := c.backend.Complete(ctx, SystemPrompt(req.Persona), UserPrompt(req))
	if err != nil {
		return Result{}, fmt.Errorf("kickoff %s: %w", req.Kind, err)
	}
	if strings.TrimSpace(completion.Text) == "" {
		return Result{}, fmt.Errorf("kickoff %s: %w", req.Kind, ErrEmptyResult)
	}

	return Result{
		Kind:         req.Kind,
		Text:         completion.Text,
		InputTokens:  completion.InputTokens,
		OutputTokens: completion.OutputTokens,
		Duration:     time.Since(start),
	}, nil
}

// SystemPrompt renders a persona as the system message.
func SystemPrompt(p prompt.Persona) string {
	return fmt.Sprintf("You are %s. %s\nYour personal goal is: %s", p.Role, p.Backstory, p.Goal)
}

// UserPrompt renders the task description followed by the expected output.
func UserPrompt(req prompt.TaskRequest) string {
	var b strings.Builder
	b.WriteString(req.Description)
	if req.ExpectedOutput != "" {
		b.WriteString("\n\nThis is the expected criteria for your final answer: ")
		b.WriteString(req.ExpectedOutput)
		b.WriteString("\nYou MUST return the actual complete content as the final answer, not a summary.")
	}
	return b.String()
}
