package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ShayCichocki/interviewcrew/internal/crew"
)

// Runner provides text-in/text-out Claude calls and implements crew.Backend.
type Runner struct {
	client    *Client
	maxTokens int64
}

var (
	_ crew.Backend       = (*Runner)(nil)
	_ crew.UsageReporter = (*Runner)(nil)
)

// NewRunner creates a new API runner. maxTokens <= 0 uses DefaultMaxTokens.
func NewRunner(client *Client, maxTokens int64) *Runner {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Runner{
		client:    client,
		maxTokens: maxTokens,
	}
}

// Name identifies the backend and model.
func (r *Runner) Name() string {
	return r.client.Provider() + ":" + string(r.client.Model())
}

// Usage returns the tokens used through this runner's client.
func (r *Runner) Usage() crew.Usage {
	return r.client.Tracker().Usage()
}

// Complete executes a prompt with a system message.
func (r *Runner) Complete(ctx context.Context, systemPrompt, userPrompt string) (crew.Completion, error) {
	params := anthropic.MessageNewParams{
		Model:     r.client.Model(),
		MaxTokens: r.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	resp, err := r.client.sdk().Messages.New(ctx, params)
	if err != nil {
		return crew.Completion{}, fmt.Errorf("API call failed: %w", err)
	}

	r.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var result strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			result.WriteString(variant.Text)
		}
	}

	return crew.Completion{
		Text:         result.String(),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}
