package api

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/ShayCichocki/interviewcrew/internal/crew"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures a GeminiBackend.
type GeminiConfig struct {
	// Model defaults to DefaultGeminiModel.
	Model string
	// APIKey defaults to GEMINI_API_KEY.
	APIKey    string
	MaxTokens int
}

// GeminiBackend is a thin wrapper around the genai client.
type GeminiBackend struct {
	cli       *genai.Client
	model     string
	maxTokens int32
	tracker   *TokenTracker
}

var (
	_ crew.Backend       = (*GeminiBackend)(nil)
	_ crew.UsageReporter = (*GeminiBackend)(nil)
)

// NewGeminiBackend creates a Gemini backend.
func NewGeminiBackend(ctx context.Context, cfg GeminiConfig) (*GeminiBackend, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &GeminiBackend{
		cli:       cli,
		model:     model,
		maxTokens: int32(maxTokens),
		tracker:   NewTokenTracker(),
	}, nil
}

// Name identifies the backend and model.
func (g *GeminiBackend) Name() string {
	return "gemini:" + g.model
}

// Usage returns the tokens used by this backend so far.
func (g *GeminiBackend) Usage() crew.Usage {
	return g.tracker.Usage()
}

// Complete sends the user prompt with the persona as system instruction.
func (g *GeminiBackend) Complete(ctx context.Context, systemPrompt, userPrompt string) (crew.Completion, error) {
	cfg := &genai.GenerateContentConfig{MaxOutputTokens: g.maxTokens}
	if systemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: userPrompt}}}},
		cfg,
	)
	if err != nil {
		return crew.Completion{}, fmt.Errorf("gemini call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return crew.Completion{}, fmt.Errorf("gemini call failed: no candidates returned")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	var input, output int64
	if resp.UsageMetadata != nil {
		input = int64(resp.UsageMetadata.PromptTokenCount)
		output = int64(resp.UsageMetadata.CandidatesTokenCount)
	}
	g.tracker.Add(input, output)

	return crew.Completion{
		Text:         text.String(),
		InputTokens:  input,
		OutputTokens: output,
	}, nil
}
