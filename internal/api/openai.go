package api

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/ShayCichocki/interviewcrew/internal/crew"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIConfig configures an OpenAIBackend.
type OpenAIConfig struct {
	// Model defaults to DefaultOpenAIModel.
	Model string
	// APIKey defaults to OPENAI_API_KEY.
	APIKey string
	// BaseURL overrides the API endpoint (OpenAI-compatible servers).
	BaseURL   string
	MaxTokens int
}

// OpenAIBackend runs completions through langchaingo's OpenAI model.
type OpenAIBackend struct {
	llm       llms.Model
	model     string
	maxTokens int
	tracker   *TokenTracker
}

var (
	_ crew.Backend       = (*OpenAIBackend)(nil)
	_ crew.UsageReporter = (*OpenAIBackend)(nil)
)

// NewOpenAIBackend creates an OpenAI backend.
func NewOpenAIBackend(cfg OpenAIConfig) (*OpenAIBackend, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}

	return &OpenAIBackend{
		llm:       llm,
		model:     model,
		maxTokens: maxTokens,
		tracker:   NewTokenTracker(),
	}, nil
}

// Name identifies the backend and model.
func (b *OpenAIBackend) Name() string {
	return "openai:" + b.model
}

// Usage returns the tokens used by this backend so far.
func (b *OpenAIBackend) Usage() crew.Usage {
	return b.tracker.Usage()
}

// Complete sends the system and user prompts as a two-message chat.
func (b *OpenAIBackend) Complete(ctx context.Context, systemPrompt, userPrompt string) (crew.Completion, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userPrompt))

	resp, err := b.llm.GenerateContent(ctx, messages, llms.WithMaxTokens(b.maxTokens))
	if err != nil {
		return crew.Completion{}, fmt.Errorf("openai call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return crew.Completion{}, fmt.Errorf("openai call failed: no choices returned")
	}

	choice := resp.Choices[0]
	input := tokenCount(choice.GenerationInfo, "PromptTokens")
	output := tokenCount(choice.GenerationInfo, "CompletionTokens")
	b.tracker.Add(input, output)

	return crew.Completion{
		Text:         strings.TrimSpace(choice.Content),
		InputTokens:  input,
		OutputTokens: output,
	}, nil
}

// tokenCount reads a usage counter from langchaingo's loosely typed
// generation info.
func tokenCount(info map[string]any, key string) int64 {
	switch v := info[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}
