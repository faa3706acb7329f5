package main

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ShayCichocki/interviewcrew/internal/api"
	"github.com/ShayCichocki/interviewcrew/internal/config"
	"github.com/ShayCichocki/interviewcrew/internal/crew"
)

// backendFactory builds the configured backend. Tests replace it to observe
// whether a backend was constructed at all.
var backendFactory = newBackend

// newBackend creates the crew backend for cfg.Backend.Provider.
func newBackend(ctx context.Context, cfg *config.Config) (crew.Backend, error) {
	b := cfg.Backend
	switch b.Provider {
	case config.ProviderAnthropic, "":
		client, err := api.NewClient(api.ClientConfig{
			Model: anthropic.Model(b.Model),
		})
		if err != nil {
			return nil, fmt.Errorf("create API client: %w", err)
		}
		return api.NewRunner(client, int64(b.MaxTokens)), nil

	case config.ProviderBedrock:
		client, err := api.NewClient(api.ClientConfig{
			Model:         anthropic.Model(b.Model),
			UseAWSBedrock: true,
			AWSRegion:     b.AWSRegion,
			AWSProfile:    b.AWSProfile,
		})
		if err != nil {
			return nil, fmt.Errorf("create Bedrock client: %w", err)
		}
		return api.NewRunner(client, int64(b.MaxTokens)), nil

	case config.ProviderOpenAI:
		backend, err := api.NewOpenAIBackend(api.OpenAIConfig{
			Model:     b.Model,
			MaxTokens: b.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create OpenAI backend: %w", err)
		}
		return backend, nil

	case config.ProviderGemini:
		backend, err := api.NewGeminiBackend(ctx, api.GeminiConfig{
			Model:     b.Model,
			MaxTokens: b.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create Gemini backend: %w", err)
		}
		return backend, nil

	default:
		return nil, fmt.Errorf("unknown backend provider %q", b.Provider)
	}
}
