package api

import (
	"context"
	"testing"

	"github.com/ShayCichocki/interviewcrew/internal/crew"
)

func TestNewGeminiBackend_NoAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := NewGeminiBackend(context.Background(), GeminiConfig{})
	if err == nil {
		t.Fatal("expected error without API key")
	}
	if err.Error() != "GEMINI_API_KEY environment variable is not set" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestNewGeminiBackend_Defaults(t *testing.T) {
	b, err := NewGeminiBackend(context.Background(), GeminiConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewGeminiBackend failed: %v", err)
	}
	if b.Name() != "gemini:"+DefaultGeminiModel {
		t.Errorf("Name = %q", b.Name())
	}
	if b.maxTokens != DefaultMaxTokens {
		t.Errorf("maxTokens = %d, want %d", b.maxTokens, DefaultMaxTokens)
	}
	if u := b.Usage(); u != (crew.Usage{}) {
		t.Errorf("Usage before any call = %+v, want zero", u)
	}
}
