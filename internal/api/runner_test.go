package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

// messagesServer fakes the Anthropic Messages endpoint and captures the request body.
func messagesServer(t *testing.T, status int, response string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if captured != nil {
			_ = json.Unmarshal(body, captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunner_Complete(t *testing.T) {
	var captured map[string]any
	srv := messagesServer(t, http.StatusOK, `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "claude-sonnet-4-20250514",
		"content": [{"type": "text", "text": "## Common topics\n- Spark"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 120, "output_tokens": 45}
	}`, &captured)

	client, err := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	runner := NewRunner(client, 0)

	got, err := runner.Complete(context.Background(), "You are an analyst.", "Analyze this.")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if got.Text != "## Common topics\n- Spark" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.InputTokens != 120 || got.OutputTokens != 45 {
		t.Errorf("tokens = %d/%d, want 120/45", got.InputTokens, got.OutputTokens)
	}
	if u := runner.Usage(); u.Calls != 1 || u.InputTokens != 120 || u.OutputTokens != 45 {
		t.Errorf("Usage = %+v, want 1 call, 120/45 tokens", u)
	}

	if captured["model"] != string(anthropic.ModelClaudeSonnet4_20250514) {
		t.Errorf("request model = %v", captured["model"])
	}
	if captured["max_tokens"] != float64(DefaultMaxTokens) {
		t.Errorf("request max_tokens = %v, want %d", captured["max_tokens"], DefaultMaxTokens)
	}
	system, _ := json.Marshal(captured["system"])
	if !strings.Contains(string(system), "You are an analyst.") {
		t.Errorf("request system = %s", system)
	}
}

func TestRunner_CompleteError(t *testing.T) {
	srv := messagesServer(t, http.StatusBadRequest,
		`{"type":"error","error":{"type":"invalid_request_error","message":"bad request"}}`, nil)

	client, err := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = NewRunner(client, 1024).Complete(context.Background(), "", "hi")
	if err == nil {
		t.Fatal("expected error from 400 response")
	}
	if !strings.Contains(err.Error(), "API call failed") {
		t.Errorf("error = %q, want API call failed prefix", err.Error())
	}
}

func TestRunner_Name(t *testing.T) {
	client := &Client{model: anthropic.ModelClaudeSonnet4_20250514, tracker: NewTokenTracker()}
	if got := NewRunner(client, 0).Name(); got != "anthropic:claude-sonnet-4-20250514" {
		t.Errorf("Name = %q", got)
	}

	// Bedrock is known from the client, not guessed from the model id.
	for _, model := range []anthropic.Model{
		"us.anthropic.claude-sonnet-4-20250514-v1:0",
		"eu.anthropic.claude-3-7-sonnet-20250219-v1:0",
		"anthropic.claude-v2",
	} {
		bedrockClient := &Client{model: model, bedrock: true, tracker: NewTokenTracker()}
		if got := NewRunner(bedrockClient, 0).Name(); got != "bedrock:"+string(model) {
			t.Errorf("Name = %q, want bedrock:%s", got, model)
		}
	}

	custom := &Client{model: "us.anthropic.lookalike", tracker: NewTokenTracker()}
	if got := NewRunner(custom, 0).Name(); got != "anthropic:us.anthropic.lookalike" {
		t.Errorf("Name = %q, direct client must report anthropic", got)
	}
}
