package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ShayCichocki/interviewcrew/internal/config"
	"github.com/ShayCichocki/interviewcrew/internal/corpus"
	"github.com/ShayCichocki/interviewcrew/internal/crew"
	"github.com/ShayCichocki/interviewcrew/internal/history"
)

type fakeBackend struct {
	calls int
}

func (f *fakeBackend) Complete(_ context.Context, _, _ string) (crew.Completion, error) {
	f.calls++
	return crew.Completion{Text: "## Topics\n- Graphs", InputTokens: 5, OutputTokens: 7}, nil
}

func (f *fakeBackend) Name() string { return "fake:test-model" }

// isolate points config and credentials at empty test locations and resets
// package-level flag state between command runs.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, name := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "AWS_REGION",
		"INTERVIEWCREW_BACKEND_PROVIDER", "INTERVIEWCREW_BACKEND_MODEL"} {
		t.Setenv(name, "")
	}

	prevFactory := backendFactory
	t.Cleanup(func() { backendFactory = prevFactory })
}

// withFakeBackend replaces the backend factory and returns the fake and a
// counter of factory calls.
func withFakeBackend(t *testing.T) (*fakeBackend, *int) {
	t.Helper()
	fake := &fakeBackend{}
	calls := 0
	backendFactory = func(context.Context, *config.Config) (crew.Backend, error) {
		calls++
		return fake, nil
	}
	return fake, &calls
}

func resetFlags() {
	flagDir, flagBackend, flagModel, flagVerbose = ".", "", "", false
	filesFilter, filesWatch = "", false
	filesSearch = corpus.Filter{}
	historyLimit, historyPurge = 20, 0
	questionsTopic, questionsDifficulty = "", "medium"
}

// runCLI executes the root command with args and stdin, returning stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// writeInterviews creates A/interview1.txt (accepted) and b/notes.txt (rejected).
func writeInterviews(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range map[string]string{
		"A/interview1.txt": "Q: what is a DAG?",
		"b/notes.txt":      "grocery list",
	} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestMissingCredentialSkipsShell(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		env     string
	}{
		{"anthropic", "", "ANTHROPIC_API_KEY"},
		{"openai", "openai", "OPENAI_API_KEY"},
		{"gemini", "gemini", "GEMINI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			fake, factoryCalls := withFakeBackend(t)
			root := writeInterviews(t)

			args := []string{"--dir", root}
			if tt.backend != "" {
				args = append(args, "--backend", tt.backend)
			}
			out, err := runCLI(t, "1\n4\n", args...)
			if err != nil {
				t.Fatalf("missing credential should exit cleanly, got %v", err)
			}

			if !strings.Contains(out, "Error: "+tt.env+" not found in environment variables") {
				t.Errorf("output missing credential message:\n%s", out)
			}
			if !strings.Contains(out, tt.env+"=your_key_here") {
				t.Errorf("output missing .env hint:\n%s", out)
			}
			if strings.Contains(out, "Options:") {
				t.Error("menu must not be shown without a credential")
			}
			if *factoryCalls != 0 || fake.calls != 0 {
				t.Errorf("backend constructed %d times, called %d times; want 0", *factoryCalls, fake.calls)
			}
		})
	}
}

func TestInteractiveSessionRecordsHistory(t *testing.T) {
	isolate(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test-key-1234567890")
	fake, _ := withFakeBackend(t)
	root := writeInterviews(t)

	out, err := runCLI(t, "1\n4\n", "--dir", root)
	if err != nil {
		t.Fatalf("interactive run failed: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("backend called %d times, want 1", fake.calls)
	}
	for _, want := range []string{"Options:", "Interview Analysis", "- Graphs", "Goodbye!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if _, err := os.Stat(filepath.Join(root, ".interviewcrew", "history.db")); err != nil {
		t.Fatalf("history database not created: %v", err)
	}

	out, err = runCLI(t, "", "history", "--dir", root)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "analysis") || !strings.Contains(out, "fake") {
		t.Errorf("history output missing run:\n%s", out)
	}

	db, err := history.OpenMigrated(filepath.Join(root, ".interviewcrew", "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	runs, err := db.ListRuns(1)
	db.Close()
	if err != nil || len(runs) != 1 {
		t.Fatalf("ListRuns = %v, %v", runs, err)
	}

	out, err = runCLI(t, "", "history", "--dir", root, runs[0].ID[:8])
	if err != nil {
		t.Fatalf("history <id> failed: %v", err)
	}
	for _, want := range []string{"ID:", runs[0].ID, "Model:", "test-model", "Status:", "ok"} {
		if !strings.Contains(out, want) {
			t.Errorf("run detail missing %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "", "history", "--dir", root, "nope"); err == nil {
		t.Error("expected error for unknown run ID")
	}
}

func TestQuestionsCommand(t *testing.T) {
	isolate(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test-key-1234567890")
	fake, _ := withFakeBackend(t)
	root := writeInterviews(t)

	out, err := runCLI(t, "", "questions", "--dir", root, "--topic", "Spark", "--difficulty", "hard")
	if err != nil {
		t.Fatalf("questions failed: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("backend called %d times, want 1", fake.calls)
	}
	if !strings.Contains(out, "Practice Questions") {
		t.Errorf("output missing panel title:\n%s", out)
	}
}

func TestFilesCommand(t *testing.T) {
	isolate(t)
	root := writeInterviews(t)

	out, err := runCLI(t, "", "files", "--dir", root)
	if err != nil {
		t.Fatalf("files failed: %v", err)
	}
	if !strings.Contains(out, "A/interview1.txt") {
		t.Errorf("accepted file missing:\n%s", out)
	}
	if strings.Contains(out, "notes.txt") {
		t.Errorf("rejected file listed:\n%s", out)
	}
	if !strings.Contains(out, "1 interview(s), 1 company (A/: 1)") {
		t.Errorf("summary missing:\n%s", out)
	}

	out, err = runCLI(t, "", "files", "--dir", root, "--search", "dag")
	if err != nil {
		t.Fatalf("files --search failed: %v", err)
	}
	if !strings.Contains(out, "A/interview1.txt") {
		t.Errorf("content search should find interview1.txt:\n%s", out)
	}

	out, err = runCLI(t, "", "files", "--dir", root, "--company", "globex")
	if err != nil {
		t.Fatalf("files --company failed: %v", err)
	}
	if !strings.Contains(out, "No interview files found.") {
		t.Errorf("company filter should exclude everything:\n%s", out)
	}

	out, err = runCLI(t, "", "files", "--dir", root, "--filter", "zzz")
	if err != nil {
		t.Fatalf("files --filter failed: %v", err)
	}
	if !strings.Contains(out, "No interview files found.") {
		t.Errorf("filter should exclude everything:\n%s", out)
	}
}

func TestConfigCommand(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "", "config", "backend.provider", "openai")
	if err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if !strings.Contains(out, "Set backend.provider = openai") {
		t.Errorf("unexpected set output: %q", out)
	}

	out, err = runCLI(t, "", "config", "backend.provider")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if strings.TrimSpace(out) != "openai" {
		t.Errorf("config get = %q, want openai", out)
	}

	if _, err := runCLI(t, "", "config", "backend.provider", "nonsense"); err == nil {
		t.Error("expected error for unknown provider")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-REDACTED")
	out, err = runCLI(t, "", "config")
	if err != nil {
		t.Fatalf("config list failed: %v", err)
	}
	if strings.Contains(out, "abcdefghijklmnop") {
		t.Error("API key must be masked")
	}
	if !strings.Contains(out, "ANTHROPIC_API_KEY: sk-ant-...wxyz") {
		t.Errorf("masked key missing:\n%s", out)
	}
}

func TestConfigSetWritesOnlyUserFile(t *testing.T) {
	isolate(t)

	project := t.TempDir()
	projectCfg := "backend:\n  provider: openai\n"
	if err := os.WriteFile(filepath.Join(project, config.ProjectConfigName), []byte(projectCfg), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(project)
	t.Setenv("AWS_REGION", "eu-west-1")

	if _, err := runCLI(t, "", "config", "log.level", "debug"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	data, err := os.ReadFile(config.GetUserConfigPath())
	if err != nil {
		t.Fatalf("read user config: %v", err)
	}
	written := string(data)
	if !strings.Contains(written, "level: debug") {
		t.Errorf("user config missing the new value:\n%s", written)
	}
	if strings.Contains(written, "openai") {
		t.Errorf("project override leaked into user config:\n%s", written)
	}
	if strings.Contains(written, "eu-west-1") {
		t.Errorf("environment value leaked into user config:\n%s", written)
	}

	// The effective view still layers the project file on top.
	out, err := runCLI(t, "", "config", "backend.provider")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if strings.TrimSpace(out) != "openai" {
		t.Errorf("effective provider = %q, want openai", out)
	}
}

func TestDoctorCommand(t *testing.T) {
	isolate(t)
	root := writeInterviews(t)

	out, err := runCLI(t, "", "doctor", "--dir", root)
	if err != nil {
		t.Fatalf("doctor failed: %v", err)
	}
	if !strings.Contains(out, "ANTHROPIC_API_KEY not set") {
		t.Errorf("doctor should report missing key:\n%s", out)
	}
	if !strings.Contains(out, "1 interview file(s): interview1.txt") {
		t.Errorf("doctor should report discovery:\n%s", out)
	}
	if !strings.Contains(out, "1 problem(s) found.") {
		t.Errorf("doctor should count problems:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "interviewcrew version ") {
		t.Errorf("version output = %q", out)
	}
}
