package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildAnalysisRequest_EmbedsFullCorpus(t *testing.T) {
	corpus := "=== a.txt ===\n" + strings.Repeat("spark memory management\n", 500)

	req := BuildAnalysisRequest(corpus)

	if req.Kind != KindAnalysis {
		t.Errorf("Kind = %q, want %q", req.Kind, KindAnalysis)
	}
	if !strings.Contains(req.Description, corpus) {
		t.Error("analysis description does not embed the full corpus")
	}
	if strings.Contains(req.Description, TruncationMarker) {
		t.Error("analysis description should not be truncated")
	}
	if req.Persona.Role != "Senior Interview Analyst" {
		t.Errorf("Persona.Role = %q", req.Persona.Role)
	}
	for _, want := range []string{"common topics", "difficulty patterns", "Company-specific", "Role-specific", "Key skills"} {
		if !strings.Contains(req.Description, want) {
			t.Errorf("analysis description missing %q", want)
		}
	}
}

func TestBuildStudyGuideRequest_EmbedsFullCorpus(t *testing.T) {
	corpus := strings.Repeat("x", 5000)

	req := BuildStudyGuideRequest(corpus)

	if req.Kind != KindStudyGuide {
		t.Errorf("Kind = %q, want %q", req.Kind, KindStudyGuide)
	}
	if !strings.Contains(req.Description, corpus) {
		t.Error("study guide description does not embed the full corpus")
	}
	if req.Persona.Role != "Study Guide Creator" {
		t.Errorf("Persona.Role = %q", req.Persona.Role)
	}
	for _, want := range []string{"Priority topics", "learning path", "Common pitfalls", "Practice recommendations"} {
		if !strings.Contains(req.Description, want) {
			t.Errorf("study guide description missing %q", want)
		}
	}
}

func TestBuildQuestionRequest_Truncation(t *testing.T) {
	tests := []struct {
		name     string
		corpus   string
		embedded string
	}{
		{
			name:     "long corpus keeps first 2000 characters",
			corpus:   strings.Repeat("a", 2000) + strings.Repeat("b", 3000),
			embedded: strings.Repeat("a", 2000),
		},
		{
			name:     "exactly 2000 characters",
			corpus:   strings.Repeat("c", 2000),
			embedded: strings.Repeat("c", 2000),
		},
		{
			name:     "short corpus embedded in full",
			corpus:   "=== a.txt ===\nQ: what is a DAG?\n",
			embedded: "=== a.txt ===\nQ: what is a DAG?\n",
		},
		{
			name:     "multibyte characters counted as characters",
			corpus:   strings.Repeat("é", 2500),
			embedded: strings.Repeat("é", 2000),
		},
		{
			name:     "empty corpus",
			corpus:   "",
			embedded: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := BuildQuestionRequest(tt.corpus, "", "")

			want := "Interview Content Reference:\n" + tt.embedded + TruncationMarker + "\n"
			if !strings.Contains(req.Description, want) {
				t.Errorf("description does not embed the expected %d-character prefix followed by the marker",
					len([]rune(tt.embedded)))
			}
		})
	}
}

func TestBuildQuestionRequest_TopicFilter(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		want  string
	}{
		{"no topic", "", "Cover various topics"},
		{"with topic", "SQL joins", "Focus on: SQL joins"},
		{"topic passed verbatim", "  {{weird}} topic ", "Focus on:   {{weird}} topic "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := BuildQuestionRequest("corpus", tt.topic, "hard")
			if !strings.Contains(req.Description, tt.want) {
				t.Errorf("description missing %q:\n%s", tt.want, req.Description)
			}
			if req.Topic != tt.topic {
				t.Errorf("Topic = %q, want %q", req.Topic, tt.topic)
			}
		})
	}
}

func TestBuildQuestionRequest_Difficulty(t *testing.T) {
	req := BuildQuestionRequest("corpus", "", "")
	if !strings.Contains(req.Description, "Difficulty level: medium") {
		t.Error("empty difficulty should default to medium")
	}
	if req.Difficulty != DefaultDifficulty {
		t.Errorf("Difficulty = %q, want %q", req.Difficulty, DefaultDifficulty)
	}

	req = BuildQuestionRequest("corpus", "", "impossible")
	if !strings.Contains(req.Description, "Difficulty level: impossible") {
		t.Error("difficulty should be interpolated without validation")
	}

	if req.Persona.Role != "Practice Question Generator" {
		t.Errorf("Persona.Role = %q", req.Persona.Role)
	}
	if !strings.Contains(req.Description, "5-10 practice questions") {
		t.Error("description should ask for 5-10 questions")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abc", 2); got != "ab"+TruncationMarker {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abc", 10); got != "abc"+TruncationMarker {
		t.Errorf("Truncate short = %q", got)
	}
}

func TestKindTitle(t *testing.T) {
	tests := map[Kind]string{
		KindAnalysis:   "Interview Analysis",
		KindQuestions:  "Practice Questions",
		KindStudyGuide: "Study Guide",
	}
	for kind, want := range tests {
		if got := kind.Title(); got != want {
			t.Errorf("%s.Title() = %q, want %q", kind, got, want)
		}
	}
}

func TestLoadPersonas(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		p, err := LoadPersonas("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p != DefaultPersonas() {
			t.Error("expected default personas")
		}
	})

	t.Run("partial overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "personas.yaml")
		content := `
analyst:
  role: Staff Interview Analyst
question_generator:
  goal: Generate SQL-heavy practice questions
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}

		p, err := LoadPersonas(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		defaults := DefaultPersonas()
		if p.Analyst.Role != "Staff Interview Analyst" {
			t.Errorf("Analyst.Role = %q", p.Analyst.Role)
		}
		if p.Analyst.Goal != defaults.Analyst.Goal {
			t.Error("Analyst.Goal should keep its default")
		}
		if p.QuestionGenerator.Goal != "Generate SQL-heavy practice questions" {
			t.Errorf("QuestionGenerator.Goal = %q", p.QuestionGenerator.Goal)
		}
		if p.StudyGuideCreator != defaults.StudyGuideCreator {
			t.Error("StudyGuideCreator should be untouched")
		}

		req := NewAssembler(p).BuildAnalysisRequest("corpus")
		if req.Persona.Role != "Staff Interview Analyst" {
			t.Errorf("assembler used persona %q", req.Persona.Role)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadPersonas(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("analyst: [unterminated"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadPersonas(path); err == nil {
			t.Error("expected parse error")
		}
	})
}
