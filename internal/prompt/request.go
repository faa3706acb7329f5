// Package prompt assembles the task requests sent to the crew from the
// interview corpus and user parameters.
package prompt

import (
	"bytes"
	"embed"
	"text/template"
	"unicode/utf8"
)

// QuestionCorpusLimit is how many characters of the corpus the question
// request embeds.
const QuestionCorpusLimit = 2000

// TruncationMarker follows the embedded corpus prefix in question requests.
const TruncationMarker = "... (truncated for context)"

// DefaultDifficulty is used when no difficulty is given.
const DefaultDifficulty = "medium"

// Kind identifies what a request asks the crew to produce.
type Kind string

const (
	KindAnalysis   Kind = "analysis"
	KindQuestions  Kind = "questions"
	KindStudyGuide Kind = "study_guide"
)

// Title returns the heading used when rendering a result of this kind.
func (k Kind) Title() string {
	switch k {
	case KindQuestions:
		return "Practice Questions"
	case KindStudyGuide:
		return "Study Guide"
	default:
		return "Interview Analysis"
	}
}

// TaskRequest is one self-contained instruction bundle for a single
// generation step.
type TaskRequest struct {
	Kind           Kind
	Persona        Persona
	Description    string
	ExpectedOutput string

	// Topic and Difficulty are recorded for question requests only.
	Topic      string
	Difficulty string
}

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Assembler builds task requests using a fixed set of personas.
type Assembler struct {
	personas Personas
}

// NewAssembler creates an assembler with the given personas.
func NewAssembler(personas Personas) *Assembler {
	return &Assembler{personas: personas}
}

var defaultAssembler = NewAssembler(DefaultPersonas())

// BuildAnalysisRequest uses the default personas.
func BuildAnalysisRequest(corpus string) TaskRequest {
	return defaultAssembler.BuildAnalysisRequest(corpus)
}

// BuildQuestionRequest uses the default personas.
func BuildQuestionRequest(corpus, topic, difficulty string) TaskRequest {
	return defaultAssembler.BuildQuestionRequest(corpus, topic, difficulty)
}

// BuildStudyGuideRequest uses the default personas.
func BuildStudyGuideRequest(corpus string) TaskRequest {
	return defaultAssembler.BuildStudyGuideRequest(corpus)
}

// BuildAnalysisRequest embeds the full corpus and asks for topics,
// difficulty patterns, company and role focus, and frequently tested skills.
func (a *Assembler) BuildAnalysisRequest(corpus string) TaskRequest {
	return TaskRequest{
		Kind:           KindAnalysis,
		Persona:        a.personas.For(KindAnalysis),
		Description:    render("analysis.tmpl", map[string]string{"Corpus": corpus}),
		ExpectedOutput: "A detailed analysis report with topics, patterns, and insights",
	}
}

// BuildQuestionRequest embeds only the first QuestionCorpusLimit characters
// of the corpus. An empty topic means all topics; an empty difficulty
// means DefaultDifficulty. Neither is validated.
func (a *Assembler) BuildQuestionRequest(corpus, topic, difficulty string) TaskRequest {
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}

	topicFilter := "Cover various topics"
	if topic != "" {
		topicFilter = "Focus on: " + topic
	}

	return TaskRequest{
		Kind:    KindQuestions,
		Persona: a.personas.For(KindQuestions),
		Description: render("questions.tmpl", map[string]string{
			"TopicFilter": topicFilter,
			"Difficulty":  difficulty,
			"Corpus":      Truncate(corpus, QuestionCorpusLimit),
		}),
		ExpectedOutput: "A list of practice questions with approaches and key points",
		Topic:          topic,
		Difficulty:     difficulty,
	}
}

// BuildStudyGuideRequest embeds the full corpus and asks for a ranked topic
// list, learning path, resources, pitfalls and practice recommendations.
func (a *Assembler) BuildStudyGuideRequest(corpus string) TaskRequest {
	return TaskRequest{
		Kind:           KindStudyGuide,
		Persona:        a.personas.For(KindStudyGuide),
		Description:    render("study_guide.tmpl", map[string]string{"Corpus": corpus}),
		ExpectedOutput: "A comprehensive, structured study guide with actionable recommendations",
	}
}

// Truncate returns the first limit characters of s followed by
// TruncationMarker. The marker is appended even when s is shorter.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) > limit {
		s = string([]rune(s)[:limit])
	}
	return s + TruncationMarker
}

func render(name string, data map[string]string) string {
	var buf bytes.Buffer
	// Templates are static and data is plain strings; Execute cannot fail.
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		panic("prompt: render " + name + ": " + err.Error())
	}
	return buf.String()
}
