package prompt

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Persona biases generated text toward a role.
type Persona struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

// Personas holds the persona for each request kind.
type Personas struct {
	Analyst           Persona `yaml:"analyst"`
	QuestionGenerator Persona `yaml:"question_generator"`
	StudyGuideCreator Persona `yaml:"study_guide_creator"`
}

// DefaultPersonas returns the built-in personas.
func DefaultPersonas() Personas {
	return Personas{
		Analyst: Persona{
			Role: "Senior Interview Analyst",
			Goal: "Analyze interview experiences and extract key patterns, topics, and question types",
			Backstory: "You are an expert in analyzing technical interviews, especially for Data Engineering roles. " +
				"You have years of experience understanding what makes a good interview question and identifying " +
				"common themes across different companies and roles.",
		},
		QuestionGenerator: Persona{
			Role: "Practice Question Generator",
			Goal: "Generate realistic practice questions based on interview patterns and topics",
			Backstory: "You are a skilled educator who creates practice questions that help candidates " +
				"prepare for real interviews. You understand the difficulty levels and can create questions " +
				"that cover various aspects of data engineering, from basics to advanced topics.",
		},
		StudyGuideCreator: Persona{
			Role: "Study Guide Creator",
			Goal: "Create comprehensive study guides and recommendations based on interview analysis",
			Backstory: "You are an expert learning advisor who helps candidates prepare effectively. " +
				"You can identify knowledge gaps and create structured learning paths based on what " +
				"interviewers commonly ask.",
		},
	}
}

// For returns the persona used for kind.
func (p Personas) For(kind Kind) Persona {
	switch kind {
	case KindQuestions:
		return p.QuestionGenerator
	case KindStudyGuide:
		return p.StudyGuideCreator
	default:
		return p.Analyst
	}
}

// LoadPersonas reads persona overrides from a YAML file. Fields missing
// from the file keep their default values.
//
//	analyst:
//	  role: Staff Interview Analyst
//	question_generator:
//	  goal: Generate SQL-heavy practice questions
func LoadPersonas(path string) (Personas, error) {
	personas := DefaultPersonas()
	if path == "" {
		return personas, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return personas, fmt.Errorf("read personas file: %w", err)
	}

	var overrides Personas
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return personas, fmt.Errorf("parse personas file %s: %w", path, err)
	}

	personas.Analyst = merge(personas.Analyst, overrides.Analyst)
	personas.QuestionGenerator = merge(personas.QuestionGenerator, overrides.QuestionGenerator)
	personas.StudyGuideCreator = merge(personas.StudyGuideCreator, overrides.StudyGuideCreator)

	return personas, nil
}

func merge(base, override Persona) Persona {
	if override.Role != "" {
		base.Role = override.Role
	}
	if override.Goal != "" {
		base.Goal = override.Goal
	}
	if override.Backstory != "" {
		base.Backstory = override.Backstory
	}
	return base
}
