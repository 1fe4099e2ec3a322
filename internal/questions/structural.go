package questions

import (
	"strings"

	"github.com/abhisek/rehearse/internal/interview"
)

// MaxQuestionLength bounds the question text in bytes.
const MaxQuestionLength = 500

// StructuralValidator checks that required fields are present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *interview.Question) *ValidationError {
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Validator: v.Name(), Message: "question is empty"}
	}
	if len(q.Text) > MaxQuestionLength {
		return &ValidationError{Validator: v.Name(), Message: "question exceeds 500 characters"}
	}
	if _, err := interview.ParseDifficulty(string(q.Difficulty)); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	return nil
}

// RubricValidator rejects questions that could never be scored.
type RubricValidator struct{}

func (v *RubricValidator) Name() string { return "rubric" }

func (v *RubricValidator) Validate(q *interview.Question) *ValidationError {
	for _, p := range q.ExpectedPoints {
		if len(strings.Fields(p)) > 0 {
			return nil
		}
	}
	return &ValidationError{Validator: v.Name(), Message: "no expected answer points"}
}
