package questions

import (
	"fmt"

	"github.com/abhisek/rehearse/internal/interview"
)

// Validator checks a generated question before it reaches a session.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in error messages, e.g. "structural".
	Name() string

	// Validate returns nil if the question passes.
	Validate(q *interview.Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
