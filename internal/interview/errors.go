package interview

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the session engine and its collaborators.
var (
	ErrCaptureUnavailable = errors.New("audio capture unavailable")
	ErrPermissionDenied   = errors.New("microphone permission denied")
	ErrProvider           = errors.New("question provider failed")
	ErrInvalidTransition  = errors.New("invalid session transition")
	ErrEmptyRubric        = errors.New("question has no expected answer points")
)

// TransitionError describes an operation attempted from a state that does
// not allow it. It matches ErrInvalidTransition.
type TransitionError struct {
	Op     string
	State  State
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: not allowed in state %s", e.Op, e.State)
	}
	return fmt.Sprintf("%s: not allowed in state %s: %s", e.Op, e.State, e.Reason)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ProviderError wraps a failure from the question set provider.
// errors.Is(err, ErrProvider) holds, and the cause stays reachable.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

func (e *ProviderError) Unwrap() error { return e.Err }

func invalid(op string, s State, reason string) error {
	return &TransitionError{Op: op, State: s, Reason: reason}
}
