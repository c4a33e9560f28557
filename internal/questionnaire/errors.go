package questionnaire

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by operations invoked before Load completes.
	ErrNotReady = errors.New("questionnaire: session not ready")
	// ErrInvalidTransition is returned when an operation's precondition does
	// not hold, e.g. advancing past an unanswered question.
	ErrInvalidTransition = errors.New("questionnaire: invalid transition")
	// ErrPersistenceUnavailable marks a failed read or write of the progress
	// store. It is fatal to the operation unless the in-memory fallback is on,
	// in which case it is recorded as a warning.
	ErrPersistenceUnavailable = errors.New("questionnaire: persistence unavailable")
	// ErrUnknownQuestion marks a stored response that references a question
	// missing from the bank. Such responses are dropped on load.
	ErrUnknownQuestion = errors.New("questionnaire: unknown question")
)

// TransitionError describes a rejected state transition.
type TransitionError struct {
	Op     string // operation that was attempted
	State  State  // state at the time of the attempt
	Index  int    // current question index
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("questionnaire: cannot %s in state %s at question %d: %s", e.Op, e.State, e.Index+1, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidTransition.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
