package question

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvariantViolation = errors.New("invariant violation")
	ErrNotFound           = errors.New("question not found")

	errInvalidDraft = errors.New("invalid question")
)

// InvariantError is returned when a caller attempts an edit the answer set must never go through,
// e.g. removing one of the last two MCQ answers. It signals a caller defect, not a user mistake.
type InvariantError struct {
	Op     string
	Reason string
}

func newInvariantError(op, format string, args ...interface{}) error {
	return &InvariantError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvariantViolation, e.Op, e.Reason)
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariantViolation
}
