package invariant

import (
	"errors"
	"fmt"
)

// ErrEmptyJournal is the sentinel JournalError returns when asked to treat an
// empty journal as a single-error condition rather than a violation list.
var ErrEmptyJournal = errors.New("invariant: journal is empty")

// JournalError wraps either ErrEmptyJournal or a single Violation for callers
// that want one error type instead of inspecting a Violation list directly.
type JournalError struct {
	Violation Violation // nil when wrapping ErrEmptyJournal
}

// NewEmptyJournalError constructs the EmptyJournal case.
func NewEmptyJournalError() *JournalError {
	return &JournalError{}
}

// NewInvariantViolationError wraps a single Violation.
func NewInvariantViolationError(v Violation) *JournalError {
	return &JournalError{Violation: v}
}

// Error implements the error interface.
func (e *JournalError) Error() string {
	if e.Violation == nil {
		return ErrEmptyJournal.Error()
	}
	return fmt.Sprintf("invariant violation: %s", e.Violation.Error())
}

// Unwrap returns ErrEmptyJournal for the empty case, or the wrapped
// Violation so callers can errors.As into a concrete violation type.
func (e *JournalError) Unwrap() error {
	if e.Violation == nil {
		return ErrEmptyJournal
	}
	return e.Violation
}

// IsEmptyJournal reports whether err is (or wraps) the EmptyJournal case.
func IsEmptyJournal(err error) bool {
	return errors.Is(err, ErrEmptyJournal)
}

// AsViolation extracts the wrapped Violation, if any.
func AsViolation(err error) (Violation, bool) {
	var je *JournalError
	if errors.As(err, &je) && je.Violation != nil {
		return je.Violation, true
	}
	return nil, false
}
