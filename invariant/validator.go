package invariant

import "github.com/ybird-labs/invariant-go/journal"

// CheckAppend validates a single candidate entry against s and, on success,
// applies it in place. Runs structural, side-effect, control-flow, and
// join-set checks in that order; the first violation short-circuits and
// leaves s untouched.
func CheckAppend(s *State, entry journal.Entry) error {
	if v := checkStructural(s, entry); v != nil {
		return NewInvariantViolationError(v)
	}
	if v := checkSideEffects(s, entry); v != nil {
		return NewInvariantViolationError(v)
	}
	if v := checkControlFlow(s, entry); v != nil {
		return NewInvariantViolationError(v)
	}
	if v := checkJoinSet(s, entry); v != nil {
		return NewInvariantViolationError(v)
	}
	applyEntry(s, entry)
	return nil
}

// ValidateJournal batch-validates an entire journal, returning every
// detected violation. Unlike CheckAppend, it never short-circuits across
// families or entries: every entry is checked against all four families
// (collecting at most one violation per family), then force-applied so
// later entries are checked against a faithful derived state. An empty
// journal reports a single MissingExecutionStarted violation.
func ValidateJournal(j *journal.ExecutionJournal) []Violation {
	if len(j.Entries) == 0 {
		return []Violation{MissingExecutionStarted{FirstEvent: "<empty>"}}
	}

	s := NewState()
	var violations []Violation

	for _, entry := range j.Entries {
		if v := checkStructural(s, entry); v != nil {
			violations = append(violations, v)
		}
		if v := checkSideEffects(s, entry); v != nil {
			violations = append(violations, v)
		}
		if v := checkControlFlow(s, entry); v != nil {
			violations = append(violations, v)
		}
		if v := checkJoinSet(s, entry); v != nil {
			violations = append(violations, v)
		}
		applyEntry(s, entry)
	}

	return violations
}
