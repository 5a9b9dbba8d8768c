package invariant

import (
	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
)

// checkStructural runs S-1 through S-5 in order; the first failing check
// fires.
func checkStructural(s *State, entry journal.Entry) Violation {
	// S-1: sequence numbers must equal their array index.
	if entry.Sequence != s.len {
		return NonMonotonicSequence{EntryIndex: s.len, Expected: s.len, Actual: entry.Sequence}
	}

	// S-2: the first event in every journal must be ExecutionStarted.
	if s.len == 0 {
		if _, ok := entry.Event.(event.ExecutionStarted); !ok {
			return MissingExecutionStarted{FirstEvent: entry.Event.Name()}
		}
	}

	// S-3 / S-4: terminal finality.
	if firstAt, hasTerminal := s.TerminalSeq(); hasTerminal {
		if entry.Event.IsTerminal() {
			return MultipleTerminalEvents{FirstAt: firstAt, SecondAt: entry.Sequence}
		}
		return TerminalNotLast{TerminalSeq: firstAt, JournalLen: s.len + 1}
	}

	// S-5: ExecutionCancelled requires a preceding CancelRequested.
	if _, ok := entry.Event.(event.ExecutionCancelled); ok {
		if !s.hasCancelRequested {
			return CancelledWithoutRequest{CancelledSeq: entry.Sequence}
		}
	}

	return nil
}
