package invariant

import (
	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
)

// checkSideEffects runs SE-1 through SE-4. SE-4 (post-completion finality)
// is checked before the missing-predecessor check for InvokeStarted and
// InvokeRetrying, because a real "already completed" fact is a stronger
// diagnosis; for InvokeCompleted the order is reversed (SE-2 before SE-4).
func checkSideEffects(s *State, entry journal.Entry) Violation {
	switch ev := entry.Event.(type) {
	case event.InvokeStarted:
		if _, done := s.completedPids[ev.PromiseID.Key()]; done {
			return EventAfterCompleted{PromiseID: ev.PromiseID, OffendingSeq: entry.Sequence, OffendingEvent: entry.Event.Name()}
		}
		if _, scheduled := s.scheduledPids[ev.PromiseID.Key()]; !scheduled {
			return StartedWithoutScheduled{PromiseID: ev.PromiseID, StartedSeq: entry.Sequence}
		}

	case event.InvokeCompleted:
		if _, started := s.startedPids[ev.PromiseID.Key()]; !started {
			return CompletedWithoutStarted{PromiseID: ev.PromiseID, CompletedSeq: entry.Sequence}
		}
		if _, done := s.completedPids[ev.PromiseID.Key()]; done {
			return EventAfterCompleted{PromiseID: ev.PromiseID, OffendingSeq: entry.Sequence, OffendingEvent: entry.Event.Name()}
		}

	case event.InvokeRetrying:
		if _, done := s.completedPids[ev.PromiseID.Key()]; done {
			return EventAfterCompleted{PromiseID: ev.PromiseID, OffendingSeq: entry.Sequence, OffendingEvent: entry.Event.Name()}
		}
		if _, started := s.startedAttempts[attemptKey(ev.PromiseID, ev.FailedAttempt)]; !started {
			return RetryingWithoutStarted{PromiseID: ev.PromiseID, FailedAttempt: ev.FailedAttempt, RetryingSeq: entry.Sequence}
		}
	}
	return nil
}
