package invariant

import (
	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
)

// checkJoinSet runs JS-1 through JS-7. JoinSetSubmitted checks in order:
// JS-2 (frozen after await) before JS-1 (missing create) before JS-7
// (multi-owner) — submitting to a frozen set is a stronger violation than a
// missing create. JoinSetAwaited checks JS-3 -> JS-4 -> JS-5 -> JS-6, each
// assuming the previous invariants hold.
func checkJoinSet(s *State, entry journal.Entry) Violation {
	switch ev := entry.Event.(type) {
	case event.JoinSetSubmitted:
		if _, awaited := s.awaitedJoinsets[ev.JoinSetID.Key()]; awaited {
			return SubmitAfterAwait{JoinSetID: ev.JoinSetID, SubmittedSeq: entry.Sequence}
		}

		if _, created := s.createdJoinsets[ev.JoinSetID.Key()]; !created {
			return SubmitWithoutCreate{JoinSetID: ev.JoinSetID, SubmittedSeq: entry.Sequence}
		}

		if firstJS, owned := s.pidOwner[ev.PromiseID.Key()]; owned && !firstJS.Equal(ev.JoinSetID) {
			return PromiseInMultipleJoinSets{PromiseID: ev.PromiseID, FirstJS: firstJS, SecondJS: ev.JoinSetID}
		}

	case event.JoinSetAwaited:
		pair := pairKey(ev.JoinSetID, ev.PromiseID)

		if _, member := s.submittedPairs[pair]; !member {
			return AwaitedNotMember{JoinSetID: ev.JoinSetID, PromiseID: ev.PromiseID, AwaitedSeq: entry.Sequence}
		}

		if _, completed := s.completedPids[ev.PromiseID.Key()]; !completed {
			return AwaitedNotCompleted{PromiseID: ev.PromiseID, AwaitedSeq: entry.Sequence}
		}

		if _, consumed := s.consumedPairs[pair]; consumed {
			return DoubleConsume{JoinSetID: ev.JoinSetID, PromiseID: ev.PromiseID, SecondSeq: entry.Sequence}
		}

		counts := s.joinsetCounts[ev.JoinSetID.Key()] // JS-3 passing guarantees this exists
		if counts == nil {
			counts = &joinCounts{}
		}
		if counts.awaited+1 > counts.submitted {
			return ConsumeExceedsSubmit{JoinSetID: ev.JoinSetID, Submitted: counts.submitted, Awaited: counts.awaited + 1}
		}
	}
	return nil
}
