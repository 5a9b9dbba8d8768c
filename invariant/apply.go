package invariant

import (
	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
)

// applyEntry updates auxiliary state after an entry passes validation (or is
// force-applied during batch validation). Centralized here, rather than
// spread across the checker files, so every mutation is visible in one
// place and a new checker can never accidentally desynchronize state. len is
// always incremented last.
func applyEntry(s *State, entry journal.Entry) {
	switch ev := entry.Event.(type) {
	case event.ExecutionCompleted:
		s.setTerminal(entry.Sequence)
	case event.ExecutionFailed:
		s.setTerminal(entry.Sequence)
	case event.ExecutionCancelled:
		s.setTerminal(entry.Sequence)

	case event.CancelRequested:
		s.hasCancelRequested = true

	case event.InvokeScheduled:
		s.scheduledPids[ev.PromiseID.Key()] = struct{}{}

	case event.InvokeStarted:
		s.startedPids[ev.PromiseID.Key()] = struct{}{}
		s.startedAttempts[attemptKey(ev.PromiseID, ev.Attempt)] = struct{}{}

	case event.InvokeCompleted:
		s.completedPids[ev.PromiseID.Key()] = struct{}{}

	case event.TimerScheduled:
		s.scheduledTimerPids[ev.PromiseID.Key()] = struct{}{}

	case event.SignalDelivered:
		s.deliveredSignals[signalKey{name: ev.SignalName, deliveryID: ev.DeliveryID}] = ev.Payload

	case event.SignalReceived:
		s.consumedSignalDeliveries[signalKey{name: ev.SignalName, deliveryID: ev.DeliveryID}] = struct{}{}

	case event.JoinSetCreated:
		s.createdJoinsets[ev.JoinSetID.Key()] = struct{}{}

	case event.JoinSetSubmitted:
		s.submittedPairs[pairKey(ev.JoinSetID, ev.PromiseID)] = struct{}{}

		counts := s.joinsetCounts[ev.JoinSetID.Key()]
		if counts == nil {
			counts = &joinCounts{}
			s.joinsetCounts[ev.JoinSetID.Key()] = counts
		}
		counts.submitted = saturatingAddU32(counts.submitted, 1)

		if _, owned := s.pidOwner[ev.PromiseID.Key()]; !owned {
			s.pidOwner[ev.PromiseID.Key()] = ev.JoinSetID
		}

	case event.JoinSetAwaited:
		s.awaitedJoinsets[ev.JoinSetID.Key()] = struct{}{}
		s.consumedPairs[pairKey(ev.JoinSetID, ev.PromiseID)] = struct{}{}

		counts := s.joinsetCounts[ev.JoinSetID.Key()]
		if counts == nil {
			counts = &joinCounts{}
			s.joinsetCounts[ev.JoinSetID.Key()] = counts
		}
		counts.awaited = saturatingAddU32(counts.awaited, 1)

	// ExecutionStarted, ExecutionAwaiting, ExecutionResumed, InvokeRetrying,
	// TimerFired, RandomGenerated, TimeRecorded: no auxiliary state effect.
	default:
	}

	s.len++
}

func (s *State) setTerminal(seq uint64) {
	if s.terminalSeq == nil {
		s.terminalSeq = &seq
	}
}

func saturatingAddU32(a, b uint32) uint32 {
	sum := a + b
	if sum < a {
		return ^uint32(0)
	}
	return sum
}
