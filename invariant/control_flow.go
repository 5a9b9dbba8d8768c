package invariant

import (
	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
)

// checkControlFlow runs CF-1 through CF-4. The ExecutionAwaiting arm checks
// duplicate-freedom of waiting_on before CF-4, and the SignalReceived arm
// checks CF-2 (existence/payload match) before CF-3 (single consumption):
// existence is checked first because a "consumed twice" error is misleading
// when there was never a valid delivery to consume.
func checkControlFlow(s *State, entry journal.Entry) Violation {
	switch ev := entry.Event.(type) {
	case event.TimerFired:
		if _, scheduled := s.scheduledTimerPids[ev.PromiseID.Key()]; !scheduled {
			return TimerFiredWithoutScheduled{PromiseID: ev.PromiseID, FiredSeq: entry.Sequence}
		}

	case event.SignalReceived:
		key := signalKey{name: ev.SignalName, deliveryID: ev.DeliveryID}

		delivered, ok := s.deliveredSignals[key]
		if !ok || !delivered.Equal(ev.Payload) {
			return SignalReceivedWithoutDelivery{SignalName: ev.SignalName, DeliveryID: ev.DeliveryID, ReceivedSeq: entry.Sequence}
		}

		if _, consumed := s.consumedSignalDeliveries[key]; consumed {
			return SignalConsumedTwice{SignalName: ev.SignalName, DeliveryID: ev.DeliveryID, SecondSeq: entry.Sequence}
		}

	case event.ExecutionAwaiting:
		seen := make(map[string]struct{}, len(ev.WaitingOn))
		for _, pid := range ev.WaitingOn {
			if _, dup := seen[pid.Key()]; dup {
				return AwaitWaitingOnDuplicate{AwaitingSeq: entry.Sequence, PromiseID: pid}
			}
			seen[pid.Key()] = struct{}{}
		}

		if ev.Kind.Tag == event.SignalWait {
			if len(ev.WaitingOn) != 1 || !ev.WaitingOn[0].Equal(ev.Kind.SignalPromiseID) {
				return AwaitSignalInconsistent{AwaitingSeq: entry.Sequence, WaitingOnCount: len(ev.WaitingOn)}
			}
		}
	}
	return nil
}
