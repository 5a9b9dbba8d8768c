package derive

import (
	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/promise"
)

// IsInvokeScheduled reports whether pid was ever scheduled. O(n) scan.
func IsInvokeScheduled(entries []journal.Entry, pid promise.PromiseId) bool {
	for _, e := range entries {
		if ev, ok := e.Event.(event.InvokeScheduled); ok && ev.PromiseID.Equal(pid) {
			return true
		}
	}
	return false
}

// IsInvokeStarted reports whether pid was ever started. O(n) scan.
func IsInvokeStarted(entries []journal.Entry, pid promise.PromiseId) bool {
	for _, e := range entries {
		if ev, ok := e.Event.(event.InvokeStarted); ok && ev.PromiseID.Equal(pid) {
			return true
		}
	}
	return false
}

// IsInvokeCompleted reports whether pid was ever completed. O(n) scan.
func IsInvokeCompleted(entries []journal.Entry, pid promise.PromiseId) bool {
	for _, e := range entries {
		if ev, ok := e.Event.(event.InvokeCompleted); ok && ev.PromiseID.Equal(pid) {
			return true
		}
	}
	return false
}

// IsTimerScheduled reports whether pid's timer was ever scheduled. O(n) scan.
func IsTimerScheduled(entries []journal.Entry, pid promise.PromiseId) bool {
	for _, e := range entries {
		if ev, ok := e.Event.(event.TimerScheduled); ok && ev.PromiseID.Equal(pid) {
			return true
		}
	}
	return false
}

// IsTimerFired reports whether pid's timer ever fired. O(n) scan.
func IsTimerFired(entries []journal.Entry, pid promise.PromiseId) bool {
	for _, e := range entries {
		if ev, ok := e.Event.(event.TimerFired); ok && ev.PromiseID.Equal(pid) {
			return true
		}
	}
	return false
}

// IsSignalDelivered reports whether a (name, deliveryID) delivery exists.
// This checks durable delivery (SignalDelivered), not consumption.
func IsSignalDelivered(entries []journal.Entry, name string, deliveryID event.SignalDeliveryId) bool {
	for _, e := range entries {
		if ev, ok := e.Event.(event.SignalDelivered); ok && ev.SignalName == name && ev.DeliveryID == deliveryID {
			return true
		}
	}
	return false
}

// IsSignalConsumed reports whether a (name, deliveryID) delivery was
// consumed by workflow code (a SignalReceived entry).
func IsSignalConsumed(entries []journal.Entry, name string, deliveryID event.SignalDeliveryId) bool {
	for _, e := range entries {
		if ev, ok := e.Event.(event.SignalReceived); ok && ev.SignalName == name && ev.DeliveryID == deliveryID {
			return true
		}
	}
	return false
}

// IsJoinSetCreated reports whether js was created.
func IsJoinSetCreated(entries []journal.Entry, js promise.JoinSetId) bool {
	for _, e := range entries {
		if ev, ok := e.Event.(event.JoinSetCreated); ok && ev.JoinSetID.Equal(js) {
			return true
		}
	}
	return false
}

// JoinSetMembers returns submitted members for js in journal order.
// Duplicates are preserved if the journal contains them.
func JoinSetMembers(entries []journal.Entry, js promise.JoinSetId) []promise.PromiseId {
	var members []promise.PromiseId
	for _, e := range entries {
		if ev, ok := e.Event.(event.JoinSetSubmitted); ok && ev.JoinSetID.Equal(js) {
			members = append(members, ev.PromiseID)
		}
	}
	return members
}

// JoinSetConsumed returns consumed members for js in journal order.
// Duplicates are preserved if the journal contains them.
func JoinSetConsumed(entries []journal.Entry, js promise.JoinSetId) []promise.PromiseId {
	var consumed []promise.PromiseId
	for _, e := range entries {
		if ev, ok := e.Event.(event.JoinSetAwaited); ok && ev.JoinSetID.Equal(js) {
			consumed = append(consumed, ev.PromiseID)
		}
	}
	return consumed
}

// PromiseOwner returns the first join set that submitted pid, if any. First
// is based on journal order.
func PromiseOwner(entries []journal.Entry, pid promise.PromiseId) (promise.JoinSetId, bool) {
	for _, e := range entries {
		if ev, ok := e.Event.(event.JoinSetSubmitted); ok && ev.PromiseID.Equal(pid) {
			return ev.JoinSetID, true
		}
	}
	return promise.JoinSetId{}, false
}

// HasCancelRequested reports whether a cancellation request appears
// anywhere in the journal.
func HasCancelRequested(entries []journal.Entry) bool {
	for _, e := range entries {
		if _, ok := e.Event.(event.CancelRequested); ok {
			return true
		}
	}
	return false
}

// TerminalEvent returns the first terminal event in journal order, if
// present.
func TerminalEvent(entries []journal.Entry) (event.Type, bool) {
	for _, e := range entries {
		if e.Event.IsTerminal() {
			return e.Event, true
		}
	}
	return nil, false
}

// RetryCount counts InvokeRetrying entries for pid.
func RetryCount(entries []journal.Entry, pid promise.PromiseId) int {
	count := 0
	for _, e := range entries {
		if ev, ok := e.Event.(event.InvokeRetrying); ok && ev.PromiseID.Equal(pid) {
			count++
		}
	}
	return count
}
