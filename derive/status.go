// Package derive computes read-only views over a journal's entries: status
// folding, wait-resolver sets, and linear-scan resolution helpers. None of
// these functions mutate state; they are pure and safe to call concurrently
// from multiple readers over a snapshot of entries.
package derive

import (
	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/promise"
)

// Status folds the journal from Running using the per-event transition
// table. Precondition (caller's responsibility, not re-checked here):
// entries is non-empty and its first event is ExecutionStarted — S-2
// guarantees this for any journal that passed validation.
func Status(entries []journal.Entry) journal.ExecutionStatus {
	status := journal.ExecutionStatus{Kind: journal.Running}
	for _, e := range entries {
		status = NextStatus(status, e.Event)
	}
	return status
}

// NextStatus applies a single-event status transition. Semantics match one
// step of Status: events that do not affect status return current
// unchanged. Appenders can use this for O(1) incremental status updates
// instead of re-folding the whole journal.
func NextStatus(current journal.ExecutionStatus, ev event.Type) journal.ExecutionStatus {
	switch e := ev.(type) {
	case event.ExecutionStarted:
		return journal.ExecutionStatus{Kind: journal.Running}
	case event.ExecutionAwaiting:
		return journal.ExecutionStatus{Kind: journal.Blocked, WaitingOn: e.WaitingOn, AwaitKind: e.Kind}
	case event.ExecutionResumed:
		return journal.ExecutionStatus{Kind: journal.Running}
	case event.CancelRequested:
		return journal.ExecutionStatus{Kind: journal.Cancelling}
	case event.ExecutionCancelled:
		return journal.ExecutionStatus{Kind: journal.Cancelled}
	case event.ExecutionCompleted:
		return journal.ExecutionStatus{Kind: journal.Completed}
	case event.ExecutionFailed:
		return journal.ExecutionStatus{Kind: journal.Failed}
	default:
		return current
	}
}

// promiseSet is an internal membership helper; promise.PromiseId isn't map
// key safe (it embeds a slice), so every resolver set keys by Key().
type promiseSet map[string]promise.PromiseId

func (s promiseSet) add(p promise.PromiseId) { s[p.Key()] = p }
func (s promiseSet) contains(p promise.PromiseId) bool {
	_, ok := s[p.Key()]
	return ok
}
