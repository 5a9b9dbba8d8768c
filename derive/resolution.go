package derive

import (
	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/promise"
)

// ResolverSet is the set of promise ids produced by events that satisfy a
// wait (InvokeCompleted, TimerFired, SignalReceived).
type ResolverSet struct {
	members promiseSet
}

// Contains reports whether p is in the set.
func (r ResolverSet) Contains(p promise.PromiseId) bool {
	return r.members.contains(p)
}

// WaitResolvers returns the set of promise ids produced by InvokeCompleted,
// TimerFired, or SignalReceived — the subset of completed promises that can
// actually satisfy a blocked await.
func WaitResolvers(entries []journal.Entry) ResolverSet {
	members := make(promiseSet)
	for _, e := range entries {
		switch ev := e.Event.(type) {
		case event.InvokeCompleted:
			members.add(ev.PromiseID)
		case event.TimerFired:
			members.add(ev.PromiseID)
		case event.SignalReceived:
			members.add(ev.PromiseID)
		}
	}
	return ResolverSet{members: members}
}

// CompletedPromises returns the 5-event completion set used for replay
// cache inspection: WaitResolvers plus RandomGenerated and TimeRecorded.
// Broader than WaitResolvers — RandomGenerated and TimeRecorded are
// immediate value captures and never participate in wait satisfaction.
func CompletedPromises(entries []journal.Entry) ResolverSet {
	members := make(promiseSet)
	for _, e := range entries {
		switch ev := e.Event.(type) {
		case event.InvokeCompleted:
			members.add(ev.PromiseID)
		case event.TimerFired:
			members.add(ev.PromiseID)
		case event.SignalReceived:
			members.add(ev.PromiseID)
		case event.RandomGenerated:
			members.add(ev.PromiseID)
		case event.TimeRecorded:
			members.add(ev.PromiseID)
		}
	}
	return ResolverSet{members: members}
}

// CanResume reports whether a blocked execution can resume given the
// resolved set (ordinarily the output of WaitResolvers). Returns false for
// any non-Blocked status.
func CanResume(status journal.ExecutionStatus, resolved ResolverSet) bool {
	if status.Kind != journal.Blocked {
		return false
	}

	switch status.AwaitKind.Tag {
	case event.Single, event.All:
		for _, p := range status.WaitingOn {
			if !resolved.Contains(p) {
				return false
			}
		}
		return true
	case event.Any:
		for _, p := range status.WaitingOn {
			if resolved.Contains(p) {
				return true
			}
		}
		return false
	case event.SignalWait:
		// CF-4 guarantees exactly one waiting promise for a validated
		// journal; guard defensively for status derived outside validation.
		if len(status.WaitingOn) != 1 {
			return false
		}
		return resolved.Contains(status.WaitingOn[0])
	default:
		return false
	}
}
