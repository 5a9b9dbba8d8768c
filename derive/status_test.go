package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/promise"
)

func pid(tag byte) promise.PromiseId { return promise.New([32]byte{tag}) }

func TestStatusMatchesIncrementalTransitions(t *testing.T) {
	p1 := pid(1)

	entries := []journal.Entry{
		{Sequence: 0, Event: event.ExecutionStarted{ComponentDigest: []byte{1, 2, 3}, IdempotencyKey: "k"}},
		{Sequence: 1, Event: event.InvokeScheduled{PromiseID: p1, Kind: event.Function, FunctionName: "f"}},
		{Sequence: 2, Event: event.ExecutionAwaiting{WaitingOn: []promise.PromiseId{p1}, Kind: event.AwaitSingle()}},
		{Sequence: 3, Event: event.ExecutionResumed{}},
		{Sequence: 4, Event: event.CancelRequested{Reason: "stop"}},
		{Sequence: 5, Event: event.ExecutionFailed{Error: event.NewExecutionError(event.Uncategorized, "boom")}},
	}

	folded := Status(entries)

	incremental := journal.ExecutionStatus{Kind: journal.Running}
	for _, e := range entries {
		incremental = NextStatus(incremental, e.Event)
	}

	assert.Equal(t, incremental, folded)
	assert.Equal(t, journal.Failed, folded.Kind)
}

func TestWaitResolversOnlyThreeEventKinds(t *testing.T) {
	pInvoke, pTimer, pSignal, pRandom, pTime := pid(10), pid(11), pid(12), pid(13), pid(14)

	entries := []journal.Entry{
		{Sequence: 0, Event: event.InvokeCompleted{PromiseID: pInvoke, Attempt: 1}},
		{Sequence: 1, Event: event.TimerFired{PromiseID: pTimer}},
		{Sequence: 2, Event: event.SignalReceived{PromiseID: pSignal, SignalName: "s", DeliveryID: 1}},
		{Sequence: 3, Event: event.RandomGenerated{PromiseID: pRandom, Value: []byte{7, 8}}},
		{Sequence: 4, Event: event.TimeRecorded{PromiseID: pTime}},
	}

	resolvers := WaitResolvers(entries)
	assert.True(t, resolvers.Contains(pInvoke))
	assert.True(t, resolvers.Contains(pTimer))
	assert.True(t, resolvers.Contains(pSignal))
	assert.False(t, resolvers.Contains(pRandom))
	assert.False(t, resolvers.Contains(pTime))

	completed := CompletedPromises(entries)
	assert.True(t, completed.Contains(pRandom))
	assert.True(t, completed.Contains(pTime))
}

// Scenario 6: can_resume semantics.
func TestCanResumeSemantics(t *testing.T) {
	p1, p2 := pid(1), pid(2)

	allBlocked := journal.ExecutionStatus{Kind: journal.Blocked, WaitingOn: []promise.PromiseId{p1, p2}, AwaitKind: event.AwaitAll()}
	partialResolved := ResolverSet{members: promiseSet{p1.Key(): p1}}
	assert.False(t, CanResume(allBlocked, partialResolved))

	anyBlocked := journal.ExecutionStatus{Kind: journal.Blocked, WaitingOn: []promise.PromiseId{p1, p2}, AwaitKind: event.AwaitAny()}
	assert.True(t, CanResume(anyBlocked, partialResolved))

	signalBlocked := journal.ExecutionStatus{Kind: journal.Blocked, WaitingOn: []promise.PromiseId{p1}, AwaitKind: event.AwaitSignal("x", p1)}
	assert.True(t, CanResume(signalBlocked, partialResolved))

	inconsistentSignal := journal.ExecutionStatus{Kind: journal.Blocked, WaitingOn: []promise.PromiseId{p1, p2}, AwaitKind: event.AwaitSignal("x", p1)}
	assert.False(t, CanResume(inconsistentSignal, partialResolved))

	running := journal.ExecutionStatus{Kind: journal.Running}
	assert.False(t, CanResume(running, partialResolved))
}
