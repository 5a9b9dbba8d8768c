package invariant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/payload"
	"github.com/ybird-labs/invariant-go/promise"
)

func pid(tag byte) promise.PromiseId {
	return promise.New([32]byte{tag})
}

func js(tag byte) promise.JoinSetId {
	return promise.NewJoinSetId(pid(tag))
}

func entryAt(seq uint64, ev event.Type) journal.Entry {
	return journal.Entry{Sequence: seq, Timestamp: time.Unix(0, 0), Event: ev}
}

// Scenario 1: happy path.
func TestHappyPathValidates(t *testing.T) {
	p1 := pid(1)
	entries := []journal.Entry{
		entryAt(0, event.ExecutionStarted{ComponentDigest: []byte{1}, IdempotencyKey: "k"}),
		entryAt(1, event.InvokeScheduled{PromiseID: p1, Kind: event.Function, FunctionName: "f"}),
		entryAt(2, event.InvokeStarted{PromiseID: p1, Attempt: 1}),
		entryAt(3, event.InvokeCompleted{PromiseID: p1, Result: payload.Raw(payload.Json, []byte{0xAA}), Attempt: 1}),
		entryAt(4, event.ExecutionCompleted{Result: payload.Raw(payload.Json, []byte{0xAA})}),
	}
	j := &journal.ExecutionJournal{ExecutionID: promise.New([32]byte{9}), Entries: entries}

	violations := ValidateJournal(j)
	assert.Empty(t, violations)
}

// Scenario 2: S-2 violation.
func TestMissingExecutionStartedViolation(t *testing.T) {
	entries := []journal.Entry{
		entryAt(0, event.InvokeScheduled{PromiseID: pid(1), Kind: event.Function, FunctionName: "f"}),
	}
	j := &journal.ExecutionJournal{Entries: entries}

	violations := ValidateJournal(j)
	require.Len(t, violations, 1)
	assert.Equal(t, MissingExecutionStarted{FirstEvent: "InvokeScheduled"}, violations[0])
}

func TestEmptyJournalReportsMissingExecutionStarted(t *testing.T) {
	j := &journal.ExecutionJournal{}
	violations := ValidateJournal(j)
	require.Len(t, violations, 1)
	assert.Equal(t, MissingExecutionStarted{FirstEvent: "<empty>"}, violations[0])
}

// Scenario 3: SE precedence — EventAfterCompleted beats StartedWithoutScheduled.
func TestEventAfterCompletedPrecedesStartedWithoutScheduled(t *testing.T) {
	p := pid(1)
	s := NewState()
	s.len = 3
	s.completedPids[p.Key()] = struct{}{}

	entry := entryAt(3, event.InvokeStarted{PromiseID: p, Attempt: 1})
	err := CheckAppend(s, entry)
	require.Error(t, err)

	v, ok := AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, EventAfterCompleted{PromiseID: p, OffendingSeq: 3, OffendingEvent: "InvokeStarted"}, v)
}

// Scenario 4: CF-2 before CF-3.
func TestSignalReceivedWithoutDeliveryPrecedesConsumedTwice(t *testing.T) {
	s := NewState()
	s.len = 5
	s.consumedSignalDeliveries[signalKey{name: "sig", deliveryID: 11}] = struct{}{}

	entry := entryAt(5, event.SignalReceived{
		PromiseID:  pid(1),
		SignalName: "sig",
		DeliveryID: 11,
		Payload:    payload.Raw(payload.Json, []byte{1}),
	})
	err := CheckAppend(s, entry)
	require.Error(t, err)

	v, ok := AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, SignalReceivedWithoutDelivery{SignalName: "sig", DeliveryID: 11, ReceivedSeq: 5}, v)
}

// Scenario 5: JS-2 before JS-1.
func TestSubmitAfterAwaitPrecedesSubmitWithoutCreate(t *testing.T) {
	joinSet := js(1)
	s := NewState()
	s.len = 7
	s.awaitedJoinsets[joinSet.Key()] = struct{}{}

	entry := entryAt(7, event.JoinSetSubmitted{JoinSetID: joinSet, PromiseID: pid(2)})
	err := CheckAppend(s, entry)
	require.Error(t, err)

	v, ok := AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, SubmitAfterAwait{JoinSetID: joinSet, SubmittedSeq: 7}, v)
}

func TestAwaitDuplicatePrecedesSignalInconsistency(t *testing.T) {
	s := NewState()
	p := pid(1)
	entry := entryAt(0, event.ExecutionAwaiting{
		WaitingOn: []promise.PromiseId{p, p},
		Kind:      event.AwaitSignal("x", p),
	})
	v := checkControlFlow(s, entry)
	require.NotNil(t, v)
	assert.Equal(t, AwaitWaitingOnDuplicate{AwaitingSeq: 0, PromiseID: p}, v)
}

func TestCheckAppendLeavesStateUntouchedOnFailure(t *testing.T) {
	s := NewState()
	entry := entryAt(1, event.InvokeStarted{PromiseID: pid(1), Attempt: 1})
	err := CheckAppend(s, entry)
	require.Error(t, err)
	assert.Equal(t, uint64(0), s.Len())
}

func TestSequenceIntegrity(t *testing.T) {
	s := NewState()
	entry := entryAt(1, event.ExecutionStarted{})
	err := CheckAppend(s, entry)
	require.Error(t, err)
	v, ok := AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, NonMonotonicSequence{EntryIndex: 0, Expected: 0, Actual: 1}, v)
}

func TestCancelGating(t *testing.T) {
	s := NewState()
	require.NoError(t, CheckAppend(s, entryAt(0, event.ExecutionStarted{})))
	err := CheckAppend(s, entryAt(1, event.ExecutionCancelled{}))
	require.Error(t, err)
	v, ok := AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, CancelledWithoutRequest{CancelledSeq: 1}, v)

	require.NoError(t, CheckAppend(s, entryAt(1, event.CancelRequested{})))
	require.NoError(t, CheckAppend(s, entryAt(2, event.ExecutionCancelled{})))
}

func TestTerminalFinality(t *testing.T) {
	s := NewState()
	require.NoError(t, CheckAppend(s, entryAt(0, event.ExecutionStarted{})))
	require.NoError(t, CheckAppend(s, entryAt(1, event.ExecutionCompleted{})))

	err := CheckAppend(s, entryAt(2, event.ExecutionCompleted{}))
	require.Error(t, err)
	v, _ := AsViolation(err)
	assert.Equal(t, MultipleTerminalEvents{FirstAt: 1, SecondAt: 2}, v)
}

func TestJoinSetFullLifecycle(t *testing.T) {
	s := NewState()
	set := js(1)
	p := pid(2)

	require.NoError(t, CheckAppend(s, entryAt(0, event.ExecutionStarted{})))
	require.NoError(t, CheckAppend(s, entryAt(1, event.JoinSetCreated{JoinSetID: set})))
	require.NoError(t, CheckAppend(s, entryAt(2, event.InvokeScheduled{PromiseID: p, Kind: event.Function, FunctionName: "f"})))
	require.NoError(t, CheckAppend(s, entryAt(3, event.JoinSetSubmitted{JoinSetID: set, PromiseID: p})))
	require.NoError(t, CheckAppend(s, entryAt(4, event.InvokeStarted{PromiseID: p, Attempt: 1})))
	require.NoError(t, CheckAppend(s, entryAt(5, event.InvokeCompleted{PromiseID: p, Attempt: 1})))
	require.NoError(t, CheckAppend(s, entryAt(6, event.JoinSetAwaited{JoinSetID: set, PromiseID: p})))

	err := CheckAppend(s, entryAt(7, event.JoinSetAwaited{JoinSetID: set, PromiseID: p}))
	require.Error(t, err)
	v, _ := AsViolation(err)
	assert.Equal(t, DoubleConsume{JoinSetID: set, PromiseID: p, SecondSeq: 7}, v)
}

func TestPromiseOwnerFirstWriterWins(t *testing.T) {
	s := NewState()
	set1, set2 := js(1), js(2)
	p := pid(5)

	require.NoError(t, CheckAppend(s, entryAt(0, event.ExecutionStarted{})))
	require.NoError(t, CheckAppend(s, entryAt(1, event.JoinSetCreated{JoinSetID: set1})))
	require.NoError(t, CheckAppend(s, entryAt(2, event.JoinSetCreated{JoinSetID: set2})))
	require.NoError(t, CheckAppend(s, entryAt(3, event.JoinSetSubmitted{JoinSetID: set1, PromiseID: p})))

	err := CheckAppend(s, entryAt(4, event.JoinSetSubmitted{JoinSetID: set2, PromiseID: p}))
	require.Error(t, err)
	v, _ := AsViolation(err)
	assert.Equal(t, PromiseInMultipleJoinSets{PromiseID: p, FirstJS: set1, SecondJS: set2}, v)
}
