package invariant

import (
	"fmt"

	"github.com/ybird-labs/invariant-go/promise"
)

// Violation is a single detected invariant breach. Each concrete type maps
// 1:1 to one of the 21 formal invariants plus AwaitWaitingOnDuplicate.
// Violations carry full context and never wrap each other.
type Violation interface {
	error
	isViolation()
}

// NonMonotonicSequence is S-1: sequence numbers must equal their array
// index.
type NonMonotonicSequence struct {
	EntryIndex uint64
	Expected   uint64
	Actual     uint64
}

func (v NonMonotonicSequence) Error() string {
	return fmt.Sprintf("S-1: non-monotonic sequence at index %d: expected %d, got %d", v.EntryIndex, v.Expected, v.Actual)
}
func (NonMonotonicSequence) isViolation() {}

// MissingExecutionStarted is S-2: the first event in every journal must be
// ExecutionStarted.
type MissingExecutionStarted struct {
	FirstEvent string
}

func (v MissingExecutionStarted) Error() string {
	return fmt.Sprintf("S-2: first event must be ExecutionStarted, got %s", v.FirstEvent)
}
func (MissingExecutionStarted) isViolation() {}

// MultipleTerminalEvents is S-3: at most one terminal event per journal.
type MultipleTerminalEvents struct {
	FirstAt  uint64
	SecondAt uint64
}

func (v MultipleTerminalEvents) Error() string {
	return fmt.Sprintf("S-3: multiple terminal events at seq %d and %d", v.FirstAt, v.SecondAt)
}
func (MultipleTerminalEvents) isViolation() {}

// TerminalNotLast is S-4: a terminal event must be the last entry.
type TerminalNotLast struct {
	TerminalSeq uint64
	JournalLen  uint64
}

func (v TerminalNotLast) Error() string {
	return fmt.Sprintf("S-4: terminal event at seq %d is not last (journal len %d)", v.TerminalSeq, v.JournalLen)
}
func (TerminalNotLast) isViolation() {}

// CancelledWithoutRequest is S-5: ExecutionCancelled requires a preceding
// CancelRequested.
type CancelledWithoutRequest struct {
	CancelledSeq uint64
}

func (v CancelledWithoutRequest) Error() string {
	return fmt.Sprintf("S-5: ExecutionCancelled at seq %d without prior CancelRequested", v.CancelledSeq)
}
func (CancelledWithoutRequest) isViolation() {}

// StartedWithoutScheduled is SE-1: InvokeStarted requires a preceding
// InvokeScheduled for the same promise.
type StartedWithoutScheduled struct {
	PromiseID  promise.PromiseId
	StartedSeq uint64
}

func (v StartedWithoutScheduled) Error() string {
	return fmt.Sprintf("SE-1: InvokeStarted at seq %d for %s without prior InvokeScheduled", v.StartedSeq, v.PromiseID)
}
func (StartedWithoutScheduled) isViolation() {}

// CompletedWithoutStarted is SE-2: InvokeCompleted requires a preceding
// InvokeStarted for the same promise.
type CompletedWithoutStarted struct {
	PromiseID   promise.PromiseId
	CompletedSeq uint64
}

func (v CompletedWithoutStarted) Error() string {
	return fmt.Sprintf("SE-2: InvokeCompleted at seq %d for %s without prior InvokeStarted", v.CompletedSeq, v.PromiseID)
}
func (CompletedWithoutStarted) isViolation() {}

// RetryingWithoutStarted is SE-3: InvokeRetrying requires a preceding
// InvokeStarted with the matching attempt for the same promise.
type RetryingWithoutStarted struct {
	PromiseID     promise.PromiseId
	FailedAttempt uint32
	RetryingSeq   uint64
}

func (v RetryingWithoutStarted) Error() string {
	return fmt.Sprintf("SE-3: InvokeRetrying at seq %d for %s attempt %d without matching InvokeStarted", v.RetryingSeq, v.PromiseID, v.FailedAttempt)
}
func (RetryingWithoutStarted) isViolation() {}

// EventAfterCompleted is SE-4: no InvokeStarted or InvokeRetrying may follow
// InvokeCompleted for the same promise.
type EventAfterCompleted struct {
	PromiseID      promise.PromiseId
	OffendingSeq   uint64
	OffendingEvent string
}

func (v EventAfterCompleted) Error() string {
	return fmt.Sprintf("SE-4: %s at seq %d for %s after InvokeCompleted", v.OffendingEvent, v.OffendingSeq, v.PromiseID)
}
func (EventAfterCompleted) isViolation() {}

// TimerFiredWithoutScheduled is CF-1: TimerFired requires a preceding
// TimerScheduled for the same promise.
type TimerFiredWithoutScheduled struct {
	PromiseID promise.PromiseId
	FiredSeq  uint64
}

func (v TimerFiredWithoutScheduled) Error() string {
	return fmt.Sprintf("CF-1: TimerFired at seq %d for %s without prior TimerScheduled", v.FiredSeq, v.PromiseID)
}
func (TimerFiredWithoutScheduled) isViolation() {}

// SignalReceivedWithoutDelivery is CF-2: SignalReceived requires a preceding
// SignalDelivered with matching name, delivery id, and payload.
type SignalReceivedWithoutDelivery struct {
	SignalName  string
	DeliveryID  uint64
	ReceivedSeq uint64
}

func (v SignalReceivedWithoutDelivery) Error() string {
	return fmt.Sprintf("CF-2: SignalReceived at seq %d for signal %q delivery %d without prior SignalDelivered", v.ReceivedSeq, v.SignalName, v.DeliveryID)
}
func (SignalReceivedWithoutDelivery) isViolation() {}

// SignalConsumedTwice is CF-3: each (signal_name, delivery_id) pair may be
// consumed by at most one SignalReceived.
type SignalConsumedTwice struct {
	SignalName string
	DeliveryID uint64
	SecondSeq  uint64
}

func (v SignalConsumedTwice) Error() string {
	return fmt.Sprintf("CF-3: signal %q delivery %d consumed twice, second at seq %d", v.SignalName, v.DeliveryID, v.SecondSeq)
}
func (SignalConsumedTwice) isViolation() {}

// AwaitWaitingOnDuplicate is the additional check (referenced in control-flow
// design notes): waiting_on must be duplicate-free even though it is stored
// as an ordered sequence.
type AwaitWaitingOnDuplicate struct {
	AwaitingSeq uint64
	PromiseID   promise.PromiseId
}

func (v AwaitWaitingOnDuplicate) Error() string {
	return fmt.Sprintf("await-duplicate: ExecutionAwaiting at seq %d lists %s more than once in waiting_on", v.AwaitingSeq, v.PromiseID)
}
func (AwaitWaitingOnDuplicate) isViolation() {}

// AwaitSignalInconsistent is CF-4: ExecutionAwaiting with Signal kind must
// have exactly one promise in waiting_on, matching the kind's own promise id.
type AwaitSignalInconsistent struct {
	AwaitingSeq    uint64
	WaitingOnCount int
}

func (v AwaitSignalInconsistent) Error() string {
	return fmt.Sprintf("CF-4: ExecutionAwaiting(Signal) at seq %d has %d promises, expected 1", v.AwaitingSeq, v.WaitingOnCount)
}
func (AwaitSignalInconsistent) isViolation() {}

// SubmitWithoutCreate is JS-1: JoinSetSubmitted requires a preceding
// JoinSetCreated for the same set.
type SubmitWithoutCreate struct {
	JoinSetID    promise.JoinSetId
	SubmittedSeq uint64
}

func (v SubmitWithoutCreate) Error() string {
	return fmt.Sprintf("JS-1: JoinSetSubmitted at seq %d for %s without prior JoinSetCreated", v.SubmittedSeq, v.JoinSetID)
}
func (SubmitWithoutCreate) isViolation() {}

// SubmitAfterAwait is JS-2: no JoinSetSubmitted may follow any
// JoinSetAwaited for the same set.
type SubmitAfterAwait struct {
	JoinSetID    promise.JoinSetId
	SubmittedSeq uint64
}

func (v SubmitAfterAwait) Error() string {
	return fmt.Sprintf("JS-2: JoinSetSubmitted at seq %d for %s after JoinSetAwaited", v.SubmittedSeq, v.JoinSetID)
}
func (SubmitAfterAwait) isViolation() {}

// AwaitedNotMember is JS-3: JoinSetAwaited for a promise requires that
// promise was previously submitted to the same set.
type AwaitedNotMember struct {
	JoinSetID  promise.JoinSetId
	PromiseID  promise.PromiseId
	AwaitedSeq uint64
}

func (v AwaitedNotMember) Error() string {
	return fmt.Sprintf("JS-3: JoinSetAwaited at seq %d for %s not a member of %s", v.AwaitedSeq, v.PromiseID, v.JoinSetID)
}
func (AwaitedNotMember) isViolation() {}

// AwaitedNotCompleted is JS-4: JoinSetAwaited for a promise requires that
// promise have a prior InvokeCompleted.
type AwaitedNotCompleted struct {
	PromiseID  promise.PromiseId
	AwaitedSeq uint64
}

func (v AwaitedNotCompleted) Error() string {
	return fmt.Sprintf("JS-4: JoinSetAwaited at seq %d for %s which is not yet completed", v.AwaitedSeq, v.PromiseID)
}
func (AwaitedNotCompleted) isViolation() {}

// DoubleConsume is JS-5: no two JoinSetAwaited for the same
// (join_set_id, promise_id) pair.
type DoubleConsume struct {
	JoinSetID promise.JoinSetId
	PromiseID promise.PromiseId
	SecondSeq uint64
}

func (v DoubleConsume) Error() string {
	return fmt.Sprintf("JS-5: %s consumed twice from %s, second at seq %d", v.PromiseID, v.JoinSetID, v.SecondSeq)
}
func (DoubleConsume) isViolation() {}

// ConsumeExceedsSubmit is JS-6: per set, awaited count must not exceed
// submitted count.
type ConsumeExceedsSubmit struct {
	JoinSetID promise.JoinSetId
	Submitted uint32
	Awaited   uint32
}

func (v ConsumeExceedsSubmit) Error() string {
	return fmt.Sprintf("JS-6: %s has %d awaits exceeding %d submits", v.JoinSetID, v.Awaited, v.Submitted)
}
func (ConsumeExceedsSubmit) isViolation() {}

// PromiseInMultipleJoinSets is JS-7: a promise may be submitted to at most
// one join set.
type PromiseInMultipleJoinSets struct {
	PromiseID promise.PromiseId
	FirstJS   promise.JoinSetId
	SecondJS  promise.JoinSetId
}

func (v PromiseInMultipleJoinSets) Error() string {
	return fmt.Sprintf("JS-7: %s submitted to both %s and %s", v.PromiseID, v.FirstJS, v.SecondJS)
}
func (PromiseInMultipleJoinSets) isViolation() {}
