// Package event defines the 20-variant closed sum type of journal events and
// the helpers that classify them. Variants are modeled as an interface plus
// one concrete struct each rather than an inheritance hierarchy; checker
// precedence elsewhere is expressed by explicit type-switch order, never by
// dynamic dispatch.
package event

import (
	"time"

	"github.com/ybird-labs/invariant-go/payload"
	"github.com/ybird-labs/invariant-go/promise"
)

// SignalDeliveryId is a monotonic per-signal-name delivery counter supplied
// by the producer.
type SignalDeliveryId = uint64

// Type is the closed sum type over all 20 journal event kinds. isEvent seals
// the interface to this package's variants.
type Type interface {
	// Name returns the stable variant name used in diagnostics.
	Name() string
	// IsTerminal reports whether this variant ends the execution.
	IsTerminal() bool

	isEvent()
}

// ── Lifecycle ──────────────────────────────────────────────────────────────

// ExecutionStarted is always the first event; it pins the execution to a
// specific component version and idempotency key.
type ExecutionStarted struct {
	ComponentDigest []byte
	Input           payload.Payload
	ParentID        *promise.ExecutionId
	IdempotencyKey  string
}

func (ExecutionStarted) Name() string    { return "ExecutionStarted" }
func (ExecutionStarted) IsTerminal() bool { return false }
func (ExecutionStarted) isEvent()        {}

// ExecutionCompleted is a terminal event: the function returned Ok.
type ExecutionCompleted struct {
	Result payload.Payload
}

func (ExecutionCompleted) Name() string    { return "ExecutionCompleted" }
func (ExecutionCompleted) IsTerminal() bool { return true }
func (ExecutionCompleted) isEvent()        {}

// ExecutionFailed is a terminal event: the function returned Err or the
// guest trapped.
type ExecutionFailed struct {
	Error ExecutionError
}

func (ExecutionFailed) Name() string    { return "ExecutionFailed" }
func (ExecutionFailed) IsTerminal() bool { return true }
func (ExecutionFailed) isEvent()        {}

// CancelRequested records that an external cancel signal arrived. Transitions
// status to Cancelling.
type CancelRequested struct {
	Reason string
}

func (CancelRequested) Name() string    { return "CancelRequested" }
func (CancelRequested) IsTerminal() bool { return false }
func (CancelRequested) isEvent()        {}

// ExecutionCancelled is a terminal event finalizing cancellation after
// cleanup. Requires a preceding CancelRequested (S-5).
type ExecutionCancelled struct {
	Reason string
}

func (ExecutionCancelled) Name() string    { return "ExecutionCancelled" }
func (ExecutionCancelled) IsTerminal() bool { return true }
func (ExecutionCancelled) isEvent()        {}

// ── Side effects (3-phase: Scheduled -> Started -> Completed) ───────────────

// InvokeScheduled records intent to invoke, enabling exactly-once replay
// matching.
type InvokeScheduled struct {
	PromiseID    promise.PromiseId
	Kind         InvokeKind
	FunctionName string
	Input        payload.Payload
	RetryPolicy  *RetryPolicy
}

func (InvokeScheduled) Name() string    { return "InvokeScheduled" }
func (InvokeScheduled) IsTerminal() bool { return false }
func (InvokeScheduled) isEvent()        {}

// InvokeStarted records that an invocation is in flight, enabling timeout
// detection.
type InvokeStarted struct {
	PromiseID promise.PromiseId
	Attempt   uint32
}

func (InvokeStarted) Name() string    { return "InvokeStarted" }
func (InvokeStarted) IsTerminal() bool { return false }
func (InvokeStarted) isEvent()        {}

// InvokeCompleted carries the invocation result, cached for replay.
type InvokeCompleted struct {
	PromiseID promise.PromiseId
	Result    payload.Payload
	Attempt   uint32
}

func (InvokeCompleted) Name() string    { return "InvokeCompleted" }
func (InvokeCompleted) IsTerminal() bool { return false }
func (InvokeCompleted) isEvent()        {}

// InvokeRetrying records a transient failure that will be retried.
type InvokeRetrying struct {
	PromiseID     promise.PromiseId
	FailedAttempt uint32
	Error         ExecutionError
	RetryAt       time.Time
}

func (InvokeRetrying) Name() string    { return "InvokeRetrying" }
func (InvokeRetrying) IsTerminal() bool { return false }
func (InvokeRetrying) isEvent()        {}

// ── Nondeterminism capture (single-phase value capture) ─────────────────────

// RandomGenerated captures a random() call's value for deterministic replay.
type RandomGenerated struct {
	PromiseID promise.PromiseId
	Value     []byte
}

func (RandomGenerated) Name() string    { return "RandomGenerated" }
func (RandomGenerated) IsTerminal() bool { return false }
func (RandomGenerated) isEvent()        {}

// TimeRecorded captures a now() call's wall-clock value for deterministic
// replay.
type TimeRecorded struct {
	PromiseID promise.PromiseId
	Time      time.Time
}

func (TimeRecorded) Name() string    { return "TimeRecorded" }
func (TimeRecorded) IsTerminal() bool { return false }
func (TimeRecorded) isEvent()        {}

// ── Control flow ─────────────────────────────────────────────────────────

// TimerScheduled records a sleep(duration) call, the requested duration, and
// the computed fire time.
type TimerScheduled struct {
	PromiseID promise.PromiseId
	Duration  time.Duration
	FireAt    time.Time
}

func (TimerScheduled) Name() string    { return "TimerScheduled" }
func (TimerScheduled) IsTerminal() bool { return false }
func (TimerScheduled) isEvent()        {}

// TimerFired records that a timer's duration elapsed, resolving its promise.
type TimerFired struct {
	PromiseID promise.PromiseId
}

func (TimerFired) Name() string    { return "TimerFired" }
func (TimerFired) IsTerminal() bool { return false }
func (TimerFired) isEvent()        {}

// SignalDelivered records an external signal's durable arrival. It carries
// no promise id — delivery is independent of any particular await.
type SignalDelivered struct {
	SignalName string
	Payload    payload.Payload
	DeliveryID SignalDeliveryId
}

func (SignalDelivered) Name() string    { return "SignalDelivered" }
func (SignalDelivered) IsTerminal() bool { return false }
func (SignalDelivered) isEvent()        {}

// SignalReceived records that workflow code consumed a signal via
// await_signal(); it carries a promise id for replay cache population.
type SignalReceived struct {
	PromiseID  promise.PromiseId
	SignalName string
	Payload    payload.Payload
	DeliveryID SignalDeliveryId
}

func (SignalReceived) Name() string    { return "SignalReceived" }
func (SignalReceived) IsTerminal() bool { return false }
func (SignalReceived) isEvent()        {}

// ExecutionAwaiting records that the workflow blocked on pending promises.
type ExecutionAwaiting struct {
	WaitingOn []promise.PromiseId
	Kind      AwaitKind
}

func (ExecutionAwaiting) Name() string    { return "ExecutionAwaiting" }
func (ExecutionAwaiting) IsTerminal() bool { return false }
func (ExecutionAwaiting) isEvent()        {}

// ExecutionResumed records Blocked -> Running once the wait condition is
// satisfied. It carries no fields.
type ExecutionResumed struct{}

func (ExecutionResumed) Name() string    { return "ExecutionResumed" }
func (ExecutionResumed) IsTerminal() bool { return false }
func (ExecutionResumed) isEvent()        {}

// ── Concurrency ───────────────────────────────────────────────────────────

// JoinSetCreated opens a concurrent region, allocating a child position in
// the call tree.
type JoinSetCreated struct {
	JoinSetID promise.JoinSetId
}

func (JoinSetCreated) Name() string    { return "JoinSetCreated" }
func (JoinSetCreated) IsTerminal() bool { return false }
func (JoinSetCreated) isEvent()        {}

// JoinSetSubmitted adds a scheduled promise to the set. No submits are
// allowed after the first await (JS-2).
type JoinSetSubmitted struct {
	JoinSetID promise.JoinSetId
	PromiseID promise.PromiseId
}

func (JoinSetSubmitted) Name() string    { return "JoinSetSubmitted" }
func (JoinSetSubmitted) IsTerminal() bool { return false }
func (JoinSetSubmitted) isEvent()        {}

// JoinSetAwaited records which result was consumed at this point. It is a
// replay marker, not a state transition in its own right.
type JoinSetAwaited struct {
	JoinSetID promise.JoinSetId
	PromiseID promise.PromiseId
	Result    payload.Payload
}

func (JoinSetAwaited) Name() string    { return "JoinSetAwaited" }
func (JoinSetAwaited) IsTerminal() bool { return false }
func (JoinSetAwaited) isEvent()        {}
