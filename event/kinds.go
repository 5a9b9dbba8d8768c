package event

import (
	"fmt"

	"github.com/ybird-labs/invariant-go/promise"
)

// InvokeKind categorizes the side-effect invocation. New kinds (DB queries,
// gRPC calls) are added here, not as new event types — all share the same
// three-phase Scheduled -> Started -> Completed structure.
type InvokeKind int

const (
	// Function is a function/task/workflow invocation.
	Function InvokeKind = iota
	// Http is a request to an external HTTP service.
	Http
)

func (k InvokeKind) String() string {
	switch k {
	case Function:
		return "Function"
	case Http:
		return "Http"
	default:
		return fmt.Sprintf("InvokeKind(%d)", int(k))
	}
}

// RetryPolicy governs retry behavior for an invocation. Its shape is still
// an open question upstream; it carries no fields yet.
type RetryPolicy struct{}

// AwaitKindTag discriminates the AwaitKind sum type.
type AwaitKindTag int

const (
	// Single waits for exactly one promise.
	Single AwaitKindTag = iota
	// Any waits for any one of several promises (JoinSet next()).
	Any
	// All waits for every promise in the set (JoinSet all()).
	All
	// SignalWait waits for a named signal.
	SignalWait
)

func (t AwaitKindTag) String() string {
	switch t {
	case Single:
		return "Single"
	case Any:
		return "Any"
	case All:
		return "All"
	case SignalWait:
		return "Signal"
	default:
		return fmt.Sprintf("AwaitKindTag(%d)", int(t))
	}
}

// AwaitKind determines the wait satisfaction condition for ExecutionAwaiting.
// Only SignalName/SignalPromiseID are meaningful when Tag == SignalWait.
type AwaitKind struct {
	Tag            AwaitKindTag
	SignalName     string
	SignalPromiseID promise.PromiseId
}

// AwaitSingle constructs AwaitKind{Tag: Single}.
func AwaitSingle() AwaitKind { return AwaitKind{Tag: Single} }

// AwaitAny constructs AwaitKind{Tag: Any}.
func AwaitAny() AwaitKind { return AwaitKind{Tag: Any} }

// AwaitAll constructs AwaitKind{Tag: All}.
func AwaitAll() AwaitKind { return AwaitKind{Tag: All} }

// AwaitSignal constructs the Signal variant, waiting on the given promise id
// for delivery of the named signal.
func AwaitSignal(name string, pid promise.PromiseId) AwaitKind {
	return AwaitKind{Tag: SignalWait, SignalName: name, SignalPromiseID: pid}
}
