// Package journal defines the append-only event log and its derived status
// enum.
package journal

import (
	"fmt"
	"time"

	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/promise"
)

// Entry is a single record in the journal's append-only event log. Sequence
// is 0-indexed and monotonically increasing (S-1). Timestamp is wall-clock
// for debugging only — replay logic must never read it.
type Entry struct {
	Sequence  uint64
	Timestamp time.Time
	Event     event.Type
}

// ExecutionJournal is the full journal for one execution: an identity paired
// with its ordered entries. Entries are append-only; mutation is restricted
// to append via the validator.
type ExecutionJournal struct {
	ExecutionID promise.ExecutionId
	Entries     []Entry
}

// Version returns len(Entries), the journal's version number.
func (j *ExecutionJournal) Version() uint64 {
	return uint64(len(j.Entries))
}

// StatusKind discriminates the ExecutionStatus sum type.
type StatusKind int

const (
	// Running is the initial and resumed status.
	Running StatusKind = iota
	// Blocked means the execution is waiting on WaitingOn per Kind.
	Blocked
	// Cancelling means a cancel was requested and cleanup is in progress.
	Cancelling
	// Completed is terminal.
	Completed
	// Failed is terminal.
	Failed
	// Cancelled is terminal.
	Cancelled
)

func (k StatusKind) String() string {
	switch k {
	case Running:
		return "Running"
	case Blocked:
		return "Blocked"
	case Cancelling:
		return "Cancelling"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	case Cancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("StatusKind(%d)", int(k))
	}
}

// ExecutionStatus is the derived status of an execution. It is never stored
// independently; it is folded from journal entries. Only WaitingOn/AwaitKind
// are meaningful when Kind is Blocked — see AwaitKind in the event package.
type ExecutionStatus struct {
	Kind      StatusKind
	WaitingOn []promise.PromiseId
	AwaitKind event.AwaitKind
}

// IsTerminal reports whether the status is Completed, Failed, or Cancelled.
func (s ExecutionStatus) IsTerminal() bool {
	switch s.Kind {
	case Completed, Failed, Cancelled:
		return true
	default:
		return false
	}
}

// String renders the status kind name (Blocked carries no detail, matching
// the original's coarse Display impl).
func (s ExecutionStatus) String() string {
	return s.Kind.String()
}
