// Package persistence defines the durable journal store interface and the
// wire encoding shared by its backends (in-memory, Redis, MongoDB).
package persistence

import (
	"context"
	"errors"

	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/promise"
)

// ErrNotFound is returned when an execution has no journal in the store.
var ErrNotFound = errors.New("execution journal not found")

// Store is the durability boundary for execution journals. Appends must be
// sequential: a backend may reject an entry whose Sequence does not equal
// the journal's current length, but is not required to re-run invariant
// validation itself; callers are expected to validate before appending.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append adds entry to the named execution's journal. Returns
	// ErrNotFound is never returned by Append: a first append creates the
	// journal.
	Append(ctx context.Context, executionID promise.ExecutionId, entry journal.Entry) error

	// Load returns the full journal for an execution, or ErrNotFound if no
	// entries have ever been appended for it.
	Load(ctx context.Context, executionID promise.ExecutionId) (*journal.ExecutionJournal, error)
}
