// Package memory provides an in-memory Store implementation, suitable for
// development, testing, and single-node deployments where persistence
// across restarts is not required.
package memory

import (
	"context"
	"sync"

	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/persistence"
	"github.com/ybird-labs/invariant-go/promise"
)

// Store is an in-memory implementation of persistence.Store. It is safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	journals map[string][]journal.Entry
}

var _ persistence.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{journals: make(map[string][]journal.Entry)}
}

// Append adds entry to executionID's journal.
func (s *Store) Append(ctx context.Context, executionID promise.ExecutionId, entry journal.Entry) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := executionID.Key()
	s.journals[key] = append(s.journals[key], entry)
	return nil
}

// Load returns the full journal for an execution.
func (s *Store) Load(ctx context.Context, executionID promise.ExecutionId) (*journal.ExecutionJournal, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.journals[executionID.Key()]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	out := make([]journal.Entry, len(entries))
	copy(out, entries)
	return &journal.ExecutionJournal{ExecutionID: executionID, Entries: out}, nil
}
