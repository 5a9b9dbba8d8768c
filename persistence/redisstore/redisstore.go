// Package redisstore persists execution journals as Redis streams, appending
// one entry per durable event via XADD. Streams are naturally append-only
// and ordered, which matches the journal's own append-only, sequence-ordered
// semantics closely enough that no additional bookkeeping is needed beyond
// the stream itself.
package redisstore

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/persistence"
	"github.com/ybird-labs/invariant-go/promise"
)

const dataField = "data"

// Options configures a Store.
type Options struct {
	// Redis is the connection used to back the journal streams. Required.
	Redis *redis.Client
	// KeyPrefix namespaces stream keys; defaults to "journal:" when empty.
	KeyPrefix string
	// Limiter throttles Append calls when set. Nil means unthrottled.
	Limiter *rate.Limiter
	// StreamMaxLen bounds the number of entries retained per stream via an
	// approximate MAXLEN trim. Zero means no trimming.
	StreamMaxLen int64
}

// Store is a Redis-backed implementation of persistence.Store.
type Store struct {
	redis     *redis.Client
	keyPrefix string
	limiter   *rate.Limiter
	maxLen    int64
}

var _ persistence.Store = (*Store)(nil)

// New constructs a Store from opts. Returns an error if opts.Redis is nil.
func New(opts Options) (*Store, error) {
	if opts.Redis == nil {
		return nil, fmt.Errorf("redisstore: redis client is required")
	}
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "journal:"
	}
	return &Store{redis: opts.Redis, keyPrefix: prefix, limiter: opts.Limiter, maxLen: opts.StreamMaxLen}, nil
}

func (s *Store) streamKey(executionID promise.ExecutionId) string {
	return s.keyPrefix + hex.EncodeToString([]byte(executionID.Key()))
}

// Append publishes entry to the execution's stream via XADD.
func (s *Store) Append(ctx context.Context, executionID promise.ExecutionId, entry journal.Entry) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("redisstore: rate limit wait: %w", err)
		}
	}

	raw, err := persistence.EncodeEntry(entry)
	if err != nil {
		return err
	}

	args := &redis.XAddArgs{
		Stream: s.streamKey(executionID),
		Values: map[string]any{dataField: raw},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if _, err := s.redis.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("redisstore: xadd: %w", err)
	}
	return nil
}

// Load reads the execution's stream in full and decodes it back into a
// journal.
func (s *Store) Load(ctx context.Context, executionID promise.ExecutionId) (*journal.ExecutionJournal, error) {
	msgs, err := s.redis.XRange(ctx, s.streamKey(executionID), "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: xrange: %w", err)
	}
	if len(msgs) == 0 {
		return nil, persistence.ErrNotFound
	}

	entries := make([]journal.Entry, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values[dataField]
		if !ok {
			return nil, fmt.Errorf("redisstore: stream entry %s missing %q field", msg.ID, dataField)
		}
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("redisstore: stream entry %s field %q is not a string", msg.ID, dataField)
		}
		entry, err := persistence.DecodeEntry([]byte(str))
		if err != nil {
			return nil, fmt.Errorf("redisstore: decode stream entry %s: %w", msg.ID, err)
		}
		entries = append(entries, entry)
	}

	return &journal.ExecutionJournal{ExecutionID: executionID, Entries: entries}, nil
}
