// Package replay builds the per-promise cache that lets a replayed execution
// answer "what did this side effect return last time" without re-executing
// it.
package replay

import (
	"time"

	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/payload"
	"github.com/ybird-labs/invariant-go/promise"
)

// resultKind discriminates the CachedResult sum type.
type resultKind int

const (
	kindInvoke resultKind = iota
	kindRandom
	kindTime
	kindTimer
	kindSignal
)

// cachedResult is the replay-time cached value for a resolved promise. Only
// the field matching Kind is meaningful.
type cachedResult struct {
	kind    resultKind
	payload payload.Payload
	random  []byte
	time    time.Time
}

// Cache is a batch-built, per-promise replay cache. Construction is a single
// O(n) scan over journal entries; only five event kinds contribute entries.
type Cache struct {
	results map[string]cachedResult
}

// Build scans entries once, keeping the last value per promise for the five
// cacheable event kinds:
//   - InvokeCompleted -> Invoke(payload)
//   - RandomGenerated -> Random(bytes)
//   - TimeRecorded -> Time(time)
//   - TimerFired -> Timer
//   - SignalReceived -> Signal(payload)
//
// SignalDelivered never contributes (it carries no promise id); JoinSetAwaited
// is consumed via sequence scanning elsewhere, not through this keyed cache.
func Build(entries []journal.Entry) *Cache {
	results := make(map[string]cachedResult, len(entries))

	for _, entry := range entries {
		switch ev := entry.Event.(type) {
		case event.InvokeCompleted:
			results[ev.PromiseID.Key()] = cachedResult{kind: kindInvoke, payload: ev.Result}
		case event.RandomGenerated:
			results[ev.PromiseID.Key()] = cachedResult{kind: kindRandom, random: ev.Value}
		case event.TimeRecorded:
			results[ev.PromiseID.Key()] = cachedResult{kind: kindTime, time: ev.Time}
		case event.TimerFired:
			results[ev.PromiseID.Key()] = cachedResult{kind: kindTimer}
		case event.SignalReceived:
			results[ev.PromiseID.Key()] = cachedResult{kind: kindSignal, payload: ev.Payload}
		}
	}

	return &Cache{results: results}
}

// GetInvoke returns the cached invoke result, failing closed (ok=false) if
// no entry is cached or the cached entry is a different variant.
func (c *Cache) GetInvoke(pid promise.PromiseId) (payload.Payload, bool) {
	r, ok := c.results[pid.Key()]
	if !ok || r.kind != kindInvoke {
		return payload.Payload{}, false
	}
	return r.payload, true
}

// GetRandom returns the cached random bytes, failing closed on mismatch.
func (c *Cache) GetRandom(pid promise.PromiseId) ([]byte, bool) {
	r, ok := c.results[pid.Key()]
	if !ok || r.kind != kindRandom {
		return nil, false
	}
	return r.random, true
}

// GetTime returns the cached wall-clock time, failing closed on mismatch.
func (c *Cache) GetTime(pid promise.PromiseId) (time.Time, bool) {
	r, ok := c.results[pid.Key()]
	if !ok || r.kind != kindTime {
		return time.Time{}, false
	}
	return r.time, true
}

// IsTimerComplete reports whether a timer completion was recorded for pid.
func (c *Cache) IsTimerComplete(pid promise.PromiseId) bool {
	r, ok := c.results[pid.Key()]
	return ok && r.kind == kindTimer
}

// GetSignal returns the cached received-signal payload, failing closed on
// mismatch.
func (c *Cache) GetSignal(pid promise.PromiseId) (payload.Payload, bool) {
	r, ok := c.results[pid.Key()]
	if !ok || r.kind != kindSignal {
		return payload.Payload{}, false
	}
	return r.payload, true
}

// Len returns the number of cached promise results.
func (c *Cache) Len() int {
	return len(c.results)
}

// IsEmpty reports whether no promise results are cached.
func (c *Cache) IsEmpty() bool {
	return len(c.results) == 0
}
