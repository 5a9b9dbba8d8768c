// Package invariant implements the journal's correctness core: the auxiliary
// index that backs O(1) incremental checking, the four invariant families
// (structural, side effects, control flow, join set) with their precedence
// rules, and the validator facade that drives both incremental and batch
// validation.
package invariant

import (
	"github.com/ybird-labs/invariant-go/payload"
	"github.com/ybird-labs/invariant-go/promise"
)

type signalKey struct {
	name       string
	deliveryID uint64
}

type joinCounts struct {
	submitted uint32
	awaited   uint32
}

// State is the recomputable derived index that lets every invariant checker
// answer in O(1) instead of rescanning the journal. Only applyEntry mutates
// it; every checker in this package is read-only over State.
type State struct {
	len uint64

	terminalSeq    *uint64
	hasCancelRequested bool

	scheduledPids map[string]struct{}
	startedPids   map[string]struct{}
	completedPids map[string]struct{}

	startedAttempts map[string]struct{} // key: pid.Key() + attempt

	scheduledTimerPids map[string]struct{}

	deliveredSignals         map[signalKey]payload.Payload
	consumedSignalDeliveries map[signalKey]struct{}

	createdJoinsets map[string]struct{}
	awaitedJoinsets map[string]struct{}

	submittedPairs map[string]struct{} // key: js.Key() + pid.Key()
	consumedPairs  map[string]struct{}

	joinsetCounts map[string]*joinCounts

	pidOwner map[string]promise.JoinSetId
}

// NewState returns an empty auxiliary index, ready to validate an empty
// journal from scratch.
func NewState() *State {
	return &State{
		scheduledPids:            make(map[string]struct{}),
		startedPids:              make(map[string]struct{}),
		completedPids:            make(map[string]struct{}),
		startedAttempts:          make(map[string]struct{}),
		scheduledTimerPids:       make(map[string]struct{}),
		deliveredSignals:         make(map[signalKey]payload.Payload),
		consumedSignalDeliveries: make(map[signalKey]struct{}),
		createdJoinsets:          make(map[string]struct{}),
		awaitedJoinsets:          make(map[string]struct{}),
		submittedPairs:           make(map[string]struct{}),
		consumedPairs:            make(map[string]struct{}),
		joinsetCounts:            make(map[string]*joinCounts),
		pidOwner:                 make(map[string]promise.JoinSetId),
	}
}

// Len returns the number of entries ingested so far.
func (s *State) Len() uint64 { return s.len }

// TerminalSeq returns the sequence of the first terminal event seen, if any.
func (s *State) TerminalSeq() (uint64, bool) {
	if s.terminalSeq == nil {
		return 0, false
	}
	return *s.terminalSeq, true
}

// HasCancelRequested reports the sticky CancelRequested bit.
func (s *State) HasCancelRequested() bool { return s.hasCancelRequested }

func attemptKey(pid promise.PromiseId, attempt uint32) string {
	buf := make([]byte, 0, 36)
	buf = append(buf, []byte(pid.Key())...)
	buf = append(buf, byte(attempt), byte(attempt>>8), byte(attempt>>16), byte(attempt>>24))
	return string(buf)
}

func pairKey(js promise.JoinSetId, pid promise.PromiseId) string {
	return js.Key() + "|" + pid.Key()
}
