package invariant

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/payload"
	"github.com/ybird-labs/invariant-go/promise"
)

// buildInvokeChain constructs a valid N-invocation happy-path journal:
// ExecutionStarted, then N x (Scheduled, Started, Completed), then
// ExecutionCompleted. Every entry is appended through CheckAppend, so the
// resulting journal is valid by construction.
func buildInvokeChain(n int) (*journal.ExecutionJournal, *State) {
	s := NewState()
	entries := make([]journal.Entry, 0, 2+3*n)

	seq := uint64(0)
	appendOK := func(ev event.Type) {
		e := journal.Entry{Sequence: seq, Event: ev}
		if err := CheckAppend(s, e); err != nil {
			panic(err)
		}
		entries = append(entries, e)
		seq++
	}

	appendOK(event.ExecutionStarted{ComponentDigest: []byte{1}, IdempotencyKey: "k"})
	for i := 0; i < n; i++ {
		p := promise.New([32]byte{byte(i + 1)})
		appendOK(event.InvokeScheduled{PromiseID: p, Kind: event.Function, FunctionName: "f"})
		appendOK(event.InvokeStarted{PromiseID: p, Attempt: 1})
		appendOK(event.InvokeCompleted{PromiseID: p, Result: payload.Raw(payload.Json, []byte{byte(i)}), Attempt: 1})
	}
	appendOK(event.ExecutionCompleted{})

	return &journal.ExecutionJournal{Entries: entries}, s
}

// TestSequenceIntegrityProperty is the §8 quantified invariant: for every
// accepted journal, entries[i].sequence == i.
func TestSequenceIntegrityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("accepted journals have index-equal sequences", prop.ForAll(
		func(n int) bool {
			j, _ := buildInvokeChain(n)
			for i, e := range j.Entries {
				if e.Sequence != uint64(i) {
					return false
				}
			}
			return len(ValidateJournal(j)) == 0
		},
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}

// TestTerminalUniquenessProperty is the §8 property: if any terminal event
// exists it is entries[-1] and the only terminal.
func TestTerminalUniquenessProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("exactly one terminal, and it is last", prop.ForAll(
		func(n int) bool {
			j, _ := buildInvokeChain(n)
			terminalCount := 0
			for i, e := range j.Entries {
				if e.Event.IsTerminal() {
					terminalCount++
					if i != len(j.Entries)-1 {
						return false
					}
				}
			}
			return terminalCount == 1
		},
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
