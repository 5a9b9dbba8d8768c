package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/payload"
	"github.com/ybird-labs/invariant-go/promise"
)

func pid(tag byte) promise.PromiseId { return promise.New([32]byte{tag}) }

func TestBuildCachesAllSupportedEventTypes(t *testing.T) {
	pInvoke, pRandom, pTime, pTimer, pSignal := pid(1), pid(2), pid(3), pid(4), pid(5)

	entries := []journal.Entry{
		{Sequence: 0, Event: event.InvokeCompleted{PromiseID: pInvoke, Result: payload.Raw(payload.Json, []byte{1}), Attempt: 1}},
		{Sequence: 1, Event: event.RandomGenerated{PromiseID: pRandom, Value: []byte{7, 8, 9}}},
		{Sequence: 2, Event: event.TimeRecorded{PromiseID: pTime, Time: time.Unix(100, 0)}},
		{Sequence: 3, Event: event.TimerFired{PromiseID: pTimer}},
		{Sequence: 4, Event: event.SignalReceived{PromiseID: pSignal, SignalName: "sig", Payload: payload.Raw(payload.Json, []byte{2}), DeliveryID: 1}},
		// Not cached:
		{Sequence: 5, Event: event.SignalDelivered{SignalName: "sig", Payload: payload.Raw(payload.Json, []byte{3}), DeliveryID: 2}},
		{Sequence: 6, Event: event.TimerScheduled{PromiseID: pid(6), Duration: time.Second, FireAt: time.Unix(200, 0)}},
	}

	cache := Build(entries)

	assert.Equal(t, 5, cache.Len())
	assert.False(t, cache.IsEmpty())

	invoke, ok := cache.GetInvoke(pInvoke)
	assert.True(t, ok)
	assert.Equal(t, payload.Raw(payload.Json, []byte{1}), invoke)

	random, ok := cache.GetRandom(pRandom)
	assert.True(t, ok)
	assert.Equal(t, []byte{7, 8, 9}, random)

	_, ok = cache.GetTime(pTime)
	assert.True(t, ok)

	assert.True(t, cache.IsTimerComplete(pTimer))

	signal, ok := cache.GetSignal(pSignal)
	assert.True(t, ok)
	assert.Equal(t, payload.Raw(payload.Json, []byte{2}), signal)
}

func TestTypedAccessorsFailClosedOnVariantMismatch(t *testing.T) {
	pInvoke := pid(11)
	entries := []journal.Entry{
		{Sequence: 0, Event: event.InvokeCompleted{PromiseID: pInvoke, Result: payload.Raw(payload.Json, []byte{9}), Attempt: 1}},
	}
	cache := Build(entries)

	_, ok := cache.GetRandom(pInvoke)
	assert.False(t, ok)
	_, ok = cache.GetTime(pInvoke)
	assert.False(t, ok)
	assert.False(t, cache.IsTimerComplete(pInvoke))
	_, ok = cache.GetSignal(pInvoke)
	assert.False(t, ok)
}

func TestLastWriteWinsPerPromise(t *testing.T) {
	p := pid(1)
	entries := []journal.Entry{
		{Sequence: 0, Event: event.InvokeCompleted{PromiseID: p, Result: payload.Raw(payload.Json, []byte{1}), Attempt: 1}},
		{Sequence: 1, Event: event.InvokeCompleted{PromiseID: p, Result: payload.Raw(payload.Json, []byte{2}), Attempt: 2}},
	}
	cache := Build(entries)
	result, ok := cache.GetInvoke(p)
	assert.True(t, ok)
	assert.Equal(t, payload.Raw(payload.Json, []byte{2}), result)
}
