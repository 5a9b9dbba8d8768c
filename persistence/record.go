package persistence

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ybird-labs/invariant-go/event"
	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/payload"
	"github.com/ybird-labs/invariant-go/promise"
)

// entryRecord is the on-wire envelope for a journal.Entry: a sequence and
// timestamp alongside the event's variant name and its variant-specific
// payload. Kind drives both Encode's type switch and Decode's dispatch.
type entryRecord struct {
	Sequence  uint64          `json:"sequence"`
	Timestamp time.Time       `json:"timestamp"`
	Kind      string          `json:"kind"`
	Data      json.RawMessage `json:"data"`
}

type promiseWire struct {
	Root string   `json:"root"`
	Path []uint32 `json:"path,omitempty"`
}

func encodePromiseID(p promise.PromiseId) promiseWire {
	root := p.RootBytes()
	return promiseWire{Root: hex.EncodeToString(root[:]), Path: p.Path()}
}

func decodePromiseID(w promiseWire) (promise.PromiseId, error) {
	raw, err := hex.DecodeString(w.Root)
	if err != nil || len(raw) != 32 {
		return promise.PromiseId{}, fmt.Errorf("persistence: decode promise id root: %w", err)
	}
	var root [32]byte
	copy(root[:], raw)
	return promise.FromParts(root, w.Path), nil
}

func encodeJoinSetID(j promise.JoinSetId) promiseWire {
	return encodePromiseID(j.PromiseId())
}

func decodeJoinSetID(w promiseWire) (promise.JoinSetId, error) {
	p, err := decodePromiseID(w)
	if err != nil {
		return promise.JoinSetId{}, err
	}
	return promise.NewJoinSetId(p), nil
}

func encodePromiseIDs(ps []promise.PromiseId) []promiseWire {
	out := make([]promiseWire, len(ps))
	for i, p := range ps {
		out[i] = encodePromiseID(p)
	}
	return out
}

func decodePromiseIDs(ws []promiseWire) ([]promise.PromiseId, error) {
	out := make([]promise.PromiseId, len(ws))
	for i, w := range ws {
		p, err := decodePromiseID(w)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

type payloadWire struct {
	Codec int    `json:"codec"`
	Bytes []byte `json:"bytes"`
}

func encodePayload(p payload.Payload) payloadWire {
	return payloadWire{Codec: int(p.Codec), Bytes: p.Bytes}
}

func decodePayload(w payloadWire) payload.Payload {
	return payload.Raw(payload.Codec(w.Codec), w.Bytes)
}

type executionErrorWire struct {
	Kind      int    `json:"kind"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	HasDetail bool   `json:"has_detail,omitempty"`
}

func encodeExecutionError(e event.ExecutionError) executionErrorWire {
	return executionErrorWire{Kind: int(e.Kind), Message: e.Message, Detail: e.Detail, HasDetail: e.HasDetail()}
}

func decodeExecutionError(w executionErrorWire) event.ExecutionError {
	if w.HasDetail {
		return event.NewExecutionErrorWithDetail(event.ErrorKind(w.Kind), w.Message, w.Detail)
	}
	return event.NewExecutionError(event.ErrorKind(w.Kind), w.Message)
}

type awaitKindWire struct {
	Tag             int         `json:"tag"`
	SignalName      string      `json:"signal_name,omitempty"`
	SignalPromiseID promiseWire `json:"signal_promise_id,omitempty"`
}

func encodeAwaitKind(k event.AwaitKind) awaitKindWire {
	return awaitKindWire{Tag: int(k.Tag), SignalName: k.SignalName, SignalPromiseID: encodePromiseID(k.SignalPromiseID)}
}

func decodeAwaitKind(w awaitKindWire) (event.AwaitKind, error) {
	pid, err := decodePromiseID(w.SignalPromiseID)
	if err != nil {
		return event.AwaitKind{}, err
	}
	return event.AwaitKind{Tag: event.AwaitKindTag(w.Tag), SignalName: w.SignalName, SignalPromiseID: pid}, nil
}

// EncodeEntry serializes a journal entry for durable storage.
func EncodeEntry(entry journal.Entry) ([]byte, error) {
	data, kind, err := encodeEventData(entry.Event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(entryRecord{
		Sequence:  entry.Sequence,
		Timestamp: entry.Timestamp,
		Kind:      kind,
		Data:      data,
	})
}

// DecodeEntry reconstructs a journal entry from its wire form.
func DecodeEntry(raw []byte) (journal.Entry, error) {
	var rec entryRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return journal.Entry{}, fmt.Errorf("persistence: decode entry envelope: %w", err)
	}
	ev, err := decodeEventData(rec.Kind, rec.Data)
	if err != nil {
		return journal.Entry{}, err
	}
	return journal.Entry{Sequence: rec.Sequence, Timestamp: rec.Timestamp, Event: ev}, nil
}

func encodeEventData(ev event.Type) (json.RawMessage, string, error) {
	var data any
	switch e := ev.(type) {
	case event.ExecutionStarted:
		var parent *promiseWire
		if e.ParentID != nil {
			w := encodePromiseID(*e.ParentID)
			parent = &w
		}
		data = struct {
			ComponentDigest []byte       `json:"component_digest"`
			Input           payloadWire  `json:"input"`
			ParentID        *promiseWire `json:"parent_id,omitempty"`
			IdempotencyKey  string       `json:"idempotency_key"`
		}{e.ComponentDigest, encodePayload(e.Input), parent, e.IdempotencyKey}
	case event.ExecutionCompleted:
		data = struct {
			Result payloadWire `json:"result"`
		}{encodePayload(e.Result)}
	case event.ExecutionFailed:
		data = struct {
			Error executionErrorWire `json:"error"`
		}{encodeExecutionError(e.Error)}
	case event.CancelRequested:
		data = struct {
			Reason string `json:"reason"`
		}{e.Reason}
	case event.ExecutionCancelled:
		data = struct {
			Reason string `json:"reason"`
		}{e.Reason}
	case event.InvokeScheduled:
		data = struct {
			PromiseID    promiseWire `json:"promise_id"`
			Kind         int         `json:"kind"`
			FunctionName string      `json:"function_name"`
			Input        payloadWire `json:"input"`
			HasRetry     bool        `json:"has_retry"`
		}{encodePromiseID(e.PromiseID), int(e.Kind), e.FunctionName, encodePayload(e.Input), e.RetryPolicy != nil}
	case event.InvokeStarted:
		data = struct {
			PromiseID promiseWire `json:"promise_id"`
			Attempt   uint32      `json:"attempt"`
		}{encodePromiseID(e.PromiseID), e.Attempt}
	case event.InvokeCompleted:
		data = struct {
			PromiseID promiseWire `json:"promise_id"`
			Result    payloadWire `json:"result"`
			Attempt   uint32      `json:"attempt"`
		}{encodePromiseID(e.PromiseID), encodePayload(e.Result), e.Attempt}
	case event.InvokeRetrying:
		data = struct {
			PromiseID     promiseWire        `json:"promise_id"`
			FailedAttempt uint32             `json:"failed_attempt"`
			Error         executionErrorWire `json:"error"`
			RetryAt       time.Time          `json:"retry_at"`
		}{encodePromiseID(e.PromiseID), e.FailedAttempt, encodeExecutionError(e.Error), e.RetryAt}
	case event.RandomGenerated:
		data = struct {
			PromiseID promiseWire `json:"promise_id"`
			Value     []byte      `json:"value"`
		}{encodePromiseID(e.PromiseID), e.Value}
	case event.TimeRecorded:
		data = struct {
			PromiseID promiseWire `json:"promise_id"`
			Time      time.Time   `json:"time"`
		}{encodePromiseID(e.PromiseID), e.Time}
	case event.TimerScheduled:
		data = struct {
			PromiseID promiseWire   `json:"promise_id"`
			Duration  time.Duration `json:"duration"`
			FireAt    time.Time     `json:"fire_at"`
		}{encodePromiseID(e.PromiseID), e.Duration, e.FireAt}
	case event.TimerFired:
		data = struct {
			PromiseID promiseWire `json:"promise_id"`
		}{encodePromiseID(e.PromiseID)}
	case event.SignalDelivered:
		data = struct {
			SignalName string      `json:"signal_name"`
			Payload    payloadWire `json:"payload"`
			DeliveryID uint64      `json:"delivery_id"`
		}{e.SignalName, encodePayload(e.Payload), e.DeliveryID}
	case event.SignalReceived:
		data = struct {
			PromiseID  promiseWire `json:"promise_id"`
			SignalName string      `json:"signal_name"`
			Payload    payloadWire `json:"payload"`
			DeliveryID uint64      `json:"delivery_id"`
		}{encodePromiseID(e.PromiseID), e.SignalName, encodePayload(e.Payload), e.DeliveryID}
	case event.ExecutionAwaiting:
		data = struct {
			WaitingOn []promiseWire `json:"waiting_on"`
			Kind      awaitKindWire `json:"kind"`
		}{encodePromiseIDs(e.WaitingOn), encodeAwaitKind(e.Kind)}
	case event.ExecutionResumed:
		data = struct{}{}
	case event.JoinSetCreated:
		data = struct {
			JoinSetID promiseWire `json:"join_set_id"`
		}{encodeJoinSetID(e.JoinSetID)}
	case event.JoinSetSubmitted:
		data = struct {
			JoinSetID promiseWire `json:"join_set_id"`
			PromiseID promiseWire `json:"promise_id"`
		}{encodeJoinSetID(e.JoinSetID), encodePromiseID(e.PromiseID)}
	case event.JoinSetAwaited:
		data = struct {
			JoinSetID promiseWire `json:"join_set_id"`
			PromiseID promiseWire `json:"promise_id"`
			Result    payloadWire `json:"result"`
		}{encodeJoinSetID(e.JoinSetID), encodePromiseID(e.PromiseID), encodePayload(e.Result)}
	default:
		return nil, "", fmt.Errorf("persistence: unknown event variant %s", ev.Name())
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, "", fmt.Errorf("persistence: encode %s: %w", ev.Name(), err)
	}
	return raw, ev.Name(), nil
}

func decodeEventData(kind string, raw json.RawMessage) (event.Type, error) {
	switch kind {
	case "ExecutionStarted":
		var w struct {
			ComponentDigest []byte       `json:"component_digest"`
			Input           payloadWire  `json:"input"`
			ParentID        *promiseWire `json:"parent_id,omitempty"`
			IdempotencyKey  string       `json:"idempotency_key"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		var parent *promise.ExecutionId
		if w.ParentID != nil {
			pid, err := decodePromiseID(*w.ParentID)
			if err != nil {
				return nil, err
			}
			parent = &pid
		}
		return event.ExecutionStarted{
			ComponentDigest: w.ComponentDigest,
			Input:           decodePayload(w.Input),
			ParentID:        parent,
			IdempotencyKey:  w.IdempotencyKey,
		}, nil
	case "ExecutionCompleted":
		var w struct {
			Result payloadWire `json:"result"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		return event.ExecutionCompleted{Result: decodePayload(w.Result)}, nil
	case "ExecutionFailed":
		var w struct {
			Error executionErrorWire `json:"error"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		return event.ExecutionFailed{Error: decodeExecutionError(w.Error)}, nil
	case "CancelRequested":
		var w struct {
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		return event.CancelRequested{Reason: w.Reason}, nil
	case "ExecutionCancelled":
		var w struct {
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		return event.ExecutionCancelled{Reason: w.Reason}, nil
	case "InvokeScheduled":
		var w struct {
			PromiseID    promiseWire `json:"promise_id"`
			Kind         int         `json:"kind"`
			FunctionName string      `json:"function_name"`
			Input        payloadWire `json:"input"`
			HasRetry     bool        `json:"has_retry"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		pid, err := decodePromiseID(w.PromiseID)
		if err != nil {
			return nil, err
		}
		var retry *event.RetryPolicy
		if w.HasRetry {
			retry = &event.RetryPolicy{}
		}
		return event.InvokeScheduled{
			PromiseID:    pid,
			Kind:         event.InvokeKind(w.Kind),
			FunctionName: w.FunctionName,
			Input:        decodePayload(w.Input),
			RetryPolicy:  retry,
		}, nil
	case "InvokeStarted":
		var w struct {
			PromiseID promiseWire `json:"promise_id"`
			Attempt   uint32      `json:"attempt"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		pid, err := decodePromiseID(w.PromiseID)
		if err != nil {
			return nil, err
		}
		return event.InvokeStarted{PromiseID: pid, Attempt: w.Attempt}, nil
	case "InvokeCompleted":
		var w struct {
			PromiseID promiseWire `json:"promise_id"`
			Result    payloadWire `json:"result"`
			Attempt   uint32      `json:"attempt"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		pid, err := decodePromiseID(w.PromiseID)
		if err != nil {
			return nil, err
		}
		return event.InvokeCompleted{PromiseID: pid, Result: decodePayload(w.Result), Attempt: w.Attempt}, nil
	case "InvokeRetrying":
		var w struct {
			PromiseID     promiseWire        `json:"promise_id"`
			FailedAttempt uint32             `json:"failed_attempt"`
			Error         executionErrorWire `json:"error"`
			RetryAt       time.Time          `json:"retry_at"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		pid, err := decodePromiseID(w.PromiseID)
		if err != nil {
			return nil, err
		}
		return event.InvokeRetrying{PromiseID: pid, FailedAttempt: w.FailedAttempt, Error: decodeExecutionError(w.Error), RetryAt: w.RetryAt}, nil
	case "RandomGenerated":
		var w struct {
			PromiseID promiseWire `json:"promise_id"`
			Value     []byte      `json:"value"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		pid, err := decodePromiseID(w.PromiseID)
		if err != nil {
			return nil, err
		}
		return event.RandomGenerated{PromiseID: pid, Value: w.Value}, nil
	case "TimeRecorded":
		var w struct {
			PromiseID promiseWire `json:"promise_id"`
			Time      time.Time   `json:"time"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		pid, err := decodePromiseID(w.PromiseID)
		if err != nil {
			return nil, err
		}
		return event.TimeRecorded{PromiseID: pid, Time: w.Time}, nil
	case "TimerScheduled":
		var w struct {
			PromiseID promiseWire   `json:"promise_id"`
			Duration  time.Duration `json:"duration"`
			FireAt    time.Time     `json:"fire_at"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		pid, err := decodePromiseID(w.PromiseID)
		if err != nil {
			return nil, err
		}
		return event.TimerScheduled{PromiseID: pid, Duration: w.Duration, FireAt: w.FireAt}, nil
	case "TimerFired":
		var w struct {
			PromiseID promiseWire `json:"promise_id"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		pid, err := decodePromiseID(w.PromiseID)
		if err != nil {
			return nil, err
		}
		return event.TimerFired{PromiseID: pid}, nil
	case "SignalDelivered":
		var w struct {
			SignalName string      `json:"signal_name"`
			Payload    payloadWire `json:"payload"`
			DeliveryID uint64      `json:"delivery_id"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		return event.SignalDelivered{SignalName: w.SignalName, Payload: decodePayload(w.Payload), DeliveryID: w.DeliveryID}, nil
	case "SignalReceived":
		var w struct {
			PromiseID  promiseWire `json:"promise_id"`
			SignalName string      `json:"signal_name"`
			Payload    payloadWire `json:"payload"`
			DeliveryID uint64      `json:"delivery_id"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		pid, err := decodePromiseID(w.PromiseID)
		if err != nil {
			return nil, err
		}
		return event.SignalReceived{PromiseID: pid, SignalName: w.SignalName, Payload: decodePayload(w.Payload), DeliveryID: w.DeliveryID}, nil
	case "ExecutionAwaiting":
		var w struct {
			WaitingOn []promiseWire `json:"waiting_on"`
			Kind      awaitKindWire `json:"kind"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		waitingOn, err := decodePromiseIDs(w.WaitingOn)
		if err != nil {
			return nil, err
		}
		awaitKind, err := decodeAwaitKind(w.Kind)
		if err != nil {
			return nil, err
		}
		return event.ExecutionAwaiting{WaitingOn: waitingOn, Kind: awaitKind}, nil
	case "ExecutionResumed":
		return event.ExecutionResumed{}, nil
	case "JoinSetCreated":
		var w struct {
			JoinSetID promiseWire `json:"join_set_id"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		js, err := decodeJoinSetID(w.JoinSetID)
		if err != nil {
			return nil, err
		}
		return event.JoinSetCreated{JoinSetID: js}, nil
	case "JoinSetSubmitted":
		var w struct {
			JoinSetID promiseWire `json:"join_set_id"`
			PromiseID promiseWire `json:"promise_id"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		js, err := decodeJoinSetID(w.JoinSetID)
		if err != nil {
			return nil, err
		}
		pid, err := decodePromiseID(w.PromiseID)
		if err != nil {
			return nil, err
		}
		return event.JoinSetSubmitted{JoinSetID: js, PromiseID: pid}, nil
	case "JoinSetAwaited":
		var w struct {
			JoinSetID promiseWire `json:"join_set_id"`
			PromiseID promiseWire `json:"promise_id"`
			Result    payloadWire `json:"result"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, decodeErr(kind, err)
		}
		js, err := decodeJoinSetID(w.JoinSetID)
		if err != nil {
			return nil, err
		}
		pid, err := decodePromiseID(w.PromiseID)
		if err != nil {
			return nil, err
		}
		return event.JoinSetAwaited{JoinSetID: js, PromiseID: pid, Result: decodePayload(w.Result)}, nil
	default:
		return nil, fmt.Errorf("persistence: unknown event kind %q", kind)
	}
}

func decodeErr(kind string, err error) error {
	return fmt.Errorf("persistence: decode %s: %w", kind, err)
}
