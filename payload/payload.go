// Package payload implements the opaque, codec-tagged byte blob that flows
// through invoke results, signal deliveries, and replay cache entries.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Codec identifies how Payload.Bytes should be interpreted.
type Codec int

const (
	// Cbor is the default wire codec for captured side-effect results.
	Cbor Codec = iota
	// Json is used where human-readable payloads are preferred (config,
	// diagnostics, test fixtures).
	Json
	// Borsh is declared by the domain model but has no supported codec in
	// this implementation; see ErrBorshUnsupported.
	Borsh
)

// String renders the codec name used in diagnostics.
func (c Codec) String() string {
	switch c {
	case Cbor:
		return "Cbor"
	case Json:
		return "Json"
	case Borsh:
		return "Borsh"
	default:
		return fmt.Sprintf("Codec(%d)", int(c))
	}
}

// ErrBorshUnsupported is returned by Encode/Decode for Codec: Borsh. No
// library in the retrieval corpus provides a Borsh implementation; callers
// that need it must bring their own codec.
var ErrBorshUnsupported = errors.New("payload: borsh codec is not implemented")

// Payload is an opaque byte blob tagged with the codec that produced it.
// Two Payloads are equal iff both Bytes and Codec match.
type Payload struct {
	Bytes []byte
	Codec Codec
}

// Equal reports whether p and other carry identical bytes and codec.
func (p Payload) Equal(other Payload) bool {
	if p.Codec != other.Codec {
		return false
	}
	if len(p.Bytes) != len(other.Bytes) {
		return false
	}
	for i, b := range p.Bytes {
		if other.Bytes[i] != b {
			return false
		}
	}
	return true
}

// Encode serializes v using the given codec and wraps the result as a Payload.
func Encode(codec Codec, v any) (Payload, error) {
	switch codec {
	case Cbor:
		b, err := cbor.Marshal(v)
		if err != nil {
			return Payload{}, fmt.Errorf("payload: cbor encode: %w", err)
		}
		return Payload{Bytes: b, Codec: Cbor}, nil
	case Json:
		b, err := json.Marshal(v)
		if err != nil {
			return Payload{}, fmt.Errorf("payload: json encode: %w", err)
		}
		return Payload{Bytes: b, Codec: Json}, nil
	case Borsh:
		return Payload{}, ErrBorshUnsupported
	default:
		return Payload{}, fmt.Errorf("payload: unknown codec %d", int(codec))
	}
}

// Decode deserializes p.Bytes into v according to p.Codec.
func Decode(p Payload, v any) error {
	switch p.Codec {
	case Cbor:
		if err := cbor.Unmarshal(p.Bytes, v); err != nil {
			return fmt.Errorf("payload: cbor decode: %w", err)
		}
		return nil
	case Json:
		if err := json.Unmarshal(p.Bytes, v); err != nil {
			return fmt.Errorf("payload: json decode: %w", err)
		}
		return nil
	case Borsh:
		return ErrBorshUnsupported
	default:
		return fmt.Errorf("payload: unknown codec %d", int(p.Codec))
	}
}

// Raw wraps data as an already-encoded Payload without touching it, for
// callers that construct the bytes themselves (e.g. forwarding a captured
// side-effect result verbatim).
func Raw(codec Codec, data []byte) Payload {
	return Payload{Bytes: data, Codec: codec}
}
