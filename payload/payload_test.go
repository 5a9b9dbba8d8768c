package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	Name  string `json:"name" cbor:"name"`
	Count int    `json:"count" cbor:"count"`
}

func TestEncodeDecodeJSON(t *testing.T) {
	p, err := Encode(Json, fixture{Name: "a", Count: 3})
	require.NoError(t, err)
	assert.Equal(t, Json, p.Codec)

	var out fixture
	require.NoError(t, Decode(p, &out))
	assert.Equal(t, fixture{Name: "a", Count: 3}, out)
}

func TestEncodeDecodeCBOR(t *testing.T) {
	p, err := Encode(Cbor, fixture{Name: "b", Count: 7})
	require.NoError(t, err)
	assert.Equal(t, Cbor, p.Codec)

	var out fixture
	require.NoError(t, Decode(p, &out))
	assert.Equal(t, fixture{Name: "b", Count: 7}, out)
}

func TestBorshUnsupported(t *testing.T) {
	_, err := Encode(Borsh, fixture{})
	assert.ErrorIs(t, err, ErrBorshUnsupported)

	err = Decode(Payload{Codec: Borsh}, &fixture{})
	assert.ErrorIs(t, err, ErrBorshUnsupported)
}

func TestEqual(t *testing.T) {
	a := Payload{Bytes: []byte{1, 2, 3}, Codec: Json}
	b := Payload{Bytes: []byte{1, 2, 3}, Codec: Json}
	c := Payload{Bytes: []byte{1, 2, 3}, Codec: Cbor}
	d := Payload{Bytes: []byte{1, 2, 4}, Codec: Json}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestRaw(t *testing.T) {
	p := Raw(Cbor, []byte{0xAA})
	assert.Equal(t, Cbor, p.Codec)
	assert.Equal(t, []byte{0xAA}, p.Bytes)
}
