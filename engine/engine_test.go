package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWasmEngineStartsAndCloses(t *testing.T) {
	e, err := NewWasmEngine(NewConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, e.Raw())

	e.Close()
	e.Close() // idempotent
}

func TestComponentLoaderRegistrySourceNotImplemented(t *testing.T) {
	e, err := NewWasmEngine(NewConfig(), nil)
	require.NoError(t, err)
	defer e.Close()

	loader := NewComponentLoader(e)
	_, err = loader.Load(context.Background(), FromRegistry("some-component"))
	assert.ErrorIs(t, err, ErrRegistryNotImplemented)
}

func TestComponentLoaderBytesSourceSurfacesLoadError(t *testing.T) {
	e, err := NewWasmEngine(NewConfig(), nil)
	require.NoError(t, err)
	defer e.Close()

	loader := NewComponentLoader(e)
	_, err = loader.Load(context.Background(), FromBytes([]byte("not a real component")))
	require.Error(t, err)

	var loadErr *ComponentLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.NotEmpty(t, loadErr.Error())
}

func TestComponentInstantiateErrorMessage(t *testing.T) {
	err := &ComponentInstantiateError{Message: "missing export"}
	assert.Equal(t, "component instantiate failed: missing export", err.Error())
}
