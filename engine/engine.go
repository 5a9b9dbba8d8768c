package engine

import (
	"context"
	"fmt"
	"time"
	"weak"

	wasmtime "github.com/bytecodealliance/wasmtime-go/v28"

	"github.com/ybird-labs/invariant-go/telemetry"
)

// WasmEngine wraps a wasmtime engine configured for the component model,
// asynchronous execution support, NaN canonicalization, and epoch-based
// interruption. No relaxed-SIMD setting is applied, so relaxed SIMD keeps
// wasmtime's default (non-deterministic) behavior. It owns one long-lived ticker
// that increments the epoch every config.EpochInterval and terminates
// itself once the engine is no longer strongly referenced.
type WasmEngine struct {
	inner  *wasmtime.Engine
	logger telemetry.Logger
	close  chan struct{}
}

// NewWasmEngine constructs a WasmEngine and starts its epoch ticker.
func NewWasmEngine(cfg Config, logger telemetry.Logger) (*WasmEngine, error) {
	if logger == nil {
		logger = telemetry.Noop{}
	}

	wasmCfg := wasmtime.NewConfig()
	wasmCfg.SetWasmComponentModel(true)
	wasmCfg.SetAsyncSupport(true)
	wasmCfg.SetCraneliftNanCanonicalization(true)
	wasmCfg.SetEpochInterruption(true)

	inner, err := wasmtime.NewEngineWithConfig(wasmCfg)
	if err != nil {
		return nil, fmt.Errorf("engine: create wasmtime engine: %w", err)
	}

	e := &WasmEngine{inner: inner, logger: logger, close: make(chan struct{})}
	startEpochTicker(e, cfg.EpochInterval())
	return e, nil
}

// startEpochTicker spawns the background epoch ticker. It holds only a weak
// reference to engine, so dropping the engine's last strong reference lets
// the ticker goroutine observe a nil dereference and exit on its own,
// without an explicit shutdown signal. An explicit Close is still offered
// for callers that want deterministic, immediate teardown.
func startEpochTicker(engine *WasmEngine, interval time.Duration) {
	weakEngine := weak.Make(engine)
	closeSignal := engine.close

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-closeSignal:
				return
			case <-ticker.C:
				e := weakEngine.Value()
				if e == nil {
					return
				}
				e.inner.IncrementEpoch()
			}
		}
	}()
}

// Close signals the epoch ticker to stop immediately. Safe to call more
// than once; subsequent calls are no-ops.
func (e *WasmEngine) Close() {
	select {
	case <-e.close:
	default:
		close(e.close)
	}
}

// Raw returns the underlying wasmtime engine for collaborators (store,
// linker, instantiation) that need it directly.
func (e *WasmEngine) Raw() *wasmtime.Engine {
	return e.inner
}

// ComponentSource names where a component's bytes come from.
type ComponentSource struct {
	kind       componentSourceKind
	bytes      []byte
	filePath   string
	registryID string
}

type componentSourceKind int

const (
	sourceBytes componentSourceKind = iota
	sourceFilePath
	sourceRegistry
)

// FromBytes constructs a ComponentSource from raw component bytes.
func FromBytes(b []byte) ComponentSource {
	return ComponentSource{kind: sourceBytes, bytes: b}
}

// FromFilePath constructs a ComponentSource pointing at a filesystem path.
func FromFilePath(path string) ComponentSource {
	return ComponentSource{kind: sourceFilePath, filePath: path}
}

// FromRegistry constructs a ComponentSource naming a registry entry. Callers
// must expect ErrRegistryNotImplemented until registry resolution exists.
func FromRegistry(name string) ComponentSource {
	return ComponentSource{kind: sourceRegistry, registryID: name}
}

// ComponentLoader loads a component from a ComponentSource against one
// WasmEngine. Like the collaborator it is modeled on, a loader is bound to a
// single engine handle and is not meant to be reused across engines.
type ComponentLoader struct {
	engine *WasmEngine
}

// NewComponentLoader binds a loader to engine.
func NewComponentLoader(engine *WasmEngine) *ComponentLoader {
	return &ComponentLoader{engine: engine}
}

// Load resolves src against the bound engine, returning the loaded
// component or a *ComponentLoadError wrapping the underlying diagnostic. A
// FromRegistry source returns ErrRegistryNotImplemented instead.
func (l *ComponentLoader) Load(ctx context.Context, src ComponentSource) (*wasmtime.Component, error) {
	switch src.kind {
	case sourceBytes:
		c, err := wasmtime.NewComponent(l.engine.inner, src.bytes)
		if err != nil {
			return nil, &ComponentLoadError{Cause: err}
		}
		return c, nil
	case sourceFilePath:
		c, err := wasmtime.NewComponentFromFile(l.engine.inner, src.filePath)
		if err != nil {
			return nil, &ComponentLoadError{Cause: err}
		}
		return c, nil
	case sourceRegistry:
		return nil, ErrRegistryNotImplemented
	default:
		return nil, &ComponentLoadError{Cause: fmt.Errorf("engine: unknown component source")}
	}
}
