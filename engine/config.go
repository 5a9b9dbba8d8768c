// Package engine wraps the wasm component runtime collaborator: engine
// construction and epoch-based preemption, component loading, and the
// recognized configuration options. These are thin adapters over an
// external engine, out of the core's validation scope.
package engine

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// defaultEpochIntervalMs is the period of the background ticker that
// advances the engine's preemption epoch, absent an override.
const defaultEpochIntervalMs = 1000

// Config is the engine's recognized configuration. The zero value is not
// valid; use NewConfig or LoadConfig.
type Config struct {
	epochIntervalMs uint64
}

// NewConfig returns a Config with defaults applied.
func NewConfig() Config {
	return Config{epochIntervalMs: defaultEpochIntervalMs}
}

// WithEpochInterval sets the epoch ticker period and returns the updated
// Config, matching the original builder's fluent style.
func (c Config) WithEpochInterval(interval time.Duration) Config {
	c.epochIntervalMs = uint64(interval.Milliseconds())
	return c
}

// EpochInterval returns the configured ticker period.
func (c Config) EpochInterval() time.Duration {
	return time.Duration(c.epochIntervalMs) * time.Millisecond
}

// configFile is the YAML shape LoadConfig parses. Only epoch_interval_ms is
// currently recognized.
type configFile struct {
	EpochIntervalMs *uint64 `yaml:"epoch_interval_ms"`
}

// LoadConfig reads a YAML document and applies any recognized options on top
// of the defaults. Unrecognized keys are ignored rather than rejected, since
// this configuration surface is expected to grow.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := NewConfig()

	var raw configFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("engine: decode config: %w", err)
	}

	if raw.EpochIntervalMs != nil {
		cfg.epochIntervalMs = *raw.EpochIntervalMs
	}

	return cfg, nil
}
