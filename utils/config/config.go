package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// RuntimeConfig wraps the parsed Config for handoff to the Scheduler and its
// managers. It exists as its own type (rather than passing Config directly)
// so that a future hot-reload only needs to swap this pointer.
type RuntimeConfig struct {
	All Config
	C   Control
}

func NewRuntimeConfig(c Config) *RuntimeConfig {
	return &RuntimeConfig{All: c, C: c.Control}
}

// Load reads and strictly parses a YAML config file, then validates the
// granularity constraints from spec §6: GranPersonTicks, GranSignalTicks and
// GranCommunicationTicks must each evenly divide the total run length.
// Returns a ConfigurationError-flavored error on any violation; the caller
// (cmd/simmob) treats that as fatal, matching the teacher's log.Panicf-on-
// bad-config boundary.
func Load(path string) (Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	var c Config
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the invariants spec §6 and §7 (ConfigurationError) require
// before a simulation can start.
func (c Config) Validate() error {
	if c.Control.BaseGranMs <= 0 {
		return fmt.Errorf("config: control.base_gran_ms must be >= 1")
	}
	total := c.Control.Step.Total
	for name, gran := range map[string]int32{
		"gran_person_ticks":        c.Control.GranPersonTicks,
		"gran_signal_ticks":        c.Control.GranSignalTicks,
		"gran_communication_ticks": c.Control.GranCommunicationTicks,
	} {
		if gran <= 0 {
			return fmt.Errorf("config: control.%s must be >= 1", name)
		}
		if total%gran != 0 {
			return fmt.Errorf("config: control.%s=%d does not evenly divide control.step.total=%d", name, gran, total)
		}
	}
	switch c.Control.MutexStrategy {
	case MutexStrategyLocked, MutexStrategyBuffered:
	default:
		return fmt.Errorf("config: control.mutex_strategy must be %q or %q", MutexStrategyLocked, MutexStrategyBuffered)
	}
	switch c.Input.Source {
	case NetworkSourceXML, NetworkSourceDatabase:
	default:
		return fmt.Errorf("config: input.network_source must be %q or %q", NetworkSourceXML, NetworkSourceDatabase)
	}
	if c.Input.Source == NetworkSourceDatabase && c.Input.URI == "" {
		return fmt.Errorf("config: input.uri is required when network_source is database")
	}
	return nil
}
