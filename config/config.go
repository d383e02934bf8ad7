// Package config loads the runtime tuning knobs for the future package's
// pool, metrics, and logging from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PoolKind selects which future/pool constructor backs an Executor.
type PoolKind string

const (
	PoolDynamic PoolKind = "dynamic"
	PoolFixed   PoolKind = "fixed"
)

// MetricsBackend selects which future/metrics.Provider an Executor reports
// into.
type MetricsBackend string

const (
	MetricsNoop       MetricsBackend = "noop"
	MetricsBasic      MetricsBackend = "basic"
	MetricsPrometheus MetricsBackend = "prometheus"
)

// Config carries the tuning knobs a host application exposes over YAML.
type Config struct {
	Pool struct {
		Kind     PoolKind `yaml:"kind"`
		Capacity uint     `yaml:"capacity"`
	} `yaml:"pool"`

	// BufferSize is validated to be > 0 and carried in the configuration;
	// no pool or pipeline stage reads it, so it bounds and throttles nothing.
	BufferSize int `yaml:"bufferSize"`

	LogLevel string         `yaml:"logLevel"`
	Metrics  MetricsBackend `yaml:"metrics"`

	Pipeline struct {
		Watch bool `yaml:"watch"`
	} `yaml:"pipeline"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	var c Config
	c.Pool.Kind = PoolDynamic
	c.Pool.Capacity = 0
	c.BufferSize = 64
	c.LogLevel = "warn"
	c.Metrics = MetricsNoop
	return c
}

// Load reads and parses a YAML configuration file at path, starting from
// Default() so a partial file only overrides what it sets.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations that would otherwise fail lazily deep
// inside the pool or metrics packages.
func (c Config) Validate() error {
	switch c.Pool.Kind {
	case PoolDynamic, PoolFixed:
	default:
		return fmt.Errorf("config: unknown pool kind %q", c.Pool.Kind)
	}
	if c.Pool.Kind == PoolFixed && c.Pool.Capacity == 0 {
		return fmt.Errorf("config: pool.capacity must be > 0 for kind %q", PoolFixed)
	}
	switch c.Metrics {
	case MetricsNoop, MetricsBasic, MetricsPrometheus:
	default:
		return fmt.Errorf("config: unknown metrics backend %q", c.Metrics)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("config: bufferSize must be > 0")
	}
	return nil
}
