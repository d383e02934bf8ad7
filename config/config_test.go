package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsOnPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, PoolDynamic, cfg.Pool.Kind)
	require.Equal(t, MetricsNoop, cfg.Metrics)
	require.Equal(t, 64, cfg.BufferSize)
}

func TestLoad_FixedPoolRequiresCapacity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pool:\n  kind: fixed\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_UnknownMetricsBackendRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metrics: bogus\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestParseLogLevel_FallsBackToWarn(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "not-a-level"
	require.Equal(t, "warn", cfg.ParseLogLevel().String())
}
