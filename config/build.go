package config

import (
	"github.com/amlm-go/future/metrics"
	"github.com/amlm-go/future/pool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// BuildPool constructs the pool.Pool named by c.Pool, using newFn to create
// tokens. newFn is typically a trivial struct{}{} factory; the executor
// only uses tokens as concurrency permits.
func (c Config) BuildPool(newFn func() interface{}) pool.Pool {
	switch c.Pool.Kind {
	case PoolFixed:
		return pool.NewFixed(c.Pool.Capacity, newFn)
	default:
		return pool.NewDynamic(newFn)
	}
}

// BuildMetrics constructs the metrics.Provider named by c.Metrics. The
// prometheus backend registers against reg (nil uses the default registerer).
func (c Config) BuildMetrics(reg prometheus.Registerer) metrics.Provider {
	switch c.Metrics {
	case MetricsBasic:
		return metrics.NewBasicProvider()
	case MetricsPrometheus:
		return metrics.NewPrometheusProvider(reg)
	default:
		return metrics.NewNoopProvider()
	}
}

// ParseLogLevel maps c.LogLevel to a zerolog.Level, defaulting to
// zerolog.WarnLevel for an empty or unrecognized value.
func (c Config) ParseLogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.WarnLevel
	}
	return lvl
}
