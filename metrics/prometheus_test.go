package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusProvider_CounterAccumulates(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider(reg)

	c := p.Counter("future_results_total").(promCounter)
	c.Add(1)
	c.Add(2)

	if got := testutil.ToFloat64(c.c); got != 3 {
		t.Fatalf("counter value = %v; want 3", got)
	}
}

func TestPrometheusProvider_SameNameReusesCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider(reg)

	c1 := p.Counter("dup").(promCounter)
	c2 := p.Counter("dup").(promCounter)
	c1.Add(1)
	c2.Add(1)

	if got := testutil.ToFloat64(c1.c); got != 2 {
		t.Fatalf("expected both handles to share state, got %v", got)
	}
}

func TestPrometheusProvider_UpDownCounterMovesBothWays(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider(reg)

	g := p.UpDownCounter("inflight").(promUpDownCounter)
	g.Add(3)
	g.Add(-1)

	if got := testutil.ToFloat64(g.g); got != 2 {
		t.Fatalf("gauge value = %v; want 2", got)
	}
}

func TestPrometheusProvider_HistogramRecordsObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider(reg)

	h := p.Histogram("exec_seconds")
	h.Record(0.1)
	h.Record(0.2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var found bool
	for _, mf := range mfs {
		if mf.GetName() == "exec_seconds" {
			found = true
			if got := mf.GetMetric()[0].GetHistogram().GetSampleCount(); got != 2 {
				t.Fatalf("sample count = %d; want 2", got)
			}
		}
	}
	if !found {
		t.Fatalf("exec_seconds histogram not found in registry")
	}
}
