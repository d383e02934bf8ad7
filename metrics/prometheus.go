package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusProvider adapts Provider to real Prometheus collectors,
// registered against a caller-supplied registerer (or the default
// registerer when none is given). Instruments are created on first use
// per name and reused afterwards, same as BasicProvider.
type PrometheusProvider struct {
	reg prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	updowns    map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusProvider constructs a PrometheusProvider registering its
// collectors against reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusProvider(reg prometheus.Registerer) *PrometheusProvider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusProvider{
		reg:        reg,
		counters:   make(map[string]*prometheus.CounterVec),
		updowns:    make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (p *PrometheusProvider) Counter(name string, opts ...InstrumentOption) Counter {
	cfg := applyOptions(opts)
	p.mu.Lock()
	defer p.mu.Unlock()
	cv, ok := p.counters[name]
	if !ok {
		cv = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: name,
			Help: helpOrDefault(cfg.Description, name),
		}, labelNames(cfg.Attributes))
		p.reg.MustRegister(cv)
		p.counters[name] = cv
	}
	return promCounter{cv.With(prometheus.Labels(cfg.Attributes))}
}

func (p *PrometheusProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	cfg := applyOptions(opts)
	p.mu.Lock()
	defer p.mu.Unlock()
	gv, ok := p.updowns[name]
	if !ok {
		gv = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: name,
			Help: helpOrDefault(cfg.Description, name),
		}, labelNames(cfg.Attributes))
		p.reg.MustRegister(gv)
		p.updowns[name] = gv
	}
	return promUpDownCounter{gv.With(prometheus.Labels(cfg.Attributes))}
}

func (p *PrometheusProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	cfg := applyOptions(opts)
	p.mu.Lock()
	defer p.mu.Unlock()
	hv, ok := p.histograms[name]
	if !ok {
		hv = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    helpOrDefault(cfg.Description, name),
			Buckets: prometheus.DefBuckets,
		}, labelNames(cfg.Attributes))
		p.reg.MustRegister(hv)
		p.histograms[name] = hv
	}
	return promHistogram{hv.With(prometheus.Labels(cfg.Attributes))}
}

func helpOrDefault(desc, name string) string {
	if desc != "" {
		return desc
	}
	return name
}

func labelNames(attrs map[string]string) []string {
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	return names
}

type promCounter struct{ c prometheus.Counter }

func (p promCounter) Add(n int64) { p.c.Add(float64(n)) }

type promUpDownCounter struct{ g prometheus.Gauge }

func (p promUpDownCounter) Add(n int64) { p.g.Add(float64(n)) }

type promHistogram struct{ h prometheus.Observer }

func (p promHistogram) Record(v float64) { p.h.Observe(v) }
