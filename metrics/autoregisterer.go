package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// autoRegisterer lazily creates and registers Prometheus collectors the
// first time a given stat name is used, so callers never need a separate
// declaration step before calling Inc/Gauge/Timing.
type autoRegisterer struct {
	registerer prometheus.Registerer

	mu        sync.Mutex
	counters  map[string]prometheus.Counter
	gauges    map[string]prometheus.Gauge
	summaries map[string]prometheus.Summary
}

func newAutoRegisterer(registerer prometheus.Registerer) *autoRegisterer {
	return &autoRegisterer{
		registerer: registerer,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		summaries:  make(map[string]prometheus.Summary),
	}
}

func sanitize(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

func (a *autoRegisterer) autoCounter(name string) prometheus.Counter {
	a.mu.Lock()
	defer a.mu.Unlock()
	if c, ok := a.counters[name]; ok {
		return c
	}
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: sanitize(name),
		Help: name,
	})
	a.registerer.MustRegister(c)
	a.counters[name] = c
	return c
}

func (a *autoRegisterer) autoGauge(name string) prometheus.Gauge {
	a.mu.Lock()
	defer a.mu.Unlock()
	if g, ok := a.gauges[name]; ok {
		return g
	}
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: sanitize(name),
		Help: name,
	})
	a.registerer.MustRegister(g)
	a.gauges[name] = g
	return g
}

func (a *autoRegisterer) autoSummary(name string) prometheus.Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.summaries[name]; ok {
		return s
	}
	s := prometheus.NewSummary(prometheus.SummaryOpts{
		Name:       sanitize(name),
		Help:       name,
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	})
	a.registerer.MustRegister(s)
	a.summaries[name] = s
	return s
}
