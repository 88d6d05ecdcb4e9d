package versioned

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the Prometheus collectors a Session updates.
type Metrics struct {
	Writes          *prometheus.CounterVec
	Reads           *prometheus.CounterVec
	ContextsOpened  prometheus.Counter
	ContextsDenied  prometheus.Counter
	AmbientVersion  prometheus.Gauge
	PropertiesTotal prometheus.Gauge
}

// NewMetrics builds the collectors and registers them with reg when it is
// not nil.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "writes_total",
			Help:      "Store writes by target layer.",
		}, []string{"layer"}),
		Reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "reads_total",
			Help:      "Store reads by the layer that satisfied them.",
		}, []string{"layer"}),
		ContextsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "context",
			Name:      "opened_total",
			Help:      "Version contexts opened.",
		}),
		ContextsDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "context",
			Name:      "rejected_total",
			Help:      "Version context opens rejected while another was active.",
		}),
		AmbientVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "context",
			Name:      "ambient_version",
			Help:      "Currently ambient version, 0 for base.",
		}),
		PropertiesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "properties",
			Help:      "Property identities assigned.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Writes,
		m.Reads,
		m.ContextsOpened,
		m.ContextsDenied,
		m.AmbientVersion,
		m.PropertiesTotal,
	}
}

// WithMetrics attaches collectors to the session.
func WithMetrics(m *Metrics) Option {
	return func(cfg *sessionConfig) {
		cfg.metrics = m
	}
}

func (m *Metrics) observeWrite(version Version) {
	if m == nil {
		return
	}
	layer := LayerOverlay
	if version == Base {
		layer = LayerBase
	}
	m.Writes.WithLabelValues(string(layer)).Inc()
}

func (m *Metrics) observeRead(layer Layer) {
	if m == nil {
		return
	}
	m.Reads.WithLabelValues(string(layer)).Inc()
}

func (m *Metrics) observeOpen(version Version, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ContextsDenied.Inc()
		return
	}
	m.ContextsOpened.Inc()
	m.AmbientVersion.Set(float64(version))
}

func (m *Metrics) observeRelease(current Version) {
	if m == nil {
		return
	}
	m.AmbientVersion.Set(float64(current))
}

func (m *Metrics) observeRegistry(n int) {
	if m == nil {
		return
	}
	m.PropertiesTotal.Set(float64(n))
}
