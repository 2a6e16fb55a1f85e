package enumerate

import (
	"time"

	"github.com/npillmayer/bearsolve/smt"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects counters of enumerations. A single Metrics may be shared
// by concurrently running enumerators. A nil *Metrics records nothing.
type Metrics struct {
	Checks       *prometheus.CounterVec
	Models       prometheus.Counter
	Refinements  prometheus.Counter
	CheckSeconds prometheus.Histogram
}

// NewMetrics creates metrics and registers them with reg. If reg is nil,
// the metrics are not registered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bearsolve_checks_total",
			Help: "Number of satisfiability checks, by result.",
		}, []string{"result"}),
		Models: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bearsolve_models_total",
			Help: "Number of models emitted.",
		}),
		Refinements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bearsolve_refinements_total",
			Help: "Number of clauses learned from evaluating theory atoms.",
		}),
		CheckSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bearsolve_check_seconds",
			Help:    "Duration of satisfiability checks.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Checks, m.Models, m.Refinements, m.CheckSeconds} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "registering enumeration metrics")
		}
	}
	return m, nil
}

func (m *Metrics) checked(res smt.Result, d time.Duration) {
	if m == nil {
		return
	}
	m.Checks.WithLabelValues(res.String()).Inc()
	m.CheckSeconds.Observe(d.Seconds())
}

func (m *Metrics) emitted() {
	if m == nil {
		return
	}
	m.Models.Inc()
}

func (m *Metrics) refined(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Refinements.Add(float64(n))
}
