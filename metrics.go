package sgd

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "sgd"

// Metrics exports driver progress to Prometheus. A nil *Metrics records
// nothing.
type Metrics struct {
	iterations  prometheus.Counter
	evaluations prometheus.Counter
	objective   prometheus.Gauge
	stepSize    prometheus.Gauge
	runs        *prometheus.CounterVec
}

// NewMetrics creates the driver metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "iterations_total",
			Help:      "Number of update steps performed",
		}),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "evaluations_total",
			Help:      "Number of full objective evaluations at checkpoints",
		}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "objective",
			Help:      "Objective value at the latest checkpoint",
		}),
		stepSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "step_size",
			Help:      "Step size of the latest update",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Number of finished runs by termination status",
		}, []string{"status"}),
	}
	for _, c := range []prometheus.Collector{m.iterations, m.evaluations, m.objective, m.stepSize, m.runs} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "registering sgd metrics")
		}
	}
	return m, nil
}

func (m *Metrics) recordUpdate(stepSize float64) {
	if m == nil {
		return
	}
	m.iterations.Inc()
	m.stepSize.Set(stepSize)
}

func (m *Metrics) recordCheckpoint(objective float64) {
	if m == nil {
		return
	}
	m.evaluations.Inc()
	m.objective.Set(objective)
}

func (m *Metrics) recordRun(status Status) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(status.String()).Inc()
}
