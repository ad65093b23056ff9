package service

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics bundles the Prometheus collectors for remote calls.
type Metrics struct {
	gatherer prometheus.Gatherer

	Requests     *prometheus.CounterVec
	Durations    *prometheus.HistogramVec
	StaleReplies *prometheus.CounterVec
}

// NewMetrics registers the collectors against reg, defaulting to the
// global registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "senscalc_requests_total",
		Help: "Remote calculation requests, labeled by kind, array and outcome.",
	}, []string{"kind", "array", "outcome"}), "senscalc_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "senscalc_request_duration_seconds",
		Help:    "Remote calculation latency in seconds.",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"kind"}), "senscalc_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	stale, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "senscalc_stale_replies_total",
		Help: "Replies discarded because a newer request had been issued.",
	}, []string{"kind"}), "senscalc_stale_replies_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:     gatherer,
		Requests:     requests,
		Durations:    durations,
		StaleReplies: stale,
	}, nil
}

func (m *Metrics) observe(kind, array, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(kind, array, outcome).Inc()
	m.Durations.WithLabelValues(kind).Observe(seconds)
}

// StaleReply counts a discarded reply of the given kind.
func (m *Metrics) StaleReply(kind string) {
	if m == nil {
		return
	}
	m.StaleReplies.WithLabelValues(kind).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	gatherer := m.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, errors.Wrapf(err, "registering %s", name)
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, errors.Wrapf(err, "registering %s", name)
	}
	return vec, nil
}
