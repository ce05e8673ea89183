// Package metrics exposes Prometheus collectors for engine calls, rejected
// inputs and live boundary allocations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lezwallet"

// Metrics holds the adapter's collectors. A nil *Metrics records nothing, so
// callers never need to check.
type Metrics struct {
	engineCalls *prometheus.CounterVec
	validation  *prometheus.CounterVec
	live        *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg. Passing nil
// registers with a fresh private registry.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		engineCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_calls_total",
			Help:      "Engine calls by operation and returned code.",
		}, []string{"op", "code"}),
		validation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Inputs rejected before reaching the engine, by operation and error kind.",
		}, []string{"op", "kind"}),
		live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_allocations",
			Help:      "Boundary allocations not yet released, by owning side.",
		}, []string{"side"}),
	}
	for _, c := range []prometheus.Collector{m.engineCalls, m.validation, m.live} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is New that panics on registration failure.
func MustNew(reg prometheus.Registerer) *Metrics {
	m, err := New(reg)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Metrics) EngineCall(op, code string) {
	if m == nil {
		return
	}
	m.engineCalls.WithLabelValues(op, code).Inc()
}

func (m *Metrics) ValidationFailure(op, kind string) {
	if m == nil {
		return
	}
	m.validation.WithLabelValues(op, kind).Inc()
}

// SetLive records the live allocation count for side.
func (m *Metrics) SetLive(side string, live int64) {
	if m == nil {
		return
	}
	m.live.WithLabelValues(side).Set(float64(live))
}
