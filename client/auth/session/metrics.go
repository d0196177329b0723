package session

import (
	"errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess      = "success"
	outcomeFailure      = "failure"
	outcomeUnauthorized = "unauthorized"
	outcomeStale        = "stale"

	reasonExplicit     = "explicit"
	reasonLogout       = "logout"
	reasonUnauthorized = "unauthorized"
)

type metrics struct {
	fetches *prometheus.CounterVec
	clears  *prometheus.CounterVec
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	return &metrics{
		fetches: register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "caseflow",
				Subsystem: "session",
				Name:      "identity_fetch_total",
				Help:      "Total number of completed identity fetches by outcome",
			},
			[]string{"outcome"},
		)),
		clears: register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "caseflow",
				Subsystem: "session",
				Name:      "credential_cleared_total",
				Help:      "Total number of credential clears by reason",
			},
			[]string{"reason"},
		)),
	}
}

func register(registerer prometheus.Registerer, counter *prometheus.CounterVec) *prometheus.CounterVec {
	if registerer == nil {
		return counter
	}
	if err := registerer.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return counter
}

func (m *metrics) fetched(outcome string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
}

func (m *metrics) cleared(reason string) {
	if m == nil {
		return
	}
	m.clears.WithLabelValues(reason).Inc()
}
