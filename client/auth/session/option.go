package session

import (
	"context"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"net/http"
)

type Option func(*Manager)

// WithLogger sets logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithContext sets parent context of background identity fetches
func WithContext(ctx context.Context) Option {
	return func(m *Manager) {
		m.ctx = ctx
	}
}

// WithInvalidator registers collaborators purged on logout
func WithInvalidator(invalidators ...Invalidator) Option {
	return func(m *Manager) {
		m.invalidators = append(m.invalidators, invalidators...)
	}
}

// WithMetrics registers session metrics with the registerer
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(m *Manager) {
		m.metrics = newMetrics(registerer)
	}
}

// WithUnauthorizedScope limits which 401 responses clear the credential
func WithUnauthorizedScope(scope func(req *http.Request) bool) Option {
	return func(m *Manager) {
		m.scope = scope
	}
}
