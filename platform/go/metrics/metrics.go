// Package metrics registers the Prometheus instruments exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIMetrics holds all Prometheus metrics for the API server.
type APIMetrics struct {
	LoginsTotal          *prometheus.CounterVec
	BookingsCreatedTotal *prometheus.CounterVec
	RequestsTotal        *prometheus.CounterVec
}

// NewAPIMetrics initializes and registers the Prometheus metrics on a
// dedicated registry so tests can construct metrics repeatedly.
func NewAPIMetrics(reg *prometheus.Registry) *APIMetrics {
	factory := promauto.With(reg)
	return &APIMetrics{
		LoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotwise",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total login attempts by result.",
		}, []string{"result"}), // result: success, invalid_credentials, invalid_tenant, error
		BookingsCreatedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotwise",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Total bookings created by channel.",
		}, []string{"channel"}), // channel: dashboard, widget
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotwise",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method and status.",
		}, []string{"method", "status"}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
