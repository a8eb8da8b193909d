// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application's collectors. A nil *Metrics is valid and
// records nothing, which keeps tests and tools free of registry setup.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	notificationsTotal *prometheus.CounterVec

	jobRunsTotal   *prometheus.CounterVec
	jobRunDuration *prometheus.HistogramVec

	authRateLimited prometheus.Counter
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nurture_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status_code"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nurture_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nurture_notifications_total",
			Help: "Notification delivery attempts by kind and status",
		},
		[]string{"kind", "status"}, // status: success, error
	)
	m.jobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nurture_scheduler_job_runs_total",
			Help: "Scheduled job runs by job and status",
		},
		[]string{"job", "status"},
	)
	m.jobRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nurture_scheduler_job_duration_seconds",
			Help:    "Time taken by scheduled job runs",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"job"},
	)
	m.authRateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nurture_auth_rate_limited_total",
		Help: "Requests rejected by the per-IP auth rate limiter",
	})

	for _, c := range []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.notificationsTotal,
		m.jobRunsTotal,
		m.jobRunDuration,
		m.authRateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, fmt.Sprint(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordNotification records one notification delivery attempt.
func (m *Metrics) RecordNotification(kind string, ok bool) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(kind, status(ok)).Inc()
}

// RecordJobRun records one scheduled job run.
func (m *Metrics) RecordJobRun(job string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	m.jobRunsTotal.WithLabelValues(job, status(ok)).Inc()
	m.jobRunDuration.WithLabelValues(job).Observe(d.Seconds())
}

// RecordRateLimited counts a request rejected by the auth rate limiter.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.authRateLimited.Inc()
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
