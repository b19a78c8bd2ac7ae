// Package metrics owns the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dockhand"

// Outcome label values shared by the counters below.
const (
	OutcomeOK        = "ok"
	OutcomeDegraded  = "degraded"
	OutcomeError     = "error"
	OutcomeForbidden = "forbidden"
	OutcomeNotFound  = "not_found"
)

// Metrics bundles every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	sidebarResolutions *prometheus.CounterVec
	settingsLookups    *prometheus.CounterVec
	settingsFetches    *prometheus.CounterVec
	templateDeletes    *prometheus.CounterVec
}

// New creates collectors on a private registry that also carries the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		sidebarResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "nav",
			Name:      "sidebar_resolutions_total",
			Help:      "Sidebar resolutions by outcome; degraded means an upstream signal fell back to fail-closed.",
		}, []string{"outcome"}),
		settingsLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "cache_lookups_total",
			Help:      "Public settings cache lookups by layer and result.",
		}, []string{"layer", "result"}),
		settingsFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "fetches_total",
			Help:      "Public settings loads from the database by result and error class.",
		}, []string{"result", "error_class"}),
		templateDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "templates",
			Name:      "deletes_total",
			Help:      "Custom template delete attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.sidebarResolutions,
		m.settingsLookups,
		m.settingsFetches,
		m.templateDeletes,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTP records one served request. route is the mux pattern, never the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SidebarResolved counts a sidebar resolution.
func (m *Metrics) SidebarResolved(outcome string) {
	if m == nil {
		return
	}
	m.sidebarResolutions.WithLabelValues(outcome).Inc()
}

// SettingsLookup counts a cache lookup; layer is "local" or "shared".
func (m *Metrics) SettingsLookup(layer, result string) {
	if m == nil {
		return
	}
	m.settingsLookups.WithLabelValues(layer, result).Inc()
}

// SettingsFetched counts a database load; errorClass is empty on success.
func (m *Metrics) SettingsFetched(errorClass string) {
	if m == nil {
		return
	}
	result := OutcomeOK
	if errorClass != "" {
		result = OutcomeError
	}
	m.settingsFetches.WithLabelValues(result, errorClass).Inc()
}

// TemplateDeleted counts a delete attempt.
func (m *Metrics) TemplateDeleted(outcome string) {
	if m == nil {
		return
	}
	m.templateDeletes.WithLabelValues(outcome).Inc()
}
