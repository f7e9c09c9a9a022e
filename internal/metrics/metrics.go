// Package metrics exposes Prometheus metrics for the CertSight Agent.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the agent's Prometheus collectors on a private registry,
// so tests can create isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	// CheckTotal counts certificate checks by result ("success" or the
	// error kind).
	CheckTotal *prometheus.CounterVec

	// CheckDuration tracks the duration of individual checks.
	CheckDuration prometheus.Histogram

	// ScanDuration tracks the duration of whole scan rounds.
	ScanDuration prometheus.Histogram

	// TargetUp tracks whether the last check of a target succeeded.
	TargetUp *prometheus.GaugeVec

	// ExpirySeconds tracks certificate expiry as a Unix timestamp.
	ExpirySeconds *prometheus.GaugeVec

	// DaysUntilExpiry tracks days until a target's certificate expires.
	DaysUntilExpiry *prometheus.GaugeVec

	// TargetsConfigured tracks the number of configured targets.
	TargetsConfigured prometheus.Gauge

	// ReportTotal counts result deliveries by status.
	ReportTotal *prometheus.CounterVec

	// AgentInfo carries agent metadata as labels.
	AgentInfo *prometheus.GaugeVec
}

// New creates the agent metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		CheckTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "certsight",
			Subsystem: "agent",
			Name:      "check_total",
			Help:      "Total number of certificate checks by result",
		}, []string{"result"}),

		CheckDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "certsight",
			Subsystem: "agent",
			Name:      "check_duration_seconds",
			Help:      "Duration of individual certificate checks in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "certsight",
			Subsystem: "agent",
			Name:      "scan_duration_seconds",
			Help:      "Duration of full scan rounds in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		TargetUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "certsight",
			Subsystem: "agent",
			Name:      "target_up",
			Help:      "Whether the last check of the target succeeded (1=up, 0=down)",
		}, []string{"target"}),

		ExpirySeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "certsight",
			Subsystem: "agent",
			Name:      "certificate_expiry_seconds",
			Help:      "Unix timestamp of certificate expiry",
		}, []string{"target"}),

		DaysUntilExpiry: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "certsight",
			Subsystem: "agent",
			Name:      "certificate_days_until_expiry",
			Help:      "Days until the target's certificate expires",
		}, []string{"target"}),

		TargetsConfigured: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "certsight",
			Subsystem: "agent",
			Name:      "targets_configured",
			Help:      "Number of targets being observed",
		}),

		ReportTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "certsight",
			Subsystem: "agent",
			Name:      "report_total",
			Help:      "Total number of result deliveries by status",
		}, []string{"status"}),

		AgentInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "certsight",
			Subsystem: "agent",
			Name:      "info",
			Help:      "Agent information",
		}, []string{"version", "name"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.CheckTotal,
		m.CheckDuration,
		m.ScanDuration,
		m.TargetUp,
		m.ExpirySeconds,
		m.DaysUntilExpiry,
		m.TargetsConfigured,
		m.ReportTotal,
		m.AgentInfo,
	)

	return m
}

// Handler returns the exposition handler for the agent registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
