package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Validation metrics
	ValidationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "preflight_validations_total",
			Help: "Total number of validation suite runs",
		},
	)

	ValidationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "preflight_validation_duration_seconds",
			Help:    "Validation suite duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	IssuesDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preflight_issues_detected_total",
			Help: "Total number of issues detected by type and severity",
		},
		[]string{"type", "severity"},
	)

	ConfigValid = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "preflight_config_valid",
			Help: "Whether the most recently validated configuration passed (1 = valid, 0 = invalid)",
		},
	)

	// Healing metrics
	HealingsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "preflight_healings_total",
			Help: "Total number of healing pipeline runs",
		},
	)

	FixesApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "preflight_fixes_applied_total",
			Help: "Total number of remediation log entries recorded",
		},
	)

	// Simulation metrics
	SimulationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preflight_simulations_total",
			Help: "Total number of deployment simulations by outcome",
		},
		[]string{"outcome"},
	)

	// Snapshot metrics
	SnapshotsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "preflight_snapshots_saved_total",
			Help: "Total number of configuration snapshots written",
		},
	)

	RollbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "preflight_rollbacks_total",
			Help: "Total number of rollbacks performed after failed simulations",
		},
	)

	// Watch metrics
	WatchReloads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "preflight_watch_reloads_total",
			Help: "Total number of configuration changes picked up by watch mode",
		},
	)

	// Host metrics sampled by the collector
	HostCPUPercent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "preflight_host_cpu_percent",
			Help: "Host CPU utilization percentage",
		},
	)

	HostMemoryUsedBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "preflight_host_memory_used_bytes",
			Help: "Host memory in use in bytes",
		},
	)

	SnapshotFiles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "preflight_snapshot_files",
			Help: "Number of snapshots currently retained on disk",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(ValidationsTotal)
	prometheus.MustRegister(ValidationDuration)
	prometheus.MustRegister(IssuesDetected)
	prometheus.MustRegister(ConfigValid)
	prometheus.MustRegister(HealingsTotal)
	prometheus.MustRegister(FixesApplied)
	prometheus.MustRegister(SimulationsTotal)
	prometheus.MustRegister(SnapshotsSaved)
	prometheus.MustRegister(RollbacksTotal)
	prometheus.MustRegister(WatchReloads)
	prometheus.MustRegister(HostCPUPercent)
	prometheus.MustRegister(HostMemoryUsedBytes)
	prometheus.MustRegister(SnapshotFiles)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
