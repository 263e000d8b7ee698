/*
Package metrics provides Prometheus metrics collection and exposition for Preflight.

The metrics package defines and registers all Preflight metrics using the
Prometheus client library, providing observability into validation outcomes,
healing activity, simulation results, snapshot churn, and host resource usage.
Metrics are exposed via HTTP endpoint for scraping by Prometheus servers.

# Architecture

	┌──────────────────── METRICS SYSTEM ─────────────────────┐
	│                                                          │
	│  ┌────────────────────────────────────────────┐          │
	│  │          Prometheus Registry               │          │
	│  │  - Global DefaultRegistry                  │          │
	│  │  - MustRegister at package init            │          │
	│  │  - Automatic Go runtime metrics            │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                    │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Metric Categories                │          │
	│  │                                            │          │
	│  │  Validation: runs, duration, issues,       │          │
	│  │              config validity gauge         │          │
	│  │  Healing: pipeline runs, fixes applied     │          │
	│  │  Simulation: runs by outcome               │          │
	│  │  Snapshots: saves, rollbacks, retained     │          │
	│  │  Watch: reloads picked up                  │          │
	│  │  Host: CPU percent, memory used            │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                    │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          HTTP Metrics Endpoint             │          │
	│  │  - Path: /metrics                          │          │
	│  │  - Format: Prometheus text exposition      │          │
	│  │  - Handler: promhttp.Handler()             │          │
	│  └────────────────────────────────────────────┘          │
	└──────────────────────────────────────────────────────────┘

# Metric Naming

All metrics carry the preflight_ prefix and follow Prometheus
conventions: _total suffix on counters, _seconds on histograms, plain
nouns for gauges:

	preflight_validations_total
	preflight_validation_duration_seconds
	preflight_issues_detected_total{type, severity}
	preflight_config_valid
	preflight_healings_total
	preflight_fixes_applied_total
	preflight_simulations_total{outcome}
	preflight_snapshots_saved_total
	preflight_rollbacks_total
	preflight_watch_reloads_total
	preflight_host_cpu_percent
	preflight_host_memory_used_bytes
	preflight_snapshot_files

# Usage

Recording measurements:

	timer := metrics.NewTimer()
	report := runner.Validate(text)
	timer.ObserveDuration(metrics.ValidationDuration)
	metrics.ValidationsTotal.Inc()

Serving the endpoint (watch mode):

	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", metrics.HealthHandler())
	mux.HandleFunc("/readyz", metrics.ReadyHandler())

Sampling host state:

	collector := metrics.NewCollector(snapshotStore)
	collector.Start()
	defer collector.Stop()

# Health Checking

The package also tracks component health for the /healthz and /readyz
endpoints. Components register themselves and update their status:

	metrics.RegisterComponent("watcher", true, "")
	metrics.UpdateComponent("watcher", false, "config file unreadable")

Readiness requires the watcher and validator components to be
registered and healthy; health reports any registered component that
is down.

# One-Shot Commands

CLI commands that run once (validate, heal, apply) still count into
the default registry even though nothing scrapes them. The cost is a
few atomic increments; keeping the call sites unconditional means
watch mode and one-shot mode exercise identical code paths.
*/
package metrics
