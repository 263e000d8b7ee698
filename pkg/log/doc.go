/*
Package log provides structured logging for Preflight using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper functions
for common logging patterns. All logs include timestamps and support filtering
by severity level.

# Architecture

	┌───────────────────── LOGGING SYSTEM ─────────────────────┐
	│                                                           │
	│  ┌────────────────────────────────────────────┐           │
	│  │            Global Logger                   │           │
	│  │  - Zerolog instance                        │           │
	│  │  - Initialized via log.Init()              │           │
	│  │  - Thread-safe for concurrent use          │           │
	│  └──────────────────┬─────────────────────────┘           │
	│                     │                                     │
	│  ┌──────────────────▼─────────────────────────┐           │
	│  │           Configuration                    │           │
	│  │  - Level: debug/info/warn/error            │           │
	│  │  - Format: JSON or console (human)         │           │
	│  │  - Output: stderr, file, or custom writer  │           │
	│  └──────────────────┬─────────────────────────┘           │
	│                     │                                     │
	│  ┌──────────────────▼─────────────────────────┐           │
	│  │         Component Loggers                  │           │
	│  │  - WithComponent("validator")              │           │
	│  │  - WithWorkload("frontend")                │           │
	│  │  - WithCheck("Schema Validation")          │           │
	│  │  - WithRunID("run-abc123")                 │           │
	│  └────────────────────────────────────────────┘           │
	└───────────────────────────────────────────────────────────┘

# Output Discipline

Preflight prints reports on stdout. Logs therefore default to stderr so
that

	preflight validate -f deploy.yaml --output json > report.json

produces a clean, parseable report regardless of log level. Pass a custom
Output writer to capture logs in tests.

# Usage

Initialize once at startup:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: false,
	})

Component logger for a subsystem:

	logger := log.WithComponent("healer")
	logger.Info().Str("workload", name).Msg("applied fix")

Quick helpers for one-off messages:

	log.Info("watch loop started")
	log.Errorf("snapshot save failed", err)

# Log Levels

  - debug: per-check traces, rule matching, port extraction detail
  - info: pipeline milestones (validation done, healing applied, snapshot saved)
  - warn: recoverable oddities (empty dependencies removed, placeholder image)
  - error: failed operations that surface in reports

# Integration Points

Used by every package that does work at runtime: pkg/validator,
pkg/healer, pkg/simulator, pkg/snapshot, pkg/deploy, pkg/watcher, and
cmd/preflight wire their loggers through WithComponent.
*/
package log
