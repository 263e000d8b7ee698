/*
Package watcher provides continuous validation of a configuration file.

The watcher polls a file on a fixed interval, hashes its content, and
re-runs the validation suite whenever the digest changes. The latest
report is held in memory for the status endpoint; counters and the
config-validity gauge track the history for scraping.

# Architecture

	┌──────────────────── WATCH MODE ─────────────────────┐
	│                                                     │
	│  ┌──────────────┐   digest   ┌───────────────────┐  │
	│  │  poll loop   │  changed   │  validator.Runner │  │
	│  │  (interval,  ├───────────►│  full suite run   │  │
	│  │  sha256)     │            └─────────┬─────────┘  │
	│  └──────┬───────┘                      │            │
	│         │ unchanged: skip              ▼            │
	│         │                   ┌───────────────────┐   │
	│         │                   │  Status (report,  │   │
	│         │                   │  digest, time)    │   │
	│         │                   └─────────┬─────────┘   │
	│         ▼                             ▼             │
	│  ┌──────────────────────────────────────────────┐   │
	│  │  StatusServer                                │   │
	│  │  /status /metrics /healthz /readyz /livez    │   │
	│  └──────────────────────────────────────────────┘   │
	│                                                     │
	└─────────────────────────────────────────────────────┘

The first read validates and populates the status but does not count
as a reload; only subsequent digest changes increment the reload
counter and publish config.changed. Every suite run publishes
validation.completed when a broker is attached.

An unreadable file marks the watcher component unhealthy and leaves
the previous status in place until the file becomes readable again.

# Usage

	w, err := watcher.NewWatcher(&watcher.Config{
		Path:     "config.yaml",
		Interval: 10 * time.Second,
	})
	if err != nil {
		return err
	}
	w.Start()
	defer w.Stop()

	srv := watcher.NewStatusServer(w)
	go srv.Start(":9464")

# Integration Points

The watcher package integrates with:
  - pkg/validator: the suite re-run on every content change
  - pkg/metrics: reload counter, component health, HTTP handlers
  - pkg/events: config.changed and validation.completed publishing
  - cmd/preflight: the watch command assembles watcher and server
*/
package watcher
