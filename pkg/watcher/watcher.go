package watcher

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cuemby/preflight/pkg/events"
	"github.com/cuemby/preflight/pkg/log"
	"github.com/cuemby/preflight/pkg/metrics"
	"github.com/cuemby/preflight/pkg/types"
	"github.com/cuemby/preflight/pkg/validator"
	"github.com/rs/zerolog"
)

// DefaultInterval is the poll interval used when Config leaves it unset.
const DefaultInterval = 10 * time.Second

// Config holds watcher configuration
type Config struct {
	Path     string                  // configuration file to watch (required)
	Interval time.Duration           // poll interval (default DefaultInterval)
	Running  []types.RunningWorkload // already-deployed workloads for conflict checks
	Broker   *events.Broker          // optional event publishing
}

// Watcher polls a configuration file and re-runs the validation suite
// whenever its content digest changes.
type Watcher struct {
	path     string
	interval time.Duration
	runner   *validator.Runner
	broker   *events.Broker
	logger   zerolog.Logger

	mu         sync.RWMutex
	lastSHA    string
	lastCheck  time.Time
	lastReport *types.ValidationReport

	stopCh chan struct{}
	doneCh chan struct{}
}

// Status is a point-in-time view of the watcher for the status
// endpoint and callers polling programmatically.
type Status struct {
	Path      string                  `json:"path"`
	SHA256    string                  `json:"sha256,omitempty"`
	LastCheck time.Time               `json:"last_check"`
	Valid     bool                    `json:"valid"`
	Report    *types.ValidationReport `json:"report,omitempty"`
}

// NewWatcher creates a new watcher instance
func NewWatcher(cfg *Config) (*Watcher, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.New("watcher: config file path is required")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Watcher{
		path:     cfg.Path,
		interval: interval,
		runner:   validator.NewRunner(cfg.Running),
		broker:   cfg.Broker,
		logger:   log.WithComponent("watcher"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins the poll loop
func (w *Watcher) Start() {
	go w.run()
}

// Stop stops the watcher and waits for the loop to exit
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// Status returns the most recent observation. Valid is false until the
// first successful check completes.
func (w *Watcher) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()

	valid := w.lastReport != nil && w.lastReport.Valid()
	return Status{
		Path:      w.path,
		SHA256:    w.lastSHA,
		LastCheck: w.lastCheck,
		Valid:     valid,
		Report:    w.lastReport,
	}
}

// run is the main poll loop
func (w *Watcher) run() {
	defer close(w.doneCh)

	metrics.RegisterComponent("watcher", true, "poll loop running")
	w.logger.Info().Str("path", w.path).Dur("interval", w.interval).Msg("watching configuration")

	// First pass runs immediately so status is populated before the
	// first tick.
	w.CheckNow()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.CheckNow()
		case <-w.stopCh:
			return
		}
	}
}

// CheckNow performs one poll cycle outside the ticker: read the file,
// compare digests, and validate when the content changed. The first
// read validates but does not count as a reload.
func (w *Watcher) CheckNow() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Error().Err(err).Str("path", w.path).Msg("configuration read failed")
		metrics.UpdateComponent("watcher", false, fmt.Sprintf("read %s: %v", w.path, err))
		return
	}
	metrics.UpdateComponent("watcher", true, "poll loop running")

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	w.mu.RLock()
	previous := w.lastSHA
	w.mu.RUnlock()
	if digest == previous {
		return
	}

	if previous != "" {
		metrics.WatchReloads.Inc()
		w.publish(events.EventConfigChanged, "Configuration file changed",
			"path", w.path,
			"sha256", digest,
		)
		w.logger.Info().Str("path", w.path).Str("sha256", digest).Msg("configuration changed, re-validating")
	}

	report := w.runner.Validate(string(data))
	metrics.UpdateComponent("validator", true, "suite completed")

	w.mu.Lock()
	w.lastSHA = digest
	w.lastCheck = time.Now()
	w.lastReport = report
	w.mu.Unlock()

	w.publish(events.EventValidationCompleted, "Validation suite completed",
		"status", string(report.OverallStatus),
		"errors", strconv.Itoa(report.Summary.TotalErrors),
		"warnings", strconv.Itoa(report.Summary.TotalWarnings),
	)

	if report.Valid() {
		w.logger.Info().Str("path", w.path).Msg("configuration valid")
	} else {
		w.logger.Warn().
			Str("path", w.path).
			Int("errors", report.Summary.TotalErrors).
			Int("warnings", report.Summary.TotalWarnings).
			Msg("configuration invalid")
	}
}

// publish sends an event when a broker is attached. kv pairs become
// event metadata.
func (w *Watcher) publish(eventType events.EventType, message string, kv ...string) {
	if w.broker == nil {
		return
	}
	ev := events.New(eventType, message)
	for i := 0; i+1 < len(kv); i += 2 {
		ev.Metadata[kv[i]] = kv[i+1]
	}
	w.broker.Publish(ev)
}
