package deploy

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cuemby/preflight/pkg/events"
	"github.com/cuemby/preflight/pkg/healer"
	"github.com/cuemby/preflight/pkg/log"
	"github.com/cuemby/preflight/pkg/simulator"
	"github.com/cuemby/preflight/pkg/snapshot"
	"github.com/cuemby/preflight/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager runs the apply pipeline: validate and heal, simulate, then
// snapshot the accepted configuration or roll back to the last
// known-good one. The snapshot store must be non-nil; the broker is
// optional and nil disables event publishing.
type Manager struct {
	healer *healer.Healer
	sim    *simulator.Simulator
	store  *snapshot.FileStore
	broker *events.Broker
	logger zerolog.Logger
}

// NewManager assembles the pipeline. running seeds validation with
// already-deployed workloads; capacity bounds the simulation.
func NewManager(running []types.RunningWorkload, capacity types.Capacity, store *snapshot.FileStore, broker *events.Broker) *Manager {
	return &Manager{
		healer: healer.New(running),
		sim:    simulator.New(capacity),
		store:  store,
		broker: broker,
		logger: log.WithComponent("deploy"),
	}
}

// Apply runs the full pipeline on configYAML and reports every stage.
//
// The pre-check validates and, when autoHeal is set, heals the
// configuration; a pre-check that does not end in a valid config stops
// the run with Error "precheck_failed". The healed text is then
// simulated: success stores it as a snapshot, failure restores the
// newest snapshot instead. Apply never returns an error; failures are
// recorded on the report.
func (m *Manager) Apply(configYAML string, autoHeal bool) *types.ApplyReport {
	report := &types.ApplyReport{ID: uuid.New().String()}

	pre := m.healer.ValidateAndHeal(configYAML, autoHeal)
	report.PreCheck = pre

	if pre.ValidationReport != nil {
		m.publish(events.EventValidationCompleted, "Validation suite completed",
			"status", string(pre.ValidationReport.OverallStatus),
			"errors", strconv.Itoa(pre.ValidationReport.Summary.TotalErrors),
			"warnings", strconv.Itoa(pre.ValidationReport.Summary.TotalWarnings),
		)
	}
	if pre.Healed {
		fixes := len(pre.HealingReport.Logs) - 1 // minus the trailing summary line
		if fixes < 0 {
			fixes = 0
		}
		m.publish(events.EventHealingApplied, "Auto-healing applied fixes",
			"fixes", strconv.Itoa(fixes),
		)
	}

	if !pre.Success {
		report.Error = "precheck_failed"
		m.logger.Warn().Str("id", report.ID).Str("status", string(pre.DeploymentStatus)).Msg("apply aborted: pre-check failed")
		return report
	}

	sim, err := m.sim.SimulateYAML(pre.Config)
	if err != nil {
		// Validation passed, so the healed text parses; this guards the
		// pipeline against regressions all the same.
		report.Error = fmt.Sprintf("simulation_error: %v", err)
		m.logger.Error().Err(err).Str("id", report.ID).Msg("apply aborted: simulation could not run")
		return report
	}
	report.Simulation = sim
	m.publish(events.EventSimulationCompleted, "Deployment simulation completed",
		"success", strconv.FormatBool(sim.Success),
		"issues", strconv.Itoa(len(sim.Issues)),
	)

	if sim.Success {
		path, err := m.store.Save(pre.Config)
		if err != nil {
			report.SnapshotError = err.Error()
			m.logger.Error().Err(err).Str("id", report.ID).Msg("accepted config could not be snapshotted")
			return report
		}
		report.SnapshotPath = path
		m.publish(events.EventSnapshotCreated, "Snapshot saved", "path", path)
		m.logger.Info().Str("id", report.ID).Str("snapshot", path).Msg("apply accepted")
		return report
	}

	restored, path, err := m.store.RollbackToLatest()
	rollback := &types.RollbackInfo{}
	switch {
	case errors.Is(err, snapshot.ErrNoSnapshots):
		rollback.Error = err.Error()
		m.logger.Warn().Str("id", report.ID).Msg("simulation failed and no snapshot exists to restore")
	case err != nil:
		rollback.Error = err.Error()
		m.logger.Error().Err(err).Str("id", report.ID).Msg("rollback failed")
	default:
		rollback.Restored = true
		rollback.SnapshotPath = path
		rollback.RestoredConfig = restored
		m.publish(events.EventRollbackTriggered, "Rolled back to last known-good configuration",
			"path", path,
			"reason", "simulation_failed",
		)
		m.logger.Info().Str("id", report.ID).Str("snapshot", path).Msg("apply rolled back")
	}
	report.Rollback = rollback
	return report
}

// publish sends an event when a broker is attached. kv pairs become
// event metadata.
func (m *Manager) publish(eventType events.EventType, message string, kv ...string) {
	if m.broker == nil {
		return
	}
	ev := events.New(eventType, message)
	for i := 0; i+1 < len(kv); i += 2 {
		ev.Metadata[kv[i]] = kv[i+1]
	}
	m.broker.Publish(ev)
}
