/*
Package deploy runs the end-to-end apply pipeline for workload
configurations.

The deploy package ties the other stages together: a configuration is
validated (and optionally healed), the healed text is simulated against
a resource capacity, and only a configuration that survives both gates
is persisted as a snapshot. A configuration that validates but fails
simulation triggers a rollback to the newest snapshot instead, so the
store always points at the last configuration that was actually safe to
deploy.

# Architecture

	┌────────────────── APPLY PIPELINE ───────────────────┐
	│                                                      │
	│  configYAML                                          │
	│      │                                               │
	│  ┌───▼────────────────────────────────┐              │
	│  │  Pre-check (healer.ValidateAndHeal)│              │
	│  │  - validation suite                │              │
	│  │  - auto-fixes when enabled         │              │
	│  │  - re-validation of healed text    │              │
	│  └───┬────────────────────────────────┘              │
	│      │ not valid → report.Error = "precheck_failed"  │
	│      │                                               │
	│  ┌───▼────────────────────────────────┐              │
	│  │  Simulation (simulator.Simulate)   │              │
	│  │  - dependency-ordered start plan   │              │
	│  │  - capacity admission per start    │              │
	│  └───┬───────────────────┬────────────┘              │
	│      │ success           │ failure                   │
	│  ┌───▼────────────┐  ┌───▼─────────────────────┐     │
	│  │ snapshot.Save  │  │ snapshot.RollbackTo-    │     │
	│  │ healed config  │  │ Latest → RollbackInfo   │     │
	│  └────────────────┘  └─────────────────────────┘     │
	│                                                      │
	└──────────────────────────────────────────────────────┘

Every stage outcome lands on the ApplyReport: the pre-check result, the
simulation result, the snapshot path or error, and the rollback record.
Apply never returns a Go error; callers branch on the report fields.

# Stage Outcomes

A run ends in exactly one of these states:

  - Accepted: pre-check valid, simulation succeeded, snapshot written.
    SnapshotPath names the stored file.
  - Pre-check failed: the configuration (healed or not) is still
    invalid. Error is "precheck_failed" and no simulation runs.
  - Rolled back: simulation failed and a previous snapshot existed.
    Rollback.Restored is true and RestoredConfig carries the
    known-good text for the caller to re-apply.
  - Failed without restore: simulation failed and the store was empty.
    Rollback.Restored is false with the store error recorded.

The snapshot stored on success is the healed configuration, not the
caller's input, so a later rollback restores text that already passes
validation.

# Events

When a broker is attached, Apply publishes the pipeline milestones:
validation.completed, healing.applied, simulation.completed,
snapshot.created, and rollback.triggered. A nil broker disables
publishing without changing pipeline behavior.

# Usage

	store := snapshot.NewFileStore(snapshot.DefaultDir("."))
	mgr := deploy.NewManager(nil, types.DefaultCapacity, store, nil)

	report := mgr.Apply(configYAML, true)
	switch {
	case report.Error != "":
		// pre-check failed, nothing was deployed
	case report.Simulation.Success:
		fmt.Println("accepted:", report.SnapshotPath)
	case report.Rollback != nil && report.Rollback.Restored:
		fmt.Println("rolled back to", report.Rollback.SnapshotPath)
	}

# Integration Points

The deploy package integrates with:
  - pkg/healer: validation and auto-healing pre-check
  - pkg/simulator: capacity-bounded deployment simulation
  - pkg/snapshot: known-good persistence and rollback
  - pkg/events: pipeline milestone publishing
  - cmd/preflight: the apply and watch commands drive this pipeline
*/
package deploy
