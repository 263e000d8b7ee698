// Package simulator provides deployment dry runs for validated
// configurations.
//
// # Overview
//
// A simulation answers two questions before anything touches a
// cluster: in what order would the declared workloads start, and does
// the set fit the resource budget? The run produces a startup plan
// and a timeline of lifecycle events, never side effects.
//
//	┌───────────────┐     ┌──────────────┐     ┌──────────────────┐
//	│ Dependency    │────▶│ Startup plan │────▶│ Resource walk    │
//	│ graph (DFS)   │     │ (deps first) │     │ against capacity │
//	└───────────────┘     └──────────────┘     └──────────────────┘
//	       │                                           │
//	       ▼                                           ▼
//	 cycles abort the run                 overcommit fails the run
//	 with an empty plan                   with a partial timeline
//
// # Ordering Semantics
//
// Startup edges come from each workload's depends_on list; when that
// list is absent or empty, the keys of the dependencies mapping are
// used instead. The plan places every dependency before its
// dependents. References to workloads the document does not declare
// are reported in a single missing_dependency advisory and left out
// of the plan; they do not fail the run.
//
// # Resource Admission
//
// Workloads are admitted in plan order against the configured
// Capacity. Each one emits a "starting" event carrying the usage
// totals before its start and, if it fits, a "started" event with the
// totals after. The first workload that would push either total past
// capacity emits "failed_to_start" instead and ends the run
// immediately, so the timeline shows exactly how far the deployment
// would have gotten. Admission uses a strict comparison: filling the
// budget exactly is fine.
//
// # Usage
//
//	sim := simulator.New(types.Capacity{CPU: 8, Memory: 8192})
//	result, err := sim.SimulateYAML(configText)
//	if err != nil {
//	    // YAML syntax error
//	}
//	if !result.Success {
//	    for _, issue := range result.Issues {
//	        fmt.Println(issue.Message)
//	    }
//	}
//
// # Integration Points
//
// pkg/deploy gates every apply on a successful simulation of the
// healed configuration. The simulate CLI command exposes the same run
// directly, with the capacity taken from flags or from the host via
// gopsutil.
package simulator
