/*
Package validator implements preflight's validation suite for workload
configurations.

The validator package runs four named checks over a declarative deployment
configuration and produces a structured report. Each check is independent:
a failure in one never prevents the others from running, and a panic inside
a check is converted into a failed test result rather than a crashed run.

# Architecture

	┌─────────────────── VALIDATION SUITE ───────────────────────┐
	│                                                             │
	│  YAML text ──► manifest.Parse (once, shared by all checks)  │
	│                                                             │
	│  ┌───────────────────────────────────────────────┐          │
	│  │ 1. Schema Validation                          │          │
	│  │    syntax, structure, naming, required fields │          │
	│  ├───────────────────────────────────────────────┤          │
	│  │ 2. Dependency Validation                      │          │
	│  │    self-references, missing dependencies      │          │
	│  ├───────────────────────────────────────────────┤          │
	│  │ 3. Circular Dependency Check                  │          │
	│  │    DFS cycle detection over the dep graph     │          │
	│  ├───────────────────────────────────────────────┤          │
	│  │ 4. Resource Conflict Detection                │          │
	│  │    host port collisions vs. running workloads │          │
	│  └───────────────────────────────────────────────┘          │
	│                        │                                    │
	│                        ▼                                    │
	│           types.ValidationReport (timestamp,                │
	│           per-test results, summary counts)                 │
	│                                                             │
	└─────────────────────────────────────────────────────────────┘

# Core Components

Runner:
  - Entry point for the whole suite
  - Holds the currently running workloads (for dependency resolution and
    port ownership) and a component logger
  - Validate(configText) parses once and fans out to the four checks

SchemaChecker:
  - Structural and field-level validation
  - Workload naming rules (no spaces, lowercase convention)
  - Required fields: runtime, agent; enumerated values for runtime and
    restartPolicy
  - runtimeConfig presence and image reference checks

DependencyAnalyzer:
  - Resolves each declared dependency against the configuration and the
    running workloads
  - Flags self-dependencies and references to nonexistent workloads
  - DetectCycles walks the dependency graph depth-first and reports each
    cycle as an explicit path (first node repeated at the end)

ConflictDetector:
  - Extracts host ports from runtimeConfig command lines and quoted
    mappings
  - Reports a conflict when a declared port is already owned by a
    different workload (running or earlier in the same document)

# Check Independence

Each check receives the shared parse result but degrades on its own terms
when the input is unparseable:

  - Schema Validation fails with SYNTAX_ERROR
  - Dependency Validation fails with YAML_ERROR
  - Circular Dependency Check is SKIPPED (no graph to walk)
  - Resource Conflict Detection fails with YAML_ERROR

A check that panics produces a single *_CHECK_FAILED issue carrying the
recovered value, so one buggy rule cannot take down a validation run.

# Report Semantics

A test is FAILED when it produced at least one ERROR issue; warnings alone
leave it PASSED. The report's OverallStatus is FAILED when any test failed.
Issue slices are always non-nil so encoded reports show [] rather than
null.

# Usage

	running, _ := manifest.ParseRunning(stateText)
	runner := validator.NewRunner(running)
	report := runner.Validate(configText)

	if !report.Valid() {
		for _, issue := range report.ErrorIssues() {
			fmt.Println(issue.Message)
		}
	}

# Integration Points

This package integrates with:

  - pkg/manifest: tolerant YAML parsing shared by all checks
  - pkg/healer: consumes ErrorIssues() to drive remediation
  - pkg/metrics: suite counters, duration histogram, per-issue counters
  - cmd/preflight: the validate command renders the report
*/
package validator
