/*
Package types defines the core data structures used throughout Preflight.

This package contains the issue taxonomy, test and report shapes, healing
results, simulation outcomes, and apply records that every other package
produces or consumes. All types are JSON-serializable with snake_case keys
because reports are the tool's primary output.

# Architecture

The types package is the foundation of Preflight's data model. It defines:

  - Issue: a single validation or simulation finding
  - TestResult / ValidationReport: the output of the validation suite
  - HealingResult / HealingReport: the output of the healing pipeline
  - SimulationResult / TimelineEvent: the output of a deployment dry run
  - ApplyReport / RollbackInfo: the record of a full apply flow
  - Capacity / RunningWorkload: inputs to simulation and conflict checks

# Issue Taxonomy

Validation issues carry uppercase type tags (SYNTAX_ERROR, MISSING_FIELD,
CIRCULAR_DEPENDENCY, PORT_CONFLICT, ...) and a severity. Simulation issues
carry lowercase tags (circular_dependency, resource_overcommit,
missing_dependency) and no severity; a simulation either admits a plan or
it does not.

Only ERROR-severity issues block deployment. WARNING issues (naming
conventions, missing runtimeConfig) are reported but never fail a test on
their own, and the healer never receives them.

# Report Semantics

A ValidationReport aggregates four named tests. Its OverallStatus is
PASSED when no test FAILED; a SKIPPED test (for example cycle detection
skipped after a dependency-graph panic) does not fail the report.

A HealingResult's Config field always holds deployable text: the healed
configuration when healing changed anything, otherwise the input text
byte-for-byte. Healed is an exact textual comparison, so re-healing an
already-valid configuration reports Healed=false.

# Usage

Inspecting a report:

	report := runner.Validate(configText)
	if !report.Valid() {
		for _, issue := range report.ErrorIssues() {
			fmt.Printf("%s: %s\n", issue.Type, issue.Message)
		}
	}

Reading a healing outcome:

	result := h.ValidateAndHeal(configText, true)
	switch result.DeploymentStatus {
	case types.DeploymentStatusReady:
		// deploy result.Config
	case types.DeploymentStatusHealingRequired:
		// healed but still invalid; inspect result.HealingReport
	case types.DeploymentStatusFailed:
		// nothing could be fixed
	}

# See Also

  - pkg/validator for the checks that produce Issues
  - pkg/healer for the pipeline that produces HealingResults
  - pkg/simulator for SimulationResults and timelines
  - pkg/deploy for ApplyReports
*/
package types
