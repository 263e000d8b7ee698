package types

import "time"

// IssueType classifies a finding produced by validation or simulation.
//
// Validation tags are uppercase; simulation tags are lowercase. The two
// sets never mix in one report.
type IssueType string

const (
	// Schema checker findings
	IssueTypeSyntaxError    IssueType = "SYNTAX_ERROR"
	IssueTypeStructureError IssueType = "STRUCTURE_ERROR"
	IssueTypeMissingSection IssueType = "MISSING_SECTION"
	IssueTypeNamingError    IssueType = "NAMING_ERROR"
	IssueTypeNamingWarning  IssueType = "NAMING_WARNING"
	IssueTypeMissingField   IssueType = "MISSING_FIELD"
	IssueTypeInvalidValue   IssueType = "INVALID_VALUE"
	IssueTypeMissingImage   IssueType = "MISSING_IMAGE"

	// Dependency analyzer findings
	IssueTypeYAMLError          IssueType = "YAML_ERROR"
	IssueTypeInvalidConfig      IssueType = "INVALID_CONFIG"
	IssueTypeSelfDependency     IssueType = "SELF_DEPENDENCY"
	IssueTypeMissingDependency  IssueType = "MISSING_DEPENDENCY"
	IssueTypeCircularDependency IssueType = "CIRCULAR_DEPENDENCY"

	// Conflict detector findings
	IssueTypePortConflict IssueType = "PORT_CONFLICT"

	// Emitted when a checker panics; the suite recovers and records the
	// failure instead of crashing.
	IssueTypeSchemaCheckFailed     IssueType = "SCHEMA_CHECK_FAILED"
	IssueTypeDependencyCheckFailed IssueType = "DEPENDENCY_CHECK_FAILED"
	IssueTypeCycleCheckFailed      IssueType = "CYCLE_CHECK_FAILED"
	IssueTypeConflictCheckFailed   IssueType = "CONFLICT_CHECK_FAILED"

	// Simulation findings
	IssueTypeSimCircularDependency IssueType = "circular_dependency"
	IssueTypeSimMissingDependency  IssueType = "missing_dependency"
	IssueTypeSimResourceOvercommit IssueType = "resource_overcommit"
)

// Severity ranks a finding. Only ERROR findings block deployment and
// only ERROR findings are handed to the healer.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Issue is a single finding. Optional fields are populated per type:
// cycle detection fills Cycle, port conflicts fill Port and
// ConflictingWorkload, missing-workload advisories fill Nodes.
type Issue struct {
	Type                IssueType  `json:"type"`
	Severity            Severity   `json:"severity,omitempty"`
	Workload            string     `json:"workload,omitempty"`
	Dependency          string     `json:"dependency,omitempty"`
	Message             string     `json:"message"`
	Cycle               []string   `json:"cycle,omitempty"`
	Cycles              [][]string `json:"cycles,omitempty"`
	Nodes               []string   `json:"nodes,omitempty"`
	Port                int        `json:"port,omitempty"`
	ConflictingWorkload string     `json:"conflicting_workload,omitempty"`
	Recommendation      string     `json:"recommendation,omitempty"`
}

// IsError reports whether the issue blocks deployment.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError
}

// TestStatus is the outcome of one named validation test.
type TestStatus string

const (
	TestPassed  TestStatus = "PASSED"
	TestFailed  TestStatus = "FAILED"
	TestSkipped TestStatus = "SKIPPED"
)

// TestResult captures one validation test run.
type TestResult struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Status       TestStatus `json:"status"`
	Issues       []Issue    `json:"issues"`
	ErrorCount   int        `json:"error_count"`
	WarningCount int        `json:"warning_count"`
	DurationMS   int64      `json:"duration_ms"`
}

// ReportSummary aggregates counts across all tests in a report.
type ReportSummary struct {
	TotalTests      int   `json:"total_tests"`
	Passed          int   `json:"passed"`
	Failed          int   `json:"failed"`
	Skipped         int   `json:"skipped"`
	TotalErrors     int   `json:"total_errors"`
	TotalWarnings   int   `json:"total_warnings"`
	TotalDurationMS int64 `json:"total_duration_ms"`
}

// ValidationReport is the result of running the full validation suite.
// OverallStatus is PASSED when no test FAILED; SKIPPED tests do not
// fail the report.
type ValidationReport struct {
	Timestamp     time.Time     `json:"timestamp"`
	OverallStatus TestStatus    `json:"overall_status"`
	Tests         []TestResult  `json:"tests"`
	Summary       ReportSummary `json:"summary"`
}

// Valid reports whether the configuration passed validation.
func (r *ValidationReport) Valid() bool {
	return r.OverallStatus == TestPassed
}

// ErrorIssues returns every ERROR finding across all tests, in report
// order. This is the healer's work queue.
func (r *ValidationReport) ErrorIssues() []Issue {
	var issues []Issue
	for _, t := range r.Tests {
		for _, issue := range t.Issues {
			if issue.IsError() {
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

// DeploymentStatus summarizes the pipeline outcome for callers that
// only need a coarse verdict.
type DeploymentStatus string

const (
	DeploymentStatusReady           DeploymentStatus = "ready"
	DeploymentStatusHealingRequired DeploymentStatus = "healing_required"
	DeploymentStatusFailed          DeploymentStatus = "failed"
)

// HealingReport records what the healer did to a configuration.
type HealingReport struct {
	Attempted       bool     `json:"attempted"`
	Logs            []string `json:"logs"`
	RemainingIssues []Issue  `json:"remaining_issues,omitempty"`
}

// HealingResult is the outcome of the validate, heal, re-validate
// pipeline. Config always holds deployable text: the healed version
// when healing changed anything, otherwise the input unchanged.
type HealingResult struct {
	Success          bool              `json:"success"`
	OriginalValid    bool              `json:"original_valid"`
	Healed           bool              `json:"healed"`
	FinalValid       bool              `json:"final_valid"`
	Config           string            `json:"config"`
	ValidationReport *ValidationReport `json:"validation_report"`
	HealedValidation *ValidationReport `json:"healed_validation,omitempty"`
	HealingReport    HealingReport     `json:"healing_report"`
	DeploymentStatus DeploymentStatus  `json:"deployment_status"`
	Error            string            `json:"error,omitempty"`
}

// Capacity is the resource budget a simulation admits workloads
// against. The zero value means "use DefaultCapacity".
type Capacity struct {
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
}

// DefaultCapacity is intentionally huge so that resource admission
// never interferes unless the caller sets a real budget.
var DefaultCapacity = Capacity{CPU: 1e6, Memory: 1e9}

// TimelineEventType identifies a simulated lifecycle transition.
type TimelineEventType string

const (
	TimelineStarting      TimelineEventType = "starting"
	TimelineStarted       TimelineEventType = "started"
	TimelineFailedToStart TimelineEventType = "failed_to_start"
)

// TimelineEvent is one entry in a simulated startup timeline. UsedCPU
// and UsedMemory are the cumulative totals before the start for
// "starting" events and after it for "started" events. Note carries
// the failure reason on "failed_to_start".
type TimelineEvent struct {
	Event      TimelineEventType `json:"event"`
	Service    string            `json:"service"`
	Timestamp  time.Time         `json:"timestamp"`
	CPU        float64           `json:"cpu"`
	Memory     float64           `json:"memory"`
	UsedCPU    float64           `json:"used_cpu"`
	UsedMemory float64           `json:"used_memory"`
	Note       string            `json:"note,omitempty"`
}

// SimulationResult is the outcome of a deployment dry run.
type SimulationResult struct {
	Success   bool            `json:"success"`
	Issues    []Issue         `json:"issues"`
	PlanOrder []string        `json:"plan_order"`
	Timeline  []TimelineEvent `json:"timeline"`
}

// RunningWorkload describes an already-deployed workload whose claimed
// ports must be respected during conflict detection.
type RunningWorkload struct {
	Name          string `json:"name" yaml:"name"`
	RuntimeConfig string `json:"runtimeConfig" yaml:"runtimeConfig"`
}

// RollbackInfo records the outcome of a rollback attempt after a
// failed simulation.
type RollbackInfo struct {
	Restored       bool   `json:"restored"`
	SnapshotPath   string `json:"snapshot_path,omitempty"`
	RestoredConfig string `json:"restored_config,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ApplyReport is the full record of an apply run: pre-checks, the
// simulation gate, and either the snapshot taken on success or the
// rollback performed on failure.
type ApplyReport struct {
	ID            string            `json:"id"`
	PreCheck      *HealingResult    `json:"pre_check"`
	Simulation    *SimulationResult `json:"simulation,omitempty"`
	SnapshotPath  string            `json:"snapshot_path,omitempty"`
	SnapshotError string            `json:"snapshot_error,omitempty"`
	Rollback      *RollbackInfo     `json:"rollback,omitempty"`
	Error         string            `json:"error,omitempty"`
}
