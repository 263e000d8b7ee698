package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/cuemby/preflight/pkg/log"
	"github.com/cuemby/preflight/pkg/manifest"
	"github.com/cuemby/preflight/pkg/metrics"
	"github.com/cuemby/preflight/pkg/types"
	"github.com/rs/zerolog"
)

// Runner executes the full validation suite: schema checking,
// dependency analysis, cycle detection, and conflict detection, in
// that order. It always returns a complete four-test report; panics
// inside a check become issues instead of crashing the suite.
type Runner struct {
	running []types.RunningWorkload
	logger  zerolog.Logger
}

// NewRunner creates a suite runner. The running inventory feeds the
// dependency universe and the conflict detector's port claims; nil
// means an empty cluster.
func NewRunner(running []types.RunningWorkload) *Runner {
	return &Runner{
		running: running,
		logger:  log.WithComponent("validator"),
	}
}

// Validate runs all four checks against the configuration text and
// assembles the report.
func (r *Runner) Validate(text string) *types.ValidationReport {
	timer := metrics.NewTimer()
	report := &types.ValidationReport{
		Timestamp:     time.Now(),
		OverallStatus: types.TestPassed,
	}

	doc, parseErr := manifest.Parse(text)

	report.Tests = append(report.Tests, r.schemaTest(doc, parseErr))
	report.Tests = append(report.Tests, r.dependencyTest(doc, parseErr))
	report.Tests = append(report.Tests, r.cycleTest(doc, parseErr))
	report.Tests = append(report.Tests, r.conflictTest(doc, parseErr))

	summarize(report)

	metrics.ValidationsTotal.Inc()
	timer.ObserveDuration(metrics.ValidationDuration)
	if report.Valid() {
		metrics.ConfigValid.Set(1)
	} else {
		metrics.ConfigValid.Set(0)
	}
	for _, t := range report.Tests {
		for _, issue := range t.Issues {
			metrics.IssuesDetected.WithLabelValues(string(issue.Type), string(issue.Severity)).Inc()
		}
	}

	r.logger.Info().
		Str("status", string(report.OverallStatus)).
		Int("errors", report.Summary.TotalErrors).
		Int("warnings", report.Summary.TotalWarnings).
		Int64("duration_ms", report.Summary.TotalDurationMS).
		Msg("validation suite completed")

	return report
}

func (r *Runner) schemaTest(doc *manifest.Document, parseErr error) types.TestResult {
	return r.runTest("Schema Validation", "Validates YAML syntax and configuration structure",
		types.IssueTypeSchemaCheckFailed, func() []types.Issue {
			if parseErr != nil {
				return []types.Issue{{
					Type:     types.IssueTypeSyntaxError,
					Severity: types.SeverityError,
					Message:  fmt.Sprintf("Invalid YAML syntax: %v", parseErr),
				}}
			}
			return NewSchemaChecker().Check(doc)
		})
}

func (r *Runner) dependencyTest(doc *manifest.Document, parseErr error) types.TestResult {
	return r.runTest("Dependency Validation", "Checks if all dependencies exist and are valid",
		types.IssueTypeDependencyCheckFailed, func() []types.Issue {
			if parseErr != nil {
				return []types.Issue{{
					Type:     types.IssueTypeYAMLError,
					Severity: types.SeverityError,
					Message:  fmt.Sprintf("Invalid YAML syntax: %v", parseErr),
				}}
			}
			return NewDependencyAnalyzer(r.runningNames()).Analyze(doc)
		})
}

func (r *Runner) cycleTest(doc *manifest.Document, parseErr error) types.TestResult {
	// No graph to walk: syntax errors, non-mapping documents, and a
	// malformed workloads section all skip this test rather than fail
	// it twice; the schema and dependency tests already reported them.
	if parseErr != nil || !doc.IsMapping() || malformedWorkloads(doc) {
		return types.TestResult{
			Name:        "Circular Dependency Check",
			Description: "Detects circular dependencies using graph algorithms",
			Status:      types.TestSkipped,
			Issues:      []types.Issue{},
		}
	}

	return r.runTest("Circular Dependency Check", "Detects circular dependencies using graph algorithms",
		types.IssueTypeCycleCheckFailed, func() []types.Issue {
			cycles := NewDependencyAnalyzer(r.runningNames()).DetectCycles(doc)
			issues := make([]types.Issue, 0, len(cycles))
			for _, cycle := range cycles {
				issues = append(issues, types.Issue{
					Type:     types.IssueTypeCircularDependency,
					Severity: types.SeverityError,
					Workload: cycle[0],
					Message:  fmt.Sprintf("Circular dependency: %s", strings.Join(cycle, " -> ")),
					Cycle:    cycle,
				})
			}
			return issues
		})
}

func (r *Runner) conflictTest(doc *manifest.Document, parseErr error) types.TestResult {
	return r.runTest("Resource Conflict Detection", "Checks for port and resource conflicts",
		types.IssueTypeConflictCheckFailed, func() []types.Issue {
			if parseErr != nil {
				return []types.Issue{{
					Type:     types.IssueTypeYAMLError,
					Severity: types.SeverityError,
					Message:  "Invalid YAML - cannot check conflicts",
				}}
			}
			return NewConflictDetector(r.running).Detect(doc)
		})
}

// runTest executes one check with panic recovery, fills in counts,
// and derives the status: FAILED exactly when an ERROR issue exists.
func (r *Runner) runTest(name, description string, failType types.IssueType, fn func() []types.Issue) types.TestResult {
	start := time.Now()
	result := types.TestResult{Name: name, Description: description}

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error().Str("test", name).Interface("panic", rec).Msg("check panicked")
				result.Issues = []types.Issue{{
					Type:     failType,
					Severity: types.SeverityError,
					Message:  fmt.Sprintf("%s failed unexpectedly: %v", name, rec),
				}}
			}
		}()
		result.Issues = fn()
	}()

	result.DurationMS = time.Since(start).Milliseconds()
	if result.Issues == nil {
		result.Issues = []types.Issue{}
	}
	for _, issue := range result.Issues {
		switch issue.Severity {
		case types.SeverityError:
			result.ErrorCount++
		case types.SeverityWarning:
			result.WarningCount++
		}
	}
	result.Status = types.TestPassed
	if result.ErrorCount > 0 {
		result.Status = types.TestFailed
	}

	r.logger.Debug().
		Str("test", name).
		Str("status", string(result.Status)).
		Int("errors", result.ErrorCount).
		Int("warnings", result.WarningCount).
		Msg("check completed")

	return result
}

func (r *Runner) runningNames() []string {
	names := make([]string, 0, len(r.running))
	for _, w := range r.running {
		names = append(names, w.Name)
	}
	return names
}

// malformedWorkloads reports a workloads section whose value is some
// non-mapping, non-null shape, which leaves nothing to build a graph
// from.
func malformedWorkloads(doc *manifest.Document) bool {
	node, ok := doc.WorkloadsNode()
	if !ok {
		return false
	}
	return !manifest.IsNullNode(node) && !doc.WorkloadsIsMapping()
}

func summarize(report *types.ValidationReport) {
	s := &report.Summary
	s.TotalTests = len(report.Tests)
	for _, t := range report.Tests {
		switch t.Status {
		case types.TestPassed:
			s.Passed++
		case types.TestFailed:
			s.Failed++
		case types.TestSkipped:
			s.Skipped++
		}
		s.TotalErrors += t.ErrorCount
		s.TotalWarnings += t.WarningCount
		s.TotalDurationMS += t.DurationMS
	}
	if s.Failed > 0 {
		report.OverallStatus = types.TestFailed
	}
}
