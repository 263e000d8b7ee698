package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidationReportValid tests the overall-status helper
func TestValidationReportValid(t *testing.T) {
	tests := []struct {
		name   string
		status TestStatus
		want   bool
	}{
		{"passed report is valid", TestPassed, true},
		{"failed report is invalid", TestFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ValidationReport{OverallStatus: tt.status}
			assert.Equal(t, tt.want, r.Valid())
		})
	}
}

// TestErrorIssues tests that the healer work queue preserves report order
// and drops warnings
func TestErrorIssues(t *testing.T) {
	report := &ValidationReport{
		Tests: []TestResult{
			{
				Name: "Schema Validation",
				Issues: []Issue{
					{Type: IssueTypeMissingField, Severity: SeverityError, Workload: "web", Message: `Field "runtime" is required`},
					{Type: IssueTypeNamingWarning, Severity: SeverityWarning, Workload: "Web", Message: "lowercase"},
				},
			},
			{
				Name: "Dependency Validation",
				Issues: []Issue{
					{Type: IssueTypeSelfDependency, Severity: SeverityError, Workload: "db", Message: "self"},
				},
			},
		},
	}

	issues := report.ErrorIssues()
	assert.Len(t, issues, 2)
	assert.Equal(t, IssueTypeMissingField, issues[0].Type)
	assert.Equal(t, IssueTypeSelfDependency, issues[1].Type)
}

// TestIssueJSONShape tests that optional fields stay out of serialized
// findings that do not use them
func TestIssueJSONShape(t *testing.T) {
	simIssue := Issue{
		Type:   IssueTypeSimCircularDependency,
		Cycles: [][]string{{"a", "b", "a"}},
	}

	data, err := json.Marshal(simIssue)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"type":"circular_dependency"`)
	assert.NotContains(t, s, "severity")
	assert.NotContains(t, s, "workload")
	assert.NotContains(t, s, "port")

	portIssue := Issue{
		Type:                IssueTypePortConflict,
		Severity:            SeverityError,
		Workload:            "api",
		Port:                8080,
		ConflictingWorkload: "web",
		Message:             `Port 8080 is already used by workload "web"`,
	}

	data, err = json.Marshal(portIssue)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"conflicting_workload":"web"`)
	assert.Contains(t, string(data), `"port":8080`)
}

func TestDefaultCapacityIsGenerous(t *testing.T) {
	if DefaultCapacity.CPU < 1e5 || DefaultCapacity.Memory < 1e8 {
		t.Fatalf("default capacity too small to be a no-op budget: %+v", DefaultCapacity)
	}
}

func TestHealingResultRoundTrip(t *testing.T) {
	result := HealingResult{
		Success:    true,
		FinalValid: true,
		Config:     "workloads: {}\n",
		HealingReport: HealingReport{
			Attempted: true,
			Logs:      []string{`Added missing "runtime" to web: set to "podman".`},
		},
		DeploymentStatus: DeploymentStatusReady,
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `"deployment_status":"ready"`))

	var decoded HealingResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result.Config, decoded.Config)
	assert.Equal(t, result.HealingReport.Logs, decoded.HealingReport.Logs)
}
