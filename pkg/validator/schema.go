package validator

import (
	"fmt"
	"strings"

	"github.com/cuemby/preflight/pkg/manifest"
	"github.com/cuemby/preflight/pkg/types"
)

// ValidRuntimes is the runtime allow-list. The first entry is the
// canonical default the healer substitutes for missing or invalid
// runtimes.
var ValidRuntimes = []string{"podman", "podman-kube"}

// ValidRestartPolicies are the accepted restartPolicy values.
var ValidRestartPolicies = []string{"NEVER", "ALWAYS", "ON_FAILURE"}

// SchemaChecker validates a configuration document against the
// workload schema: structure, naming conventions, required fields,
// and value allow-lists.
type SchemaChecker struct{}

// NewSchemaChecker creates a new schema checker
func NewSchemaChecker() *SchemaChecker {
	return &SchemaChecker{}
}

// Check returns all schema findings for the document, errors before
// warnings. Structural failures short-circuit: there is nothing to
// check per workload when the top level is not a mapping.
func (c *SchemaChecker) Check(doc *manifest.Document) []types.Issue {
	if !doc.IsMapping() {
		return []types.Issue{{
			Type:     types.IssueTypeStructureError,
			Severity: types.SeverityError,
			Message:  "Configuration must be a dictionary/object",
		}}
	}

	if !doc.HasWorkloads() {
		return []types.Issue{{
			Type:     types.IssueTypeMissingSection,
			Severity: types.SeverityError,
			Message:  `Configuration must have a "workloads" section`,
		}}
	}

	if node, _ := doc.WorkloadsNode(); !manifest.IsNullNode(node) && !doc.WorkloadsIsMapping() {
		return []types.Issue{{
			Type:     types.IssueTypeStructureError,
			Severity: types.SeverityError,
			Message:  `"workloads" section must be a mapping of workload names to specifications`,
		}}
	}

	var errors, warnings []types.Issue
	for _, w := range doc.Workloads() {
		c.checkWorkload(w, &errors, &warnings)
	}
	return append(errors, warnings...)
}

func (c *SchemaChecker) checkWorkload(w *manifest.Workload, errors, warnings *[]types.Issue) {
	name := w.Name()

	if name == "" {
		*errors = append(*errors, types.Issue{
			Type:     types.IssueTypeNamingError,
			Severity: types.SeverityError,
			Workload: name,
			Message:  "Workload name cannot be empty",
		})
	}
	if strings.Contains(name, " ") {
		*errors = append(*errors, types.Issue{
			Type:     types.IssueTypeNamingError,
			Severity: types.SeverityError,
			Workload: name,
			Message:  fmt.Sprintf("Workload name %q contains spaces", name),
		})
	}
	if name != "" && name != strings.ToLower(name) {
		*warnings = append(*warnings, types.Issue{
			Type:     types.IssueTypeNamingWarning,
			Severity: types.SeverityWarning,
			Workload: name,
			Message:  fmt.Sprintf("Workload name %q should be lowercase (convention)", name),
		})
	}

	if !w.Has("runtime") {
		*errors = append(*errors, types.Issue{
			Type:     types.IssueTypeMissingField,
			Severity: types.SeverityError,
			Workload: name,
			Message:  `Field "runtime" is required`,
		})
	} else {
		runtime, _ := w.StringField("runtime")
		if !stringInList(ValidRuntimes, runtime) {
			*errors = append(*errors, types.Issue{
				Type:     types.IssueTypeInvalidValue,
				Severity: types.SeverityError,
				Workload: name,
				Message:  fmt.Sprintf("Invalid runtime %q. Must be one of: %s", runtime, strings.Join(ValidRuntimes, ", ")),
			})
		}
	}

	if !w.Has("agent") {
		*errors = append(*errors, types.Issue{
			Type:     types.IssueTypeMissingField,
			Severity: types.SeverityError,
			Workload: name,
			Message:  `Field "agent" is required`,
		})
	}

	if w.Has("restartPolicy") {
		policy, _ := w.StringField("restartPolicy")
		if !stringInList(ValidRestartPolicies, policy) {
			*errors = append(*errors, types.Issue{
				Type:     types.IssueTypeInvalidValue,
				Severity: types.SeverityError,
				Workload: name,
				Message:  fmt.Sprintf("Invalid restartPolicy %q. Must be one of: %s", policy, strings.Join(ValidRestartPolicies, ", ")),
			})
		}
	}

	rc, ok := w.RuntimeConfigText()
	if !ok {
		*warnings = append(*warnings, types.Issue{
			Type:     types.IssueTypeMissingField,
			Severity: types.SeverityWarning,
			Workload: name,
			Message:  "No runtimeConfig specified",
		})
	} else if !strings.Contains(strings.ToLower(rc), "image") {
		*warnings = append(*warnings, types.Issue{
			Type:           types.IssueTypeMissingImage,
			Severity:       types.SeverityWarning,
			Workload:       name,
			Message:        "No container image specified in runtimeConfig",
			Recommendation: `Add "image: <container-image>" to runtimeConfig`,
		})
	}
}

func stringInList(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
