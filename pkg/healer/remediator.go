package healer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cuemby/preflight/pkg/manifest"
	"github.com/cuemby/preflight/pkg/types"
	"github.com/cuemby/preflight/pkg/validator"
)

// DefaultAgent is the agent name substituted for workloads that do
// not declare one.
const DefaultAgent = "agent_A"

// MinimalRuntimeConfig is the placeholder inserted for workloads with
// no runtimeConfig at all. The qualification pass expands the image
// reference to its fully qualified form afterwards.
const MinimalRuntimeConfig = "image: alpine:latest"

// Remediator applies deterministic, rule-based fixes to configuration
// text. It is pure: the same (text, issues) input always yields the
// same output and log, and malformed issue entries are skipped rather
// than reported as errors.
type Remediator struct {
	defaultAgent string
}

// NewRemediator creates a new remediator
func NewRemediator() *Remediator {
	return &Remediator{defaultAgent: DefaultAgent}
}

// AutoFix applies at most one matching rule per issue, in issue order,
// then runs the normalization passes over every workload. It returns
// the remediated YAML and a human-readable log of what was done. When
// nothing changed, the input text comes back verbatim with a single
// log line saying so.
func (r *Remediator) AutoFix(configYAML string, issues []types.Issue) (string, []string) {
	doc, err := manifest.Parse(configYAML)
	if err != nil {
		return configYAML, []string{fmt.Sprintf("Failed to parse YAML during remediation: %v", err)}
	}
	if !doc.IsMapping() || !doc.HasWorkloads() {
		return configYAML, []string{"Invalid configuration structure - no workloads found."}
	}

	var logEntries []string
	changed := false

	for _, issue := range issues {
		w, ok := doc.Workload(issue.Workload)
		if !ok {
			continue
		}
		if r.applyRule(doc, w, issue, &logEntries) {
			changed = true
		}
	}

	if r.normalize(doc, &logEntries) {
		changed = true
	}

	if !changed {
		return configYAML, []string{"No auto-fixes applied - configuration already valid."}
	}

	out, err := doc.Serialize()
	if err != nil {
		return configYAML, append(logEntries, fmt.Sprintf("Failed to serialize remediated configuration: %v", err))
	}
	return out, logEntries
}

// applyRule matches one issue against the fix rules. The first match
// wins; unmatched issues are left alone.
func (r *Remediator) applyRule(doc *manifest.Document, w *manifest.Workload, issue types.Issue, logEntries *[]string) bool {
	name := w.Name()
	msg := issue.Message

	switch {
	case strings.Contains(msg, `Field "runtime" is required`):
		w.SetField("runtime", validator.ValidRuntimes[0])
		*logEntries = append(*logEntries,
			fmt.Sprintf(`Added missing "runtime" to %s: set to %q.`, name, validator.ValidRuntimes[0]))
		return true

	case strings.Contains(msg, "Invalid runtime"):
		w.SetField("runtime", validator.ValidRuntimes[0])
		*logEntries = append(*logEntries,
			fmt.Sprintf("Corrected invalid runtime for %s → %q.", name, validator.ValidRuntimes[0]))
		return true

	case strings.Contains(msg, `Field "agent" is required`):
		w.SetField("agent", r.defaultAgent)
		*logEntries = append(*logEntries,
			fmt.Sprintf(`Added missing "agent" to %s: set to %q.`, name, r.defaultAgent))
		return true

	case strings.Contains(msg, "contains spaces") || strings.Contains(msg, "should be lowercase"):
		newName := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
		if newName == name {
			return false
		}
		if _, taken := doc.Workload(newName); taken {
			// Renaming onto an existing workload would drop one of the
			// two; leave the naming issue for manual resolution.
			return false
		}
		w.Rename(newName)
		*logEntries = append(*logEntries,
			fmt.Sprintf("Renamed workload %q → %q.", name, newName))
		return true

	case strings.Contains(msg, "No runtimeConfig specified"):
		w.SetRuntimeConfig(MinimalRuntimeConfig)
		*logEntries = append(*logEntries,
			fmt.Sprintf(`Inserted minimal runtimeConfig for %s (%q).`, name, MinimalRuntimeConfig))
		return true

	case strings.Contains(msg, "depends on") && strings.Contains(msg, "doesn't exist"):
		removed, nowEmpty := w.RemoveDependency(issue.Dependency)
		if !removed {
			return false
		}
		*logEntries = append(*logEntries,
			fmt.Sprintf("Removed invalid dependency %q from %q.", issue.Dependency, name))
		if nowEmpty {
			removeEmptyDeps(w)
		}
		return true

	case issue.Type == types.IssueTypeSelfDependency || strings.Contains(msg, "cannot depend on itself"):
		removed, nowEmpty := w.RemoveDependency(name)
		if !removed {
			return false
		}
		*logEntries = append(*logEntries,
			fmt.Sprintf("Removed self-dependency from %q.", name))
		if nowEmpty {
			removeEmptyDeps(w)
		}
		return true

	case issue.Type == types.IssueTypeCircularDependency && len(issue.Cycle) >= 2:
		src, dst := issue.Cycle[0], issue.Cycle[1]
		sw, ok := doc.Workload(src)
		if !ok {
			return false
		}
		removed, nowEmpty := sw.RemoveDependency(dst)
		if !removed {
			return false
		}
		*logEntries = append(*logEntries,
			fmt.Sprintf("Removed dependency %q from %q to break circular dependency.", dst, src))
		if nowEmpty {
			removeEmptyDeps(sw)
		}
		return true

	case strings.Contains(msg, "Port") && strings.Contains(msg, "already used"):
		if issue.Port == 0 {
			return false
		}
		rc, ok := w.StringField("runtimeConfig")
		if !ok || rc == "" {
			return false
		}
		fixed := bumpHostPort(rc, issue.Port)
		if fixed == rc {
			return false
		}
		w.SetRuntimeConfig(fixed)
		*logEntries = append(*logEntries,
			fmt.Sprintf("Adjusted port conflict for %s: %d → %d.", name, issue.Port, issue.Port+1))
		return true
	}

	return false
}

// removeEmptyDeps drops a dependency container that no longer holds
// any entries. Only the emptied form goes; a sibling depends_on list
// with entries survives a dependencies-mapping cleanup.
func removeEmptyDeps(w *manifest.Workload) {
	if !w.DependenciesEmpty() {
		return
	}
	if w.Has("dependencies") {
		w.RemoveField("dependencies")
		return
	}
	w.RemoveField("depends_on")
}

// bumpHostPort rewrites every host-side declaration of port to port+1.
// Only "PORT:" occurrences move, leaving container ports and image
// tags alone.
func bumpHostPort(runtimeConfig string, port int) string {
	re := regexp.MustCompile(`\b` + strconv.Itoa(port) + `:`)
	return re.ReplaceAllString(runtimeConfig, strconv.Itoa(port+1)+":")
}
