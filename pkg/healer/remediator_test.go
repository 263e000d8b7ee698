package healer

import (
	"strings"
	"testing"

	"github.com/cuemby/preflight/pkg/manifest"
	"github.com/cuemby/preflight/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHealed(t *testing.T, text string) *manifest.Document {
	t.Helper()
	doc, err := manifest.Parse(text)
	require.NoError(t, err)
	return doc
}

func mustWorkload(t *testing.T, text, name string) *manifest.Workload {
	t.Helper()
	w, ok := parseHealed(t, text).Workload(name)
	require.True(t, ok, "workload %q missing from healed output", name)
	return w
}

// TestAutoFixMissingRuntime tests the default runtime substitution
func TestAutoFixMissingRuntime(t *testing.T) {
	config := `workloads:
  web:
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
`
	issues := []types.Issue{{
		Type:     types.IssueTypeMissingField,
		Severity: types.SeverityError,
		Workload: "web",
		Message:  `Field "runtime" is required`,
	}}

	out, logs := NewRemediator().AutoFix(config, issues)

	require.Equal(t, []string{`Added missing "runtime" to web: set to "podman".`}, logs)
	runtime, _ := mustWorkload(t, out, "web").StringField("runtime")
	assert.Equal(t, "podman", runtime)
}

// TestAutoFixInvalidRuntime tests overwriting a bad runtime value
func TestAutoFixInvalidRuntime(t *testing.T) {
	config := `workloads:
  web:
    runtime: docker-swarm
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
`
	issues := []types.Issue{{
		Type:     types.IssueTypeInvalidValue,
		Severity: types.SeverityError,
		Workload: "web",
		Message:  `Invalid runtime "docker-swarm". Must be one of: podman, podman-kube`,
	}}

	out, logs := NewRemediator().AutoFix(config, issues)

	require.Equal(t, []string{`Corrected invalid runtime for web → "podman".`}, logs)
	runtime, _ := mustWorkload(t, out, "web").StringField("runtime")
	assert.Equal(t, "podman", runtime)
}

// TestAutoFixMissingAgent tests the default agent substitution
func TestAutoFixMissingAgent(t *testing.T) {
	config := `workloads:
  web:
    runtime: podman
    runtimeConfig: |
      image: docker.io/library/nginx:latest
`
	issues := []types.Issue{{
		Type:     types.IssueTypeMissingField,
		Severity: types.SeverityError,
		Workload: "web",
		Message:  `Field "agent" is required`,
	}}

	out, logs := NewRemediator().AutoFix(config, issues)

	require.Equal(t, []string{`Added missing "agent" to web: set to "agent_A".`}, logs)
	agent, _ := mustWorkload(t, out, "web").StringField("agent")
	assert.Equal(t, "agent_A", agent)
}

// TestAutoFixRenamesWorkload tests name normalization keeps the entry in place
func TestAutoFixRenamesWorkload(t *testing.T) {
	config := `workloads:
  "My App":
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
  zulu:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/redis:latest
`
	issues := []types.Issue{{
		Type:     types.IssueTypeNamingError,
		Severity: types.SeverityError,
		Workload: "My App",
		Message:  `Workload name "My App" contains spaces`,
	}}

	out, logs := NewRemediator().AutoFix(config, issues)

	require.Equal(t, []string{`Renamed workload "My App" → "my_app".`}, logs)
	doc := parseHealed(t, out)
	_, stillThere := doc.Workload("My App")
	assert.False(t, stillThere)
	assert.Equal(t, []string{"my_app", "zulu"}, doc.WorkloadNames())
}

// TestAutoFixRenameSkippedWhenTargetExists tests the collision guard
func TestAutoFixRenameSkippedWhenTargetExists(t *testing.T) {
	config := `workloads:
  "my app":
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
  my_app:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/redis:latest
`
	issues := []types.Issue{{
		Type:     types.IssueTypeNamingError,
		Severity: types.SeverityError,
		Workload: "my app",
		Message:  `Workload name "my app" contains spaces`,
	}}

	out, logs := NewRemediator().AutoFix(config, issues)

	assert.Equal(t, config, out)
	assert.Equal(t, []string{"No auto-fixes applied - configuration already valid."}, logs)
}

// TestAutoFixInsertsMinimalRuntimeConfig tests the placeholder and its qualification
func TestAutoFixInsertsMinimalRuntimeConfig(t *testing.T) {
	config := `workloads:
  web:
    runtime: podman
    agent: agent_A
`
	issues := []types.Issue{{
		Type:     types.IssueTypeMissingField,
		Severity: types.SeverityWarning,
		Workload: "web",
		Message:  "No runtimeConfig specified",
	}}

	out, logs := NewRemediator().AutoFix(config, issues)

	require.Equal(t, []string{
		`Inserted minimal runtimeConfig for web ("image: alpine:latest").`,
		`Qualified image in web: "alpine:latest" → "docker.io/library/alpine:latest".`,
	}, logs)
	rc, ok := mustWorkload(t, out, "web").StringField("runtimeConfig")
	require.True(t, ok)
	assert.Equal(t, "image: docker.io/library/alpine:latest", rc)
}

// TestAutoFixRemovesMissingDependency tests dangling reference removal
func TestAutoFixRemovesMissingDependency(t *testing.T) {
	config := `workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
    dependencies:
      ghost: ADD_COND_RUNNING
      database: ADD_COND_RUNNING
  database:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/postgres:16
`
	issues := []types.Issue{{
		Type:       types.IssueTypeMissingDependency,
		Severity:   types.SeverityError,
		Workload:   "web",
		Dependency: "ghost",
		Message:    `Workload "web" depends on "ghost" which doesn't exist`,
	}}

	out, logs := NewRemediator().AutoFix(config, issues)

	require.Equal(t, []string{`Removed invalid dependency "ghost" from "web".`}, logs)
	assert.Equal(t, []string{"database"}, mustWorkload(t, out, "web").DependencyNames())
}

// TestAutoFixRemovesLastDependencyAndField tests empty-container cleanup
func TestAutoFixRemovesLastDependencyAndField(t *testing.T) {
	config := `workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
    dependencies:
      ghost: ADD_COND_RUNNING
`
	issues := []types.Issue{{
		Type:       types.IssueTypeMissingDependency,
		Severity:   types.SeverityError,
		Workload:   "web",
		Dependency: "ghost",
		Message:    `Workload "web" depends on "ghost" which doesn't exist`,
	}}

	out, logs := NewRemediator().AutoFix(config, issues)

	require.Equal(t, []string{`Removed invalid dependency "ghost" from "web".`}, logs)
	assert.False(t, mustWorkload(t, out, "web").Has("dependencies"))
}

// TestAutoFixRemovesSelfDependency tests the self-edge rule
func TestAutoFixRemovesSelfDependency(t *testing.T) {
	config := `workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
    dependencies:
      web: ADD_COND_RUNNING
`
	issues := []types.Issue{{
		Type:     types.IssueTypeSelfDependency,
		Severity: types.SeverityError,
		Workload: "web",
		Message:  `Workload "web" cannot depend on itself`,
	}}

	out, logs := NewRemediator().AutoFix(config, issues)

	require.Equal(t, []string{`Removed self-dependency from "web".`}, logs)
	assert.False(t, mustWorkload(t, out, "web").Has("dependencies"))
}

// TestAutoFixBreaksCycle tests removal of the first cycle edge
func TestAutoFixBreaksCycle(t *testing.T) {
	config := `workloads:
  a:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
    dependencies:
      b: ADD_COND_RUNNING
  b:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/redis:latest
    dependencies:
      a: ADD_COND_RUNNING
`
	issues := []types.Issue{{
		Type:     types.IssueTypeCircularDependency,
		Severity: types.SeverityError,
		Workload: "a",
		Message:  "Circular dependency: a -> b -> a",
		Cycle:    []string{"a", "b", "a"},
	}}

	out, logs := NewRemediator().AutoFix(config, issues)

	require.Equal(t, []string{`Removed dependency "b" from "a" to break circular dependency.`}, logs)
	assert.False(t, mustWorkload(t, out, "a").Has("dependencies"))
	assert.Equal(t, []string{"a"}, mustWorkload(t, out, "b").DependencyNames())
}

// TestAutoFixAdjustsPortConflict tests host port bumping
func TestAutoFixAdjustsPortConflict(t *testing.T) {
	config := `workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
      commandOptions: ["-p", "8080:80"]
`
	issues := []types.Issue{{
		Type:                types.IssueTypePortConflict,
		Severity:            types.SeverityError,
		Workload:            "web",
		Port:                8080,
		ConflictingWorkload: "edge",
		Message:             `Port 8080 is already used by workload "edge"`,
	}}

	out, logs := NewRemediator().AutoFix(config, issues)

	require.Equal(t, []string{"Adjusted port conflict for web: 8080 → 8081."}, logs)
	rc, _ := mustWorkload(t, out, "web").StringField("runtimeConfig")
	assert.Contains(t, rc, "8081:80")
	assert.NotContains(t, rc, "8080:")
}

// TestAutoFixQualifiesBareImage tests registry qualification without issues
func TestAutoFixQualifiesBareImage(t *testing.T) {
	config := `workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: nginx:latest
`
	out, logs := NewRemediator().AutoFix(config, nil)

	require.Equal(t, []string{`Qualified image in web: "nginx:latest" → "docker.io/library/nginx:latest".`}, logs)
	rc, _ := mustWorkload(t, out, "web").StringField("runtimeConfig")
	assert.Contains(t, rc, "image: docker.io/library/nginx:latest")
}

// TestAutoFixReplacesPlaceholderImage tests the fallback image substitution
func TestAutoFixReplacesPlaceholderImage(t *testing.T) {
	config := `workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: ghcr.io/example/frontend:1.0
`
	out, logs := NewRemediator().AutoFix(config, nil)

	require.Len(t, logs, 1)
	assert.Equal(t, `Replaced placeholder image in web: "ghcr.io/example/frontend:1.0" → "docker.io/library/alpine:latest" (non-existent registry).`, logs[0])
	rc, _ := mustWorkload(t, out, "web").StringField("runtimeConfig")
	assert.Contains(t, rc, "image: docker.io/library/alpine:latest")
}

// TestAutoFixLeavesQualifiedImageAlone tests the no-op path returns input verbatim
func TestAutoFixLeavesQualifiedImageAlone(t *testing.T) {
	config := `workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
`
	out, logs := NewRemediator().AutoFix(config, nil)

	assert.Equal(t, config, out)
	assert.Equal(t, []string{"No auto-fixes applied - configuration already valid."}, logs)
}

// TestAutoFixCleansRuntimeConfigWhitespace tests control character and indent cleanup
func TestAutoFixCleansRuntimeConfigWhitespace(t *testing.T) {
	config := `workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: "\n  image: docker.io/library/nginx:latest\r\n"
`
	out, logs := NewRemediator().AutoFix(config, nil)

	assert.Empty(t, logs)
	assert.NotEqual(t, config, out)
	rc, _ := mustWorkload(t, out, "web").StringField("runtimeConfig")
	assert.Equal(t, "image: docker.io/library/nginx:latest", rc)
}

// TestAutoFixSanitizesDependencies tests the dependencies shape cleanup
func TestAutoFixSanitizesDependencies(t *testing.T) {
	t.Run("non-mapping field removed", func(t *testing.T) {
		config := `workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
    dependencies: justastring
`
		out, logs := NewRemediator().AutoFix(config, nil)

		require.Equal(t, []string{`Removed invalid dependencies field from "web" (not a mapping).`}, logs)
		assert.False(t, mustWorkload(t, out, "web").Has("dependencies"))
	})

	t.Run("empty mapping removed", func(t *testing.T) {
		config := `workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
    dependencies: {}
`
		out, logs := NewRemediator().AutoFix(config, nil)

		require.Equal(t, []string{`Removed empty dependencies from "web".`}, logs)
		assert.False(t, mustWorkload(t, out, "web").Has("dependencies"))
	})

	t.Run("string values coerced silently", func(t *testing.T) {
		config := `workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
    dependencies:
      database: ADD_COND_RUNNING
  database:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/postgres:16
`
		out, logs := NewRemediator().AutoFix(config, nil)

		assert.Empty(t, logs)
		assert.NotEqual(t, config, out)
		assert.Equal(t, []string{"database"}, mustWorkload(t, out, "web").DependencyNames())
	})
}

// TestAutoFixUnparseableInput tests graceful degradation on broken YAML
func TestAutoFixUnparseableInput(t *testing.T) {
	out, logs := NewRemediator().AutoFix("workloads: [a, b", nil)

	assert.Equal(t, "workloads: [a, b", out)
	require.Len(t, logs, 1)
	assert.True(t, strings.HasPrefix(logs[0], "Failed to parse YAML during remediation:"))
}

// TestAutoFixNoWorkloadsSection tests the structural guard
func TestAutoFixNoWorkloadsSection(t *testing.T) {
	for _, config := range []string{"other: value\n", "just a string\n"} {
		out, logs := NewRemediator().AutoFix(config, nil)
		assert.Equal(t, config, out)
		assert.Equal(t, []string{"Invalid configuration structure - no workloads found."}, logs)
	}
}

// TestAutoFixSkipsUnknownWorkloads tests that issues naming absent workloads are ignored
func TestAutoFixSkipsUnknownWorkloads(t *testing.T) {
	config := `workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
`
	issues := []types.Issue{{
		Type:     types.IssueTypeMissingField,
		Severity: types.SeverityError,
		Workload: "ghost",
		Message:  `Field "runtime" is required`,
	}}

	out, logs := NewRemediator().AutoFix(config, issues)

	assert.Equal(t, config, out)
	assert.Equal(t, []string{"No auto-fixes applied - configuration already valid."}, logs)
}

// TestAutoFixDeterministic tests that identical inputs produce identical outputs
func TestAutoFixDeterministic(t *testing.T) {
	config := `workloads:
  Web:
    agent: agent_A
    runtimeConfig: |
      image: nginx
`
	issues := []types.Issue{{
		Type:     types.IssueTypeMissingField,
		Severity: types.SeverityError,
		Workload: "Web",
		Message:  `Field "runtime" is required`,
	}}

	out1, logs1 := NewRemediator().AutoFix(config, issues)
	out2, logs2 := NewRemediator().AutoFix(config, issues)

	assert.Equal(t, out1, out2)
	assert.Equal(t, logs1, logs2)
}
