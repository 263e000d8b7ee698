package validator

import (
	"testing"

	"github.com/cuemby/preflight/pkg/manifest"
	"github.com/cuemby/preflight/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) *manifest.Document {
	t.Helper()
	doc, err := manifest.Parse(text)
	require.NoError(t, err)
	return doc
}

// TestSchemaValidConfig tests that a complete workload passes cleanly
func TestSchemaValidConfig(t *testing.T) {
	doc := mustParse(t, `
workloads:
  nginx:
    runtime: podman
    agent: agent_A
    restartPolicy: ALWAYS
    runtimeConfig: |
      image: docker.io/library/nginx:latest
`)

	issues := NewSchemaChecker().Check(doc)
	assert.Empty(t, issues)
}

// TestSchemaStructuralErrors tests top-level shape validation
func TestSchemaStructuralErrors(t *testing.T) {
	tests := []struct {
		name         string
		config       string
		expectedType types.IssueType
		expectedMsg  string
	}{
		{
			name:         "document is a list",
			config:       "- a\n- b\n",
			expectedType: types.IssueTypeStructureError,
			expectedMsg:  "Configuration must be a dictionary/object",
		},
		{
			name:         "document is a scalar",
			config:       "just a string",
			expectedType: types.IssueTypeStructureError,
			expectedMsg:  "Configuration must be a dictionary/object",
		},
		{
			name:         "empty document",
			config:       "",
			expectedType: types.IssueTypeStructureError,
			expectedMsg:  "Configuration must be a dictionary/object",
		},
		{
			name:         "missing workloads section",
			config:       "services:\n  web:\n    runtime: podman\n",
			expectedType: types.IssueTypeMissingSection,
			expectedMsg:  `Configuration must have a "workloads" section`,
		},
		{
			name:         "workloads is a list",
			config:       "workloads:\n  - web\n  - api\n",
			expectedType: types.IssueTypeStructureError,
			expectedMsg:  `"workloads" section must be a mapping of workload names to specifications`,
		},
		{
			name:         "workloads is a scalar",
			config:       "workloads: oops\n",
			expectedType: types.IssueTypeStructureError,
			expectedMsg:  `"workloads" section must be a mapping of workload names to specifications`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := NewSchemaChecker().Check(mustParse(t, tt.config))
			require.Len(t, issues, 1)
			assert.Equal(t, tt.expectedType, issues[0].Type)
			assert.Equal(t, types.SeverityError, issues[0].Severity)
			assert.Equal(t, tt.expectedMsg, issues[0].Message)
		})
	}
}

// TestSchemaNullWorkloadsSection tests that an explicitly empty section is allowed
func TestSchemaNullWorkloadsSection(t *testing.T) {
	doc := mustParse(t, "workloads:\n")
	assert.Empty(t, NewSchemaChecker().Check(doc))
}

// TestSchemaMissingRuntime tests the required runtime field
func TestSchemaMissingRuntime(t *testing.T) {
	doc := mustParse(t, `
workloads:
  web:
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
`)

	issues := NewSchemaChecker().Check(doc)
	require.Len(t, issues, 1)
	assert.Equal(t, types.IssueTypeMissingField, issues[0].Type)
	assert.Equal(t, types.SeverityError, issues[0].Severity)
	assert.Equal(t, "web", issues[0].Workload)
	assert.Contains(t, issues[0].Message, "runtime")
}

// TestSchemaInvalidRuntime tests the runtime allow-list
func TestSchemaInvalidRuntime(t *testing.T) {
	doc := mustParse(t, `
workloads:
  web:
    runtime: docker-swarm
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
`)

	issues := NewSchemaChecker().Check(doc)
	require.Len(t, issues, 1)
	assert.Equal(t, types.IssueTypeInvalidValue, issues[0].Type)
	assert.Equal(t, `Invalid runtime "docker-swarm". Must be one of: podman, podman-kube`, issues[0].Message)
}

// TestSchemaMissingAgent tests the required agent field
func TestSchemaMissingAgent(t *testing.T) {
	doc := mustParse(t, `
workloads:
  web:
    runtime: podman
    runtimeConfig: |
      image: docker.io/library/nginx:latest
`)

	issues := NewSchemaChecker().Check(doc)
	require.Len(t, issues, 1)
	assert.Equal(t, types.IssueTypeMissingField, issues[0].Type)
	assert.Equal(t, `Field "agent" is required`, issues[0].Message)
}

// TestSchemaInvalidRestartPolicy tests the restartPolicy allow-list
func TestSchemaInvalidRestartPolicy(t *testing.T) {
	doc := mustParse(t, `
workloads:
  web:
    runtime: podman
    agent: agent_A
    restartPolicy: SOMETIMES
    runtimeConfig: |
      image: docker.io/library/nginx:latest
`)

	issues := NewSchemaChecker().Check(doc)
	require.Len(t, issues, 1)
	assert.Equal(t, types.IssueTypeInvalidValue, issues[0].Type)
	assert.Equal(t, `Invalid restartPolicy "SOMETIMES". Must be one of: NEVER, ALWAYS, ON_FAILURE`, issues[0].Message)
}

// TestSchemaRestartPolicyOptional tests that restartPolicy may be omitted
func TestSchemaRestartPolicyOptional(t *testing.T) {
	doc := mustParse(t, `
workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
`)
	assert.Empty(t, NewSchemaChecker().Check(doc))
}

// TestSchemaNamingRules tests workload name validation
func TestSchemaNamingRules(t *testing.T) {
	tests := []struct {
		name             string
		workloadName     string
		expectedType     types.IssueType
		expectedSeverity types.Severity
		expectedMsg      string
	}{
		{
			name:             "name with spaces",
			workloadName:     `"my web app"`,
			expectedType:     types.IssueTypeNamingError,
			expectedSeverity: types.SeverityError,
			expectedMsg:      `Workload name "my web app" contains spaces`,
		},
		{
			name:             "uppercase name",
			workloadName:     "WebApp",
			expectedType:     types.IssueTypeNamingWarning,
			expectedSeverity: types.SeverityWarning,
			expectedMsg:      `Workload name "WebApp" should be lowercase (convention)`,
		},
		{
			name:             "empty name",
			workloadName:     `""`,
			expectedType:     types.IssueTypeNamingError,
			expectedSeverity: types.SeverityError,
			expectedMsg:      "Workload name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, `
workloads:
  `+tt.workloadName+`:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
`)

			issues := NewSchemaChecker().Check(doc)
			require.Len(t, issues, 1)
			assert.Equal(t, tt.expectedType, issues[0].Type)
			assert.Equal(t, tt.expectedSeverity, issues[0].Severity)
			assert.Equal(t, tt.expectedMsg, issues[0].Message)
		})
	}
}

// TestSchemaRuntimeConfigWarnings tests runtimeConfig presence and image checks
func TestSchemaRuntimeConfigWarnings(t *testing.T) {
	t.Run("missing runtimeConfig", func(t *testing.T) {
		doc := mustParse(t, `
workloads:
  web:
    runtime: podman
    agent: agent_A
`)

		issues := NewSchemaChecker().Check(doc)
		require.Len(t, issues, 1)
		assert.Equal(t, types.IssueTypeMissingField, issues[0].Type)
		assert.Equal(t, types.SeverityWarning, issues[0].Severity)
		assert.Equal(t, "No runtimeConfig specified", issues[0].Message)
	})

	t.Run("no image reference", func(t *testing.T) {
		doc := mustParse(t, `
workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      command: ["sleep", "infinity"]
`)

		issues := NewSchemaChecker().Check(doc)
		require.Len(t, issues, 1)
		assert.Equal(t, types.IssueTypeMissingImage, issues[0].Type)
		assert.Equal(t, types.SeverityWarning, issues[0].Severity)
		assert.Equal(t, `Add "image: <container-image>" to runtimeConfig`, issues[0].Recommendation)
	})

	t.Run("image mentioned case-insensitively", func(t *testing.T) {
		doc := mustParse(t, `
workloads:
  web:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      Image: docker.io/library/nginx:latest
`)
		assert.Empty(t, NewSchemaChecker().Check(doc))
	})
}

// TestSchemaErrorsBeforeWarnings tests finding order across workloads
func TestSchemaErrorsBeforeWarnings(t *testing.T) {
	doc := mustParse(t, `
workloads:
  WebApp:
    runtime: podman
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
  backend:
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/redis:latest
`)

	issues := NewSchemaChecker().Check(doc)
	require.Len(t, issues, 2)

	// backend's missing runtime is an error and sorts ahead of the
	// naming warning even though WebApp appears first in the document.
	assert.Equal(t, types.SeverityError, issues[0].Severity)
	assert.Equal(t, "backend", issues[0].Workload)
	assert.Equal(t, types.SeverityWarning, issues[1].Severity)
	assert.Equal(t, "WebApp", issues[1].Workload)
}

// TestSchemaMultipleWorkloads tests that each workload is checked independently
func TestSchemaMultipleWorkloads(t *testing.T) {
	doc := mustParse(t, `
workloads:
  web:
    runtime: bogus
    agent: agent_A
    runtimeConfig: |
      image: docker.io/library/nginx:latest
  api:
    runtime: podman
    runtimeConfig: |
      image: docker.io/library/httpd:latest
`)

	issues := NewSchemaChecker().Check(doc)
	require.Len(t, issues, 2)

	byWorkload := map[string]types.IssueType{}
	for _, issue := range issues {
		byWorkload[issue.Workload] = issue.Type
	}
	assert.Equal(t, types.IssueTypeInvalidValue, byWorkload["web"])
	assert.Equal(t, types.IssueTypeMissingField, byWorkload["api"])
}
