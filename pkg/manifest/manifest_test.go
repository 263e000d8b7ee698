package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `workloads:
  frontend:
    runtime: podman
    agent: agent_A
    restartPolicy: ALWAYS
    runtimeConfig: |
      image: nginx:latest
      commandOptions: ["-p", "8080:80"]
    dependencies:
      backend: ADD_COND_RUNNING
  backend:
    runtime: podman
    agent: agent_A
    runtimeConfig: "image: backend:v1"
    resources:
      cpu: 2
      memory: 1024
`

// TestParse tests syntax error reporting and structural tolerance
func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		isMapping bool
	}{
		{"valid mapping", sampleConfig, false, true},
		{"empty input", "", false, false},
		{"scalar document", "just a string\n", false, false},
		{"sequence document", "- a\n- b\n", false, false},
		{"tab indentation", "workloads:\n\tweb: {}\n", true, false},
		{"unclosed flow", "workloads: {web: \n", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.isMapping, doc.IsMapping())
		})
	}
}

func TestWorkloadsSourceOrder(t *testing.T) {
	doc, err := Parse(sampleConfig)
	require.NoError(t, err)

	assert.True(t, doc.HasWorkloads())
	assert.Equal(t, []string{"frontend", "backend"}, doc.WorkloadNames())
}

func TestWorkloadsMissingSection(t *testing.T) {
	doc, err := Parse("apiVersion: v1\n")
	require.NoError(t, err)

	assert.False(t, doc.HasWorkloads())
	assert.Empty(t, doc.Workloads())
}

func TestWorkloadsNullSection(t *testing.T) {
	doc, err := Parse("workloads:\n")
	require.NoError(t, err)

	assert.True(t, doc.HasWorkloads())
	assert.Empty(t, doc.Workloads())
	node, ok := doc.WorkloadsNode()
	require.True(t, ok)
	assert.True(t, IsNullNode(node))
}

func TestStringField(t *testing.T) {
	doc, err := Parse(`workloads:
  web:
    runtime: podman
    agent:
    restartPolicy: [not, a, scalar]
`)
	require.NoError(t, err)
	w, ok := doc.Workload("web")
	require.True(t, ok)

	v, ok := w.StringField("runtime")
	assert.True(t, ok)
	assert.Equal(t, "podman", v)

	// null field reads as present empty string
	v, ok = w.StringField("agent")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = w.StringField("restartPolicy")
	assert.False(t, ok)
	assert.True(t, w.Has("restartPolicy"))

	_, ok = w.StringField("missing")
	assert.False(t, ok)
	assert.False(t, w.Has("missing"))
}

func TestRuntimeConfigText(t *testing.T) {
	doc, err := Parse(`workloads:
  blocky:
    runtimeConfig: |
      image: nginx:latest
  inline:
    runtimeConfig: "image: redis:7"
  empty:
    runtimeConfig: ""
  structured:
    runtimeConfig:
      image: postgres:16
  absent:
    runtime: podman
`)
	require.NoError(t, err)

	w, _ := doc.Workload("blocky")
	text, ok := w.RuntimeConfigText()
	assert.True(t, ok)
	assert.Contains(t, text, "image: nginx:latest")

	w, _ = doc.Workload("inline")
	text, ok = w.RuntimeConfigText()
	assert.True(t, ok)
	assert.Equal(t, "image: redis:7", text)

	w, _ = doc.Workload("empty")
	text, ok = w.RuntimeConfigText()
	assert.True(t, ok)
	assert.Equal(t, "", text)

	// mapping-valued runtimeConfig is re-encoded so substring checks work
	w, _ = doc.Workload("structured")
	text, ok = w.RuntimeConfigText()
	assert.True(t, ok)
	assert.Contains(t, text, "image: postgres:16")

	w, _ = doc.Workload("absent")
	_, ok = w.RuntimeConfigText()
	assert.False(t, ok)
}

// TestDependencyNames tests both declaration forms
func TestDependencyNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			"mapping form",
			"workloads:\n  web:\n    dependencies:\n      db: ADD_COND_RUNNING\n      cache: ADD_COND_RUNNING\n",
			[]string{"db", "cache"},
		},
		{
			"depends_on list",
			"workloads:\n  web:\n    depends_on:\n      - db\n      - cache\n",
			[]string{"db", "cache"},
		},
		{
			"no dependencies",
			"workloads:\n  web:\n    runtime: podman\n",
			nil,
		},
		{
			"dependencies not a mapping",
			"workloads:\n  web:\n    dependencies: [db]\n",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			require.NoError(t, err)
			w, ok := doc.Workload("web")
			require.True(t, ok)
			assert.Equal(t, tt.want, w.DependencyNames())
		})
	}
}

func TestResources(t *testing.T) {
	doc, err := Parse(`workloads:
  sized:
    resources:
      cpu: 2
      memory: "1024"
  fractional:
    resources:
      cpu: 0.5
      memory: 256.5
  garbage:
    resources:
      cpu: lots
      memory: {}
  bare: {}
`)
	require.NoError(t, err)

	w, _ := doc.Workload("sized")
	cpu, mem := w.Resources()
	assert.Equal(t, 2.0, cpu)
	assert.Equal(t, 1024.0, mem)

	w, _ = doc.Workload("fractional")
	cpu, mem = w.Resources()
	assert.Equal(t, 0.5, cpu)
	assert.Equal(t, 256.5, mem)

	w, _ = doc.Workload("garbage")
	cpu, mem = w.Resources()
	assert.Zero(t, cpu)
	assert.Zero(t, mem)

	w, _ = doc.Workload("bare")
	cpu, mem = w.Resources()
	assert.Zero(t, cpu)
	assert.Zero(t, mem)
}

func TestSetFieldAndSerialize(t *testing.T) {
	doc, err := Parse("workloads:\n  web:\n    agent: agent_A\n")
	require.NoError(t, err)

	w, _ := doc.Workload("web")
	w.SetField("runtime", "podman")

	out, err := doc.Serialize()
	require.NoError(t, err)
	assert.Contains(t, out, "runtime: podman")
	// existing fields keep their place; new fields append
	assert.Less(t, strings.Index(out, "agent:"), strings.Index(out, "runtime:"))
}

func TestSetFieldPromotesNullSpec(t *testing.T) {
	doc, err := Parse("workloads:\n  web:\n")
	require.NoError(t, err)

	w, _ := doc.Workload("web")
	require.False(t, w.SpecIsMapping())
	w.SetField("runtime", "podman")
	require.True(t, w.SpecIsMapping())

	out, err := doc.Serialize()
	require.NoError(t, err)
	assert.Contains(t, out, "runtime: podman")
}

func TestRenameKeepsPosition(t *testing.T) {
	doc, err := Parse("workloads:\n  My App:\n    runtime: podman\n  other:\n    runtime: podman\n")
	require.NoError(t, err)

	w, ok := doc.Workload("My App")
	require.True(t, ok)
	w.Rename("my_app")

	assert.Equal(t, []string{"my_app", "other"}, doc.WorkloadNames())
}

func TestRemoveDependency(t *testing.T) {
	doc, err := Parse(`workloads:
  web:
    dependencies:
      db: ADD_COND_RUNNING
      ghost: ADD_COND_RUNNING
  listy:
    depends_on:
      - ghost
`)
	require.NoError(t, err)

	w, _ := doc.Workload("web")
	removed, empty := w.RemoveDependency("ghost")
	assert.True(t, removed)
	assert.False(t, empty)
	assert.Equal(t, []string{"db"}, w.DependencyNames())

	removed, empty = w.RemoveDependency("nope")
	assert.False(t, removed)
	assert.False(t, empty)

	w, _ = doc.Workload("listy")
	removed, empty = w.RemoveDependency("ghost")
	assert.True(t, removed)
	assert.True(t, empty)
	assert.True(t, w.DependenciesEmpty())
}

func TestSetRuntimeConfigBlockStyle(t *testing.T) {
	doc, err := Parse("workloads:\n  web: {}\n")
	require.NoError(t, err)

	w, _ := doc.Workload("web")
	w.SetRuntimeConfig("image: nginx:latest\ncommandOptions: [\"-p\", \"80:80\"]")

	out, err := doc.Serialize()
	require.NoError(t, err)
	assert.Contains(t, out, "runtimeConfig: |")
	assert.Contains(t, out, "image: nginx:latest")
}

func TestSerializePreservesCommentsAndOrder(t *testing.T) {
	input := `# deployment manifest
workloads:
  zeta:
    runtime: podman # pinned runtime
    agent: agent_A
  alpha:
    runtime: podman
    agent: agent_B
`
	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	out, err := doc.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	if !strings.Contains(out, "# deployment manifest") {
		t.Errorf("head comment lost:\n%s", out)
	}
	if !strings.Contains(out, "# pinned runtime") {
		t.Errorf("line comment lost:\n%s", out)
	}
	if strings.Index(out, "zeta:") > strings.Index(out, "alpha:") {
		t.Errorf("key order not preserved:\n%s", out)
	}
}

func TestSerializeStableAcrossRoundTrips(t *testing.T) {
	doc, err := Parse(sampleConfig)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	first, err := doc.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	doc2, err := Parse(first)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	second, err := doc2.Serialize()
	if err != nil {
		t.Fatalf("reserialize: %v", err)
	}

	if first != second {
		t.Errorf("serialization not stable:\n--- first ---\n%s\n--- second ---\n%s", first, second)
	}
}

func TestParseRunningBareList(t *testing.T) {
	running, err := ParseRunning(`- name: web
  runtimeConfig: "image: nginx\ncommandOptions: [\"-p\", \"8080:80\"]"
- name: api
  runtimeConfig: "image: api:v2"
`)
	require.NoError(t, err)
	require.Len(t, running, 2)
	assert.Equal(t, "web", running[0].Name)
	assert.Contains(t, running[0].RuntimeConfig, "8080:80")
}

func TestParseRunningFullDocument(t *testing.T) {
	running, err := ParseRunning(sampleConfig)
	require.NoError(t, err)
	require.Len(t, running, 2)
	assert.Equal(t, "frontend", running[0].Name)
	assert.Contains(t, running[0].RuntimeConfig, "8080:80")
	assert.Equal(t, "backend", running[1].Name)
}
