package manifest

import (
	"fmt"

	"github.com/cuemby/preflight/pkg/types"
	"gopkg.in/yaml.v3"
)

// ParseRunning parses a running-workload inventory for conflict
// checks. Two shapes are accepted: a bare list of {name,
// runtimeConfig} entries, or a full configuration document whose
// workloads are flattened into entries.
func ParseRunning(text string) ([]types.RunningWorkload, error) {
	var list []types.RunningWorkload
	if err := yaml.Unmarshal([]byte(text), &list); err == nil {
		return list, nil
	}

	doc, err := Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse running workloads: %w", err)
	}
	var out []types.RunningWorkload
	for _, w := range doc.Workloads() {
		rc, _ := w.RuntimeConfigText()
		out = append(out, types.RunningWorkload{Name: w.Name(), RuntimeConfig: rc})
	}
	return out, nil
}
