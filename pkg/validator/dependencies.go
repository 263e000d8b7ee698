package validator

import (
	"fmt"

	"github.com/cuemby/preflight/pkg/manifest"
	"github.com/cuemby/preflight/pkg/types"
)

// DependencyAnalyzer validates workload dependency references and
// detects cycles in the dependency graph. The universe a dependency
// may point at is the union of the document's own workloads and the
// names of workloads already running on the cluster.
type DependencyAnalyzer struct {
	running map[string]bool
}

// NewDependencyAnalyzer creates an analyzer aware of currently
// deployed workload names.
func NewDependencyAnalyzer(currentWorkloads []string) *DependencyAnalyzer {
	running := make(map[string]bool, len(currentWorkloads))
	for _, name := range currentWorkloads {
		running[name] = true
	}
	return &DependencyAnalyzer{running: running}
}

// Analyze checks every declared dependency for self-references and
// dangling names. Findings come back in document order.
func (a *DependencyAnalyzer) Analyze(doc *manifest.Document) []types.Issue {
	if !doc.IsMapping() {
		return []types.Issue{{
			Type:     types.IssueTypeInvalidConfig,
			Severity: types.SeverityError,
			Message:  fmt.Sprintf("Configuration must be a YAML object/dictionary, got %s", documentKind(doc)),
		}}
	}

	if node, ok := doc.WorkloadsNode(); ok && !manifest.IsNullNode(node) && !doc.WorkloadsIsMapping() {
		return []types.Issue{{
			Type:     types.IssueTypeInvalidConfig,
			Severity: types.SeverityError,
			Message:  `"workloads" section must be a mapping of workload specifications`,
		}}
	}

	workloads := doc.Workloads()
	available := make(map[string]bool, len(workloads)+len(a.running))
	for name := range a.running {
		available[name] = true
	}
	for _, w := range workloads {
		available[w.Name()] = true
	}

	var issues []types.Issue
	for _, w := range workloads {
		name := w.Name()
		for _, dep := range w.DependencyNames() {
			if dep == name {
				issues = append(issues, types.Issue{
					Type:     types.IssueTypeSelfDependency,
					Severity: types.SeverityError,
					Workload: name,
					Message:  fmt.Sprintf("Workload %q cannot depend on itself", name),
				})
				continue
			}
			if !available[dep] {
				issues = append(issues, types.Issue{
					Type:       types.IssueTypeMissingDependency,
					Severity:   types.SeverityError,
					Workload:   name,
					Dependency: dep,
					Message:    fmt.Sprintf("Workload %q depends on %q which doesn't exist", name, dep),
				})
			}
		}
	}
	return issues
}

// DetectCycles finds circular dependencies with a depth-first search
// over the document's dependency graph. Each back edge produces one
// cycle path that closes on its starting node, so a two-node cycle
// reports as [a b a]. Dependencies that are not workloads in this
// document are skipped; dangling references are Analyze's concern.
func (a *DependencyAnalyzer) DetectCycles(doc *manifest.Document) [][]string {
	workloads := doc.Workloads()
	graph := make(map[string][]string, len(workloads))
	order := make([]string, 0, len(workloads))
	for _, w := range workloads {
		graph[w.Name()] = w.DependencyNames()
		order = append(order, w.Name())
	}

	visited := make(map[string]bool, len(graph))
	onStack := make(map[string]bool, len(graph))
	var path []string
	var cycles [][]string

	var dfs func(node string)
	dfs = func(node string) {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, dep := range graph[node] {
			if _, declared := graph[dep]; !declared {
				continue
			}
			if !visited[dep] {
				dfs(dep)
			} else if onStack[dep] {
				start := 0
				for i, n := range path {
					if n == dep {
						start = i
						break
					}
				}
				cycle := make([]string, 0, len(path)-start+1)
				cycle = append(cycle, path[start:]...)
				cycle = append(cycle, dep)
				cycles = append(cycles, cycle)
			}
		}

		onStack[node] = false
		path = path[:len(path)-1]
	}

	for _, node := range order {
		if !visited[node] {
			dfs(node)
		}
	}
	return cycles
}

func documentKind(doc *manifest.Document) string {
	switch {
	case doc.IsMapping():
		return "mapping"
	case doc.IsSequence():
		return "list"
	case doc.IsEmpty():
		return "null"
	default:
		return "scalar"
	}
}
