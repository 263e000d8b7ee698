package simulator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cuemby/preflight/pkg/log"
	"github.com/cuemby/preflight/pkg/manifest"
	"github.com/cuemby/preflight/pkg/metrics"
	"github.com/cuemby/preflight/pkg/types"
	"github.com/rs/zerolog"
)

// Simulator performs dry-run deployments. It resolves a startup order
// for the declared workloads and walks that order against a resource
// budget, recording a timeline of lifecycle events. Nothing is ever
// deployed.
type Simulator struct {
	capacity types.Capacity
	logger   zerolog.Logger
}

// demand is one workload's declared resource request. Workloads with
// no resources block demand nothing and always fit.
type demand struct {
	cpu    float64
	memory float64
}

// New creates a simulator admitting workloads against the given
// capacity. A zero capacity selects DefaultCapacity, which is large
// enough that only ordering problems can fail a run. A capacity with
// only one dimension set leaves the other at zero, so any workload
// demanding it will overcommit.
func New(capacity types.Capacity) *Simulator {
	if capacity.CPU == 0 && capacity.Memory == 0 {
		capacity = types.DefaultCapacity
	}
	return &Simulator{
		capacity: capacity,
		logger:   log.WithComponent("simulator"),
	}
}

// SimulateYAML parses configuration text and simulates it. The only
// error is a YAML syntax error; a document without workloads simulates
// as an empty deployment.
func (s *Simulator) SimulateYAML(configYAML string) (*types.SimulationResult, error) {
	doc, err := manifest.Parse(configYAML)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return s.Simulate(doc), nil
}

// Simulate plans and dry-runs the deployment described by doc.
//
// The plan orders dependencies before their dependents, following
// depends_on edges and falling back to the dependencies mapping.
// Cycles abort the run with an empty plan. References to undeclared
// workloads are reported as one advisory and excluded from the plan.
// The resource walk then admits workloads in plan order until one
// would exceed capacity, which fails the run at that point with a
// partial timeline.
func (s *Simulator) Simulate(doc *manifest.Document) *types.SimulationResult {
	workloads := doc.Workloads()
	names := make([]string, 0, len(workloads))
	graph := make(map[string][]string, len(workloads))
	demands := make(map[string]demand, len(workloads))
	for _, w := range workloads {
		name := w.Name()
		names = append(names, name)
		graph[name] = w.OrderingDependencies()
		cpu, memory := w.Resources()
		demands[name] = demand{cpu: cpu, memory: memory}
	}

	plan, cycles, missing := planOrder(names, graph)
	if len(cycles) > 0 {
		s.logger.Warn().Int("cycles", len(cycles)).Msg("simulation aborted on circular dependencies")
		metrics.SimulationsTotal.WithLabelValues("circular_dependency").Inc()
		return &types.SimulationResult{
			Success: false,
			Issues: []types.Issue{{
				Type:    types.IssueTypeSimCircularDependency,
				Message: "Circular dependency: " + strings.Join(cycles[0], " -> "),
				Cycles:  cycles,
			}},
			PlanOrder: []string{},
			Timeline:  []types.TimelineEvent{},
		}
	}

	issues := []types.Issue{}
	if len(missing) > 0 {
		issues = append(issues, types.Issue{
			Type:    types.IssueTypeSimMissingDependency,
			Message: "Missing referenced workloads: " + strings.Join(missing, ", "),
			Nodes:   missing,
		})
	}

	var usedCPU, usedMemory float64
	timeline := make([]types.TimelineEvent, 0, 2*len(plan))

	for _, svc := range plan {
		d := demands[svc]

		timeline = append(timeline, types.TimelineEvent{
			Event:      types.TimelineStarting,
			Service:    svc,
			Timestamp:  time.Now().UTC(),
			CPU:        d.cpu,
			Memory:     d.memory,
			UsedCPU:    usedCPU,
			UsedMemory: usedMemory,
		})

		if usedCPU+d.cpu > s.capacity.CPU || usedMemory+d.memory > s.capacity.Memory {
			msg := fmt.Sprintf("Resource overcommit when starting %s: CPU %s/%s, MEM %s/%s",
				svc,
				formatAmount(usedCPU+d.cpu), formatAmount(s.capacity.CPU),
				formatAmount(usedMemory+d.memory), formatAmount(s.capacity.Memory))
			issues = append(issues, types.Issue{
				Type:     types.IssueTypeSimResourceOvercommit,
				Workload: svc,
				Message:  msg,
			})
			timeline = append(timeline, types.TimelineEvent{
				Event:      types.TimelineFailedToStart,
				Service:    svc,
				Timestamp:  time.Now().UTC(),
				CPU:        d.cpu,
				Memory:     d.memory,
				UsedCPU:    usedCPU,
				UsedMemory: usedMemory,
				Note:       msg,
			})
			s.logger.Warn().Str("service", svc).Msg("simulation failed on resource overcommit")
			metrics.SimulationsTotal.WithLabelValues("resource_overcommit").Inc()
			return &types.SimulationResult{
				Success:   false,
				Issues:    issues,
				PlanOrder: plan,
				Timeline:  timeline,
			}
		}

		usedCPU += d.cpu
		usedMemory += d.memory
		timeline = append(timeline, types.TimelineEvent{
			Event:      types.TimelineStarted,
			Service:    svc,
			Timestamp:  time.Now().UTC(),
			CPU:        d.cpu,
			Memory:     d.memory,
			UsedCPU:    usedCPU,
			UsedMemory: usedMemory,
		})
	}

	s.logger.Info().Int("workloads", len(plan)).Msg("simulation succeeded")
	metrics.SimulationsTotal.WithLabelValues("success").Inc()
	return &types.SimulationResult{
		Success:   true,
		Issues:    issues,
		PlanOrder: plan,
		Timeline:  timeline,
	}
}

// planOrder resolves a dependency-first startup order with a
// depth-first search. Any cycle voids the plan; undeclared references
// are collected once each, in first-seen order, and never enter it.
func planOrder(names []string, graph map[string][]string) (plan []string, cycles [][]string, missing []string) {
	plan = make([]string, 0, len(names))
	visited := make(map[string]bool, len(names))
	onStack := make(map[string]bool, len(names))
	seenMissing := make(map[string]bool)
	var path []string

	var dfs func(node string)
	dfs = func(node string) {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, dep := range graph[node] {
			if _, declared := graph[dep]; !declared {
				if !seenMissing[dep] {
					seenMissing[dep] = true
					missing = append(missing, dep)
				}
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
		plan = append(plan, node)
	}

	for _, node := range names {
		if !visited[node] {
			dfs(node)
		}
	}

	if len(cycles) > 0 {
		return []string{}, cycles, missing
	}
	return plan, cycles, missing
}

// formatAmount renders a resource quantity without exponent notation,
// so the default CPU budget prints as 1000000 rather than 1e+06.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
