package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cuemby/preflight/pkg/manifest"
	"github.com/cuemby/preflight/pkg/types"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
)

// readConfig loads the configuration file named by -f.
func readConfig(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %v", err)
	}
	return string(data), nil
}

// loadRunning reads the already-deployed workload set. The file is
// either a YAML list of {name, runtimeConfig} entries or a full
// configuration document whose workloads form the running set.
func loadRunning(path string) ([]types.RunningWorkload, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read running state: %v", err)
	}

	parsed, err := manifest.ParseRunning(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse running state: %v", err)
	}
	running := make([]types.RunningWorkload, 0, len(parsed))
	for _, rw := range parsed {
		if rw.Name != "" {
			running = append(running, rw)
		}
	}
	return running, nil
}

// addCapacityFlags registers the shared capacity flags on simulation
// commands.
func addCapacityFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("cpu", 0, "CPU capacity for the simulation")
	cmd.Flags().Float64("memory", 0, "Memory capacity for the simulation")
	cmd.Flags().String("capacity", "", `Capacity source: "host" probes the local machine (CPUs x1000, total memory in bytes)`)
}

// resolveCapacity builds the simulation capacity from flags. The zero
// value means "no budget": the simulator substitutes its default.
func resolveCapacity(cmd *cobra.Command) (types.Capacity, error) {
	var capacity types.Capacity

	mode, _ := cmd.Flags().GetString("capacity")
	switch mode {
	case "":
	case "host":
		count, err := cpu.Counts(true)
		if err != nil {
			return capacity, fmt.Errorf("failed to probe host CPUs: %v", err)
		}
		vm, err := mem.VirtualMemory()
		if err != nil {
			return capacity, fmt.Errorf("failed to probe host memory: %v", err)
		}
		capacity.CPU = float64(count) * 1000
		capacity.Memory = float64(vm.Total)
	default:
		return capacity, fmt.Errorf("unknown capacity mode %q (only \"host\" is supported)", mode)
	}

	// Explicit flags override the probe
	if cmd.Flags().Changed("cpu") {
		capacity.CPU, _ = cmd.Flags().GetFloat64("cpu")
	}
	if cmd.Flags().Changed("memory") {
		capacity.Memory, _ = cmd.Flags().GetFloat64("memory")
	}
	return capacity, nil
}

// renderJSON prints v as indented JSON on stdout.
func renderJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %v", err)
	}
	fmt.Println(string(data))
	return nil
}

func statusMark(s types.TestStatus) string {
	switch s {
	case types.TestPassed:
		return "✓"
	case types.TestFailed:
		return "✗"
	default:
		return "→"
	}
}

func printValidationReport(r *types.ValidationReport) {
	fmt.Println("Pre-Deployment Validation")
	for _, tr := range r.Tests {
		fmt.Printf("  %s %s (%dms)\n", statusMark(tr.Status), tr.Name, tr.DurationMS)
		for _, issue := range tr.Issues {
			fmt.Printf("      [%s] %s: %s\n", issue.Severity, issue.Type, issue.Message)
			if issue.Recommendation != "" {
				fmt.Printf("        → %s\n", issue.Recommendation)
			}
		}
	}
	s := r.Summary
	fmt.Printf("Summary: %d passed, %d failed, %d skipped (%d errors, %d warnings)\n",
		s.Passed, s.Failed, s.Skipped, s.TotalErrors, s.TotalWarnings)
	fmt.Printf("Overall: %s\n", r.OverallStatus)
}

func printHealingResult(res *types.HealingResult) {
	if res.ValidationReport != nil {
		printValidationReport(res.ValidationReport)
		fmt.Println()
	}

	fmt.Println("Healing:")
	for _, line := range res.HealingReport.Logs {
		fmt.Printf("  %s\n", line)
	}
	if len(res.HealingReport.RemainingIssues) > 0 {
		fmt.Println("Remaining issues:")
		for _, issue := range res.HealingReport.RemainingIssues {
			fmt.Printf("  [%s] %s: %s\n", issue.Severity, issue.Type, issue.Message)
		}
	}
	if res.Error != "" {
		fmt.Printf("Error: %s\n", res.Error)
	}
	fmt.Printf("Status: %s\n", res.DeploymentStatus)
}

func printSimulationResult(sim *types.SimulationResult) {
	fmt.Println("Deployment Simulation")
	if len(sim.PlanOrder) > 0 {
		fmt.Printf("  Plan: %s\n", strings.Join(sim.PlanOrder, " -> "))
	}
	for _, ev := range sim.Timeline {
		switch ev.Event {
		case types.TimelineStarting:
			fmt.Printf("  starting %s (cpu %g, mem %g)\n", ev.Service, ev.CPU, ev.Memory)
		case types.TimelineStarted:
			fmt.Printf("  started  %s (used cpu %g, mem %g)\n", ev.Service, ev.UsedCPU, ev.UsedMemory)
		case types.TimelineFailedToStart:
			fmt.Printf("  ✗ %s failed to start: %s\n", ev.Service, ev.Note)
		}
	}
	for _, issue := range sim.Issues {
		fmt.Printf("  [%s] %s: %s\n", issue.Severity, issue.Type, issue.Message)
	}
	if sim.Success {
		fmt.Println("✓ Simulation succeeded")
	} else {
		fmt.Println("✗ Simulation failed")
	}
}

func printApplyReport(report *types.ApplyReport) {
	fmt.Printf("Apply %s\n", report.ID)
	fmt.Println()

	if report.PreCheck != nil {
		printHealingResult(report.PreCheck)
	}
	if report.Simulation != nil {
		fmt.Println()
		printSimulationResult(report.Simulation)
	}

	fmt.Println()
	switch {
	case report.Error != "":
		fmt.Printf("✗ Apply failed: %s\n", report.Error)
	case report.SnapshotError != "":
		fmt.Printf("✗ Snapshot could not be saved: %s\n", report.SnapshotError)
	case report.SnapshotPath != "":
		fmt.Printf("✓ Configuration accepted, snapshot saved: %s\n", report.SnapshotPath)
	case report.Rollback != nil && report.Rollback.Restored:
		fmt.Printf("✗ Simulation failed, rolled back to %s\n", report.Rollback.SnapshotPath)
	case report.Rollback != nil:
		fmt.Printf("✗ Simulation failed and no snapshot could be restored: %s\n", report.Rollback.Error)
	}
}

// applyExitCode maps an apply report to the process exit code.
func applyExitCode(r *types.ApplyReport) int {
	switch {
	case r.Error == "precheck_failed":
		return exitValidationFailed
	case r.Error != "":
		return exitNoSimulation
	case r.Rollback != nil && r.Rollback.Restored:
		return exitSimulationFailed
	case r.Rollback != nil:
		return exitNoRestore
	case r.SnapshotError != "":
		return 1
	default:
		return exitOK
	}
}
