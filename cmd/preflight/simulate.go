package main

import (
	"fmt"
	"os"

	"github.com/cuemby/preflight/pkg/simulator"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Dry-run a deployment against a resource capacity",
	Long: `Simulate deploying a configuration: compute a dependency-ordered
start plan and admit each workload against the capacity budget. No
workload is actually started.

Examples:
  # Simulate with an explicit budget
  preflight simulate -f config.yaml --cpu 4000 --memory 8192

  # Simulate against this machine's resources
  preflight simulate -f config.yaml --capacity host`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringP("file", "f", "", "YAML configuration file to simulate (required)")
	simulateCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	addCapacityFlags(simulateCmd)
	_ = simulateCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	output, _ := cmd.Flags().GetString("output")

	text, err := readConfig(filename)
	if err != nil {
		return err
	}
	capacity, err := resolveCapacity(cmd)
	if err != nil {
		return err
	}

	result, err := simulator.New(capacity).SimulateYAML(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Simulation could not run: %v\n", err)
		os.Exit(exitNoSimulation)
	}

	if output == "json" {
		if err := renderJSON(result); err != nil {
			return err
		}
	} else {
		printSimulationResult(result)
	}

	if !result.Success {
		os.Exit(exitSimulationFailed)
	}
	return nil
}
