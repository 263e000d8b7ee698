package main

import (
	"fmt"
	"os"

	"github.com/cuemby/preflight/pkg/log"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Exit codes mirror the pipeline outcomes so scripts can branch on
// the result without parsing output.
const (
	exitOK               = 0
	exitValidationFailed = 2
	exitNoSimulation     = 3
	exitSimulationFailed = 4 // during apply: the last snapshot was restored
	exitNoRestore        = 5 // simulation failed with no snapshot to restore
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Preflight - deployment configuration validation and healing",
	Long: `Preflight validates declarative workload configurations before they
reach an orchestrator: schema checks, dependency analysis, cycle
detection, and port conflict detection, with optional auto-healing of
the issues it finds.

A configuration that passes validation can be dry-run against a
resource capacity, snapshotted as known-good, and rolled back to when
a later change fails its checks.`,
	Version: Version,
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Preflight version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON instead of console output")

	// Logs go to stderr; stdout carries the reports.
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		jsonOut, _ := cmd.Flags().GetBool("log-json")
		log.Init(log.Config{
			Level:      log.Level(level),
			JSONOutput: jsonOut,
		})
	}

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Preflight version %s\nCommit: %s\nBuilt: %s\n", Version, Commit, BuildTime)
	},
}
