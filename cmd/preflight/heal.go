package main

import (
	"fmt"
	"os"

	"github.com/cuemby/preflight/pkg/healer"
	"github.com/spf13/cobra"
)

var healCmd = &cobra.Command{
	Use:   "heal",
	Short: "Validate a configuration and auto-fix the issues found",
	Long: `Validate a workload configuration and, when it fails, apply automatic
fixes: missing fields get defaults, broken dependency references are
removed, cycles are broken, and conflicting ports are adjusted. The
healed configuration is re-validated before it is reported as fixed.

Examples:
  # Heal a configuration and write the result
  preflight heal -f config.yaml -w healed.yaml

  # Report what healing would be needed without applying fixes
  preflight heal -f config.yaml --no-auto`,
	RunE: runHeal,
}

func init() {
	healCmd.Flags().StringP("file", "f", "", "YAML configuration file to heal (required)")
	healCmd.Flags().StringP("write", "w", "", "Write the healed configuration to this file")
	healCmd.Flags().Bool("no-auto", false, "Report issues without applying fixes")
	healCmd.Flags().String("running", "", "YAML file describing already-deployed workloads")
	healCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	_ = healCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(healCmd)
}

func runHeal(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	writePath, _ := cmd.Flags().GetString("write")
	noAuto, _ := cmd.Flags().GetBool("no-auto")
	runningPath, _ := cmd.Flags().GetString("running")
	output, _ := cmd.Flags().GetString("output")

	text, err := readConfig(filename)
	if err != nil {
		return err
	}
	running, err := loadRunning(runningPath)
	if err != nil {
		return err
	}

	result := healer.New(running).ValidateAndHeal(text, !noAuto)

	if output == "json" {
		if err := renderJSON(result); err != nil {
			return err
		}
	} else {
		printHealingResult(result)
	}

	if writePath != "" {
		if err := os.WriteFile(writePath, []byte(result.Config), 0o644); err != nil {
			return fmt.Errorf("failed to write healed configuration: %v", err)
		}
		fmt.Printf("✓ Configuration written to %s\n", writePath)
	}

	if !result.Success {
		os.Exit(exitValidationFailed)
	}
	return nil
}
