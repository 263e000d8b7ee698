package main

import (
	"os"

	"github.com/cuemby/preflight/pkg/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the validation suite against a configuration",
	Long: `Run all validation tests against a workload configuration: schema
checks, dependency references, circular dependency detection, and
port conflict detection.

Examples:
  # Validate a configuration file
  preflight validate -f config.yaml

  # Validate against already-deployed workloads
  preflight validate -f config.yaml --running state.yaml

  # Machine-readable report
  preflight validate -f config.yaml -o json`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringP("file", "f", "", "YAML configuration file to validate (required)")
	validateCmd.Flags().String("running", "", "YAML file describing already-deployed workloads")
	validateCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	_ = validateCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
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

	report := validator.NewRunner(running).Validate(text)

	if output == "json" {
		if err := renderJSON(report); err != nil {
			return err
		}
	} else {
		printValidationReport(report)
	}

	if !report.Valid() {
		os.Exit(exitValidationFailed)
	}
	return nil
}
