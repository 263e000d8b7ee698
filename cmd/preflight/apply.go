package main

import (
	"os"

	"github.com/cuemby/preflight/pkg/deploy"
	"github.com/cuemby/preflight/pkg/snapshot"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run the full pipeline: validate, heal, simulate, snapshot",
	Long: `Apply a workload configuration through the full pipeline. The
configuration is validated and healed, then simulated against the
capacity budget. A configuration that passes both gates is stored as
a known-good snapshot; one that fails simulation triggers a rollback
to the newest snapshot instead.

Exit codes: 0 accepted, 2 validation failed, 3 simulation could not
run, 4 simulation failed and the last snapshot was restored, 5
simulation failed with nothing to restore.

Examples:
  # Apply with healing and host capacity
  preflight apply -f config.yaml --capacity host

  # Apply without auto-healing, keeping history in a custom directory
  preflight apply -f config.yaml --no-heal --base-dir /var/lib/preflight`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("file", "f", "", "YAML configuration file to apply (required)")
	applyCmd.Flags().Bool("no-heal", false, "Fail on validation errors instead of healing them")
	applyCmd.Flags().String("base-dir", ".", "Directory holding the snapshot history")
	applyCmd.Flags().String("running", "", "YAML file describing already-deployed workloads")
	applyCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	addCapacityFlags(applyCmd)
	_ = applyCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	noHeal, _ := cmd.Flags().GetBool("no-heal")
	baseDir, _ := cmd.Flags().GetString("base-dir")
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
	capacity, err := resolveCapacity(cmd)
	if err != nil {
		return err
	}

	store := snapshot.NewFileStore(snapshot.DefaultDir(baseDir))
	mgr := deploy.NewManager(running, capacity, store, nil)

	report := mgr.Apply(text, !noHeal)

	if output == "json" {
		if err := renderJSON(report); err != nil {
			return err
		}
	} else {
		printApplyReport(report)
	}

	if code := applyExitCode(report); code != exitOK {
		os.Exit(code)
	}
	return nil
}
