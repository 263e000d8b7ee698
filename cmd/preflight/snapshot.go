package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cuemby/preflight/pkg/snapshot"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage known-good configuration snapshots",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	RunE:  runSnapshotList,
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show PATH",
	Short: "Show a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotShow,
}

var snapshotRollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore the newest snapshot",
	Long: `Restore the newest known-good configuration. The restored YAML is
printed to stdout, or written to a file with -w.`,
	RunE: runSnapshotRollback,
}

func init() {
	snapshotCmd.PersistentFlags().String("base-dir", ".", "Directory holding the snapshot history")
	snapshotListCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	snapshotShowCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	snapshotRollbackCmd.Flags().StringP("write", "w", "", "Write the restored configuration to this file")

	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotRollbackCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func snapshotStore(cmd *cobra.Command) *snapshot.FileStore {
	baseDir, _ := cmd.Flags().GetString("base-dir")
	return snapshot.NewFileStore(snapshot.DefaultDir(baseDir))
}

type snapshotEntry struct {
	Path string        `json:"path"`
	Meta snapshot.Meta `json:"meta"`
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	store := snapshotStore(cmd)

	paths, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %v", err)
	}

	if output == "json" {
		entries := make([]snapshotEntry, 0, len(paths))
		for _, path := range paths {
			snap, err := store.Load(path)
			if err != nil {
				continue
			}
			entries = append(entries, snapshotEntry{Path: path, Meta: snap.Meta})
		}
		return renderJSON(entries)
	}

	if len(paths) == 0 {
		fmt.Println("No snapshots stored.")
		return nil
	}
	for _, path := range paths {
		snap, err := store.Load(path)
		if err != nil {
			fmt.Printf("%-22s %-14s %s\n", "?", "unreadable", path)
			continue
		}
		sha := snap.Meta.SHA256
		if len(sha) > 12 {
			sha = sha[:12]
		}
		fmt.Printf("%-22s %-14s %s\n", snap.Meta.ISOTime, sha, path)
	}
	return nil
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	store := snapshotStore(cmd)

	snap, err := store.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %v", err)
	}

	if output == "json" {
		return renderJSON(snap)
	}

	fmt.Printf("Time:   %s\n", snap.Meta.ISOTime)
	fmt.Printf("SHA256: %s\n", snap.Meta.SHA256)
	fmt.Println()
	fmt.Print(snap.Config)
	return nil
}

func runSnapshotRollback(cmd *cobra.Command, args []string) error {
	writePath, _ := cmd.Flags().GetString("write")
	store := snapshotStore(cmd)

	restored, path, err := store.RollbackToLatest()
	if errors.Is(err, snapshot.ErrNoSnapshots) {
		return fmt.Errorf("no snapshots available to roll back to")
	}
	if err != nil {
		return fmt.Errorf("rollback failed: %v", err)
	}

	if writePath != "" {
		if err := os.WriteFile(writePath, []byte(restored), 0o644); err != nil {
			return fmt.Errorf("failed to write restored configuration: %v", err)
		}
		fmt.Printf("✓ Rolled back to %s, configuration written to %s\n", path, writePath)
		return nil
	}

	fmt.Fprintf(os.Stderr, "✓ Rolled back to %s\n", path)
	fmt.Print(restored)
	return nil
}
