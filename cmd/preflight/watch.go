package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/cuemby/preflight/pkg/events"
	"github.com/cuemby/preflight/pkg/metrics"
	"github.com/cuemby/preflight/pkg/snapshot"
	"github.com/cuemby/preflight/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously validate a configuration file",
	Long: `Watch a workload configuration file and re-run the validation suite
whenever its content changes. Pipeline events are printed as they
happen, and a status server exposes /status, /metrics, /healthz,
/readyz and /livez for scraping.

Examples:
  # Watch with the default 10s interval
  preflight watch -f config.yaml

  # Faster polling, custom bind address
  preflight watch -f config.yaml --interval 2s --listen :9100`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("file", "f", "", "YAML configuration file to watch (required)")
	watchCmd.Flags().Duration("interval", watcher.DefaultInterval, "Poll interval")
	watchCmd.Flags().String("listen", ":9464", "Status server bind address (empty disables the server)")
	watchCmd.Flags().String("running", "", "YAML file describing already-deployed workloads")
	watchCmd.Flags().String("base-dir", ".", "Directory holding the snapshot history")
	_ = watchCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	interval, _ := cmd.Flags().GetDuration("interval")
	listen, _ := cmd.Flags().GetString("listen")
	runningPath, _ := cmd.Flags().GetString("running")
	baseDir, _ := cmd.Flags().GetString("base-dir")

	running, err := loadRunning(runningPath)
	if err != nil {
		return err
	}

	metrics.SetVersion(Version)

	broker := events.NewBroker()
	broker.Start()
	sub := broker.Subscribe()
	go printEvents(sub)

	w, err := watcher.NewWatcher(&watcher.Config{
		Path:     filename,
		Interval: interval,
		Running:  running,
		Broker:   broker,
	})
	if err != nil {
		return err
	}

	// The snapshot gauge tracks the apply history alongside host usage.
	store := snapshot.NewFileStore(snapshot.DefaultDir(baseDir))
	collector := metrics.NewCollector(store)
	collector.Start()

	w.Start()
	fmt.Printf("Watching %s (interval %s)\n", filename, interval)

	errCh := make(chan error, 1)
	if listen != "" {
		srv := watcher.NewStatusServer(w)
		go func() {
			if err := srv.Start(listen); err != nil {
				errCh <- fmt.Errorf("status server error: %v", err)
			}
		}()
		fmt.Printf("✓ Status server listening on %s\n", listen)
	}

	fmt.Println("Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("\nShutting down...")
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
	}

	w.Stop()
	collector.Stop()
	broker.Unsubscribe(sub)
	broker.Stop()

	fmt.Println("✓ Shutdown complete")
	return nil
}

// printEvents renders pipeline events as they arrive, with metadata in
// a stable order.
func printEvents(sub events.Subscriber) {
	for ev := range sub {
		keys := make([]string, 0, len(ev.Metadata))
		for k := range ev.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, ev.Metadata[k]))
		}

		line := fmt.Sprintf("→ [%s] %s", ev.Type, ev.Message)
		if len(parts) > 0 {
			line += " (" + strings.Join(parts, " ") + ")"
		}
		fmt.Println(line)
	}
}
