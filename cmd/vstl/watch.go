package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/franz/vst-librarian/internal/importer"
	"github.com/franz/vst-librarian/internal/util"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the scan-results file and resync on change",
	Long: `Watch the canonical scan-results JSON file and reconcile it into
the catalog whenever the scanner rewrites it. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("debounce", 500*time.Millisecond, "settle time after a change before resyncing")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	applyLogFlags()

	st, dataDir, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger := newEventLogger(dataDir)
	defer logger.Close()

	resultsPath := resultsFile(dataDir)
	im := importer.New(st, logger)

	// Sync whatever is there before settling into the watch loop
	if result, err := im.ImportFile(ctx, resultsPath); err != nil {
		util.WarnLog("Initial sync failed: %v", err)
	} else if result.Processed > 0 {
		util.InfoLog("Initial sync: %d inserted, %d updated", result.Inserted, result.Updated)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: scanners typically replace the file atomically,
	// which would drop a watch on the file itself.
	if err := watcher.Add(filepath.Dir(resultsPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(resultsPath), err)
	}

	debounce, _ := cmd.Flags().GetDuration("debounce")
	util.InfoLog("Watching %s", resultsPath)

	var timer *time.Timer
	resync := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			util.InfoLog("Stopping watch")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != resultsPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Debounce rapid successive writes
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case resync <- struct{}{}:
				default:
				}
			})

		case <-resync:
			result, err := im.ImportFile(ctx, resultsPath)
			if err != nil {
				util.ErrorLog("Resync failed: %v", err)
				logger.LogError("watch resync", err)
				continue
			}
			util.SuccessLog("Resynced: %d inserted, %d updated", result.Inserted, result.Updated)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			util.WarnLog("Watcher error: %v", err)
		}
	}
}
