package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/franz/vst-librarian/internal/importer"
	"github.com/franz/vst-librarian/internal/paths"
	"github.com/franz/vst-librarian/internal/scanner"
	"github.com/franz/vst-librarian/internal/service"
	"github.com/franz/vst-librarian/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scanCmd = &cobra.Command{
	Use:   "scan [directory...]",
	Short: "Run the native scanner and reconcile results into the catalog",
	Long: `Run the native scanner over plugin directories and reconcile the
discovered plugins into the catalog.

Directories come from the command line, or from the vst_paths setting when
none are given. Each directory is scanned independently: a scanner failure
in one directory is reported and the remaining directories still run.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Duration("timeout", scanner.DefaultTimeout, "per-directory scanner timeout")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogFlags()

	st, dataDir, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger := newEventLogger(dataDir)
	defer logger.Close()

	// Resolve scan directories: arguments win, settings otherwise
	dirs := args
	if len(dirs) == 0 {
		settings := service.NewSettingsService(st)
		dirs, err = settings.ScanPaths()
		if err != nil {
			return err
		}
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no scan directories configured (set %s or pass directories)", service.VSTPathsKey)
	}

	executable, err := paths.ResolveScanner(viper.GetString("scanner"))
	if err != nil {
		return fmt.Errorf("%w: scanner executable not found (set --scanner or %s)", util.ErrExternalTool, paths.EnvScanner)
	}

	sc := scanner.New(executable, logger)
	if timeout, err := cmd.Flags().GetDuration("timeout"); err == nil && timeout > 0 {
		sc.Timeout = timeout
	}

	util.InfoLog("Scanning %d directories with %s", len(dirs), executable)
	started := time.Now()

	scanResult, err := sc.ScanDirectories(ctx, dirs)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	// Persist the merged payload as the canonical scan-results file
	resultsPath := resultsFile(dataDir)
	if data, err := json.MarshalIndent(scanResult.Document, "", "  "); err == nil {
		if err := os.WriteFile(resultsPath, data, 0644); err != nil {
			util.WarnLog("Failed to write scan results file: %v", err)
		}
	}

	im := importer.New(st, logger)
	im.ShowProgress = true

	result, err := im.ImportDocument(ctx, scanResult.Document)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	util.SuccessLog("Scan complete in %v", time.Since(started).Round(time.Millisecond))
	util.InfoLog("  Plugins found: %d", len(scanResult.Document.Plugins))
	util.InfoLog("  Inserted: %d", result.Inserted)
	util.InfoLog("  Updated: %d", result.Updated)
	for _, dirErr := range scanResult.Errors {
		util.WarnLog("  %v", dirErr)
	}

	if jsonOutput() {
		return printJSON(service.OK(result))
	}
	return nil
}
