package main

import (
	"context"
	"fmt"

	"github.com/franz/vst-librarian/internal/importer"
	"github.com/franz/vst-librarian/internal/service"
	"github.com/franz/vst-librarian/internal/util"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [results-file]",
	Short: "Reconcile an existing scan-results file into the catalog",
	Long: `Reconcile the scan-results JSON file into the catalog without
running the scanner.

Without an argument the canonical scan-results file in the data directory
is used. A missing file is not an error: there is nothing to sync yet.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogFlags()

	st, dataDir, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger := newEventLogger(dataDir)
	defer logger.Close()

	resultsPath := resultsFile(dataDir)
	if len(args) == 1 {
		resultsPath = args[0]
	}

	im := importer.New(st, logger)
	im.ShowProgress = true

	result, err := im.ImportFile(ctx, resultsPath)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	util.SuccessLog("Sync complete: %d inserted, %d updated, %d processed",
		result.Inserted, result.Updated, result.Processed)

	if jsonOutput() {
		return printJSON(service.OK(result))
	}
	return nil
}
