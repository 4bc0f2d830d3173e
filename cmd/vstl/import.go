package main

import (
	"context"
	"fmt"
	"os"

	"github.com/franz/vst-librarian/internal/importer"
	"github.com/franz/vst-librarian/internal/service"
	"github.com/franz/vst-librarian/internal/util"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a plugins JSON file into the catalog",
	Long: `Validate a plugins JSON file, persist it as the canonical
scan-results file, and reconcile it into the catalog. Accepts both
{"plugins": [...]} documents and bare top-level arrays.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogFlags()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%w: failed to read %s: %v", util.ErrIO, args[0], err)
	}

	st, dataDir, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger := newEventLogger(dataDir)
	defer logger.Close()

	im := importer.New(st, logger)
	im.ShowProgress = true

	result, err := service.NewPluginService(st).Import(ctx, data, resultsFile(dataDir), im)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	util.SuccessLog("Import complete: %d inserted, %d updated, %d processed",
		result.Inserted, result.Updated, result.Processed)

	if jsonOutput() {
		return printJSON(service.OK(result))
	}
	return nil
}
