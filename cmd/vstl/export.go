package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/franz/vst-librarian/internal/paths"
	"github.com/franz/vst-librarian/internal/service"
	"github.com/franz/vst-librarian/internal/util"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the catalog to a plugins JSON file",
	Long: `Export the current catalog as {"plugins": [...]} with decoded paths.
Without an argument the export is written into the data directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	st, dataDir, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger := newEventLogger(dataDir)
	defer logger.Close()

	dest := paths.ExportFile(dataDir)
	if len(args) == 1 {
		dest = args[0]
	}

	svc := service.NewPluginService(st)
	written, err := svc.Export(dest)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	count := 0
	if views, err := svc.List(); err == nil {
		count = len(views)
	}
	logger.LogExport(written, count)

	size := ""
	if info, err := os.Stat(written); err == nil {
		size = " (" + humanize.Bytes(uint64(info.Size())) + ")"
	}
	util.SuccessLog("Exported %d plugins to %s%s", count, written, size)

	if jsonOutput() {
		return printJSON(service.OK(map[string]interface{}{"path": written, "count": count}))
	}
	return nil
}
