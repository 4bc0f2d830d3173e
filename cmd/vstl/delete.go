package main

import (
	"fmt"

	"github.com/franz/vst-librarian/internal/service"
	"github.com/franz/vst-librarian/internal/util"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one plugin, or the whole catalog with --all",
	Long: `Delete a plugin record by id. Deleting an unknown id succeeds
without effect.

With --all the entire catalog is removed; plugin files on disk are never
touched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().Bool("all", false, "delete every plugin record")
}

func runDelete(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) == 0 {
		return fmt.Errorf("%w: plugin id or --all is required", util.ErrInvalidArgument)
	}

	st, dataDir, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger := newEventLogger(dataDir)
	defer logger.Close()

	svc := service.NewPluginService(st)

	if all {
		removed, err := svc.DeleteAll()
		if err != nil {
			return err
		}
		logger.LogDelete("", int(removed))
		util.SuccessLog("Removed %d plugins", removed)
		if jsonOutput() {
			return printJSON(service.OKMessage(fmt.Sprintf("removed %d plugins", removed), nil))
		}
		return nil
	}

	if err := svc.Delete(args[0]); err != nil {
		return err
	}
	logger.LogDelete(args[0], 1)
	util.SuccessLog("Deleted plugin %s", args[0])
	if jsonOutput() {
		return printJSON(service.OKMessage("deleted", nil))
	}
	return nil
}
