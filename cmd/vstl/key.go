package main

import (
	"github.com/franz/vst-librarian/internal/service"
	"github.com/franz/vst-librarian/internal/util"
	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key <id> <key>",
	Short: "Attach a license or activation key to a plugin",
	Args:  cobra.ExactArgs(2),
	RunE:  runKey,
}

func init() {
	rootCmd.AddCommand(keyCmd)
}

func runKey(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := service.NewPluginService(st).SaveKey(args[0], args[1]); err != nil {
		return err
	}

	util.SuccessLog("Key saved for plugin %s", args[0])
	if jsonOutput() {
		return printJSON(service.OKMessage("key saved", nil))
	}
	return nil
}
