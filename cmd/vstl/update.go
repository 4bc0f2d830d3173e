package main

import (
	"fmt"
	"strings"

	"github.com/franz/vst-librarian/internal/service"
	"github.com/franz/vst-librarian/internal/util"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <id> <field=value>...",
	Short: "Update fields of a plugin record",
	Long: `Update one or more fields of a plugin record.

Fields are given as field=value pairs, e.g.:

  vstl update <id> vendor="FabFilter" category=Fx

Multi-valued fields (subCategories, path) take comma-separated values.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	fields := make(map[string]interface{}, len(args)-1)
	for _, pair := range args[1:] {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return fmt.Errorf("%w: expected field=value, got %q", util.ErrInvalidArgument, pair)
		}
		switch name {
		case "subCategories", "path":
			fields[name] = service.SplitPaths(value)
		default:
			fields[name] = value
		}
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := service.NewPluginService(st).Update(args[0], fields)
	if err != nil {
		return err
	}

	util.SuccessLog("Updated plugin %s", p.Name)
	if jsonOutput() {
		return printJSON(service.OK(p))
	}
	return nil
}
