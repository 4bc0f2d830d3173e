package main

import (
	"github.com/franz/vst-librarian/internal/service"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search plugins by name, vendor or path",
	Long: `Search the catalog for plugins whose name, vendor or path contains
the term, case-insensitively.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	plugins, err := service.NewPluginService(st).Search(args[0])
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(service.OK(plugins))
	}

	printPluginTable(plugins)
	return nil
}
