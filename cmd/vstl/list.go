package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/franz/vst-librarian/internal/service"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cataloged plugins",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	plugins, err := service.NewPluginService(st).List()
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(service.OK(plugins))
	}

	printPluginTable(plugins)
	return nil
}

func printPluginTable(plugins []*service.PluginView) {
	if len(plugins) == 0 {
		fmt.Println("No plugins cataloged. Run 'vstl scan' first.")
		return
	}

	fmt.Printf("%-32s %-20s %-12s %-10s %s\n", "NAME", "VENDOR", "CATEGORY", "VALID", "UPDATED")
	for _, p := range plugins {
		valid := "yes"
		if !p.IsValid {
			valid = "no"
		}
		fmt.Printf("%-32s %-20s %-12s %-10s %s\n",
			truncate(p.Name, 32), truncate(p.Vendor, 20), truncate(p.Category, 12),
			valid, humanize.Time(p.UpdatedAt))
	}
	fmt.Printf("\n%d plugins\n", len(plugins))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
