package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/franz/vst-librarian/internal/service"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog summary",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := service.NewPluginService(st).Stats()
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(service.OK(stats))
	}

	fmt.Printf("Plugins:   %d\n", stats.Total)
	fmt.Printf("Valid:     %d\n", stats.Valid)
	fmt.Printf("Invalid:   %d\n", stats.Invalid)
	fmt.Printf("Vendors:   %d\n", stats.Vendors)
	if !stats.LastUpdate.IsZero() {
		fmt.Printf("Last sync: %s\n", humanize.Time(stats.LastUpdate))
	}
	return nil
}
