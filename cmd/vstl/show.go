package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/franz/vst-librarian/internal/service"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one plugin record in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := service.NewPluginService(st).Get(args[0])
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(service.OK(p))
	}

	fmt.Printf("ID:            %s\n", p.ID)
	fmt.Printf("Name:          %s\n", p.Name)
	if p.Vendor != "" {
		fmt.Printf("Vendor:        %s\n", p.Vendor)
	}
	if p.Version != "" {
		fmt.Printf("Version:       %s\n", p.Version)
	}
	if p.Category != "" {
		fmt.Printf("Category:      %s\n", p.Category)
	}
	if len(p.SubCategories) > 0 {
		fmt.Printf("Subcategories: %s\n", strings.Join(p.SubCategories, ", "))
	}
	if p.SDKVersion != "" {
		fmt.Printf("SDK:           %s\n", p.SDKVersion)
	}
	for i, path := range p.Path {
		if i == 0 {
			fmt.Printf("Path:          %s\n", path)
		} else {
			fmt.Printf("               %s\n", path)
		}
	}
	fmt.Printf("Valid:         %t\n", p.IsValid)
	if p.Error != "" {
		fmt.Printf("Scan error:    %s\n", p.Error)
	}
	if p.Key != "" {
		fmt.Printf("Key:           %s\n", p.Key)
	}
	fmt.Printf("Added:         %s\n", humanize.Time(p.CreatedAt))
	fmt.Printf("Updated:       %s\n", humanize.Time(p.UpdatedAt))
	return nil
}
