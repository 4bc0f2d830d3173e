package main

import (
	"fmt"

	"github.com/franz/vst-librarian/internal/service"
	"github.com/franz/vst-librarian/internal/util"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	RunE:  runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting value",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Check accessibility of scan paths",
	Long: `Check that scan paths exist and are readable. Without arguments the
configured vst_paths entries are checked.`,
	RunE: runSettingsValidate,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
}

func runSettingsList(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	settings, err := service.NewSettingsService(st).All()
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(service.OK(settings))
	}

	for _, s := range settings {
		fmt.Printf("%s = %s\n", s.Key, s.Value)
		if s.Description != "" {
			fmt.Printf("  # %s\n", s.Description)
		}
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	setting, err := service.NewSettingsService(st).Get(args[0])
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(service.OK(setting))
	}
	fmt.Println(setting.Value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	setting, err := service.NewSettingsService(st).Set(args[0], args[1])
	if err != nil {
		return err
	}

	util.SuccessLog("Setting %s updated", setting.Key)
	if jsonOutput() {
		return printJSON(service.OK(setting))
	}
	return nil
}

func runSettingsValidate(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	svc := service.NewSettingsService(st)

	checkPaths := args
	if len(checkPaths) == 0 {
		checkPaths, err = svc.ScanPaths()
		if err != nil {
			return err
		}
	}

	results := svc.ValidatePaths(checkPaths)

	if jsonOutput() {
		return printJSON(service.OK(results))
	}

	for _, r := range results {
		if r.Exists {
			fmt.Printf("ok       %s\n", r.Path)
		} else {
			fmt.Printf("missing  %s (%s)\n", r.Path, r.Error)
		}
	}
	return nil
}
