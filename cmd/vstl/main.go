package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/franz/vst-librarian/internal/service"
	"github.com/franz/vst-librarian/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "vstl",
		Short: "VST Librarian - catalog and manage your audio plugin library",
		Long: `vstl (VST Librarian) keeps a local catalog of VST/VST3 plugins.
It runs the native scanner over configured directories, reconciles the
scan results into a SQLite database, and offers search, tagging, export
and import over the stored plugin set.`,
		Version: Version,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $VSTL_DATA_DIR/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "data directory (database, scan results, artifacts)")
	rootCmd.PersistentFlags().String("db", "", "database file (default is <data-dir>/plugins.db)")
	rootCmd.PersistentFlags().String("scanner", "", "native scanner executable")
	rootCmd.PersistentFlags().String("results", "", "scan-results file (default is <data-dir>/scan-results.json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")
	rootCmd.PersistentFlags().Bool("json", false, "emit machine-readable result envelopes")

	// Bind flags to viper
	viper.BindPFlag("data-dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("scanner", rootCmd.PersistentFlags().Lookup("scanner"))
	viper.BindPFlag("results", rootCmd.PersistentFlags().Lookup("results"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in common locations
		viper.AddConfigPath(".")
		if dir, err := resolveDataDir(); err == nil {
			viper.AddConfigPath(dir)
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("VSTL")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if viper.GetBool("json") {
			json.NewEncoder(os.Stdout).Encode(service.Fail(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
