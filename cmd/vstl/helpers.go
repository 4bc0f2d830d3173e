package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/franz/vst-librarian/internal/paths"
	"github.com/franz/vst-librarian/internal/report"
	"github.com/franz/vst-librarian/internal/store"
	"github.com/franz/vst-librarian/internal/util"
	"github.com/spf13/viper"
)

func applyLogFlags() {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
}

func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(viper.GetString("data-dir"))
}

// openStore opens the plugin database, creating the data directory when
// needed, and returns the resolved data directory alongside it.
func openStore() (*store.Store, string, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve data directory: %w", err)
	}

	dbPath := viper.GetString("db")
	if dbPath == "" {
		dbPath = paths.DatabaseFile(dataDir)
	}

	util.DebugLog("Opening database: %s", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}
	return st, dataDir, nil
}

// newEventLogger creates the JSONL event logger under the data directory,
// degrading to a null logger when the artifacts directory is unavailable.
func newEventLogger(dataDir string) *report.EventLogger {
	logLevel := report.LevelInfo
	if viper.GetBool("quiet") {
		logLevel = report.LevelWarning
	} else if viper.GetBool("verbose") {
		logLevel = report.LevelDebug
	}

	logger, err := report.NewEventLogger(paths.ArtifactsDir(dataDir), logLevel)
	if err != nil {
		util.WarnLog("Failed to create event logger: %v", err)
		return report.NullLogger()
	}
	util.DebugLog("Event log: %s", logger.Path())
	return logger
}

// resultsFile resolves the scan-results path: --results flag (or VSTL_RESULTS)
// wins, the canonical file inside dataDir otherwise.
func resultsFile(dataDir string) string {
	if p := viper.GetString("results"); p != "" {
		return p
	}
	return paths.ScanResultsFile(dataDir)
}

func jsonOutput() bool {
	return viper.GetBool("json")
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
