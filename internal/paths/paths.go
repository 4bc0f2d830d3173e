// Package paths resolves storage locations for the plugin library:
// the SQLite database, the scan-results JSON file, the export file and
// the native scanner executable.
package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const appDirName = "vst-librarian"

// Environment variable names for location overrides.
const (
	EnvDataDir = "VSTL_DATA_DIR"
	EnvScanner = "VSTL_SCANNER"
)

// ScannerName is the base name of the native scanner executable.
const ScannerName = "vstscan"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	executable    func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	executable:    os.Executable,
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/vst-librarian (fallback ~/.local/share/vst-librarian)
// macOS:   ~/Library/Application Support/vst-librarian
// Windows: %APPDATA%/vst-librarian
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appDirName), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > VSTL_DATA_DIR env > DefaultDataDir().
func ResolveDataDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}

// DatabaseFile returns the path of the SQLite database inside dataDir.
func DatabaseFile(dataDir string) string {
	return filepath.Join(dataDir, "plugins.db")
}

// ScanResultsFile returns the canonical scan-results JSON path inside dataDir.
func ScanResultsFile(dataDir string) string {
	return filepath.Join(dataDir, "scan-results.json")
}

// ExportFile returns the default export destination inside dataDir.
func ExportFile(dataDir string) string {
	return filepath.Join(dataDir, "plugins-export.json")
}

// ArtifactsDir returns the directory for JSONL event logs inside dataDir.
func ArtifactsDir(dataDir string) string {
	return filepath.Join(dataDir, "artifacts")
}

// ResolveScanner locates the native scanner executable. Precedence:
// flag > VSTL_SCANNER env > sibling of the running executable (packaged
// install) > PATH lookup (development).
func ResolveScanner(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(EnvScanner); env != "" {
		return env, nil
	}

	name := ScannerName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	// Packaged installs ship the scanner next to the main binary
	if self, err := platformDir.executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), name)
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}

	return exec.LookPath(name)
}
