package service

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/franz/vst-librarian/internal/store"
	"github.com/franz/vst-librarian/internal/util"
)

// VSTPathsKey is the settings key holding the comma-separated scan
// directory list.
const VSTPathsKey = "vst_paths"

// SettingsService exposes the key/value configuration store
type SettingsService struct {
	store *store.Store
}

// NewSettingsService creates a SettingsService backed by the given store
func NewSettingsService(st *store.Store) *SettingsService {
	return &SettingsService{store: st}
}

// All returns every setting. An empty store is seeded with the default
// vst_paths entry first, so the first caller always sees a usable set.
func (s *SettingsService) All() ([]*store.Setting, error) {
	settings, err := s.store.ListSettings()
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		return settings, nil
	}

	util.InfoLog("Seeding default settings")
	if err := s.store.SetSetting(VSTPathsKey, DefaultVSTPaths(), "Directories scanned for VST/VST3 plugins"); err != nil {
		return nil, err
	}
	return s.store.ListSettings()
}

// Get returns a single setting by key
func (s *SettingsService) Get(key string) (*store.Setting, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: setting key is required", util.ErrInvalidArgument)
	}
	setting, err := s.store.GetSetting(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, fmt.Errorf("%w: setting %s", util.ErrNotFound, key)
	}
	return setting, nil
}

// Set inserts or updates a setting and returns the stored record
func (s *SettingsService) Set(key, value string) (*store.Setting, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: setting key is required", util.ErrInvalidArgument)
	}
	if err := s.store.SetSetting(key, value, ""); err != nil {
		return nil, err
	}
	return s.Get(key)
}

// ScanPaths returns the configured scan directories, seeding defaults when
// the setting is absent.
func (s *SettingsService) ScanPaths() ([]string, error) {
	setting, err := s.store.GetSetting(VSTPathsKey)
	if err != nil {
		return nil, err
	}
	value := ""
	if setting != nil {
		value = setting.Value
	}
	if value == "" {
		value = DefaultVSTPaths()
	}
	return SplitPaths(value), nil
}

// ValidatePaths checks read-accessibility of every input path. It never
// fails: each path yields exactly one result entry.
func (s *SettingsService) ValidatePaths(paths []string) []util.PathStatus {
	return util.CheckPathsAccessible(paths)
}

// SplitPaths splits a comma-separated path list, trimming whitespace and
// dropping empty entries.
func SplitPaths(value string) []string {
	parts := strings.Split(value, ",")
	paths := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	return paths
}

// DefaultVSTPaths returns the built-in platform scan directories as a
// comma-separated list.
func DefaultVSTPaths() string {
	var paths []string
	switch runtime.GOOS {
	case "windows":
		paths = []string{
			`C:\Program Files\Common Files\VST3`,
			`C:\Program Files\VstPlugins`,
			`C:\Program Files\Steinberg\VstPlugins`,
		}
	case "darwin":
		paths = []string{
			"/Library/Audio/Plug-Ins/VST3",
			"/Library/Audio/Plug-Ins/VST",
		}
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths,
				filepath.Join(home, "Library", "Audio", "Plug-Ins", "VST3"),
				filepath.Join(home, "Library", "Audio", "Plug-Ins", "VST"),
			)
		}
	default:
		paths = []string{
			"/usr/lib/vst3",
			"/usr/local/lib/vst3",
		}
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, ".vst3"))
		}
	}
	return strings.Join(paths, ",")
}
