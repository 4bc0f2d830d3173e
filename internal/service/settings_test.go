package service

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/franz/vst-librarian/internal/store"
	"github.com/franz/vst-librarian/internal/util"
)

func newTestSettings(t *testing.T) *SettingsService {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test-settings.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewSettingsService(st)
}

func TestSettingsSeedDefaults(t *testing.T) {
	svc := newTestSettings(t)

	settings, err := svc.All()
	if err != nil {
		t.Fatalf("getAll failed: %v", err)
	}
	if len(settings) != 1 || settings[0].Key != VSTPathsKey {
		t.Fatalf("expected seeded %s entry, got %+v", VSTPathsKey, settings)
	}
	if settings[0].Value == "" {
		t.Error("seeded vst_paths must carry the platform defaults")
	}

	// A second call must not seed again
	again, err := svc.All()
	if err != nil {
		t.Fatalf("second getAll failed: %v", err)
	}
	if len(again) != 1 {
		t.Errorf("expected 1 setting after repeat call, got %d", len(again))
	}
}

func TestSettingsSetAndGet(t *testing.T) {
	svc := newTestSettings(t)

	setting, err := svc.Set(VSTPathsKey, "/a,/b")
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if setting.Value != "/a,/b" {
		t.Errorf("unexpected value: %s", setting.Value)
	}

	if _, err := svc.Get("ghost"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Set("", "x"); !errors.Is(err, util.ErrInvalidArgument) {
		t.Errorf("empty key must fail with ErrInvalidArgument, got %v", err)
	}
}

func TestScanPathsSplitsSetting(t *testing.T) {
	svc := newTestSettings(t)

	if _, err := svc.Set(VSTPathsKey, "/a, /b ,,/c"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	paths, err := svc.ScanPaths()
	if err != nil {
		t.Fatalf("scanPaths failed: %v", err)
	}
	if !reflect.DeepEqual(paths, []string{"/a", "/b", "/c"}) {
		t.Errorf("unexpected paths: %v", paths)
	}
}

func TestValidatePathsNeverFails(t *testing.T) {
	svc := newTestSettings(t)

	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist")
	file := filepath.Join(dir, "plugin.vst3")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	results := svc.ValidatePaths([]string{dir, missing, file})
	if len(results) != 3 {
		t.Fatalf("expected one result per path, got %d", len(results))
	}
	if !results[0].Exists || results[0].Error != "" {
		t.Errorf("readable dir must validate: %+v", results[0])
	}
	if results[1].Exists || results[1].Error == "" {
		t.Errorf("missing path must report an explanatory error: %+v", results[1])
	}
	if !results[2].Exists {
		t.Errorf("readable file must validate: %+v", results[2])
	}
}
