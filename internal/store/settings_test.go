package store

import "testing"

func TestSettingSetAndGet(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetSetting("vst_paths", "/a,/b", "scan dirs"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}

	setting, err := s.GetSetting("vst_paths")
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if setting == nil {
		t.Fatal("expected setting, got nil")
	}
	if setting.Value != "/a,/b" || setting.Description != "scan dirs" {
		t.Errorf("unexpected setting: %+v", setting)
	}

	// Absent key yields (nil, nil)
	missing, err := s.GetSetting("nope")
	if err != nil {
		t.Fatalf("unexpected error for absent key: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for absent key, got %+v", missing)
	}
}

func TestSettingUpsertRefreshesValueNotDescription(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetSetting("vst_paths", "/a", "scan dirs"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}
	if err := s.SetSetting("vst_paths", "/a,/b", ""); err != nil {
		t.Fatalf("failed to update setting: %v", err)
	}

	setting, err := s.GetSetting("vst_paths")
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if setting.Value != "/a,/b" {
		t.Errorf("expected updated value, got %s", setting.Value)
	}
	if setting.Description != "scan dirs" {
		t.Errorf("empty description must not clobber existing one, got %q", setting.Description)
	}

	// Still exactly one record per key
	count, err := s.CountSettings()
	if err != nil {
		t.Fatalf("failed to count settings: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 setting, got %d", count)
	}
}

func TestListSettingsOrderedByKey(t *testing.T) {
	s := openTestStore(t)

	for _, key := range []string{"zeta", "alpha", "mid"} {
		if err := s.SetSetting(key, "v", ""); err != nil {
			t.Fatalf("failed to set %s: %v", key, err)
		}
	}

	settings, err := s.ListSettings()
	if err != nil {
		t.Fatalf("failed to list settings: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(settings) != len(want) {
		t.Fatalf("expected %d settings, got %d", len(want), len(settings))
	}
	for i, key := range want {
		if settings[i].Key != key {
			t.Errorf("position %d: expected %s, got %s", i, key, settings[i].Key)
		}
	}
}
