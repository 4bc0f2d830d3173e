package store

import (
	"testing"
)

func insertTestPlugin(t *testing.T, s *Store, id, name, vendor, path string) {
	t.Helper()
	err := s.InsertPlugin(&Plugin{
		ID:            id,
		Name:          name,
		Vendor:        vendor,
		Path:          path,
		SubCategories: "[]",
		IsValid:       true,
	})
	if err != nil {
		t.Fatalf("failed to insert plugin %s: %v", id, err)
	}
}

func TestPluginInsertAndRetrieve(t *testing.T) {
	s := openTestStore(t)

	insertTestPlugin(t, s, "plug-1", "MySynth", "Acme Audio", "/plugins/MySynth.vst3")

	p, err := s.GetPluginByID("plug-1")
	if err != nil {
		t.Fatalf("failed to get plugin: %v", err)
	}
	if p == nil {
		t.Fatal("expected plugin, got nil")
	}
	if p.Name != "MySynth" || p.Vendor != "Acme Audio" {
		t.Errorf("unexpected plugin fields: %+v", p)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set on insert")
	}

	// Absent id yields (nil, nil)
	missing, err := s.GetPluginByID("nope")
	if err != nil {
		t.Fatalf("unexpected error for absent id: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for absent id, got %+v", missing)
	}
}

func TestPluginUpdatePreservesKeyAndCreatedAt(t *testing.T) {
	s := openTestStore(t)
	insertTestPlugin(t, s, "plug-1", "MySynth", "Acme Audio", "/plugins/MySynth.vst3")

	if _, err := s.SetPluginKey("plug-1", "LICENSE-123"); err != nil {
		t.Fatalf("failed to set key: %v", err)
	}

	before, _ := s.GetPluginByID("plug-1")

	err := s.UpdatePlugin(&Plugin{
		ID:            "plug-1",
		Name:          "MySynth II",
		Vendor:        "Acme Audio",
		Path:          "/plugins/MySynth.vst3",
		SubCategories: "[]",
		IsValid:       true,
	})
	if err != nil {
		t.Fatalf("failed to update plugin: %v", err)
	}

	after, err := s.GetPluginByID("plug-1")
	if err != nil {
		t.Fatalf("failed to get plugin: %v", err)
	}
	if after.Name != "MySynth II" {
		t.Errorf("expected updated name, got %s", after.Name)
	}
	if after.Key != "LICENSE-123" {
		t.Errorf("scanner-driven update must preserve the user key, got %q", after.Key)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Errorf("created_at must not change on update")
	}
}

func TestListPluginsOrderedByName(t *testing.T) {
	s := openTestStore(t)
	insertTestPlugin(t, s, "b", "Serum", "Xfer Records", "/p/Serum.vst3")
	insertTestPlugin(t, s, "a", "Pro-Q 3", "FabFilter", "/p/Pro-Q 3.vst3")
	insertTestPlugin(t, s, "c", "Diva", "u-he", "/p/Diva.vst3")

	plugins, err := s.ListPlugins()
	if err != nil {
		t.Fatalf("failed to list plugins: %v", err)
	}
	if len(plugins) != 3 {
		t.Fatalf("expected 3 plugins, got %d", len(plugins))
	}

	want := []string{"Diva", "Pro-Q 3", "Serum"}
	for i, name := range want {
		if plugins[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, plugins[i].Name)
		}
	}
}

func TestSearchPlugins(t *testing.T) {
	s := openTestStore(t)
	insertTestPlugin(t, s, "a", "Pro-Q 3", "FabFilter", "/p/Pro-Q 3.vst3")
	insertTestPlugin(t, s, "b", "Serum", "Xfer Records", "/p/Serum.vst3")

	tests := []struct {
		term string
		want []string
	}{
		{"fab", []string{"Pro-Q 3"}},       // vendor match, case-insensitive
		{"SERUM", []string{"Serum"}},       // name match, case-insensitive
		{"/p/", []string{"Pro-Q 3", "Serum"}}, // path match
		{"zzz", nil},
	}

	for _, tt := range tests {
		got, err := s.SearchPlugins(tt.term)
		if err != nil {
			t.Fatalf("search %q failed: %v", tt.term, err)
		}
		if len(got) != len(tt.want) {
			t.Errorf("search %q: expected %d results, got %d", tt.term, len(tt.want), len(got))
			continue
		}
		for i, name := range tt.want {
			if got[i].Name != name {
				t.Errorf("search %q result %d: expected %s, got %s", tt.term, i, name, got[i].Name)
			}
		}
	}
}

func TestUpdatePluginFields(t *testing.T) {
	s := openTestStore(t)
	insertTestPlugin(t, s, "plug-1", "MySynth", "Acme Audio", "/p/MySynth.vst3")

	affected, err := s.UpdatePluginFields("plug-1", map[string]interface{}{
		"vendor":   "Acme Pro Audio",
		"category": "Instrument",
	})
	if err != nil {
		t.Fatalf("field update failed: %v", err)
	}
	if affected != 1 {
		t.Errorf("expected 1 affected row, got %d", affected)
	}

	p, _ := s.GetPluginByID("plug-1")
	if p.Vendor != "Acme Pro Audio" || p.Category != "Instrument" {
		t.Errorf("unexpected fields after update: %+v", p)
	}

	// Unknown columns are rejected
	if _, err := s.UpdatePluginFields("plug-1", map[string]interface{}{"bogus": 1}); err == nil {
		t.Error("expected an error for an unknown field")
	}

	// Absent id reports zero affected rows
	affected, err = s.UpdatePluginFields("nope", map[string]interface{}{"vendor": "x"})
	if err != nil {
		t.Fatalf("unexpected error for absent id: %v", err)
	}
	if affected != 0 {
		t.Errorf("expected 0 affected rows for absent id, got %d", affected)
	}
}

func TestDeletePlugins(t *testing.T) {
	s := openTestStore(t)
	insertTestPlugin(t, s, "a", "Pro-Q 3", "FabFilter", "/p/Pro-Q 3.vst3")
	insertTestPlugin(t, s, "b", "Serum", "Xfer Records", "/p/Serum.vst3")

	removed, err := s.DeletePlugin("a")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}

	// Deleting an absent id is not an error
	removed, err = s.DeletePlugin("a")
	if err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected 0 removed on repeat delete, got %d", removed)
	}

	removed, err = s.DeleteAllPlugins()
	if err != nil {
		t.Fatalf("delete-all failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed by delete-all, got %d", removed)
	}

	plugins, err := s.ListPlugins()
	if err != nil {
		t.Fatalf("list after delete-all failed: %v", err)
	}
	if len(plugins) != 0 {
		t.Errorf("expected empty catalog, got %d plugins", len(plugins))
	}
}

func TestGetPluginStats(t *testing.T) {
	s := openTestStore(t)

	stats, err := s.GetPluginStats()
	if err != nil {
		t.Fatalf("stats on empty store failed: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	insertTestPlugin(t, s, "a", "Pro-Q 3", "FabFilter", "/p/Pro-Q 3.vst3")
	insertTestPlugin(t, s, "b", "Serum", "Xfer Records", "/p/Serum.vst3")
	if err := s.InsertPlugin(&Plugin{ID: "c", Name: "Broken", Path: "/p/Broken.vst3", SubCategories: "[]", IsValid: false, Error: "load failed"}); err != nil {
		t.Fatalf("failed to insert invalid plugin: %v", err)
	}

	stats, err = s.GetPluginStats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 3 || stats.Valid != 2 || stats.Invalid != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.Vendors != 2 {
		t.Errorf("expected 2 distinct vendors, got %d", stats.Vendors)
	}
	if stats.LastUpdate.IsZero() {
		t.Error("expected a last update time")
	}
}
