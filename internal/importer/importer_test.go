package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/vst-librarian/internal/store"
	"github.com/franz/vst-librarian/internal/util"
)

func newTestImporter(t *testing.T) (*Importer, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test-import.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, nil), st
}

const scanPayload = `{
	"plugins": [
		{"id": "pq3", "name": "Pro-Q 3", "vendor": "FabFilter", "path": "/p/Pro-Q 3.vst3", "subCategories": ["Fx", "EQ"]},
		{"cid": "serum-cid", "name": "Serum", "vendor": "Xfer Records", "path": ["/p/Serum.vst3", "/p64/Serum.vst3"]},
		{"path": "/p/MySynth.vst3"}
	]
}`

func TestImportInsertsAndDerives(t *testing.T) {
	im, st := newTestImporter(t)

	result, err := im.ImportPayload(context.Background(), []byte(scanPayload))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Inserted != 3 || result.Updated != 0 || result.Processed != 3 {
		t.Errorf("unexpected counts: %+v", result)
	}

	// cid-derived identity
	p, err := st.GetPluginByID("serum-cid")
	if err != nil || p == nil {
		t.Fatalf("expected serum record, got %v / %v", p, err)
	}
	if p.Path[0] != '[' {
		t.Errorf("multi-path record must use array encoding, got %q", p.Path)
	}

	// path-derived identity with name fallback
	p, err = st.GetPluginByID("/p/MySynth.vst3")
	if err != nil || p == nil {
		t.Fatalf("expected path-keyed record, got %v / %v", p, err)
	}
	if p.Name != "MySynth" {
		t.Errorf("expected derived name MySynth, got %q", p.Name)
	}
}

func TestImportIsIdempotent(t *testing.T) {
	im, st := newTestImporter(t)
	ctx := context.Background()

	first, err := im.ImportPayload(ctx, []byte(scanPayload))
	if err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	second, err := im.ImportPayload(ctx, []byte(scanPayload))
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if second.Inserted != 0 || second.Updated != first.Processed {
		t.Errorf("re-import must be all updates, got %+v", second)
	}

	plugins, err := st.ListPlugins()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(plugins) != first.Processed {
		t.Errorf("record count changed on re-import: %d", len(plugins))
	}
}

func TestImportLastWriteWinsWithinPayload(t *testing.T) {
	im, st := newTestImporter(t)

	data := []byte(`{"plugins": [
		{"id": "dup", "name": "First", "path": "/p/a.vst3"},
		{"id": "dup", "name": "Second", "path": "/p/b.vst3"}
	]}`)

	result, err := im.ImportPayload(context.Background(), data)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Processed != 1 || result.Inserted != 1 {
		t.Errorf("duplicate ids must collapse to one record, got %+v", result)
	}

	p, _ := st.GetPluginByID("dup")
	if p == nil || p.Name != "Second" {
		t.Errorf("later entry must win, got %+v", p)
	}
}

func TestImportRejectsEntryWithoutIdentity(t *testing.T) {
	im, _ := newTestImporter(t)

	_, err := im.ImportPayload(context.Background(), []byte(`{"plugins": [{"name": "Ghost"}]}`))
	if !errors.Is(err, util.ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestImportMissingFileIsNoop(t *testing.T) {
	im, _ := newTestImporter(t)

	result, err := im.ImportFile(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file must not be an error, got %v", err)
	}
	if result.Processed != 0 {
		t.Errorf("expected zero processed, got %+v", result)
	}
}

func TestImportFileReadsPayload(t *testing.T) {
	im, st := newTestImporter(t)

	path := filepath.Join(t.TempDir(), "scan-results.json")
	if err := os.WriteFile(path, []byte(`[{"id": "a", "path": "/p/a.vst3"}]`), 0644); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}

	result, err := im.ImportFile(context.Background(), path)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Inserted != 1 {
		t.Errorf("expected 1 inserted, got %+v", result)
	}

	if p, _ := st.GetPluginByID("a"); p == nil {
		t.Error("expected record for bare-array payload")
	}
}

func TestImportPreservesUserKey(t *testing.T) {
	im, st := newTestImporter(t)
	ctx := context.Background()

	if _, err := im.ImportPayload(ctx, []byte(`[{"id": "a", "path": "/p/a.vst3"}]`)); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if _, err := st.SetPluginKey("a", "LICENSE-1"); err != nil {
		t.Fatalf("failed to set key: %v", err)
	}

	// A re-scan must not clobber the user-supplied key
	if _, err := im.ImportPayload(ctx, []byte(`[{"id": "a", "name": "Renamed", "path": "/p/a.vst3"}]`)); err != nil {
		t.Fatalf("re-import failed: %v", err)
	}

	p, _ := st.GetPluginByID("a")
	if p == nil || p.Key != "LICENSE-1" {
		t.Errorf("re-import clobbered the key: %+v", p)
	}
}
