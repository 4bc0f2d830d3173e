package payload

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/franz/vst-librarian/internal/util"
)

func TestParseObjectShape(t *testing.T) {
	data := []byte(`{
		"plugins": [
			{"id": "a", "name": "Pro-Q 3", "path": "/p/Pro-Q 3.vst3"},
			{"cid": "b", "path": ["/p/x.vst3", "/p64/x.vst3"]}
		],
		"totalPlugins": 2,
		"validPlugins": 2
	}`)

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(doc.Plugins))
	}
	if doc.TotalPlugins != 2 {
		t.Errorf("expected totalPlugins 2, got %d", doc.TotalPlugins)
	}
	if got := doc.Plugins[1].Path; !reflect.DeepEqual([]string(got), []string{"/p/x.vst3", "/p64/x.vst3"}) {
		t.Errorf("unexpected path list: %v", got)
	}
}

func TestParseBareArrayShape(t *testing.T) {
	doc, err := Parse([]byte(`[{"id": "a", "path": "/p/a.vst3"}]`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Plugins) != 1 || doc.Plugins[0].ID != "a" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{
		``,
		`not json`,
		`{"notPlugins": []}`,
		`42`,
		`"plugins"`,
	}
	for _, input := range cases {
		if _, err := Parse([]byte(input)); !errors.Is(err, util.ErrMalformedPayload) {
			t.Errorf("input %q: expected ErrMalformedPayload, got %v", input, err)
		}
	}
}

func TestIdentityPriority(t *testing.T) {
	tests := []struct {
		name string
		raw  RawPlugin
		want string
	}{
		{"id wins over cid", RawPlugin{ID: "a", CID: "b", Path: PathList{"p"}}, "a"},
		{"cid wins over path", RawPlugin{CID: "b", Path: PathList{"p"}}, "b"},
		{"first path element", RawPlugin{Path: PathList{"p1", "p2"}}, "p1"},
		{"scalar path", RawPlugin{Path: PathList{"p"}}, "p"},
		{"nothing", RawPlugin{}, ""},
	}
	for _, tt := range tests {
		if got := tt.raw.Identity(); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestDisplayNameFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  RawPlugin
		want string
	}{
		{"explicit name", RawPlugin{Name: "Serum", Path: PathList{"/p/x.vst3"}}, "Serum"},
		{"derived from path", RawPlugin{Path: PathList{"C:/Plugins/MySynth.vst3"}}, "MySynth"},
		{"windows separators", RawPlugin{Path: PathList{`C:\Plugins\MySynth.vst3`}}, "MySynth"},
		{"vst2 extension", RawPlugin{Path: PathList{"/p/Old Synth.VST"}}, "Old Synth"},
		{"case-insensitive extension", RawPlugin{Path: PathList{"/p/Shouty.Vst3"}}, "Shouty"},
		{"no extension", RawPlugin{Path: PathList{"/p/weird"}}, "weird"},
		{"no name no path", RawPlugin{}, "Unknown Plugin"},
	}
	for _, tt := range tests {
		if got := tt.raw.DisplayName(); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestStringListUnmarshal(t *testing.T) {
	var fromString StringList
	if err := json.Unmarshal([]byte(`"Fx"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if !reflect.DeepEqual([]string(fromString), []string{"Fx"}) {
		t.Errorf("unexpected value: %v", fromString)
	}

	var fromArray StringList
	if err := json.Unmarshal([]byte(`["Fx", "EQ"]`), &fromArray); err != nil {
		t.Fatalf("unmarshal array failed: %v", err)
	}
	if !reflect.DeepEqual([]string(fromArray), []string{"Fx", "EQ"}) {
		t.Errorf("unexpected value: %v", fromArray)
	}
}

func TestPathListMarshalCollapsesSingle(t *testing.T) {
	single, err := json.Marshal(PathList{"/a/x.vst3"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(single) != `"/a/x.vst3"` {
		t.Errorf("expected plain string for single path, got %s", single)
	}

	multi, err := json.Marshal(PathList{"/a/x.vst3", "/a/y.vst3"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(multi) != `["/a/x.vst3","/a/y.vst3"]` {
		t.Errorf("expected array for multiple paths, got %s", multi)
	}
}

func TestPathEncodingRoundTrip(t *testing.T) {
	// Single path stays a scalar string
	stored := EncodePaths([]string{"/a/x.vst3"})
	if stored != "/a/x.vst3" {
		t.Errorf("expected plain string encoding, got %q", stored)
	}
	if got := DecodePaths(stored); !reflect.DeepEqual(got, []string{"/a/x.vst3"}) {
		t.Errorf("single path round-trip failed: %v", got)
	}

	// Multiple paths use the JSON-array encoding and keep their order
	paths := []string{"/a/x.vst3", "/a/y.vst3"}
	stored = EncodePaths(paths)
	if stored[0] != '[' {
		t.Errorf("expected JSON array encoding, got %q", stored)
	}
	if got := DecodePaths(stored); !reflect.DeepEqual(got, paths) {
		t.Errorf("multi path round-trip failed: %v", got)
	}
}

func TestDecodePathsFallbacks(t *testing.T) {
	// Corrupt array literal: first quoted substring wins
	got := DecodePaths(`["/a/x.vst3", broken`)
	if !reflect.DeepEqual(got, []string{"/a/x.vst3"}) {
		t.Errorf("expected quoted-substring fallback, got %v", got)
	}

	// Corrupt with no quotes: raw value unchanged
	got = DecodePaths(`[broken`)
	if !reflect.DeepEqual(got, []string{`[broken`}) {
		t.Errorf("expected raw value fallback, got %v", got)
	}

	if got := DecodePaths(""); got != nil {
		t.Errorf("expected nil for empty stored value, got %v", got)
	}
}

func TestSubCategoriesRoundTrip(t *testing.T) {
	// Empty sequence encodes as "[]" and round-trips to an empty slice
	stored := EncodeSubCategories(nil)
	if stored != "[]" {
		t.Errorf("expected \"[]\", got %q", stored)
	}
	got := DecodeSubCategories(stored)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}

	subs := []string{"Fx", "Dynamics"}
	if got := DecodeSubCategories(EncodeSubCategories(subs)); !reflect.DeepEqual(got, subs) {
		t.Errorf("round-trip failed: %v", got)
	}

	// Decode failure defaults to empty, not an error
	if got := DecodeSubCategories("not json"); len(got) != 0 {
		t.Errorf("expected empty slice on decode failure, got %v", got)
	}
}
