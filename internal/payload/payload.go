// Package payload decodes scan-result JSON produced by the native scanner
// and owns the stored encodings for multi-valued plugin fields. Scanner
// output is historically irregular: names can be missing, paths arrive as
// a plain string or an array, and older records were written before
// multi-path support existed, so decoding has to stay tolerant.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/franz/vst-librarian/internal/util"
)

// StringList can unmarshal both a plain string and an array of strings
// from JSON. It always marshals as an array.
type StringList []string

// UnmarshalJSON implements custom unmarshaling for StringList
func (l *StringList) UnmarshalJSON(data []byte) error {
	// Try as array first
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	// Fall back to a single string
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*l = nil
		return nil
	}
	*l = StringList{single}
	return nil
}

// PathList carries one or more filesystem paths for the same logical
// plugin. It unmarshals like StringList but marshals a single path as a
// plain string, matching the historical single-path wire shape.
type PathList []string

// UnmarshalJSON implements custom unmarshaling for PathList
func (p *PathList) UnmarshalJSON(data []byte) error {
	var list StringList
	if err := list.UnmarshalJSON(data); err != nil {
		return err
	}
	*p = PathList(list)
	return nil
}

// MarshalJSON emits a plain string for a single path and an array otherwise
func (p PathList) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(p[0])
	}
	return json.Marshal([]string(p))
}

// RawPlugin is one entry of a scan payload as emitted by the scanner.
// Every field is optional; identity and display name are derived.
type RawPlugin struct {
	ID            string     `json:"id,omitempty"`
	CID           string     `json:"cid,omitempty"`
	Name          string     `json:"name,omitempty"`
	Vendor        string     `json:"vendor,omitempty"`
	Version       string     `json:"version,omitempty"`
	Category      string     `json:"category,omitempty"`
	SubCategories StringList `json:"subCategories,omitempty"`
	SDKVersion    string     `json:"sdkVersion,omitempty"`
	Path          PathList   `json:"path,omitempty"`
	IsValid       *bool      `json:"isValid,omitempty"`
	Error         string     `json:"error,omitempty"`
	Flags         int64      `json:"flags,omitempty"`
	Cardinality   int64      `json:"cardinality,omitempty"`
	Key           string     `json:"key,omitempty"`
}

// Document is a full scan result: either `{"plugins": [...]}` or a bare
// top-level array on the wire.
type Document struct {
	Plugins      []RawPlugin `json:"plugins"`
	TotalPlugins int         `json:"totalPlugins,omitempty"`
	ValidPlugins int         `json:"validPlugins,omitempty"`
}

// Parse decodes a scan payload, accepting both recognized wire shapes.
// Anything else fails with ErrMalformedPayload.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", util.ErrMalformedPayload)
	}

	// Bare top-level array shape
	if trimmed[0] == '[' {
		var plugins []RawPlugin
		if err := json.Unmarshal(trimmed, &plugins); err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrMalformedPayload, err)
		}
		return &Document{Plugins: plugins}, nil
	}

	// Object shape; the plugins property must be present
	var probe struct {
		Plugins json.RawMessage `json:"plugins"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrMalformedPayload, err)
	}
	if probe.Plugins == nil {
		return nil, fmt.Errorf("%w: missing plugins field", util.ErrMalformedPayload)
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrMalformedPayload, err)
	}
	return &doc, nil
}

// Identity derives the stable record id for an entry, in priority order:
// explicit id, then cid, then the first path. An empty result means the
// entry carries no usable identity.
func (r *RawPlugin) Identity() string {
	if r.ID != "" {
		return r.ID
	}
	if r.CID != "" {
		return r.CID
	}
	if len(r.Path) > 0 {
		return r.Path[0]
	}
	return ""
}

// DisplayName returns the plugin name, deriving one from the last path
// segment (with .vst/.vst3 stripped case-insensitively) when the scanner
// did not report it. Falls back to "Unknown Plugin".
func (r *RawPlugin) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if len(r.Path) > 0 && r.Path[0] != "" {
		// Scanner paths can use either separator regardless of platform
		base := path.Base(strings.ReplaceAll(r.Path[0], "\\", "/"))
		lower := strings.ToLower(base)
		for _, ext := range []string{".vst3", ".vst"} {
			if strings.HasSuffix(lower, ext) {
				base = base[:len(base)-len(ext)]
				break
			}
		}
		if base != "" && base != "." && base != "/" {
			return base
		}
	}
	return "Unknown Plugin"
}

// Valid reports the entry's validity flag, defaulting to true
func (r *RawPlugin) Valid() bool {
	if r.IsValid == nil {
		return true
	}
	return *r.IsValid
}

// EncodePaths produces the stored path encoding: the plain string for a
// single path, a JSON-encoded array for several. This keeps single-path
// records readable by code written before multi-path support.
func EncodePaths(paths []string) string {
	switch len(paths) {
	case 0:
		return ""
	case 1:
		return paths[0]
	default:
		encoded, err := json.Marshal(paths)
		if err != nil {
			// Marshalling a string slice cannot fail; keep the first path
			return paths[0]
		}
		return string(encoded)
	}
}

// DecodePaths reverses EncodePaths. A stored value that looks like a JSON
// array literal is decoded; on decode failure the first quoted substring
// is extracted as a best effort, else the raw value is returned unchanged.
func DecodePaths(stored string) []string {
	if stored == "" {
		return nil
	}
	if !strings.HasPrefix(stored, "[") {
		return []string{stored}
	}

	var paths []string
	if err := json.Unmarshal([]byte(stored), &paths); err == nil {
		return paths
	}

	util.WarnLog("Corrupt path encoding, using best-effort extraction: %s", stored)
	if first := firstQuoted(stored); first != "" {
		return []string{first}
	}
	return []string{stored}
}

// firstQuoted extracts the first double-quoted substring of s
func firstQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// EncodeSubCategories produces the stored JSON encoding for the category
// list. An empty list encodes as "[]", never as an empty string.
func EncodeSubCategories(subs []string) string {
	if len(subs) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(subs)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

// DecodeSubCategories reverses EncodeSubCategories, defaulting to an empty
// list on a decode failure.
func DecodeSubCategories(stored string) []string {
	if stored == "" {
		return []string{}
	}
	var subs []string
	if err := json.Unmarshal([]byte(stored), &subs); err != nil {
		util.WarnLog("Corrupt subCategories encoding, defaulting to empty: %s", stored)
		return []string{}
	}
	if subs == nil {
		return []string{}
	}
	return subs
}
