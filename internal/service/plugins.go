package service

import (
	"fmt"
	"time"

	"github.com/franz/vst-librarian/internal/payload"
	"github.com/franz/vst-librarian/internal/store"
	"github.com/franz/vst-librarian/internal/util"
)

// PluginView is a plugin record with stored encodings decoded back to
// semantic values: subCategories as a string list and path as one or
// more paths (marshalled as a plain string when single).
type PluginView struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Vendor        string           `json:"vendor,omitempty"`
	Version       string           `json:"version,omitempty"`
	Category      string           `json:"category,omitempty"`
	SubCategories []string         `json:"subCategories"`
	SDKVersion    string           `json:"sdkVersion,omitempty"`
	CID           string           `json:"cid,omitempty"`
	Path          payload.PathList `json:"path"`
	IsValid       bool             `json:"isValid"`
	Error         string           `json:"error,omitempty"`
	Flags         int64            `json:"flags,omitempty"`
	Cardinality   int64            `json:"cardinality,omitempty"`
	Key           string           `json:"key,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// PluginService exposes read/update/delete operations over the plugin store
type PluginService struct {
	store *store.Store
}

// NewPluginService creates a PluginService backed by the given store
func NewPluginService(st *store.Store) *PluginService {
	return &PluginService{store: st}
}

func toView(p *store.Plugin) *PluginView {
	return &PluginView{
		ID:            p.ID,
		Name:          p.Name,
		Vendor:        p.Vendor,
		Version:       p.Version,
		Category:      p.Category,
		SubCategories: payload.DecodeSubCategories(p.SubCategories),
		SDKVersion:    p.SDKVersion,
		CID:           p.CID,
		Path:          payload.DecodePaths(p.Path),
		IsValid:       p.IsValid,
		Error:         p.Error,
		Flags:         p.Flags,
		Cardinality:   p.Cardinality,
		Key:           p.Key,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toViews(plugins []*store.Plugin) []*PluginView {
	views := make([]*PluginView, 0, len(plugins))
	for _, p := range plugins {
		views = append(views, toView(p))
	}
	return views
}

// List returns all plugins ordered by name
func (s *PluginService) List() ([]*PluginView, error) {
	plugins, err := s.store.ListPlugins()
	if err != nil {
		return nil, err
	}
	return toViews(plugins), nil
}

// Search returns plugins whose name, vendor or path contains term,
// case-insensitively. An empty term is rejected before any store access.
func (s *PluginService) Search(term string) ([]*PluginView, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", util.ErrInvalidArgument)
	}
	plugins, err := s.store.SearchPlugins(term)
	if err != nil {
		return nil, err
	}
	return toViews(plugins), nil
}

// Get returns a single plugin by id
func (s *PluginService) Get(id string) (*PluginView, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: plugin id is required", util.ErrInvalidArgument)
	}
	p, err := s.store.GetPluginByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: plugin %s", util.ErrNotFound, id)
	}
	return toView(p), nil
}

// Update applies a partial field update and returns the updated record.
// Semantic values for subCategories and path are re-encoded for storage.
func (s *PluginService) Update(id string, fields map[string]interface{}) (*PluginView, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: plugin id is required", util.ErrInvalidArgument)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", util.ErrInvalidArgument)
	}

	encoded := make(map[string]interface{}, len(fields))
	for name, value := range fields {
		switch name {
		case "subCategories":
			subs, err := toStringSlice(value)
			if err != nil {
				return nil, fmt.Errorf("%w: subCategories must be a list of strings", util.ErrInvalidArgument)
			}
			encoded[name] = payload.EncodeSubCategories(subs)
		case "path":
			paths, err := toStringSlice(value)
			if err != nil {
				return nil, fmt.Errorf("%w: path must be a string or list of strings", util.ErrInvalidArgument)
			}
			encoded[name] = payload.EncodePaths(paths)
		default:
			encoded[name] = value
		}
	}

	affected, err := s.store.UpdatePluginFields(id, encoded)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: plugin %s", util.ErrNotFound, id)
	}
	return s.Get(id)
}

// SaveKey attaches a user-supplied key (e.g. a license key) to a plugin
func (s *PluginService) SaveKey(id, key string) error {
	if id == "" {
		return fmt.Errorf("%w: plugin id is required", util.ErrInvalidArgument)
	}
	if key == "" {
		return fmt.Errorf("%w: key is required", util.ErrInvalidArgument)
	}
	affected, err := s.store.SetPluginKey(id, key)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: plugin %s", util.ErrNotFound, id)
	}
	return nil
}

// Delete removes a plugin by id. Deleting an absent id is a no-op that
// still succeeds; deletion is idempotent.
func (s *PluginService) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("%w: plugin id is required", util.ErrInvalidArgument)
	}
	removed, err := s.store.DeletePlugin(id)
	if err != nil {
		return err
	}
	if removed == 0 {
		util.DebugLog("Delete of absent plugin %s, nothing removed", id)
	}
	return nil
}

// DeleteAll removes every plugin and returns the removed count
func (s *PluginService) DeleteAll() (int64, error) {
	return s.store.DeleteAllPlugins()
}

// Stats returns summary counts over the stored plugin set
func (s *PluginService) Stats() (*store.PluginStats, error) {
	return s.store.GetPluginStats()
}

func toStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("not a string: %v", item)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value: %v", value)
	}
}
