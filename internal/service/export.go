package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/franz/vst-librarian/internal/importer"
	"github.com/franz/vst-librarian/internal/payload"
	"github.com/franz/vst-librarian/internal/util"
)

// ExportDocument is the exported-plugins file shape
type ExportDocument struct {
	Plugins []*PluginView `json:"plugins"`
}

// Export writes the current catalog to path as `{"plugins": [...]}` with
// decoded paths and subCategories, and returns the written path.
func (s *PluginService) Export(path string) (string, error) {
	views, err := s.List()
	if err != nil {
		return "", err
	}
	if views == nil {
		views = []*PluginView{}
	}

	data, err := json.MarshalIndent(&ExportDocument{Plugins: views}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: failed to write export: %v", util.ErrIO, err)
	}
	return path, nil
}

// Import validates an uploaded plugins JSON document, persists it as the
// canonical scan-results file, and reconciles it into the store.
func (s *PluginService) Import(ctx context.Context, data []byte, resultsPath string, im *importer.Importer) (*importer.Result, error) {
	doc, err := payload.Parse(data)
	if err != nil {
		return nil, err
	}

	// Persist the canonical copy so a later sync or watch sees the same set
	canonical, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode scan results: %w", err)
	}
	if err := util.EnsureDir(filepath.Dir(resultsPath)); err != nil {
		return nil, err
	}
	if err := os.WriteFile(resultsPath, canonical, 0644); err != nil {
		return nil, fmt.Errorf("%w: failed to write scan results: %v", util.ErrIO, err)
	}

	return im.ImportDocument(ctx, doc)
}
