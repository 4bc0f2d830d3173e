// Package importer reconciles scan-result payloads into the plugin store.
// Records are processed strictly in order, one existence-check-then-write
// round-trip at a time; a failure on any record aborts the whole import.
package importer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/franz/vst-librarian/internal/payload"
	"github.com/franz/vst-librarian/internal/report"
	"github.com/franz/vst-librarian/internal/store"
	"github.com/franz/vst-librarian/internal/util"
)

// Importer merges scan payloads into the durable store
type Importer struct {
	store  *store.Store
	logger *report.EventLogger

	// ShowProgress enables a terminal progress bar during reconciliation
	ShowProgress bool
}

// New creates a new Importer. A nil logger discards events.
func New(st *store.Store, logger *report.EventLogger) *Importer {
	if logger == nil {
		logger = report.NullLogger()
	}
	return &Importer{store: st, logger: logger}
}

// Result holds the aggregate counts of a completed import
type Result struct {
	Inserted  int `json:"insertedCount"`
	Updated   int `json:"updatedCount"`
	Processed int `json:"processedCount"`
}

// ImportFile reconciles the scan-result JSON at path into the store.
// A missing file is not an error: there is simply nothing to sync yet.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			util.InfoLog("No scan results at %s, nothing to sync", path)
			return &Result{}, nil
		}
		return nil, fmt.Errorf("%w: failed to read scan results: %v", util.ErrIO, err)
	}
	return im.ImportPayload(ctx, data)
}

// ImportPayload parses and reconciles a raw scan payload
func (im *Importer) ImportPayload(ctx context.Context, data []byte) (*Result, error) {
	doc, err := payload.Parse(data)
	if err != nil {
		return nil, err
	}
	return im.ImportDocument(ctx, doc)
}

// ImportDocument reconciles an already-parsed scan document
func (im *Importer) ImportDocument(ctx context.Context, doc *payload.Document) (*Result, error) {
	started := time.Now()

	records, err := normalize(doc.Plugins)
	if err != nil {
		return nil, err
	}

	bar := im.progressBar(len(records))

	result := &Result{}
	for _, p := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Strictly sequential: each record's write completes before the
		// next existence check begins, matching the single-writer store.
		exists, err := im.store.PluginExists(p.ID)
		if err != nil {
			return nil, err
		}

		if exists {
			if err := im.store.UpdatePlugin(p); err != nil {
				return nil, err
			}
			result.Updated++
		} else {
			if err := im.store.InsertPlugin(p); err != nil {
				return nil, err
			}
			result.Inserted++
		}
		result.Processed++

		im.logger.LogUpsert(p.ID, p.Name, !exists)
		if bar != nil {
			bar.Add(1)
		}
	}

	duration := time.Since(started)
	im.logger.LogImport(result.Inserted, result.Updated, result.Processed, duration.Milliseconds())
	util.DebugLog("Import finished in %v: %d inserted, %d updated",
		duration.Round(time.Millisecond), result.Inserted, result.Updated)

	return result, nil
}

// normalize converts raw payload entries to store records, deduplicating
// by derived identity. When two entries resolve to the same id the later
// one wins, keeping the first occurrence's position.
func normalize(entries []payload.RawPlugin) ([]*store.Plugin, error) {
	index := make(map[string]int, len(entries))
	records := make([]*store.Plugin, 0, len(entries))

	for i := range entries {
		raw := &entries[i]
		id := raw.Identity()
		if id == "" {
			return nil, fmt.Errorf("%w: entry %d has no id, cid or path", util.ErrMalformedPayload, i)
		}

		p := &store.Plugin{
			ID:            id,
			Name:          raw.DisplayName(),
			Vendor:        raw.Vendor,
			Version:       raw.Version,
			Category:      raw.Category,
			SubCategories: payload.EncodeSubCategories(raw.SubCategories),
			SDKVersion:    raw.SDKVersion,
			CID:           raw.CID,
			Path:          payload.EncodePaths(raw.Path),
			IsValid:       raw.Valid(),
			Error:         raw.Error,
			Flags:         raw.Flags,
			Cardinality:   raw.Cardinality,
			Key:           raw.Key,
		}

		if at, seen := index[id]; seen {
			records[at] = p
			continue
		}
		index[id] = len(records)
		records = append(records, p)
	}

	return records, nil
}

func (im *Importer) progressBar(total int) *progressbar.ProgressBar {
	if !im.ShowProgress || total == 0 {
		return nil
	}
	if !util.IsTerminal(os.Stdout.Fd()) || util.IsQuiet() {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Reconciling"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
