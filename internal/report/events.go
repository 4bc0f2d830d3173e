package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	EventScanDir EventType = "scan_dir"
	EventImport  EventType = "import"
	EventInsert  EventType = "insert"
	EventUpdate  EventType = "update"
	EventDelete  EventType = "delete"
	EventExport  EventType = "export"
	EventError   EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event represents a single catalog operation
type Event struct {
	Timestamp time.Time         `json:"ts"`
	Level     EventLevel        `json:"level"`
	Event     EventType         `json:"event"`
	PluginID  string            `json:"plugin_id,omitempty"`
	Name      string            `json:"name,omitempty"`
	Path      string            `json:"path,omitempty"`
	Dir       string            `json:"dir,omitempty"`
	Inserted  int               `json:"inserted,omitempty"`
	Updated   int               `json:"updated,omitempty"`
	Processed int               `json:"processed,omitempty"`
	Duration  int64             `json:"duration_ms,omitempty"`
	Error     string            `json:"error,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// EventLogger writes events to a JSONL file
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	minLevel EventLevel
}

// NewEventLogger creates a new event logger with a minimum log level.
// minLevel determines which events are written (e.g., LevelInfo skips LevelDebug)
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("events-%s.jsonl", timestamp)
	path := filepath.Join(outputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		minLevel: minLevel,
	}, nil
}

// NullLogger returns a logger that discards all events
func NullLogger() *EventLogger {
	return &EventLogger{}
}

// Path returns the event log file path, empty for a null logger
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil // Silently ignore if logger not initialized
	}

	// Filter by minimum level
	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogScanDir logs the outcome of scanning a single directory
func (l *EventLogger) LogScanDir(dir string, durationMs int64, err error) error {
	level := LevelInfo
	errMsg := ""
	if err != nil {
		level = LevelError
		errMsg = err.Error()
	}
	return l.Log(&Event{
		Level:    level,
		Event:    EventScanDir,
		Dir:      dir,
		Duration: durationMs,
		Error:    errMsg,
	})
}

// LogImport logs the aggregate result of a reconciling import
func (l *EventLogger) LogImport(inserted, updated, processed int, durationMs int64) error {
	return l.Log(&Event{
		Level:     LevelInfo,
		Event:     EventImport,
		Inserted:  inserted,
		Updated:   updated,
		Processed: processed,
		Duration:  durationMs,
	})
}

// LogUpsert logs a single reconciled record; inserted selects the event type
func (l *EventLogger) LogUpsert(pluginID, name string, inserted bool) error {
	eventType := EventUpdate
	if inserted {
		eventType = EventInsert
	}
	return l.Log(&Event{
		Level:    LevelDebug,
		Event:    eventType,
		PluginID: pluginID,
		Name:     name,
	})
}

// LogDelete logs removal of one or all plugins
func (l *EventLogger) LogDelete(pluginID string, removed int) error {
	return l.Log(&Event{
		Level:     LevelInfo,
		Event:     EventDelete,
		PluginID:  pluginID,
		Processed: removed,
	})
}

// LogExport logs a catalog export
func (l *EventLogger) LogExport(path string, count int) error {
	return l.Log(&Event{
		Level:     LevelInfo,
		Event:     EventExport,
		Path:      path,
		Processed: count,
	})
}

// LogError logs a generic failure
func (l *EventLogger) LogError(context string, err error) error {
	return l.Log(&Event{
		Level: LevelError,
		Event: EventError,
		Error: fmt.Sprintf("%s: %v", context, err),
	})
}
