// Package scanner shells out to the native VST scanner executable. Binary
// plugin introspection lives entirely in that external tool; this package
// only invokes it per directory and collects the JSON it emits.
package scanner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/franz/vst-librarian/internal/payload"
	"github.com/franz/vst-librarian/internal/report"
	"github.com/franz/vst-librarian/internal/util"
)

// DefaultTimeout bounds a single directory scan
const DefaultTimeout = 2 * time.Minute

// Scanner invokes the external scanner executable
type Scanner struct {
	Executable string
	Timeout    time.Duration
	logger     *report.EventLogger
}

// New creates a Scanner for the given executable. A nil logger discards events.
func New(executable string, logger *report.EventLogger) *Scanner {
	if logger == nil {
		logger = report.NullLogger()
	}
	return &Scanner{
		Executable: executable,
		Timeout:    DefaultTimeout,
		logger:     logger,
	}
}

// DirError records a per-directory scan failure
type DirError struct {
	Dir string
	Err error
}

func (e *DirError) Error() string {
	return fmt.Sprintf("scan of %s failed: %v", e.Dir, e.Err)
}

func (e *DirError) Unwrap() error {
	return e.Err
}

// ScanDirectory runs the scanner against a single directory and parses its
// JSON output. The scanner may emit the payload on stdout or write it to a
// result file whose path it prints as the last line; stdout JSON wins.
func (s *Scanner) ScanDirectory(ctx context.Context, dir string) (*payload.Document, error) {
	if _, err := exec.LookPath(s.Executable); err != nil {
		return nil, fmt.Errorf("%w: scanner executable not found: %s", util.ErrExternalTool, s.Executable)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.Executable, dir)
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: timed out after %v", util.ErrExternalTool, timeout)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%w: %s", util.ErrExternalTool, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("%w: %v", util.ErrExternalTool, err)
	}

	doc, parseErr := payload.Parse(output)
	if parseErr == nil {
		return doc, nil
	}

	// Some scanner builds write a result file and print its path instead
	if resultPath := lastLine(output); resultPath != "" {
		if data, err := os.ReadFile(resultPath); err == nil {
			if doc, err := payload.Parse(data); err == nil {
				return doc, nil
			}
		}
	}

	return nil, parseErr
}

// ScanResult aggregates a multi-directory scan
type ScanResult struct {
	Document *payload.Document
	Errors   []*DirError
}

// ScanDirectories scans every directory, isolating failures: a scanner
// error in one directory does not abort the rest. The merged document
// concatenates each directory's plugins in input order.
func (s *Scanner) ScanDirectories(ctx context.Context, dirs []string) (*ScanResult, error) {
	result := &ScanResult{Document: &payload.Document{}}

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		started := time.Now()
		doc, err := s.ScanDirectory(ctx, dir)
		s.logger.LogScanDir(dir, time.Since(started).Milliseconds(), err)

		if err != nil {
			util.WarnLog("Skipping %s: %v", dir, err)
			result.Errors = append(result.Errors, &DirError{Dir: dir, Err: err})
			continue
		}

		util.InfoLog("Scanned %s: %d plugins", dir, len(doc.Plugins))
		result.Document.Plugins = append(result.Document.Plugins, doc.Plugins...)
	}

	result.Document.TotalPlugins = len(result.Document.Plugins)
	for _, p := range result.Document.Plugins {
		if p.Valid() {
			result.Document.ValidPlugins++
		}
	}

	return result, nil
}

func lastLine(output []byte) string {
	trimmed := bytes.TrimSpace(output)
	if len(trimmed) == 0 {
		return ""
	}
	if idx := bytes.LastIndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	return string(bytes.TrimSpace(trimmed))
}
