package util

import (
	"fmt"
	"os"
)

// PathStatus is the accessibility check result for a single path
type PathStatus struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Error  string `json:"error,omitempty"`
}

// CheckPathAccessible verifies that a path exists and is readable.
// It never returns an error; failures are reported in the result entry.
func CheckPathAccessible(path string) PathStatus {
	status := PathStatus{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		status.Error = "path does not exist or is not accessible"
		return status
	}

	if info.IsDir() {
		// A readable directory must be listable
		f, err := os.Open(path)
		if err != nil {
			status.Error = "path does not exist or is not accessible"
			return status
		}
		f.Close()
	}

	status.Exists = true
	return status
}

// CheckPathsAccessible checks every input path and always produces one
// result entry per path, in input order.
func CheckPathsAccessible(paths []string) []PathStatus {
	results := make([]PathStatus, 0, len(paths))
	for _, p := range paths {
		results = append(results, CheckPathAccessible(p))
	}
	return results
}

// EnsureDir creates a directory and its parents if they do not exist
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %v", ErrIO, dir, err)
	}
	return nil
}
