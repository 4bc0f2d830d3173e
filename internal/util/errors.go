package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrNotFound indicates a requested plugin or setting does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates a missing or empty required parameter
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedPayload indicates a scan payload that is not valid JSON
	// or lacks a plugins sequence
	ErrMalformedPayload = errors.New("malformed scan payload")

	// ErrMissingTable indicates the backing table has not been created yet;
	// the store uses it to trigger lazy schema creation
	ErrMissingTable = errors.New("missing table")

	// ErrQuery indicates a database failure other than a missing table
	ErrQuery = errors.New("query failed")

	// ErrIO indicates a filesystem access failure
	ErrIO = errors.New("i/o error")

	// ErrExternalTool indicates a scanner subprocess failure, timeout or
	// non-zero exit
	ErrExternalTool = errors.New("external scanner failed")
)
