package corpus

import "errors"

// Error taxonomy for corpus access. Validation findings are report data and
// never surface through these.
var (
	// ErrAccessDenied - resolved path escapes the data root. Fatal to the
	// operation, never retried.
	ErrAccessDenied = errors.New("access outside data dir is not allowed")

	// ErrNotFound - file absent under the data root.
	ErrNotFound = errors.New("file not found")

	// ErrRead - file exists but could not be read or decoded as text.
	ErrRead = errors.New("read failed")

	// ErrParse - content could not be parsed as structured data. Fatal for
	// single-file operations, silently skipped during corpus scans.
	ErrParse = errors.New("parse failed")
)
