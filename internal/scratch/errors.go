package scratch

import "errors"

// Errors returned by session operations.
var (
	// ErrStaleSnapshot is returned when the document changed between
	// planning and applying an allocation.
	ErrStaleSnapshot = errors.New("scratch document changed since snapshot")

	// ErrNoDocument is returned when there is no document to number.
	ErrNoDocument = errors.New("no document")

	// ErrNoPath is returned by Save when the session has no backing file.
	ErrNoPath = errors.New("scratch document has no path")
)
