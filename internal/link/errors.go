package link

import "errors"

// Sentinel errors shared across store implementations and the coordinator.
var (
	// ErrDuplicateURL is returned by Store.Create when a record with the
	// same URL already exists. Callers resolve it by re-reading.
	ErrDuplicateURL = errors.New("link: duplicate url")

	// ErrNotFound is returned by lookups for absent records.
	ErrNotFound = errors.New("link: not found")

	// ErrInvalidURL rejects malformed submissions before any record exists.
	ErrInvalidURL = errors.New("link: invalid url")
)
