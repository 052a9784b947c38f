package link

import (
	"context"
	"time"
)

// Store persists link records. Uniqueness on URL is enforced by the store and
// is the authoritative guard against concurrent duplicate creation.
type Store interface {
	// Create inserts a new record; ErrDuplicateURL when the URL exists.
	Create(ctx context.Context, l Link) (Link, error)
	// GetByURL fetches a record by its unique URL; ErrNotFound when absent.
	GetByURL(ctx context.Context, url string) (Link, error)
	// GetByID fetches a record by identifier; ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (Link, error)
	// List returns up to ListLimit matching records, newest first.
	List(ctx context.Context, filter ListFilter) ([]Link, error)
	// UpdateTerminal applies the single post-creation mutation.
	UpdateTerminal(ctx context.Context, id string, upd TerminalUpdate) (Link, error)
	// Delete removes a record unconditionally; missing ids are a no-op.
	Delete(ctx context.Context, id string) error
}

// Extractor derives structured metadata from a raw web page.
type Extractor interface {
	Extract(ctx context.Context, url string) (PageMetadata, error)
}

// Enricher derives categorization and summary from extracted metadata. It is
// total: generative failures resolve internally to a deterministic fallback.
type Enricher interface {
	Enrich(ctx context.Context, meta PageMetadata, url string) EnrichmentResult
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces record identifiers.
type IDGenerator interface {
	NewID() (string, error)
}
