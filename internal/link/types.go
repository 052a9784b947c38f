// Package link defines core types shared across subsystems.
package link

import "time"

// Status represents the lifecycle state of a link record.
type Status string

// Status values persisted in the link store. PROCESSING is entered exactly
// once at creation; COMPLETED and FAILED are terminal.
const (
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Terminal reports whether the status admits no further transition.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	return s == StatusProcessing || s.Terminal()
}

// PageMetadata is produced fresh per extraction and never persisted on its
// own; the raw OG/Twitter fields are retained for consumers that prefer a
// specific source field over the normalized one.
type PageMetadata struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Image         string   `json:"image,omitempty"`
	Favicon       string   `json:"favicon,omitempty"`
	Author        string   `json:"author,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	OGTitle       string   `json:"og_title,omitempty"`
	OGDescription string   `json:"og_description,omitempty"`
	OGImage       string   `json:"og_image,omitempty"`
	TwitterCard   string   `json:"twitter_card,omitempty"`
	TwitterImage  string   `json:"twitter_image,omitempty"`
}

// EnrichmentResult is the fully populated output of the enrichment engine.
// The engine never returns a partial result; the fallback path guarantees
// every required field via metadata substitution.
type EnrichmentResult struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points,omitempty"`
}

// Link is the durable entity keyed uniquely by URL.
type Link struct {
	ID          string        `json:"id"`
	URL         string        `json:"url"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	ImageURL    string        `json:"image_url,omitempty"`
	Category    string        `json:"category,omitempty"`
	Tags        []string      `json:"tags"`
	AISummary   string        `json:"ai_summary,omitempty"`
	Domain      string        `json:"domain"`
	Status      Status        `json:"status"`
	Metadata    *PageMetadata `json:"metadata,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TerminalUpdate carries the single post-creation mutation applied when a
// link settles into COMPLETED or FAILED.
type TerminalUpdate struct {
	Status      Status
	Title       string
	Description string
	ImageURL    string
	Category    string
	Tags        []string
	AISummary   string
	Metadata    *PageMetadata
}

// ListFilter narrows List results; zero values match everything.
type ListFilter struct {
	Category string
	Status   Status
}

// ListLimit caps List results; records are returned newest first.
const ListLimit = 100
