package extract

import (
	"github.com/tmacha/linkdex/internal/link"
)

// Heuristic decides when a static fetch must be promoted to the headless
// tier. Promotion reasons are returned for logging and metrics labels.
type Heuristic struct{}

// NewHeuristic creates a new promotion heuristic.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Promotion reasons reported by ShouldPromote.
const (
	ReasonFetchError = "fetch_error"
	ReasonBadStatus  = "bad_status"
	ReasonEmptyBody  = "empty_body"
	ReasonEmptyShell = "empty_shell"
)

// ShouldPromote judges a static fetch outcome and the metadata parsed from
// it. Any hard failure promotes; a 2xx page whose parsed metadata carries no
// title and no description is treated as a client-rendered shell that only a
// browser can populate.
func (h *Heuristic) ShouldPromote(outcome FetchOutcome, meta link.PageMetadata) (string, bool) {
	if outcome.Err != nil {
		return ReasonFetchError, true
	}
	if outcome.StatusCode < 200 || outcome.StatusCode > 299 {
		return ReasonBadStatus, true
	}
	if len(outcome.Body) == 0 {
		return ReasonEmptyBody, true
	}
	if (meta.Title == "" || meta.Title == untitled) && meta.OGTitle == "" && meta.Description == "" {
		return ReasonEmptyShell, true
	}
	return "", false
}
