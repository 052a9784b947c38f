// Package memory provides an in-memory link store for development/testing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tmacha/linkdex/internal/link"
)

// LinkStore implements link.Store with a mutex-guarded map. It enforces the
// same URL uniqueness and not-found semantics as the Postgres store.
type LinkStore struct {
	mu    sync.RWMutex
	byID  map[string]link.Link
	byURL map[string]string
	clock link.Clock
}

// NewLinkStore constructs a LinkStore.
func NewLinkStore(clock link.Clock) *LinkStore {
	return &LinkStore{
		byID:  make(map[string]link.Link),
		byURL: make(map[string]string),
		clock: clock,
	}
}

// Create inserts a new record with store-managed timestamps.
func (s *LinkStore) Create(_ context.Context, l link.Link) (link.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byURL[l.URL]; exists {
		return link.Link{}, link.ErrDuplicateURL
	}
	now := s.clock.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.Tags == nil {
		l.Tags = []string{}
	}
	s.byID[l.ID] = l
	s.byURL[l.URL] = l.ID
	return l, nil
}

// GetByURL fetches a record by its unique URL.
func (s *LinkStore) GetByURL(_ context.Context, url string) (link.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byURL[url]
	if !ok {
		return link.Link{}, link.ErrNotFound
	}
	return s.byID[id], nil
}

// GetByID fetches a record by identifier.
func (s *LinkStore) GetByID(_ context.Context, id string) (link.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byID[id]
	if !ok {
		return link.Link{}, link.ErrNotFound
	}
	return l, nil
}

// List returns up to link.ListLimit matching records, newest first.
func (s *LinkStore) List(_ context.Context, filter link.ListFilter) ([]link.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]link.Link, 0, len(s.byID))
	for _, l := range s.byID {
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > link.ListLimit {
		out = out[:link.ListLimit]
	}
	return out, nil
}

// UpdateTerminal applies the single post-creation mutation. Records already
// in a terminal state are never mutated again.
func (s *LinkStore) UpdateTerminal(_ context.Context, id string, upd link.TerminalUpdate) (link.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byID[id]
	if !ok {
		return link.Link{}, link.ErrNotFound
	}
	if l.Status.Terminal() {
		return link.Link{}, fmt.Errorf("link %s already settled as %s", id, l.Status)
	}
	if !upd.Status.Terminal() {
		return link.Link{}, fmt.Errorf("update status %q is not terminal", upd.Status)
	}
	l.Status = upd.Status
	l.Title = upd.Title
	l.Description = upd.Description
	l.ImageURL = upd.ImageURL
	l.Category = upd.Category
	l.Tags = upd.Tags
	if l.Tags == nil {
		l.Tags = []string{}
	}
	l.AISummary = upd.AISummary
	l.Metadata = upd.Metadata
	l.UpdatedAt = s.clock.Now()
	s.byID[id] = l
	return l, nil
}

// Delete removes a record; missing ids are a no-op.
func (s *LinkStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byID[id]
	if !ok {
		return nil
	}
	delete(s.byID, id)
	delete(s.byURL, l.URL)
	return nil
}
