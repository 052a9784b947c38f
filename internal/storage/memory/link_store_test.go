package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tmacha/linkdex/internal/link"
)

type tickingClock struct {
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newStore() *LinkStore {
	return NewLinkStore(&tickingClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)})
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()

	s := newStore()
	ctx := context.Background()

	created, err := s.Create(ctx, link.Link{ID: "a", URL: "https://example.com/a", Status: link.StatusProcessing})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("timestamps = %v / %v, want store-managed and equal", created.CreatedAt, created.UpdatedAt)
	}
	if created.Tags == nil {
		t.Error("tags = nil, want empty slice")
	}

	if _, err := s.Create(ctx, link.Link{ID: "b", URL: "https://example.com/a"}); !errors.Is(err, link.ErrDuplicateURL) {
		t.Fatalf("duplicate Create() error = %v, want ErrDuplicateURL", err)
	}

	byURL, err := s.GetByURL(ctx, "https://example.com/a")
	if err != nil || byURL.ID != "a" {
		t.Fatalf("GetByURL() = %+v, %v", byURL, err)
	}
	byID, err := s.GetByID(ctx, "a")
	if err != nil || byID.URL != "https://example.com/a" {
		t.Fatalf("GetByID() = %+v, %v", byID, err)
	}

	if _, err := s.GetByURL(ctx, "https://example.com/missing"); !errors.Is(err, link.ErrNotFound) {
		t.Errorf("GetByURL() missing = %v, want ErrNotFound", err)
	}
	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, link.ErrNotFound) {
		t.Errorf("GetByID() missing = %v, want ErrNotFound", err)
	}
}

func TestUpdateTerminal(t *testing.T) {
	t.Parallel()

	s := newStore()
	ctx := context.Background()
	created, _ := s.Create(ctx, link.Link{ID: "a", URL: "https://example.com/a", Status: link.StatusProcessing})

	settled, err := s.UpdateTerminal(ctx, "a", link.TerminalUpdate{
		Status:      link.StatusCompleted,
		Title:       "Done",
		Description: "All set",
		Category:    "general",
		Tags:        []string{"t"},
		AISummary:   "sum",
	})
	if err != nil {
		t.Fatalf("UpdateTerminal() error = %v", err)
	}
	if settled.Status != link.StatusCompleted || settled.Title != "Done" {
		t.Fatalf("settled = %+v", settled)
	}
	if !settled.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updatedAt not advanced: %v vs %v", settled.UpdatedAt, created.UpdatedAt)
	}

	// Terminal records never transition again.
	if _, err := s.UpdateTerminal(ctx, "a", link.TerminalUpdate{Status: link.StatusFailed}); err == nil {
		t.Fatal("expected error settling an already-terminal record")
	}
	after, _ := s.GetByID(ctx, "a")
	if after.Status != link.StatusCompleted {
		t.Fatalf("status = %s, terminal state reverted", after.Status)
	}

	if _, err := s.UpdateTerminal(ctx, "missing", link.TerminalUpdate{Status: link.StatusFailed}); !errors.Is(err, link.ErrNotFound) {
		t.Errorf("UpdateTerminal() missing = %v, want ErrNotFound", err)
	}
}

func TestUpdateTerminalRejectsNonTerminalStatus(t *testing.T) {
	t.Parallel()

	s := newStore()
	ctx := context.Background()
	_, _ = s.Create(ctx, link.Link{ID: "a", URL: "https://example.com/a", Status: link.StatusProcessing})

	if _, err := s.UpdateTerminal(ctx, "a", link.TerminalUpdate{Status: link.StatusProcessing}); err == nil {
		t.Fatal("expected error for non-terminal target status")
	}
}

func TestListFilterSortAndCap(t *testing.T) {
	t.Parallel()

	s := newStore()
	ctx := context.Background()

	for i := 0; i < link.ListLimit+10; i++ {
		id := fmt.Sprintf("id-%04d", i)
		l := link.Link{ID: id, URL: fmt.Sprintf("https://example.com/%d", i), Status: link.StatusProcessing}
		if i%2 == 0 {
			l.Category = "technology"
		}
		if _, err := s.Create(ctx, l); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	all, err := s.List(ctx, link.ListFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != link.ListLimit {
		t.Fatalf("len = %d, want cap at %d", len(all), link.ListLimit)
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Fatalf("list not sorted newest first at index %d", i)
		}
	}
	// Newest record must survive the cap.
	if all[0].ID != fmt.Sprintf("id-%04d", link.ListLimit+9) {
		t.Errorf("first = %s, want newest record", all[0].ID)
	}

	tech, err := s.List(ctx, link.ListFilter{Category: "technology"})
	if err != nil {
		t.Fatalf("List(category) error = %v", err)
	}
	for _, l := range tech {
		if l.Category != "technology" {
			t.Fatalf("category filter leaked %q", l.Category)
		}
	}

	none, err := s.List(ctx, link.ListFilter{Status: link.StatusFailed})
	if err != nil || len(none) != 0 {
		t.Fatalf("List(FAILED) = %d, %v; want empty", len(none), err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	s := newStore()
	ctx := context.Background()
	_, _ = s.Create(ctx, link.Link{ID: "a", URL: "https://example.com/a"})

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.GetByID(ctx, "a"); !errors.Is(err, link.ErrNotFound) {
		t.Fatalf("GetByID() after delete = %v", err)
	}
	// URL becomes free for resubmission.
	if _, err := s.Create(ctx, link.Link{ID: "b", URL: "https://example.com/a"}); err != nil {
		t.Fatalf("Create() after delete error = %v", err)
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete() missing = %v, want nil", err)
	}
}
