package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/tmacha/linkdex/internal/enrich"
	"github.com/tmacha/linkdex/internal/extract"
	"github.com/tmacha/linkdex/internal/link"
	"github.com/tmacha/linkdex/internal/storage/memory"
)

type staticPage struct {
	body []byte
}

func (s *staticPage) Fetch(_ context.Context, url string) extract.FetchOutcome {
	return extract.FetchOutcome{StatusCode: 200, Body: s.body, FinalURL: url}
}

// Full path through the real extractor and enrichment engine: a static page
// carrying only an og:title settles COMPLETED without touching the headless
// tier or any generative service.
func TestSubmitStaticPageWithoutGenerativeService(t *testing.T) {
	t.Parallel()

	static := &staticPage{body: []byte(`<html><head><meta property="og:title" content="A"></head><body></body></html>`)}
	extractor := extract.New(static, nil, extract.NewHeuristic(), nil)
	engine := enrich.NewEngine(nil, nil)
	store := memory.NewLinkStore(&fakeClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)})
	coord := New(store, extractor, engine, &seqIDGen{}, nil)

	got, err := coord.Submit(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if got.Status != link.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", got.Status)
	}
	if got.Title != "A" {
		t.Errorf("title = %q, want og:title", got.Title)
	}
	if got.Category != "general" {
		t.Errorf("category = %q, want general (no rule matches)", got.Category)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("tags = %v, want empty (page has no keywords)", got.Tags)
	}
	if got.AISummary != "Content from A" {
		t.Errorf("aiSummary = %q, want synthesized fallback summary", got.AISummary)
	}
	if got.Metadata == nil || got.Metadata.OGTitle != "A" {
		t.Errorf("metadata = %+v, want raw og fields preserved", got.Metadata)
	}
}
