package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/tmacha/linkdex/internal/link"
)

type stubStatic struct {
	outcome FetchOutcome
	calls   int
}

func (s *stubStatic) Fetch(_ context.Context, _ string) FetchOutcome {
	s.calls++
	return s.outcome
}

type stubHeadless struct {
	meta  link.PageMetadata
	err   error
	calls int
}

func (s *stubHeadless) Extract(_ context.Context, _ string) (link.PageMetadata, error) {
	s.calls++
	return s.meta, s.err
}

func TestExtractStaticSuccess(t *testing.T) {
	t.Parallel()

	static := &stubStatic{outcome: FetchOutcome{
		StatusCode: 200,
		Body:       []byte(`<html><head><meta property="og:title" content="A"></head></html>`),
		FinalURL:   "https://example.com/a",
	}}
	headless := &stubHeadless{}
	e := New(static, headless, nil, nil)

	meta, err := e.Extract(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if meta.Title != "A" {
		t.Fatalf("title = %q, want og:title A", meta.Title)
	}
	if headless.calls != 0 {
		t.Fatalf("headless tier invoked %d times on static success", headless.calls)
	}
}

func TestExtractPromotesOnBadStatus(t *testing.T) {
	t.Parallel()

	static := &stubStatic{outcome: FetchOutcome{StatusCode: 503, Body: []byte("unavailable")}}
	headless := &stubHeadless{meta: link.PageMetadata{Title: "Rendered"}}
	e := New(static, headless, nil, nil)

	meta, err := e.Extract(context.Background(), "https://example.com/spa")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if headless.calls != 1 {
		t.Fatalf("headless tier invoked %d times, want exactly 1", headless.calls)
	}
	if meta.Title != "Rendered" {
		t.Fatalf("title = %q, want headless result", meta.Title)
	}
	if meta.Favicon != "https://example.com/favicon.ico" {
		t.Fatalf("favicon = %q, want synthesized origin favicon", meta.Favicon)
	}
}

func TestExtractBothTiersFail(t *testing.T) {
	t.Parallel()

	static := &stubStatic{outcome: FetchOutcome{Err: errors.New("connection refused")}}
	headless := &stubHeadless{err: errors.New("browser crashed")}
	e := New(static, headless, nil, nil)

	if _, err := e.Extract(context.Background(), "https://example.com"); err == nil {
		t.Fatal("expected error when both tiers fail")
	}
	if headless.calls != 1 {
		t.Fatalf("headless tier invoked %d times, want 1", headless.calls)
	}
}

func TestExtractHeadlessDisabled(t *testing.T) {
	t.Parallel()

	static := &stubStatic{outcome: FetchOutcome{StatusCode: 404, Body: []byte("gone")}}
	e := New(static, nil, nil, nil)

	if _, err := e.Extract(context.Background(), "https://example.com"); err == nil {
		t.Fatal("expected error when promotion is needed but headless tier is disabled")
	}
}
