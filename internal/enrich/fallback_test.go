package enrich

import (
	"reflect"
	"testing"

	"github.com/tmacha/linkdex/internal/link"
)

func TestFallbackPopulatesEveryField(t *testing.T) {
	t.Parallel()

	meta := link.PageMetadata{
		Title:       "Go Blog Weekly",
		Description: "A weekly roundup.",
		Keywords:    []string{"go", "programming", "weekly", "newsletter", "digest", "extra"},
	}
	result := Fallback(meta)

	if result.Title != "Go Blog Weekly" {
		t.Errorf("title = %q", result.Title)
	}
	if result.Description != "A weekly roundup." {
		t.Errorf("description = %q", result.Description)
	}
	if result.Category != "blog" {
		t.Errorf("category = %q, want blog", result.Category)
	}
	if !reflect.DeepEqual(result.Tags, []string{"go", "programming", "weekly", "newsletter", "digest"}) {
		t.Errorf("tags = %v, want first 5 keywords", result.Tags)
	}
	if result.Summary != "A weekly roundup." {
		t.Errorf("summary = %q, want description", result.Summary)
	}
}

func TestFallbackEmptyMetadata(t *testing.T) {
	t.Parallel()

	result := Fallback(link.PageMetadata{})

	if result.Title != "Untitled" {
		t.Errorf("title = %q, want Untitled", result.Title)
	}
	if result.Description != "No description available" {
		t.Errorf("description = %q", result.Description)
	}
	if result.Category != "general" {
		t.Errorf("category = %q, want general", result.Category)
	}
	if result.Summary != "Content from Untitled" {
		t.Errorf("summary = %q", result.Summary)
	}
	if result.Tags == nil || len(result.Tags) != 0 {
		t.Errorf("tags = %v, want empty non-nil slice", result.Tags)
	}
}

func TestCategorizeRuleOrder(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Tech News Daily":          "technology",
		"Software Release Notes":   "technology",
		"Evening News Report":      "news",
		"My Travel Blog":           "blog",
		"YouTube Channel Trailer":  "video",
		"Funny Video Compilation":  "video",
		"Cooking with Charlie":     "general",
		"TECHNICAL interview prep": "technology",
	}
	for title, want := range cases {
		if got := categorize(title); got != want {
			t.Errorf("categorize(%q) = %q, want %q", title, got, want)
		}
	}
}
