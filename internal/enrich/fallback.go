package enrich

import (
	"strings"

	"github.com/tmacha/linkdex/internal/link"
)

// categoryRule maps title substrings to a category. Rules are evaluated in
// order; the first match wins. Only the title is inspected.
type categoryRule struct {
	substrings []string
	category   string
}

var categoryRules = []categoryRule{
	{substrings: []string{"tech", "software"}, category: "technology"},
	{substrings: []string{"news"}, category: "news"},
	{substrings: []string{"blog"}, category: "blog"},
	{substrings: []string{"video", "youtube"}, category: "video"},
}

const defaultCategory = "general"

// Fallback derives an enrichment result from metadata alone. It is fully
// deterministic and guarantees every required field is populated, so the
// pipeline stays total when the generative path is unavailable.
func Fallback(meta link.PageMetadata) link.EnrichmentResult {
	title := meta.Title
	if title == "" {
		title = "Untitled"
	}
	description := meta.Description
	if description == "" {
		description = "No description available"
	}

	tags := meta.Keywords
	if len(tags) > 5 {
		tags = tags[:5]
	}
	if tags == nil {
		tags = []string{}
	}

	summary := meta.Description
	if summary == "" {
		summary = "Content from " + title
	}

	return link.EnrichmentResult{
		Title:       title,
		Description: description,
		Category:    categorize(title),
		Tags:        tags,
		Summary:     summary,
	}
}

func categorize(title string) string {
	lowered := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lowered, sub) {
				return rule.category
			}
		}
	}
	return defaultCategory
}
