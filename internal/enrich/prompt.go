package enrich

import (
	"fmt"
	"strings"

	"github.com/tmacha/linkdex/internal/link"
)

const systemPrompt = `You are a content analyzer. Extract and enhance information from webpage metadata.
Return a JSON object with: title (improved if needed), description (concise, 1-2 sentences),
category (single lowercase word), tags (array of 3-5 relevant tags), summary (2-3 sentences),
and keyPoints (optional array of 2-3 key takeaways).`

func buildPrompt(meta link.PageMetadata, url string) string {
	description := meta.Description
	if description == "" {
		description = "Not available"
	}
	keywords := "None"
	if len(meta.Keywords) > 0 {
		keywords = strings.Join(meta.Keywords, ", ")
	}
	author := meta.Author
	if author == "" {
		author = "Unknown"
	}
	return fmt.Sprintf(`URL: %s
Title: %s
Description: %s
Keywords: %s
Author: %s

Based on this information, provide an enhanced summary and categorization.
If the title or description seems incomplete or unclear, improve them.
Determine the most appropriate category and relevant tags.`,
		url, meta.Title, description, keywords, author)
}
