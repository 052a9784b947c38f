package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tmacha/linkdex/internal/link"
)

const (
	untitled       = "Untitled"
	descriptionCap = 200
)

// ParseMetadata extracts normalized page metadata from an HTML document.
// Each field follows a fixed priority chain; relative image and favicon
// references are resolved against the page URL.
func ParseMetadata(body []byte, pageURL string) (link.PageMetadata, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return link.PageMetadata{}, fmt.Errorf("parse html: %w", err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return link.PageMetadata{}, fmt.Errorf("parse base url: %w", err)
	}

	meta := link.PageMetadata{
		Title:         extractTitle(doc),
		Description:   extractDescription(doc),
		Image:         extractImage(doc, base),
		Favicon:       extractFavicon(doc, base),
		Author:        metaContent(doc, `meta[name="author"]`),
		PublishedDate: metaContent(doc, `meta[property="article:published_time"]`),
		Keywords:      extractKeywords(doc),
		OGTitle:       metaContent(doc, `meta[property="og:title"]`),
		OGDescription: metaContent(doc, `meta[property="og:description"]`),
		OGImage:       metaContent(doc, `meta[property="og:image"]`),
		TwitterCard:   metaContent(doc, `meta[name="twitter:card"]`),
		TwitterImage:  metaContent(doc, `meta[name="twitter:image"]`),
	}
	return meta, nil
}

func extractTitle(doc *goquery.Document) string {
	if v := metaContent(doc, `meta[property="og:title"]`); v != "" {
		return v
	}
	if v := strings.TrimSpace(doc.Find("title").First().Text()); v != "" {
		return v
	}
	if v := strings.TrimSpace(doc.Find("h1").First().Text()); v != "" {
		return v
	}
	return untitled
}

func extractDescription(doc *goquery.Document) string {
	if v := metaContent(doc, `meta[name="description"]`); v != "" {
		return v
	}
	if v := metaContent(doc, `meta[property="og:description"]`); v != "" {
		return v
	}
	p := strings.TrimSpace(doc.Find("p").First().Text())
	if len(p) > descriptionCap {
		p = p[:descriptionCap]
	}
	return p
}

func extractImage(doc *goquery.Document, base *url.URL) string {
	image := metaContent(doc, `meta[property="og:image"]`)
	if image == "" {
		image = metaContent(doc, `meta[name="twitter:image"]`)
	}
	if image == "" {
		image, _ = doc.Find("img").First().Attr("src")
		image = strings.TrimSpace(image)
	}
	return resolveRef(image, base)
}

func extractFavicon(doc *goquery.Document, base *url.URL) string {
	favicon, _ := doc.Find(`link[rel="icon"]`).First().Attr("href")
	if favicon == "" {
		favicon, _ = doc.Find(`link[rel="shortcut icon"]`).First().Attr("href")
	}
	favicon = strings.TrimSpace(favicon)
	if favicon == "" {
		return fmt.Sprintf("%s://%s/favicon.ico", base.Scheme, base.Host)
	}
	return resolveRef(favicon, base)
}

func extractKeywords(doc *goquery.Document) []string {
	raw := metaContent(doc, `meta[name="keywords"]`)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// resolveRef turns a possibly relative reference into an absolute URL.
func resolveRef(ref string, base *url.URL) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
