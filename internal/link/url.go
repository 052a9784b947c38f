package link

import (
	"net/url"
	"strings"
)

// ParseURL validates a submitted URL and returns its parsed form. Only
// absolute http(s) URLs with a host are accepted.
func ParseURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, ErrInvalidURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, ErrInvalidURL
	}
	if parsed.Hostname() == "" {
		return nil, ErrInvalidURL
	}
	return parsed, nil
}

// DomainOf derives the host stored on every link record. The input must have
// passed ParseURL; anything else yields the empty string.
func DomainOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
