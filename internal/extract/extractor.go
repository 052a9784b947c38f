// Package extract derives structured page metadata from URLs using a
// two-tier strategy: a cheap static fetch first, promoted to a headless
// browser render when the escalation heuristic demands it.
package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tmacha/linkdex/internal/link"
	"github.com/tmacha/linkdex/internal/metrics"
)

// StaticTier issues the tier-1 fetch and reports a tagged outcome.
type StaticTier interface {
	Fetch(ctx context.Context, url string) FetchOutcome
}

// HeadlessTier renders the page in a browser and extracts from the live DOM.
type HeadlessTier interface {
	Extract(ctx context.Context, url string) (link.PageMetadata, error)
}

// Promoter judges whether a static outcome warrants the headless tier.
type Promoter interface {
	ShouldPromote(outcome FetchOutcome, meta link.PageMetadata) (string, bool)
}

// Extractor chains the two tiers. It fails only when the static tier is
// promoted and the headless tier also fails; callers then receive an error
// rather than a meaningless empty metadata object.
type Extractor struct {
	static   StaticTier
	headless HeadlessTier
	promoter Promoter
	logger   *zap.Logger
}

// New constructs an Extractor. The headless tier may be nil when browser
// rendering is disabled; promotion then surfaces the static failure.
func New(static StaticTier, headless HeadlessTier, promoter Promoter, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if promoter == nil {
		promoter = NewHeuristic()
	}
	return &Extractor{
		static:   static,
		headless: headless,
		promoter: promoter,
		logger:   logger,
	}
}

// Extract produces normalized metadata for the URL.
func (e *Extractor) Extract(ctx context.Context, url string) (link.PageMetadata, error) {
	outcome := e.static.Fetch(ctx, url)

	var meta link.PageMetadata
	var parseErr error
	if outcome.Err == nil && len(outcome.Body) > 0 {
		meta, parseErr = ParseMetadata(outcome.Body, outcome.FinalURL)
		if parseErr != nil && outcome.Err == nil {
			outcome.Err = parseErr
		}
	}

	reason, promote := e.promoter.ShouldPromote(outcome, meta)
	if !promote {
		metrics.ObserveExtraction(metrics.TierStatic, "success")
		return meta, nil
	}

	e.logger.Debug("promoting to headless tier",
		zap.String("url", url),
		zap.String("reason", reason),
		zap.Int("status", outcome.StatusCode),
	)
	metrics.ObserveExtraction(metrics.TierStatic, reason)

	if e.headless == nil {
		metrics.ObserveExtraction(metrics.TierHeadless, "unavailable")
		if outcome.Err != nil {
			return link.PageMetadata{}, fmt.Errorf("static tier failed (%s) and headless tier disabled: %w", reason, outcome.Err)
		}
		return link.PageMetadata{}, fmt.Errorf("static tier failed (%s) and headless tier disabled", reason)
	}

	rendered, err := e.headless.Extract(ctx, url)
	if err != nil {
		metrics.ObserveExtraction(metrics.TierHeadless, "failure")
		return link.PageMetadata{}, fmt.Errorf("both extraction tiers failed: %w", err)
	}
	metrics.ObserveExtraction(metrics.TierHeadless, "success")
	return e.finishHeadless(rendered, url), nil
}

// finishHeadless fills fields the reduced headless field set leaves blank.
func (e *Extractor) finishHeadless(meta link.PageMetadata, url string) link.PageMetadata {
	if meta.Favicon == "" {
		if parsed, err := link.ParseURL(url); err == nil {
			meta.Favicon = fmt.Sprintf("%s://%s/favicon.ico", parsed.Scheme, parsed.Host)
		}
	}
	return meta
}
