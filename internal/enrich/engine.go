// Package enrich turns extracted page metadata into a categorized, tagged,
// summarized result, degrading to a deterministic heuristic when the
// generative service fails or misbehaves.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tmacha/linkdex/internal/link"
	"github.com/tmacha/linkdex/internal/metrics"
)

// CompletionClient produces structured text for a system+user prompt pair.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Engine implements link.Enricher. Enrich never fails: every error from the
// generative step is absorbed and resolved via the fallback path.
type Engine struct {
	client CompletionClient
	logger *zap.Logger
}

// NewEngine constructs an Engine. A nil client disables the generative path
// entirely; every enrichment then resolves through the fallback.
func NewEngine(client CompletionClient, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{client: client, logger: logger}
}

// Enrich produces a fully populated result for the metadata and URL.
func (e *Engine) Enrich(ctx context.Context, meta link.PageMetadata, url string) link.EnrichmentResult {
	if e.client != nil {
		result, err := e.generative(ctx, meta, url)
		if err == nil {
			metrics.ObserveEnrichment(metrics.PathGenerative)
			return result
		}
		e.logger.Warn("generative enrichment failed, using fallback",
			zap.String("url", url),
			zap.Error(err),
		)
	}
	metrics.ObserveEnrichment(metrics.PathFallback)
	return Fallback(meta)
}

func (e *Engine) generative(ctx context.Context, meta link.PageMetadata, url string) (link.EnrichmentResult, error) {
	content, err := e.client.Complete(ctx, systemPrompt, buildPrompt(meta, url))
	if err != nil {
		return link.EnrichmentResult{}, err
	}
	if content == "" {
		return link.EnrichmentResult{}, fmt.Errorf("empty completion content")
	}

	var result link.EnrichmentResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return link.EnrichmentResult{}, fmt.Errorf("parse completion content: %w", err)
	}
	if result.Title == "" || result.Category == "" || result.Summary == "" {
		return link.EnrichmentResult{}, fmt.Errorf("incomplete completion content")
	}

	result.Category = strings.ToLower(strings.TrimSpace(result.Category))
	if len(result.Tags) > 5 {
		result.Tags = result.Tags[:5]
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}
	return result, nil
}
