// Package pipeline orchestrates extraction and enrichment against the link
// store, defining the PROCESSING -> COMPLETED/FAILED state machine that
// polling clients observe.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tmacha/linkdex/internal/link"
	"github.com/tmacha/linkdex/internal/metrics"
)

// Placeholder copy shown while a record is PROCESSING or after failure.
const (
	processingTitle       = "Processing..."
	processingDescription = "Analyzing your link..."
	failedTitle           = "Failed to process"
	failedDescription     = "Could not analyze this link"
)

// Coordinator owns the link lifecycle. Each record transitions exactly once
// out of PROCESSING; terminal states never revert.
type Coordinator struct {
	store     link.Store
	extractor link.Extractor
	enricher  link.Enricher
	idGen     link.IDGenerator
	logger    *zap.Logger
}

// New constructs a Coordinator.
func New(
	store link.Store,
	extractor link.Extractor,
	enricher link.Enricher,
	idGen link.IDGenerator,
	logger *zap.Logger,
) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		store:     store,
		extractor: extractor,
		enricher:  enricher,
		idGen:     idGen,
		logger:    logger,
	}
}

// Submit validates the URL, creates a PROCESSING record, runs the pipeline,
// and returns the settled record. A URL that already has a record is returned
// unchanged regardless of its status; extraction failures settle the record
// into FAILED and are not surfaced as errors once the record exists.
func (c *Coordinator) Submit(ctx context.Context, rawURL string) (link.Link, error) {
	if _, err := link.ParseURL(rawURL); err != nil {
		return link.Link{}, err
	}
	url := strings.TrimSpace(rawURL)

	if existing, err := c.store.GetByURL(ctx, url); err == nil {
		return existing, nil
	} else if !errors.Is(err, link.ErrNotFound) {
		return link.Link{}, fmt.Errorf("check existing link: %w", err)
	}

	id, err := c.idGen.NewID()
	if err != nil {
		return link.Link{}, fmt.Errorf("generate link id: %w", err)
	}

	// The PROCESSING record must be committed before any network I/O so
	// polling observers see it immediately.
	created, err := c.store.Create(ctx, link.Link{
		ID:          id,
		URL:         url,
		Title:       processingTitle,
		Description: processingDescription,
		Domain:      link.DomainOf(url),
		Status:      link.StatusProcessing,
		Tags:        []string{},
	})
	if errors.Is(err, link.ErrDuplicateURL) {
		// Lost the creation race; the store's uniqueness constraint is the
		// authoritative guard. Resolve by returning the winner's record.
		existing, getErr := c.store.GetByURL(ctx, url)
		if getErr != nil {
			return link.Link{}, fmt.Errorf("refetch after duplicate: %w", getErr)
		}
		return existing, nil
	}
	if err != nil {
		return link.Link{}, fmt.Errorf("create link: %w", err)
	}

	return c.process(ctx, created)
}

// process runs extraction then enrichment and applies the terminal write.
func (c *Coordinator) process(ctx context.Context, created link.Link) (link.Link, error) {
	meta, err := c.extractor.Extract(ctx, created.URL)
	if err != nil {
		c.logger.Warn("extraction failed",
			zap.String("link_id", created.ID),
			zap.String("url", created.URL),
			zap.Error(err),
		)
		metrics.ObserveSubmission(string(link.StatusFailed))
		failed, updErr := c.store.UpdateTerminal(ctx, created.ID, link.TerminalUpdate{
			Status:      link.StatusFailed,
			Title:       failedTitle,
			Description: failedDescription,
			Tags:        []string{},
		})
		if updErr != nil {
			return link.Link{}, fmt.Errorf("settle failed link: %w", updErr)
		}
		return failed, nil
	}

	result := c.enricher.Enrich(ctx, meta, created.URL)

	imageURL := meta.OGImage
	if imageURL == "" {
		imageURL = meta.Image
	}

	metrics.ObserveSubmission(string(link.StatusCompleted))
	completed, err := c.store.UpdateTerminal(ctx, created.ID, link.TerminalUpdate{
		Status:      link.StatusCompleted,
		Title:       result.Title,
		Description: result.Description,
		ImageURL:    imageURL,
		Category:    result.Category,
		Tags:        result.Tags,
		AISummary:   result.Summary,
		Metadata:    &meta,
	})
	if err != nil {
		return link.Link{}, fmt.Errorf("settle completed link: %w", err)
	}
	c.logger.Info("link enriched",
		zap.String("link_id", completed.ID),
		zap.String("domain", completed.Domain),
		zap.String("category", completed.Category),
	)
	return completed, nil
}

// Get fetches a record by identifier; the poll target for clients.
func (c *Coordinator) Get(ctx context.Context, id string) (link.Link, error) {
	return c.store.GetByID(ctx, id)
}

// List returns up to link.ListLimit matching records, newest first.
func (c *Coordinator) List(ctx context.Context, filter link.ListFilter) ([]link.Link, error) {
	return c.store.List(ctx, filter)
}

// Delete removes a record unconditionally; a missing id is not an error.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, id)
}
