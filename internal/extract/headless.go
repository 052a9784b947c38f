package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/tmacha/linkdex/internal/link"
)

// HeadlessConfig controls the behavior of the headless tier.
type HeadlessConfig struct {
	MaxParallel       int
	UserAgent         string
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
}

// HeadlessExtractor renders pages with chromedp and evaluates the field
// extraction logic against the live DOM. It resolves a reduced field set:
// favicon synthesis and the first-image fallback are left to the caller.
type HeadlessExtractor struct {
	cfg         HeadlessConfig
	limiter     chan struct{}
	allocator   context.Context
	allocCancel context.CancelFunc
}

// NewHeadlessExtractor creates a headless extractor backed by chromedp.
func NewHeadlessExtractor(cfg HeadlessConfig) (*HeadlessExtractor, error) {
	if cfg.MaxParallel < 0 {
		return nil, fmt.Errorf("max parallel must be >= 0")
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 45 * time.Second
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 2 * time.Second
	}
	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &HeadlessExtractor{
		cfg:         cfg,
		limiter:     limiter,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// Close cancels the allocator context, tearing down any browser processes.
func (h *HeadlessExtractor) Close() {
	h.allocCancel()
}

// domSnapshot mirrors the object returned by the in-page extraction script.
type domSnapshot struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	OGTitle       string `json:"ogTitle"`
	OGDescription string `json:"ogDescription"`
	OGImage       string `json:"ogImage"`
	Author        string `json:"author"`
	Keywords      string `json:"keywords"`
}

const extractScript = `(() => {
	const getMeta = (name) => {
		const el = document.querySelector('meta[name="' + name + '"], meta[property="' + name + '"]');
		return (el && el.getAttribute('content')) || '';
	};
	return {
		title: document.title || '',
		description: getMeta('description') || getMeta('og:description'),
		image: getMeta('og:image'),
		ogTitle: getMeta('og:title'),
		ogDescription: getMeta('og:description'),
		ogImage: getMeta('og:image'),
		author: getMeta('author'),
		keywords: getMeta('keywords'),
	};
})()`

// Extract navigates to the URL, waits for the page to settle, and evaluates
// the extraction script. The browser context is torn down on every exit path.
func (h *HeadlessExtractor) Extract(ctx context.Context, url string) (link.PageMetadata, error) {
	if err := h.acquire(ctx); err != nil {
		return link.PageMetadata{}, err
	}
	defer h.release()

	taskCtx, taskCancel := chromedp.NewContext(h.allocator)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, h.cfg.NavigationTimeout)
	defer cancel()

	var snap domSnapshot
	actions := []chromedp.Action{
		h.userAgentAction(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(h.cfg.SettleDelay),
		chromedp.Evaluate(extractScript, &snap),
	}
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return link.PageMetadata{}, fmt.Errorf("headless extract: %w", err)
	}
	return snap.toMetadata(), nil
}

func (s domSnapshot) toMetadata() link.PageMetadata {
	title := strings.TrimSpace(s.Title)
	if t := strings.TrimSpace(s.OGTitle); title == "" && t != "" {
		title = t
	}
	if title == "" {
		title = untitled
	}
	var keywords []string
	for _, k := range strings.Split(s.Keywords, ",") {
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return link.PageMetadata{
		Title:         title,
		Description:   strings.TrimSpace(s.Description),
		Image:         strings.TrimSpace(s.Image),
		Author:        strings.TrimSpace(s.Author),
		Keywords:      keywords,
		OGTitle:       strings.TrimSpace(s.OGTitle),
		OGDescription: strings.TrimSpace(s.OGDescription),
		OGImage:       strings.TrimSpace(s.OGImage),
	}
}

func (h *HeadlessExtractor) userAgentAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if h.cfg.UserAgent == "" {
			return nil
		}
		if err := emulation.SetUserAgentOverride(h.cfg.UserAgent).Do(ctx); err != nil {
			return fmt.Errorf("set user-agent: %w", err)
		}
		return nil
	})
}

func (h *HeadlessExtractor) acquire(ctx context.Context) error {
	if h.limiter == nil {
		return nil
	}
	select {
	case h.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("headless slot wait canceled: %w", ctx.Err())
	}
}

func (h *HeadlessExtractor) release() {
	if h.limiter == nil {
		return
	}
	select {
	case <-h.limiter:
	default:
	}
}
