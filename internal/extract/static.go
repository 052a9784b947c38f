package extract

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// StaticConfig controls collector behavior for the static tier.
type StaticConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// FetchOutcome is the tagged result of a static fetch. Failures are carried
// in Err rather than raised, so tier promotion is an explicit decision made
// by the escalation heuristic instead of exception-driven control flow.
type FetchOutcome struct {
	StatusCode int
	Body       []byte
	FinalURL   string
	Duration   time.Duration
	Err        error
}

// StaticFetcher issues single HTTP GETs via the Colly collector.
type StaticFetcher struct {
	cfg           StaticConfig
	baseCollector *colly.Collector
}

// NewStaticFetcher builds a StaticFetcher with a pooled transport.
func NewStaticFetcher(cfg StaticConfig) *StaticFetcher {
	// Synchronous collection is colly's default; the Async(false) option is
	// avoided because colly v2.1.0's Async option ignores its argument and
	// always enables async mode.
	c := colly.NewCollector()
	c.Async = false
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())
	return &StaticFetcher{
		cfg:           cfg,
		baseCollector: c,
	}
}

// Fetch executes one GET and reports the outcome. It never returns a Go
// error to the caller; network and status failures are folded into the
// outcome for the heuristic to judge.
func (f *StaticFetcher) Fetch(ctx context.Context, url string) FetchOutcome {
	var outcome FetchOutcome
	start := time.Now()

	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.IgnoreRobotsTxt = true
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collector.SetRequestTimeout(timeout)

	collector.OnResponse(func(r *colly.Response) {
		outcome.StatusCode = r.StatusCode
		outcome.Body = append([]byte(nil), r.Body...)
		outcome.FinalURL = r.Request.URL.String()
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			outcome.StatusCode = r.StatusCode
		}
		outcome.Err = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		outcome.Err = fmt.Errorf("static fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil && outcome.Err == nil {
			outcome.Err = fmt.Errorf("static fetch: %w", err)
		}
	}
	outcome.Duration = time.Since(start)
	if outcome.FinalURL == "" {
		outcome.FinalURL = url
	}
	return outcome
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
