// Package ingest downloads statute pages and splits them into
// per-article passages ready for indexing.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/time/rate"

	"github.com/tda234574534243/law-advisor/internal/model"
)

// Fetcher retrieves HTML pages politely: per-domain rate limits, a
// robots.txt check and a hard byte cap on response bodies.
type Fetcher struct {
	httpClient    *http.Client
	userAgent     string
	maxBytes      int64
	respectRobots bool
	robots        *robotsChecker

	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
}

func NewFetcher(cfg model.IngestConfig) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:     cfg.UserAgent,
		maxBytes:      cfg.MaxBodyBytes,
		respectRobots: cfg.RespectRobots,
		robots:        newRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiters:      make(map[string]*rate.Limiter),
		rps:           rate.Limit(cfg.RequestsPerSecond),
	}
}

// Fetch retrieves one page. The returned string is the raw HTML,
// truncated at the configured byte cap.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.respectRobots {
		allowed, err := f.robots.canFetch(ctx, rawURL)
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", fmt.Errorf("disallowed by robots.txt: %s", rawURL)
		}
	}

	if err := f.wait(ctx, rawURL); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9,en;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// wait blocks until the domain's rate limiter clears the request.
func (f *Fetcher) wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	return f.limiterFor(parsed.Host).Wait(ctx)
}

func (f *Fetcher) limiterFor(domain string) *rate.Limiter {
	f.mu.RLock()
	limiter, exists := f.limiters[domain]
	f.mu.RUnlock()
	if exists {
		return limiter
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if limiter, exists := f.limiters[domain]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(f.rps, 1)
	f.limiters[domain] = limiter
	return limiter
}
