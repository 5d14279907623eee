package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tda234574534243/law-advisor/internal/store"
)

// Scraper fetches statute pages and loads their articles into the
// passage store.
type Scraper struct {
	fetcher *Fetcher
	store   store.PassageStore
	logger  *slog.Logger
}

func NewScraper(fetcher *Fetcher, s store.PassageStore, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{fetcher: fetcher, store: s, logger: logger}
}

// Run ingests every URL and returns the number of passages stored.
// A failing URL is skipped; its error is folded into the return value
// so the remaining URLs still get ingested.
func (s *Scraper) Run(ctx context.Context, urls []string) (int, error) {
	var stored int
	var errs []error

	for _, u := range urls {
		n, err := s.ingestOne(ctx, u)
		if err != nil {
			s.logger.Warn("ingest failed", "url", u, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", u, err))
			continue
		}
		stored += n
		s.logger.Info("ingested", "url", u, "passages", n)
	}
	return stored, errors.Join(errs...)
}

func (s *Scraper) ingestOne(ctx context.Context, url string) (int, error) {
	htmlSrc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return 0, err
	}

	doc, err := ParseLaw(htmlSrc, url)
	if err != nil {
		return 0, err
	}
	if len(doc.Passages) == 0 {
		return 0, fmt.Errorf("no articles found")
	}

	for _, p := range doc.Passages {
		if err := s.store.Insert(ctx, p); err != nil {
			return 0, fmt.Errorf("store passage %s: %w", p.DocID, err)
		}
	}
	return len(doc.Passages), nil
}
