// Package scrape implements the per-source scrapers and the orchestrator
// that fans them out. Every source family shares one shape: fetch one
// logical source, normalize it, and report either rows or a per-source
// failure. No scraper ever aborts another.
package scrape

import (
	"context"
	"fmt"

	"github.com/ternarybob/mercatus/internal/models"
)

// Result is one scraper's private output. A scraper owns its slices
// until the orchestrator flattens settled results, so no locking is
// needed anywhere in the fan-out.
type Result struct {
	News []models.NewsItem
	Data []models.ScrapedDatum

	// FailedFeeds names sub-sources (individual RSS feeds) that failed
	// inside an otherwise successful scraper run.
	FailedFeeds []string
}

// Scraper is the shared shape of every source family.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context) (*Result, error)
}

// SourceError records one failed source within a run.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s failed: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
