package scrape

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/common"
	"github.com/ternarybob/mercatus/internal/httpclient"
	"github.com/ternarybob/mercatus/internal/models"
)

// RunResult is the flattened outcome of one orchestrated run. Within the
// batch, each source's own rows keep their order; sources are flattened
// in configuration order once everything has settled.
type RunResult struct {
	News        []models.NewsItem
	Data        []models.ScrapedDatum
	FailedFeeds []string
	Errors      []*SourceError
}

// Service fans every configured scraper out on its own goroutine and
// waits for all of them to settle - fulfilled or rejected - before
// flattening. A run with N sources where N-1 fail still yields whatever
// the survivor produced.
type Service struct {
	scrapers []Scraper
	logger   arbor.ILogger
}

// NewService creates the scrape orchestrator.
func NewService(scrapers []Scraper, logger arbor.ILogger) *Service {
	return &Service{
		scrapers: scrapers,
		logger:   logger,
	}
}

// Run executes all scrapers concurrently and joins their outcomes.
// Per-source failures are collected, never propagated: the scheduler
// calling this always gets a result, however thin.
func (s *Service) Run(ctx context.Context) *RunResult {
	type outcome struct {
		result *Result
		err    error
	}

	// One slot per scraper: goroutines never share an accumulator.
	outcomes := make([]outcome, len(s.scrapers))

	var wg sync.WaitGroup
	for i, scraper := range s.scrapers {
		wg.Add(1)
		i, scraper := i, scraper
		common.SafeGo(s.logger, scraper.Name(), func() {
			defer wg.Done()
			result, err := scraper.Scrape(ctx)
			outcomes[i] = outcome{result: result, err: err}
		})
	}
	wg.Wait()

	run := &RunResult{}
	for i, scraper := range s.scrapers {
		o := outcomes[i]
		if o.err != nil {
			s.logger.Warn().Err(o.err).Str("source", scraper.Name()).Msg("Source failed, excluded from batch")
			run.Errors = append(run.Errors, &SourceError{Source: scraper.Name(), Err: o.err})
			continue
		}
		if o.result == nil {
			// A recovered panic leaves the slot empty; treat it like any
			// other failed source.
			run.Errors = append(run.Errors, &SourceError{Source: scraper.Name(), Err: fmt.Errorf("scraper did not complete")})
			continue
		}

		run.News = append(run.News, o.result.News...)
		run.Data = append(run.Data, o.result.Data...)
		run.FailedFeeds = append(run.FailedFeeds, o.result.FailedFeeds...)
	}

	s.logger.Info().
		Int("sources", len(s.scrapers)).
		Int("rows", len(run.Data)).
		Int("news", len(run.News)).
		Int("failures", len(run.Errors)).
		Msg("Scrape run settled")

	return run
}

// BuildScrapers assembles the scraper set from configuration: one RSS
// reader over all feeds, one scraper per indicator and instrument page,
// and the bulletin scraper behind its fallback transport.
func BuildScrapers(cfg *common.ScrapeConfig, logger arbor.ILogger) []Scraper {
	timeout := cfg.RequestTimeoutDuration()

	client := httpclient.NewClient(
		httpclient.WithUserAgent(cfg.UserAgent),
		httpclient.WithRateLimit(cfg.RatePerSecond),
		httpclient.WithLogger(logger),
	)

	var scrapers []Scraper

	if len(cfg.Feeds) > 0 {
		scrapers = append(scrapers, NewRSSScraper(cfg.Feeds, common.DefaultFeedItemLimit, cfg.UserAgent, logger))
	}

	for _, source := range cfg.Indicators {
		scrapers = append(scrapers, NewIndicatorScraper(source, client, timeout, logger))
	}

	for _, source := range cfg.Instruments {
		scrapers = append(scrapers, NewInstrumentScraper(source, client, timeout, logger))
	}

	if cfg.Bulletin.URL != "" {
		curl := httpclient.NewCurlFetcher(cfg.Bulletin.CurlBinary, cfg.UserAgent, logger)
		fallback := httpclient.NewFallbackFetcher(client, curl, cfg.Bulletin.ForceFallback, logger)
		scrapers = append(scrapers, NewBulletinScraper(cfg.Bulletin, fallback, common.DefaultSlowTimeout, logger))
	}

	return scrapers
}
