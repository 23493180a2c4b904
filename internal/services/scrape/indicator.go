package scrape

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/common"
	"github.com/ternarybob/mercatus/internal/httpclient"
	"github.com/ternarybob/mercatus/internal/models"
)

// IndicatorScraper reads one CSS-addressable value off one page and emits
// at most one economic-indicator datum. A value that fails numeric
// parsing is dropped silently; only transport or markup failures count as
// a source failure.
type IndicatorScraper struct {
	source  common.IndicatorSource
	fetcher httpclient.Fetcher
	timeout time.Duration
	logger  arbor.ILogger
}

// NewIndicatorScraper creates a single-value page scraper.
func NewIndicatorScraper(source common.IndicatorSource, fetcher httpclient.Fetcher, timeout time.Duration, logger arbor.ILogger) *IndicatorScraper {
	return &IndicatorScraper{
		source:  source,
		fetcher: fetcher,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *IndicatorScraper) Name() string {
	return "indicator:" + s.source.Code
}

func (s *IndicatorScraper) Scrape(ctx context.Context) (*Result, error) {
	resp, err := s.fetcher.Do(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     s.source.URL,
		Timeout: s.timeout,
	})
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}

	text := doc.Find(s.source.Selector).First().Text()
	value := common.ParseLocaleFloat(text)
	if math.IsNaN(value) {
		// Row drop, not a source failure: the page answered but the cell
		// held nothing numeric.
		s.logger.Debug().Str("code", s.source.Code).Str("text", text).Msg("Indicator cell not numeric, dropping row")
		return &Result{}, nil
	}

	now := time.Now()
	return &Result{
		Data: []models.ScrapedDatum{{
			Code:      s.source.Code,
			Name:      s.source.Name,
			Value:     value,
			Date:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
			SourceURL: s.source.URL,
			Kind:      models.KindEconomicIndicator,
			Category:  s.source.Category,
			DateKeyed: s.source.DateKeyed,
		}},
	}, nil
}
