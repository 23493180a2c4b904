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

// InstrumentScraper reads the price, change and change-percent cells for
// one instrument page and emits one datum tagged with the configured
// destination kind. The percent cell typically arrives wrapped in
// parentheses with a percent sign ("(+1,23%)") and is stripped before
// parsing.
type InstrumentScraper struct {
	source  common.InstrumentSource
	fetcher httpclient.Fetcher
	timeout time.Duration
	logger  arbor.ILogger
}

// NewInstrumentScraper creates a multi-field instrument page scraper.
func NewInstrumentScraper(source common.InstrumentSource, fetcher httpclient.Fetcher, timeout time.Duration, logger arbor.ILogger) *InstrumentScraper {
	return &InstrumentScraper{
		source:  source,
		fetcher: fetcher,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *InstrumentScraper) Name() string {
	return "instrument:" + s.source.Symbol
}

func (s *InstrumentScraper) Scrape(ctx context.Context) (*Result, error) {
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

	price := common.ParseLocaleFloat(doc.Find(s.source.PriceSelector).First().Text())
	if math.IsNaN(price) {
		// No usable price means no usable row; not a source failure.
		s.logger.Debug().Str("symbol", s.source.Symbol).Msg("Instrument price not numeric, dropping row")
		return &Result{}, nil
	}

	datum := models.ScrapedDatum{
		Code:      s.source.Symbol,
		Name:      s.source.Name,
		Value:     price,
		Date:      time.Now(),
		SourceURL: s.source.URL,
		Kind:      models.DatumKind(s.source.Kind),
	}

	// A configured cell that fails to parse poisons the whole row: a
	// partially-read quote is worse than no quote.
	if s.source.ChangeSelector != "" {
		change := common.ParseLocaleFloat(doc.Find(s.source.ChangeSelector).First().Text())
		if math.IsNaN(change) {
			s.logger.Debug().Str("symbol", s.source.Symbol).Msg("Instrument change cell not numeric, dropping row")
			return &Result{}, nil
		}
		datum.Change = &change
	}
	if s.source.PercentSelector != "" {
		pct := common.ParsePercent(doc.Find(s.source.PercentSelector).First().Text())
		if math.IsNaN(pct) {
			s.logger.Debug().Str("symbol", s.source.Symbol).Msg("Instrument percent cell not numeric, dropping row")
			return &Result{}, nil
		}
		datum.ChangePercent = &pct
	}

	return &Result{Data: []models.ScrapedDatum{datum}}, nil
}
