package scrape

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/common"
	"github.com/ternarybob/mercatus/internal/httpclient"
	"github.com/ternarybob/mercatus/internal/models"
)

// Selectors track the statistics portal's bulletin-list markup. They are
// best-effort and expected to need maintenance when the portal changes.
const (
	bulletinBlockSelector   = "div.bulten-item"
	bulletinDateSelector    = "span.bulten-tarih"
	bulletinLinkSelector    = "a.bulten-baslik"
	bulletinSummarySelector = "p.bulten-ozet"
)

// annualRatePattern extracts a locale-formatted percentage from phrases
// like "yıllık %32,87". First match wins when a summary carries several
// rates (e.g. both monthly and annual) - deliberate, documented policy.
var annualRatePattern = regexp.MustCompile(`(?i)yıllık\s*%\s*(\d+(?:[.,]\d+)?)`)

// BulletinScraper POSTs the portal's bulletin-list form and scans the
// returned entries for the configured statistical series. Its fetcher is
// normally the fallback-composed transport: the portal sometimes rejects
// the native client fingerprint and only answers the external one.
type BulletinScraper struct {
	config  common.BulletinConfig
	fetcher httpclient.Fetcher
	timeout time.Duration
	logger  arbor.ILogger
}

// NewBulletinScraper creates the statistics-portal scraper.
func NewBulletinScraper(config common.BulletinConfig, fetcher httpclient.Fetcher, timeout time.Duration, logger arbor.ILogger) *BulletinScraper {
	if timeout <= 0 {
		timeout = common.DefaultSlowTimeout
	}
	return &BulletinScraper{
		config:  config,
		fetcher: fetcher,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *BulletinScraper) Name() string {
	return "bulletin"
}

// Scrape fetches the bulletin list and extracts the configured series'
// annual rate. A list without a matching bulletin is a normal, loggable
// outcome - only transport and markup failures propagate.
func (s *BulletinScraper) Scrape(ctx context.Context) (*Result, error) {
	bulletins, err := s.FetchBulletins(ctx)
	if err != nil {
		return nil, err
	}

	datum, ok := s.findRate(bulletins)
	if !ok {
		s.logger.Info().Str("target", s.config.TargetTitle).Int("bulletins", len(bulletins)).Msg("No bulletin matched the target series this run")
		return &Result{}, nil
	}

	return &Result{Data: []models.ScrapedDatum{datum}}, nil
}

// FetchBulletins POSTs the list form and parses the entries. The portal
// is slow; the call runs with the long end of the timeout range.
func (s *BulletinScraper) FetchBulletins(ctx context.Context) ([]models.Bulletin, error) {
	form := url.Values{}
	form.Set("UstId", strconv.Itoa(s.config.CategoryID))
	form.Set("DilId", strconv.Itoa(s.config.LanguageID))
	if s.config.Page > 0 {
		form.Set("Page", strconv.Itoa(s.config.Page))
	}
	if s.config.Count > 0 {
		form.Set("Count", strconv.Itoa(s.config.Count))
	}
	for _, year := range s.config.Years {
		form.Add("VeriYillari", strconv.Itoa(year))
	}

	req := &httpclient.Request{
		Method:  http.MethodPost,
		URL:     s.config.URL,
		Form:    form,
		Timeout: s.timeout,
	}
	if origin := originOf(s.config.URL); origin != "" {
		req.Header = map[string]string{
			"Origin":  origin,
			"Referer": origin + "/",
		}
	}

	resp, err := s.fetcher.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	return parseBulletins(resp.Body)
}

// parseBulletins extracts the bulletin blocks from the listing HTML.
func parseBulletins(body []byte) ([]models.Bulletin, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var bulletins []models.Bulletin
	doc.Find(bulletinBlockSelector).Each(func(_ int, block *goquery.Selection) {
		link := block.Find(bulletinLinkSelector).First()
		href, _ := link.Attr("href")

		bulletin := models.Bulletin{
			Date:    strings.TrimSpace(block.Find(bulletinDateSelector).First().Text()),
			Title:   strings.TrimSpace(link.Text()),
			Summary: strings.TrimSpace(block.Find(bulletinSummarySelector).First().Text()),
			Link:    href,
		}
		if bulletin.Title == "" {
			return
		}
		bulletins = append(bulletins, bulletin)
	})

	return bulletins, nil
}

// findRate scans titles for the target phrase and pulls the annual rate
// out of the first matching bulletin's summary.
func (s *BulletinScraper) findRate(bulletins []models.Bulletin) (models.ScrapedDatum, bool) {
	for _, b := range bulletins {
		if !strings.Contains(b.Title, s.config.TargetTitle) {
			continue
		}

		rate, ok := ExtractAnnualRate(b.Summary)
		if !ok {
			s.logger.Debug().Str("title", b.Title).Msg("Matching bulletin carried no extractable annual rate")
			continue
		}

		return models.ScrapedDatum{
			Code:      s.config.IndicatorCode,
			Name:      s.config.IndicatorName,
			Value:     rate,
			Date:      parseBulletinDate(b.Date),
			SourceURL: s.config.URL,
			Kind:      models.KindEconomicIndicator,
			Category:  s.config.Category,
			DateKeyed: true,
		}, true
	}
	return models.ScrapedDatum{}, false
}

// ExtractAnnualRate pulls the annual percentage out of a bulletin summary
// such as "... yıllık %32,87 arttı ...". Returns false when no pattern is
// present; a summary with several rates yields the first one.
func ExtractAnnualRate(summary string) (float64, bool) {
	match := annualRatePattern.FindStringSubmatch(summary)
	if match == nil {
		return 0, false
	}

	rate := common.ParseLocaleFloat(match[1])
	if math.IsNaN(rate) {
		return 0, false
	}
	return rate, true
}

// parseBulletinDate reads the portal's day-granularity date format,
// falling back to today's date when the format drifts.
func parseBulletinDate(s string) time.Time {
	if t, err := time.Parse("02.01.2006", strings.TrimSpace(s)); err == nil {
		return t
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
