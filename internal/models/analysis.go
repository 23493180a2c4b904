package models

import "time"

// Stub summaries used when no real analysis can be produced. The
// unavailable variant signals a missing credential; the error variant
// covers every transport/parse failure against the completion service.
const (
	UnavailableSummary  = "AI analysis unavailable: no API credential configured"
	ServiceErrorSummary = "AI analysis could not be generated for this run"
)

// Outlook is the multi-horizon market view inside an analysis result.
type Outlook struct {
	ShortTerm  string `json:"short_term"`
	MediumTerm string `json:"medium_term"`
	LongTerm   string `json:"long_term"`
}

// CalendarEntry is one upcoming item on the economic calendar.
type CalendarEntry struct {
	Date       string `json:"date"`
	Event      string `json:"event"`
	Importance string `json:"importance,omitempty"`
}

// AnalysisResult is the fixed-shape document produced once per daily run.
// The JSON tags double as the schema the completion service is instructed
// to return; stub constructors fill every field so downstream readers
// never need null checks beyond what a real result would also require.
//
// Records are append-only: created once, persisted, never mutated.
type AnalysisResult struct {
	ID               string          `json:"id,omitempty" badgerhold:"key"`
	Date             string          `json:"date,omitempty" badgerhold:"index"`
	MarketSummary    string          `json:"market_summary"`
	TechnicalView    string          `json:"technical_analysis"`
	SectorHighlights string          `json:"sector_analysis"`
	Forecast         string          `json:"forecast"`
	Outlook          Outlook         `json:"outlook"`
	EconomicCalendar []CalendarEntry `json:"economic_calendar"`
	SentimentScore   float64         `json:"sentiment_score"`
	Volatility       string          `json:"volatility"`
	TopGainers       []string        `json:"top_gainers"`
	TopLosers        []string        `json:"top_losers"`

	// News carries the raw headline batch the analysis was built from,
	// attached for auditability. Never populated by the model itself.
	News      []NewsItem `json:"news,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
}

// newStubResult returns a schema-complete result with defaulted fields.
func newStubResult(summary string) *AnalysisResult {
	return &AnalysisResult{
		MarketSummary:    summary,
		TechnicalView:    "",
		SectorHighlights: "",
		Forecast:         "",
		Outlook:          Outlook{},
		EconomicCalendar: []CalendarEntry{},
		SentimentScore:   0,
		Volatility:       "unknown",
		TopGainers:       []string{},
		TopLosers:        []string{},
		CreatedAt:        time.Now(),
	}
}

// NewUnavailableResult is the stub returned when the completion call is
// skipped because no API credential is configured. Distinguishable from a
// real analysis (and from a service error) by its MarketSummary.
func NewUnavailableResult() *AnalysisResult {
	return newStubResult(UnavailableSummary)
}

// NewServiceErrorResult is the stub returned when the completion service
// failed or returned something that could not be parsed.
func NewServiceErrorResult() *AnalysisResult {
	return newStubResult(ServiceErrorSummary)
}

// IsStub reports whether the result is one of the placeholder variants.
func (r *AnalysisResult) IsStub() bool {
	return r.MarketSummary == UnavailableSummary || r.MarketSummary == ServiceErrorSummary
}
