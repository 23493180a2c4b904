package models

import "time"

// DatumKind selects the sink a scraped value is routed to.
type DatumKind string

const (
	KindEconomicIndicator DatumKind = "economic_indicator"
	KindMarketIndex       DatumKind = "market_index"
	KindCommodity         DatumKind = "commodity"
	KindTechStock         DatumKind = "tech_stock"
	KindSectorIndex       DatumKind = "sector_index"
)

// MarketKinds returns the kinds persisted as append-only time series,
// i.e. every kind except economic indicators.
func MarketKinds() []DatumKind {
	return []DatumKind{KindMarketIndex, KindCommodity, KindTechStock, KindSectorIndex}
}

// IsMarket reports whether the kind belongs to a market observation sink.
func (k DatumKind) IsMarket() bool {
	switch k {
	case KindMarketIndex, KindCommodity, KindTechStock, KindSectorIndex:
		return true
	}
	return false
}

// ScrapedDatum is one normalized value emitted by a scraper. Change and
// ChangePercent are nil when the source exposes only a single figure.
//
// Value is never NaN by the time a datum reaches the router; scrapers
// drop rows that fail numeric parsing.
type ScrapedDatum struct {
	Code          string    `json:"code"`
	Name          string    `json:"name,omitempty"`
	Value         float64   `json:"value"`
	Change        *float64  `json:"change,omitempty"`
	ChangePercent *float64  `json:"change_percent,omitempty"`
	Date          time.Time `json:"date"`
	SourceURL     string    `json:"source_url"`
	Kind          DatumKind `json:"kind"`

	// Category and DateKeyed carry source configuration through to the
	// indicator sink: Category labels the indicator, DateKeyed selects
	// upsert-by-(code,date) instead of upsert-by-code.
	Category  string `json:"category,omitempty"`
	DateKeyed bool   `json:"date_keyed,omitempty"`
}
