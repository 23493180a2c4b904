package models

import (
	"fmt"
	"time"
)

// EconomicIndicatorRecord is the upserted form of an economic indicator
// value (inflation, policy rate, unemployment and the like). Later writes
// overwrite earlier ones for the same storage key; this is an explicit
// latest-wins policy, not an append-only history.
type EconomicIndicatorRecord struct {
	Code      string    `json:"code" badgerhold:"index"`
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	Date      time.Time `json:"date"`
	Category  string    `json:"category,omitempty"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`

	// DateKeyed widens the conflict key to (code, date) for sources that
	// publish one value per observation day rather than one live value.
	DateKeyed bool `json:"date_keyed,omitempty"`
}

// StorageKey returns the upsert conflict key for this record.
func (r *EconomicIndicatorRecord) StorageKey() string {
	if r.DateKeyed {
		return fmt.Sprintf("%s|%s", r.Code, r.Date.Format("2006-01-02"))
	}
	return r.Code
}

// IndicatorFromDatum maps a routed datum onto its indicator record.
func IndicatorFromDatum(d ScrapedDatum) *EconomicIndicatorRecord {
	return &EconomicIndicatorRecord{
		Code:      d.Code,
		Name:      d.Name,
		Value:     d.Value,
		Date:      d.Date,
		Category:  d.Category,
		Source:    d.SourceURL,
		UpdatedAt: time.Now(),
		DateKeyed: d.DateKeyed,
	}
}
