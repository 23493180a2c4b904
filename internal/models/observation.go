package models

import "time"

// MarketObservationRecord is one time-series row for an index, commodity,
// stock or sector value. Rows are always inserted, never upserted, so the
// history of a symbol accumulates across runs.
type MarketObservationRecord struct {
	ID            string    `json:"id" badgerhold:"key"`
	Symbol        string    `json:"symbol" badgerhold:"index"`
	Name          string    `json:"name,omitempty"`
	Kind          DatumKind `json:"kind" badgerhold:"index"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change,omitempty"`
	ChangePercent float64   `json:"change_percent,omitempty"`
	ObservedAt    time.Time `json:"observed_at"`
	Source        string    `json:"source"`
}

// ObservationFromDatum maps a routed datum onto a time-series row. The
// caller assigns the row ID.
func ObservationFromDatum(d ScrapedDatum, id string) *MarketObservationRecord {
	observedAt := d.Date
	if observedAt.IsZero() {
		observedAt = time.Now()
	}
	rec := &MarketObservationRecord{
		ID:         id,
		Symbol:     d.Code,
		Name:       d.Name,
		Kind:       d.Kind,
		Price:      d.Value,
		ObservedAt: observedAt,
		Source:     d.SourceURL,
	}
	if d.Change != nil {
		rec.Change = *d.Change
	}
	if d.ChangePercent != nil {
		rec.ChangePercent = *d.ChangePercent
	}
	return rec
}
