// Package router fans a scraped batch out to the persistence sinks.
// Economic indicators are upserted (latest wins); market observations
// are inserted so history accumulates run over run.
package router

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/common"
	"github.com/ternarybob/mercatus/internal/interfaces"
	"github.com/ternarybob/mercatus/internal/models"
)

// Summary reports what a routing pass wrote and what it could not.
type Summary struct {
	IndicatorsUpserted   int
	ObservationsInserted int
	Skipped              int
	Errors               []error
}

// Failed reports whether any sink write failed.
func (s *Summary) Failed() bool {
	return len(s.Errors) > 0
}

// Router partitions scraped data by kind and hands each partition to its
// sink. Sink failures are independent: an indicator write failure never
// blocks the observation write, and vice versa.
type Router struct {
	indicators   interfaces.IndicatorStorage
	observations interfaces.ObservationStorage
	logger       arbor.ILogger
}

func NewRouter(indicators interfaces.IndicatorStorage, observations interfaces.ObservationStorage, logger arbor.ILogger) *Router {
	return &Router{
		indicators:   indicators,
		observations: observations,
		logger:       logger,
	}
}

// Route writes one scraped batch. Data with an unrecognised kind is
// counted as skipped and logged; empty partitions produce no sink call.
func (r *Router) Route(ctx context.Context, data []models.ScrapedDatum) *Summary {
	summary := &Summary{}

	var indicatorRecords []*models.EconomicIndicatorRecord
	var observationRecords []*models.MarketObservationRecord

	for _, d := range data {
		switch {
		case d.Kind == models.KindEconomicIndicator:
			indicatorRecords = append(indicatorRecords, models.IndicatorFromDatum(d))
		case d.Kind.IsMarket():
			observationRecords = append(observationRecords, models.ObservationFromDatum(d, common.NewObservationID()))
		default:
			r.logger.Warn().Str("code", d.Code).Str("kind", string(d.Kind)).Msg("Dropping datum with unrecognised kind")
			summary.Skipped++
		}
	}

	if len(indicatorRecords) > 0 {
		if err := r.indicators.UpsertBatch(ctx, indicatorRecords); err != nil {
			r.logger.Warn().Err(err).Int("records", len(indicatorRecords)).Msg("Indicator upsert failed")
			summary.Errors = append(summary.Errors, err)
		} else {
			summary.IndicatorsUpserted = len(indicatorRecords)
		}
	}

	if len(observationRecords) > 0 {
		if err := r.observations.InsertBatch(ctx, observationRecords); err != nil {
			r.logger.Warn().Err(err).Int("records", len(observationRecords)).Msg("Observation insert failed")
			summary.Errors = append(summary.Errors, err)
		} else {
			summary.ObservationsInserted = len(observationRecords)
		}
	}

	r.logger.Info().
		Int("indicators", summary.IndicatorsUpserted).
		Int("observations", summary.ObservationsInserted).
		Int("skipped", summary.Skipped).
		Int("errors", len(summary.Errors)).
		Msg("Routing pass complete")

	return summary
}
