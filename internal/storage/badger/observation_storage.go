package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/common"
	"github.com/ternarybob/mercatus/internal/interfaces"
	"github.com/ternarybob/mercatus/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ObservationStorage implements the ObservationStorage interface for Badger
type ObservationStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewObservationStorage creates a new ObservationStorage instance
func NewObservationStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ObservationStorage {
	return &ObservationStorage{
		db:     db,
		logger: logger,
	}
}

// InsertBatch appends time-series rows. Rows without an ID get one
// assigned; existing histories are never overwritten.
func (s *ObservationStorage) InsertBatch(ctx context.Context, records []*models.MarketObservationRecord) error {
	for _, rec := range records {
		if rec.Symbol == "" {
			return fmt.Errorf("observation symbol is required")
		}
		if rec.ID == "" {
			rec.ID = common.NewObservationID()
		}
		if rec.ObservedAt.IsZero() {
			rec.ObservedAt = time.Now()
		}
		if err := s.db.Store().Insert(rec.ID, rec); err != nil {
			return fmt.Errorf("failed to insert observation %s: %w", rec.Symbol, err)
		}
	}
	return nil
}

// GetRecent returns the newest rows of one kind, most recent first.
func (s *ObservationStorage) GetRecent(ctx context.Context, kind models.DatumKind, limit int) ([]*models.MarketObservationRecord, error) {
	var recs []models.MarketObservationRecord
	query := badgerhold.Where("Kind").Eq(kind).SortBy("ObservedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.db.Store().Find(&recs, query); err != nil {
		return nil, fmt.Errorf("failed to find observations: %w", err)
	}

	result := make([]*models.MarketObservationRecord, len(recs))
	for i := range recs {
		result[i] = &recs[i]
	}
	return result, nil
}

func (s *ObservationStorage) CountObservations(ctx context.Context, kind models.DatumKind) (int, error) {
	count, err := s.db.Store().Count(&models.MarketObservationRecord{}, badgerhold.Where("Kind").Eq(kind))
	if err != nil {
		return 0, fmt.Errorf("failed to count observations: %w", err)
	}
	return int(count), nil
}

// DeleteOlderThan trims history rows observed before cutoff and returns
// how many were removed.
func (s *ObservationStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query := badgerhold.Where("ObservedAt").Lt(cutoff)

	count, err := s.db.Store().Count(&models.MarketObservationRecord{}, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count stale observations: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.db.Store().DeleteMatching(&models.MarketObservationRecord{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete stale observations: %w", err)
	}
	return int(count), nil
}
