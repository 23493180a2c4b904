package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/interfaces"
	"github.com/ternarybob/mercatus/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// IndicatorStorage implements the IndicatorStorage interface for Badger
type IndicatorStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewIndicatorStorage creates a new IndicatorStorage instance
func NewIndicatorStorage(db *BadgerDB, logger arbor.ILogger) interfaces.IndicatorStorage {
	return &IndicatorStorage{
		db:     db,
		logger: logger,
	}
}

// UpsertBatch writes each record keyed by its StorageKey. Re-running the
// batch with the same keys leaves one row per key carrying the latest
// values (latest wins), never duplicates.
func (s *IndicatorStorage) UpsertBatch(ctx context.Context, records []*models.EconomicIndicatorRecord) error {
	for _, rec := range records {
		if rec.Code == "" {
			return fmt.Errorf("indicator code is required")
		}
		if rec.UpdatedAt.IsZero() {
			rec.UpdatedAt = time.Now()
		}
		if err := s.db.Store().Upsert(rec.StorageKey(), rec); err != nil {
			return fmt.Errorf("failed to upsert indicator %s: %w", rec.Code, err)
		}
	}
	return nil
}

func (s *IndicatorStorage) GetIndicator(ctx context.Context, code string) (*models.EconomicIndicatorRecord, error) {
	var recs []models.EconomicIndicatorRecord
	err := s.db.Store().Find(&recs, badgerhold.Where("Code").Eq(code).SortBy("UpdatedAt").Reverse().Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to find indicator: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("indicator not found: %s", code)
	}
	return &recs[0], nil
}

func (s *IndicatorStorage) GetLatest(ctx context.Context, limit int) ([]*models.EconomicIndicatorRecord, error) {
	var recs []models.EconomicIndicatorRecord
	query := badgerhold.Where("Code").Ne("").SortBy("UpdatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.db.Store().Find(&recs, query); err != nil {
		return nil, fmt.Errorf("failed to list indicators: %w", err)
	}

	result := make([]*models.EconomicIndicatorRecord, len(recs))
	for i := range recs {
		result[i] = &recs[i]
	}
	return result, nil
}

func (s *IndicatorStorage) CountIndicators(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.EconomicIndicatorRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count indicators: %w", err)
	}
	return int(count), nil
}
