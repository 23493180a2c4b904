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

// AnalysisStorage implements the AnalysisStorage interface for Badger
type AnalysisStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAnalysisStorage creates a new AnalysisStorage instance
func NewAnalysisStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AnalysisStorage {
	return &AnalysisStorage{
		db:     db,
		logger: logger,
	}
}

// SaveAnalysis appends one analysis record. Records are never mutated
// after creation; a failed write here is the run's terminal failure.
func (s *AnalysisStorage) SaveAnalysis(ctx context.Context, result *models.AnalysisResult) error {
	if result.ID == "" {
		result.ID = common.NewAnalysisID()
	}
	if result.Date == "" {
		result.Date = time.Now().Format("2006-01-02")
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}

	if err := s.db.Store().Insert(result.ID, result); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

func (s *AnalysisStorage) GetLatest(ctx context.Context) (*models.AnalysisResult, error) {
	var recs []models.AnalysisResult
	err := s.db.Store().Find(&recs, badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse().Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to find latest analysis: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no analysis stored yet")
	}
	return &recs[0], nil
}

func (s *AnalysisStorage) GetByDate(ctx context.Context, date string) ([]*models.AnalysisResult, error) {
	var recs []models.AnalysisResult
	err := s.db.Store().Find(&recs, badgerhold.Where("Date").Eq(date).SortBy("CreatedAt").Reverse())
	if err != nil {
		return nil, fmt.Errorf("failed to find analyses for %s: %w", date, err)
	}

	result := make([]*models.AnalysisResult, len(recs))
	for i := range recs {
		result[i] = &recs[i]
	}
	return result, nil
}
