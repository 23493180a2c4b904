package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/mercatus/internal/models"
)

// IndicatorStorage - interface for economic indicator persistence.
// Writes are upserts keyed by the record's StorageKey: latest wins.
type IndicatorStorage interface {
	UpsertBatch(ctx context.Context, records []*models.EconomicIndicatorRecord) error
	GetIndicator(ctx context.Context, code string) (*models.EconomicIndicatorRecord, error)
	GetLatest(ctx context.Context, limit int) ([]*models.EconomicIndicatorRecord, error)
	CountIndicators(ctx context.Context) (int, error)
}

// ObservationStorage - interface for market time-series persistence.
// Rows are insert-only; history accumulates across runs.
type ObservationStorage interface {
	InsertBatch(ctx context.Context, records []*models.MarketObservationRecord) error
	GetRecent(ctx context.Context, kind models.DatumKind, limit int) ([]*models.MarketObservationRecord, error)
	CountObservations(ctx context.Context, kind models.DatumKind) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// AnalysisStorage - interface for daily analysis persistence (append-only).
type AnalysisStorage interface {
	SaveAnalysis(ctx context.Context, result *models.AnalysisResult) error
	GetLatest(ctx context.Context) (*models.AnalysisResult, error)
	GetByDate(ctx context.Context, date string) ([]*models.AnalysisResult, error)
}

// StorageManager bundles the sinks behind one lifecycle.
type StorageManager interface {
	IndicatorStorage() IndicatorStorage
	ObservationStorage() ObservationStorage
	AnalysisStorage() AnalysisStorage
	Close() error
}
