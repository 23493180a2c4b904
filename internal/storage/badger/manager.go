package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/common"
	"github.com/ternarybob/mercatus/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db          *BadgerDB
	indicator   interfaces.IndicatorStorage
	observation interfaces.ObservationStorage
	analysis    interfaces.AnalysisStorage
	logger      arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:          db,
		indicator:   NewIndicatorStorage(db, logger),
		observation: NewObservationStorage(db, logger),
		analysis:    NewAnalysisStorage(db, logger),
		logger:      logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// IndicatorStorage returns the economic indicator sink
func (m *Manager) IndicatorStorage() interfaces.IndicatorStorage {
	return m.indicator
}

// ObservationStorage returns the market time-series sink
func (m *Manager) ObservationStorage() interfaces.ObservationStorage {
	return m.observation
}

// AnalysisStorage returns the daily analysis sink
func (m *Manager) AnalysisStorage() interfaces.AnalysisStorage {
	return m.analysis
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
