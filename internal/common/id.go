package common

import (
	"github.com/google/uuid"
)

// NewObservationID generates a unique time-series row ID with the "obs_" prefix
// Format: obs_<uuid>
func NewObservationID() string {
	return "obs_" + uuid.New().String()
}

// NewAnalysisID generates a unique analysis record ID with the "ana_" prefix
// Format: ana_<uuid>
func NewAnalysisID() string {
	return "ana_" + uuid.New().String()
}
