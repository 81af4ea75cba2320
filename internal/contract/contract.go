// Package contract provides interfaces and shared utilities for the EpiSense CLI's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/episense/episense/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetFeatureStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// ScoringClient defines the interface for out-of-process risk scoring.
// This allows the HTTP client to be mocked for testing.
type ScoringClient interface {
	// Score returns one risk score per row, in submission order
	Score(ctx context.Context, rows []schema.FeatureRow) ([]float64, error)
}

// CacheStore defines the interface for keyed feature-table caching.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking pipeline runs and storing scored rows.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalRows int) error

	// RecordRiskScores stores the scored rows produced by a run
	RecordRiskScores(analysisID int64, analysisTime time.Time, rows []schema.RiskRow) error

	// GetAllAnalysisRuns retrieves every recorded run, oldest first
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllRiskScores retrieves every recorded scored row, oldest run first
	GetAllRiskScores() ([]schema.RiskScoreRecord, error)

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// Close closes the underlying connection
	Close() error
}
