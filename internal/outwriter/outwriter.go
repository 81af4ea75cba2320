// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRiskTable prints the full risk table using the configured output format.
func (ow *OutWriter) WriteRiskTable(rows []schema.RiskRow, cfg *contract.Config, duration time.Duration) error {
	return WriteRiskTableResults(rows, cfg, duration)
}

// WriteCountries prints the per-country ranking using the configured output format.
func (ow *OutWriter) WriteCountries(result schema.CountriesResult, cfg *contract.Config, duration time.Duration) error {
	return WriteCountriesResults(result, cfg, duration)
}

// WriteAlerts prints the alert rows using the configured output format.
func (ow *OutWriter) WriteAlerts(result schema.AlertsResult, cfg *contract.Config, duration time.Duration) error {
	return WriteAlertsResults(result, cfg, duration)
}

// WriteTimeseries prints one country's year-ordered series using the configured output format.
func (ow *OutWriter) WriteTimeseries(result schema.TimeseriesResult, cfg *contract.Config, duration time.Duration) error {
	return WriteTimeseriesResults(result, cfg, duration)
}

// WriteComparison prints snapshot comparison results using the configured output format.
func (ow *OutWriter) WriteComparison(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	return WriteComparisonResults(result, cfg, duration)
}

// WriteCentroids prints cleaned centroid reference rows using the configured output format.
func (ow *OutWriter) WriteCentroids(records []schema.CentroidRecord, cfg *contract.Config, duration time.Duration) error {
	return WriteCentroidResults(records, cfg, duration)
}

// WriteMetrics prints feature and scorer definitions using the configured output format.
func (ow *OutWriter) WriteMetrics(cfg *contract.Config) error {
	return WriteMetricsDefinitions(cfg)
}
