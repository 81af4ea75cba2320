// Package core has core logic for analysis, scoring and ranking.
package core

import (
	"context"
	"time"

	"github.com/episense/episense/core/algo"
	"github.com/episense/episense/core/prep"
	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/internal/outwriter"
	"github.com/episense/episense/schema"
)

// ExecutorFunc defines the function signature for executing different analysis commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteRiskTable runs the full pipeline and prints the risk table.
// It serves as the main entry point for the 'table' command.
func ExecuteRiskTable(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	rows, duration, err := GetRiskTableResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteRiskTableResults(rows, cfg, duration)
}

// GetRiskTableResults computes the ranked risk table. Table runs are
// recorded in the analysis store when one is configured.
func GetRiskTableResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.RiskRow, time.Duration, error) {
	start := time.Now()
	client := newScoringClient(cfg)
	rows, err := runTrackedAnalysis(ctx, cfg, client, mgr)
	if err != nil {
		return nil, 0, err
	}
	ranked := algo.RankRows(rows, cfg.ResultLimit)
	return ranked, time.Since(start), nil
}

// ExecuteCountries runs the per-country ranking and prints it.
// It serves as the main entry point for the 'countries' command.
func ExecuteCountries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetCountriesResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteCountriesResults(result, cfg, duration)
}

// GetCountriesResults ranks countries by risk score for the selected
// year, defaulting to the latest year in the table.
func GetCountriesResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.CountriesResult, time.Duration, error) {
	start := time.Now()
	client := newScoringClient(cfg)
	rows, err := runScoredAnalysis(ctx, cfg, client, mgr)
	if err != nil {
		return schema.CountriesResult{}, 0, err
	}

	year := selectYear(rows, cfg)
	ranked := algo.RankRows(algo.FilterYear(rows, year), cfg.ResultLimit)
	return schema.CountriesResult{Year: year, Rows: ranked}, time.Since(start), nil
}

// ExecuteAlerts runs the alert scan and prints the matching countries.
// It serves as the main entry point for the 'alerts' command.
func ExecuteAlerts(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetAlertsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteAlertsResults(result, cfg, duration)
}

// GetAlertsResults returns the rows at or above the alert threshold for
// the selected year, sorted by score descending. Alerts are never
// truncated to the result limit; the gate needs the full count.
func GetAlertsResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.AlertsResult, time.Duration, error) {
	start := time.Now()
	client := newScoringClient(cfg)
	rows, err := runScoredAnalysis(ctx, cfg, client, mgr)
	if err != nil {
		return schema.AlertsResult{}, 0, err
	}

	year := selectYear(rows, cfg)
	alerts := algo.FilterAlerts(algo.FilterYear(rows, year), cfg.AlertThreshold)
	alerts = algo.RankRows(alerts, len(alerts))
	return schema.AlertsResult{Year: year, Threshold: cfg.AlertThreshold, Rows: alerts}, time.Since(start), nil
}

// ExecuteTimeseries runs the single-country series and prints it.
// It serves as the main entry point for the 'timeseries' command.
func ExecuteTimeseries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetTimeseriesResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteTimeseriesResults(result, cfg, duration)
}

// GetTimeseriesResults scores the full table and extracts the
// year-ordered series for the configured country.
func GetTimeseriesResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.TimeseriesResult, time.Duration, error) {
	start := time.Now()
	client := newScoringClient(cfg)
	rows, err := runScoredAnalysis(ctx, cfg, client, mgr)
	if err != nil {
		return schema.TimeseriesResult{}, 0, err
	}

	result, err := buildTimeseries(rows, cfg.Country)
	if err != nil {
		return schema.TimeseriesResult{}, 0, err
	}
	return result, time.Since(start), nil
}

// ExecuteCentroids cleans a centroid reference file and prints the rows.
// Centroid files are small, so no cache store is involved.
func ExecuteCentroids(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	start := time.Now()
	records, err := prep.LoadCentroids(cfg.InputPath)
	if err != nil {
		return err
	}
	return outwriter.WriteCentroidResults(records, cfg, time.Since(start))
}

// ExecuteMetrics displays the formal definitions of features, scorers
// and labels. This is a static display that does not read input data.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.WriteMetricsDefinitions(cfg)
}
