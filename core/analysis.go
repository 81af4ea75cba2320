package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/episense/episense/core/algo"
	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/internal/mlclient"
	"github.com/episense/episense/internal/outwriter"
	"github.com/episense/episense/schema"
)

// runScoredAnalysis performs the common Load, Score, and Filter steps
// behind every analysis command.
func runScoredAnalysis(ctx context.Context, cfg *contract.Config, client contract.ScoringClient, mgr contract.CacheManager) ([]schema.RiskRow, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogAnalysisHeader(cfg)
	}

	// --- 1. Feature table (with caching) ---
	features, err := cachedFeatureTable(cfg, mgr)
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, errors.New("no feature rows found")
	}

	// --- 2. Scoring ---
	scores, err := scoreFeatures(ctx, cfg, client, features)
	if err != nil {
		return nil, err
	}

	// --- 3. Score assembly and year-range filtering ---
	rows := algo.ApplyScores(features, scores)
	return filterYearRange(rows, cfg), nil
}

// runTrackedAnalysis runs the scored analysis and records the run in the
// analysis store when one is configured. Only full table runs record;
// the narrower views read the same pipeline without tracking.
func runTrackedAnalysis(ctx context.Context, cfg *contract.Config, client contract.ScoringClient, mgr contract.CacheManager) ([]schema.RiskRow, error) {
	analysisStore := mgr.GetAnalysisStore()
	if analysisStore == nil {
		return runScoredAnalysis(ctx, cfg, client, mgr)
	}

	// --- Begin Analysis Tracking ---
	startTime := time.Now()
	configParams := map[string]any{
		"input_path":   cfg.InputPath,
		"scorer":       string(cfg.Scorer),
		"start_year":   cfg.StartYear,
		"end_year":     cfg.EndYear,
		"result_limit": cfg.ResultLimit,
	}
	analysisID, err := analysisStore.BeginAnalysis(startTime, configParams)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return runScoredAnalysis(ctx, cfg, client, mgr)
	}

	rows, err := runScoredAnalysis(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}

	// --- End Analysis Tracking ---
	// Rows are recorded in table order, before any display ranking.
	if err := analysisStore.RecordRiskScores(analysisID, time.Now(), rows); err != nil {
		contract.LogWarn("Failed to record risk scores", err)
	}
	if err := analysisStore.EndAnalysis(analysisID, time.Now(), len(rows)); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}

	return rows, nil
}

// scoreFeatures produces one risk score per feature row. Local detectors
// fit the full batch and normalize relative to it; the remote path
// reports the service's scores as-is, one per row in submission order.
func scoreFeatures(ctx context.Context, cfg *contract.Config, client contract.ScoringClient, features []schema.FeatureRow) ([]float64, error) {
	if cfg.Scorer == schema.RemoteScorer {
		return client.Score(ctx, features)
	}

	matrix := algo.FeatureMatrix(features)
	detector := algo.NewDetector(cfg.Scorer, cfg.ForestTrees, cfg.ForestSubsample, cfg.ScorerSeed)
	detector.Fit(matrix)
	return algo.NormalizeScores(detector.Scores(matrix)), nil
}

// newScoringClient builds the HTTP client for remote runs. Local scorer
// kinds never touch it.
func newScoringClient(cfg *contract.Config) contract.ScoringClient {
	if cfg.Scorer != schema.RemoteScorer {
		return nil
	}
	return mlclient.NewHTTPScoringClient(cfg.RemoteURL, cfg.RemoteTimeout)
}

// filterYearRange keeps the rows inside the configured inclusive year
// range. Zero bounds leave that side open.
func filterYearRange(rows []schema.RiskRow, cfg *contract.Config) []schema.RiskRow {
	if cfg.StartYear == 0 && cfg.EndYear == 0 {
		return rows
	}

	filtered := make([]schema.RiskRow, 0, len(rows))
	for _, row := range rows {
		if cfg.YearInRange(row.Year) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// selectYear returns the configured year, falling back to the latest
// year present in the table.
func selectYear(rows []schema.RiskRow, cfg *contract.Config) int {
	if cfg.Year != 0 {
		return cfg.Year
	}
	return schema.LatestYear(rows)
}

// buildTimeseries assembles one country's year-ordered series from the
// scored table.
func buildTimeseries(rows []schema.RiskRow, country string) (schema.TimeseriesResult, error) {
	var series []schema.RiskRow
	for _, row := range rows {
		if row.CountryCode == country {
			series = append(series, row)
		}
	}
	if len(series) == 0 {
		return schema.TimeseriesResult{}, fmt.Errorf("no rows found for country %s", country)
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Year < series[j].Year
	})

	points := make([]schema.TimeseriesPoint, len(series))
	for i, row := range series {
		points[i] = schema.TimeseriesPoint{
			Year:         row.Year,
			DengueCases:  row.DengueCases,
			Population:   row.Population,
			CasesPer100K: row.CasesPer100K,
			MA3Cases:     row.MA3Cases,
			RiskScore:    row.RiskScore,
			Label:        schema.GetPlainLabel(row.RiskScore),
		}
	}

	return schema.TimeseriesResult{
		CountryCode: country,
		CountryName: series[0].CountryNameEN,
		Points:      points,
	}, nil
}
