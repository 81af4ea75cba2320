package core

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/internal/outwriter"
	"github.com/episense/episense/schema"
)

// ExecuteComparison runs two snapshot analyses (base and target) and
// prints the per-country deltas.
func ExecuteComparison(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetComparisonResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteComparisonResults(result, cfg, duration)
}

// GetComparisonResults scores the base and target snapshots
// independently and joins them by country. Each snapshot normalizes
// against its own batch, the same contract as a standalone run.
func GetComparisonResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ComparisonResult, time.Duration, error) {
	start := time.Now()

	// Print single header for the comparison
	if !shouldSuppressHeader(ctx) {
		outwriter.LogCompareHeader(cfg)
	}
	suppressCtx := WithSuppressHeader(ctx)

	baseRows, err := runSnapshotAnalysis(suppressCtx, cfg, cfg.BasePath, mgr)
	if err != nil {
		return schema.ComparisonResult{}, 0, fmt.Errorf("base snapshot analysis failed: %w", err)
	}
	targetRows, err := runSnapshotAnalysis(suppressCtx, cfg, cfg.TargetPath, mgr)
	if err != nil {
		return schema.ComparisonResult{}, 0, fmt.Errorf("target snapshot analysis failed: %w", err)
	}

	result := compareSnapshots(baseRows, targetRows, cfg.ResultLimit)
	return result, time.Since(start), nil
}

// runSnapshotAnalysis scores one snapshot file in isolation.
func runSnapshotAnalysis(ctx context.Context, cfg *contract.Config, path string, mgr contract.CacheManager) ([]schema.RiskRow, error) {
	cfgSnap := cfg.Clone()
	cfgSnap.InputPath = path
	client := newScoringClient(cfgSnap)
	return runScoredAnalysis(ctx, cfgSnap, client, mgr)
}

// compareSnapshots joins the two scored tables by country, using each
// country's latest year as its state in that snapshot, and computes
// per-country deltas plus summary counts.
func compareSnapshots(baseRows, targetRows []schema.RiskRow, limit int) schema.ComparisonResult {
	baseMap := latestByCountry(baseRows)
	targetMap := latestByCountry(targetRows)

	allCountries := make(map[string]struct{}, len(baseMap)+len(targetMap))
	for code := range baseMap {
		allCountries[code] = struct{}{}
	}
	for code := range targetMap {
		allCountries[code] = struct{}{}
	}

	details := make([]schema.ComparisonDetail, 0, len(allCountries))
	var summary schema.ComparisonSummary

	for code := range allCountries {
		baseRow, baseExists := baseMap[code]
		targetRow, targetExists := targetMap[code]

		detail := schema.ComparisonDetail{
			CountryCode: code,
			Status:      determineStatus(baseExists, targetExists),
		}
		if baseExists {
			detail.CountryName = baseRow.CountryNameEN
			detail.BeforeYear = baseRow.Year
			detail.BeforeScore = baseRow.RiskScore
		}
		if targetExists {
			detail.CountryName = targetRow.CountryNameEN
			detail.AfterYear = targetRow.Year
			detail.AfterScore = targetRow.RiskScore
		}
		detail.Delta = detail.AfterScore - detail.BeforeScore
		if baseExists && targetExists {
			detail.DeltaCases = targetRow.DengueCases - baseRow.DengueCases
		}

		// Accumulate summary over every country, filtered or not
		summary.NetScoreDelta += detail.Delta
		summary.NetCasesDelta += detail.DeltaCases
		switch detail.Status {
		case schema.NewStatus:
			summary.TotalNewCountries++
		case schema.ActiveStatus:
			summary.TotalActiveCountries++
		case schema.InactiveStatus:
			summary.TotalInactiveCountries++
		}

		// Include countries with significant score movement or a
		// membership change between snapshots
		if math.Abs(detail.Delta) > 0.01 || detail.Status != schema.ActiveStatus {
			details = append(details, detail)
		}
	}

	sortComparisonDetails(details)

	if limit > 0 && len(details) > limit {
		details = details[:limit]
	}

	return schema.ComparisonResult{Details: details, Summary: summary}
}

// latestByCountry reduces a scored table to each country's latest row.
func latestByCountry(rows []schema.RiskRow) map[string]schema.RiskRow {
	latest := make(map[string]schema.RiskRow, len(rows))
	for _, row := range rows {
		if prev, ok := latest[row.CountryCode]; !ok || row.Year > prev.Year {
			latest[row.CountryCode] = row
		}
	}
	return latest
}

// determineStatus returns the status based on existence in base and target.
func determineStatus(baseExists, targetExists bool) schema.Status {
	switch {
	case !baseExists && targetExists:
		return schema.NewStatus
	case baseExists && targetExists:
		return schema.ActiveStatus
	case baseExists: // Target does not exist in this case
		return schema.InactiveStatus
	default:
		return schema.UnknownStatus
	}
}

// sortComparisonDetails sorts by absolute delta, then delta sign, then country code.
func sortComparisonDetails(details []schema.ComparisonDetail) {
	sort.Slice(details, func(i, j int) bool {
		a := details[i]
		b := details[j]

		// Primary: Absolute delta (descending)
		absA := math.Abs(a.Delta)
		absB := math.Abs(b.Delta)
		if absA != absB {
			return absA > absB
		}

		// Secondary: Delta sign (positive before negative)
		if a.Delta != b.Delta {
			return a.Delta > b.Delta
		}

		// Tertiary: Country code (ascending)
		return a.CountryCode < b.CountryCode
	})
}
