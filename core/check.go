package core

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/episense/episense/core/algo"
	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/schema"
)

// ExecuteCheck runs the check command for CI/CD gating. It scores the
// input, evaluates the selected year against the configured ceilings,
// and exits with a non-zero code when the gate fails.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()

	client := newScoringClient(cfg)
	rows, err := runScoredAnalysis(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}

	year := selectYear(rows, cfg)
	result := evaluateGate(algo.FilterYear(rows, year), year, cfg)

	printCheckResult(&result, time.Since(start))

	// Return error exit if check failed
	if !result.Passed {
		fmt.Printf("%d violation(s) found\n", len(result.FailedRows))
		os.Exit(1)
	}
	return nil
}

// evaluateGate checks one scored year against the gate. The gate fails
// when the alert count exceeds MaxAlerts, or when MaxRisk is set and the
// top score reaches it. A country can violate both ceilings and then
// appears once per violated ceiling.
func evaluateGate(rows []schema.RiskRow, year int, cfg *contract.Config) schema.CheckResult {
	result := schema.CheckResult{
		Passed:    true,
		Year:      year,
		Threshold: cfg.AlertThreshold,
		MaxRisk:   cfg.MaxRisk,
		MaxAlerts: cfg.MaxAlerts,
		TotalRows: len(rows),
	}

	alerts := algo.FilterAlerts(rows, cfg.AlertThreshold)
	result.AlertCount = len(alerts)

	for _, row := range rows {
		if row.RiskScore > result.TopScore {
			result.TopScore = row.RiskScore
			result.TopCountry = row.CountryCode
		}
	}

	if result.AlertCount > cfg.MaxAlerts {
		result.Passed = false
		for _, row := range alerts {
			result.FailedRows = append(result.FailedRows, checkFailedRow(row, cfg.AlertThreshold))
		}
	}

	if cfg.MaxRisk > 0 && result.TopScore >= cfg.MaxRisk {
		result.Passed = false
		for _, row := range rows {
			if row.RiskScore >= cfg.MaxRisk {
				result.FailedRows = append(result.FailedRows, checkFailedRow(row, cfg.MaxRisk))
			}
		}
	}

	return result
}

func checkFailedRow(row schema.RiskRow, threshold float64) schema.CheckFailedRow {
	return schema.CheckFailedRow{
		CountryCode: row.CountryCode,
		CountryName: row.CountryNameEN,
		Year:        row.Year,
		RiskScore:   row.RiskScore,
		Threshold:   threshold,
	}
}

// printCheckResult prints the check result in a concise format suitable for CI/CD.
func printCheckResult(result *schema.CheckResult, duration time.Duration) {
	printCheckHeader(result, duration)

	if result.Passed {
		printCheckSuccess(result)
	} else {
		printCheckFailure(result)
	}
}

// printCheckHeader prints the common header information for check results.
func printCheckHeader(result *schema.CheckResult, duration time.Duration) {
	fmt.Println("Risk Gate Results:")

	// Define labels and values for dynamic padding
	maxRisk := "disabled"
	if result.MaxRisk > 0 {
		maxRisk = fmt.Sprintf("%.1f", result.MaxRisk)
	}
	labels := []string{"Year:", "Alert threshold:", "Max alerts:", "Max risk:"}
	values := []any{
		result.Year,
		fmt.Sprintf("%.1f", result.Threshold),
		result.MaxAlerts,
		maxRisk,
	}

	// Find the longest label for consistent padding
	maxLabelLen := 0
	for _, label := range labels {
		if len(label) > maxLabelLen {
			maxLabelLen = len(label)
		}
	}

	// Print each label-value pair with consistent padding
	for i, label := range labels {
		fmt.Printf("  %-*s %v\n", maxLabelLen+1, label, values[i])
	}
	fmt.Println()

	fmt.Printf("Checked %d countries in %v\n\n", result.TotalRows, duration)
}

// printCheckSuccess prints the success case output.
func printCheckSuccess(result *schema.CheckResult) {
	fmt.Printf("✅ All countries passed the risk gate\n\n")
	fmt.Println("Scores observed:")

	if result.TopCountry == "" {
		fmt.Printf("  alerts=%d, max=%.1f\n", result.AlertCount, result.TopScore)
		return
	}
	fmt.Printf("  alerts=%d, max=%.1f (%s)\n", result.AlertCount, result.TopScore, result.TopCountry)
}

// printCheckFailure prints the failure case output.
func printCheckFailure(result *schema.CheckResult) {
	fmt.Printf("❌ Risk gate failed: %d violation(s) across %d countries\n\n", len(result.FailedRows), result.TotalRows)

	// Sort by score descending
	failed := result.FailedRows
	sort.Slice(failed, func(i, j int) bool {
		return failed[i].RiskScore > failed[j].RiskScore
	})

	// Show top 5 violations, with "+X more" if needed
	maxToShow := 5
	for i, f := range failed {
		if i >= maxToShow {
			fmt.Printf("  ... and %d more\n", len(failed)-maxToShow)
			break
		}
		name := schema.DisplayCountry(f.CountryName, f.CountryCode)
		fmt.Printf("  - %s (score: %.1f > threshold: %.1f)\n", name, f.RiskScore, f.Threshold)
	}
	fmt.Println()
}
