// Package parquet provides data structures and functions for exporting
// analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/episense/episense/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single scoring run with metadata.
// This struct maps to the episense_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// StartTime is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalRowsScored is the number of country-year rows scored in this run
	TotalRowsScored int32 `parquet:"total_rows_scored,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RiskScore represents a scored country-year row from an analysis.
// This struct maps to the episense_risk_scores database table.
type RiskScore struct {
	// AnalysisID references the parent analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// CountryCode is the ISO3 country code for the row
	CountryCode string `parquet:"country_code,snappy"`

	// CountryNameEN is the English country name
	CountryNameEN string `parquet:"country_name_en,snappy"`

	// Year is the calendar year the row covers
	Year int32 `parquet:"year,snappy"`

	// AnalysisTime is when this row was scored (stored as TIMESTAMP with nanosecond precision)
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`

	// DengueCases is the annual reported case count
	DengueCases float64 `parquet:"dengue_cases,snappy"`

	// Population is the annual population estimate (nullable)
	Population *float64 `parquet:"population,optional,snappy"`

	// CasesPer100K is the incidence rate per 100k inhabitants (nullable)
	CasesPer100K *float64 `parquet:"cases_per_100k,optional,snappy"`

	// LagCases1 is the prior year's case count (nullable)
	LagCases1 *float64 `parquet:"lag_cases_1,optional,snappy"`

	// LagCases2 is the case count from two years back (nullable)
	LagCases2 *float64 `parquet:"lag_cases_2,optional,snappy"`

	// MA3Cases is the trailing three-year moving average of case counts
	MA3Cases float64 `parquet:"ma3_cases,snappy"`

	// RiskScore is the normalized anomaly score (0-100)
	RiskScore float64 `parquet:"risk_score,snappy"`

	// RiskLabel categorizes the score (Low/Moderate/High/Critical)
	RiskLabel string `parquet:"risk_label,snappy"`
}

// RiskTableRow mirrors the canonical risk table for direct Parquet export,
// without the run metadata carried by RiskScore.
type RiskTableRow struct {
	CountryCode   string   `parquet:"country_code,snappy"`
	CountryNameEN string   `parquet:"country_name_en,snappy"`
	Year          int32    `parquet:"year,snappy"`
	DengueCases   float64  `parquet:"dengue_cases,snappy"`
	Population    *float64 `parquet:"population,optional,snappy"`
	CasesPer100K  *float64 `parquet:"cases_per_100k,optional,snappy"`
	LagCases1     *float64 `parquet:"lag_cases_1,optional,snappy"`
	LagCases2     *float64 `parquet:"lag_cases_2,optional,snappy"`
	MA3Cases      float64  `parquet:"ma3_cases,snappy"`
	RiskScore     float64  `parquet:"risk_score,snappy"`
	RiskLabel     string   `parquet:"risk_label,snappy"`
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AnalysisRun struct tags
	writer := parquet.NewGenericWriter[AnalysisRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteRiskScoresParquet writes a slice of RiskScore structs to a Parquet file.
func WriteRiskScoresParquet(data []RiskScore, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the RiskScore struct tags
	writer := parquet.NewGenericWriter[RiskScore](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteRiskTableParquet writes the canonical risk table to a Parquet file.
func WriteRiskTableParquet(data []RiskTableRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[RiskTableRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// MockFetchAnalysisRuns generates sample AnalysisRun data for demonstration.
func MockFetchAnalysisRuns() []AnalysisRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := now.Add(-1*time.Hour - 30*time.Minute)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())
	configParams1 := `{"scorer":"forest","limit":100,"year":2023}`

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := now.Add(-23 * time.Hour)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())
	configParams2 := `{"scorer":"zscore","limit":50,"year":2022}`

	startTime3 := now.Add(-10 * time.Minute)
	// Note: endTime3, durationMs3, configParams3 are nil to demonstrate nullable fields

	return []AnalysisRun{
		{
			AnalysisID:      1,
			StartTime:       startTime1,
			EndTime:         &endTime1,
			RunDurationMs:   &durationMs1,
			TotalRowsScored: 150,
			ConfigParams:    &configParams1,
		},
		{
			AnalysisID:      2,
			StartTime:       startTime2,
			EndTime:         &endTime2,
			RunDurationMs:   &durationMs2,
			TotalRowsScored: 75,
			ConfigParams:    &configParams2,
		},
		{
			AnalysisID:      3,
			StartTime:       startTime3,
			EndTime:         nil, // Still running - nullable field
			RunDurationMs:   nil, // Not yet calculated - nullable field
			TotalRowsScored: 0,
			ConfigParams:    nil, // No config stored - nullable field
		},
	}
}

// MockFetchRiskScores generates sample RiskScore data for demonstration.
func MockFetchRiskScores() []RiskScore {
	now := time.Now()
	popBRA := 214_000_000.0
	popPER := 33_700_000.0
	rateBRA := 701.4
	ratePER := 803.6
	lagBRA := 512.3
	lagPER := 190.8

	return []RiskScore{
		{
			AnalysisID:    1,
			CountryCode:   "BRA",
			CountryNameEN: "Brazil",
			Year:          2023,
			AnalysisTime:  now.Add(-1 * time.Hour),
			DengueCases:   1_500_000,
			Population:    &popBRA,
			CasesPer100K:  &rateBRA,
			LagCases1:     &lagBRA,
			LagCases2:     nil, // Not enough history - nullable field
			MA3Cases:      606.9,
			RiskScore:     92.4,
			RiskLabel:     "Critical",
		},
		{
			AnalysisID:    1,
			CountryCode:   "PER",
			CountryNameEN: "Peru",
			Year:          2023,
			AnalysisTime:  now.Add(-1 * time.Hour),
			DengueCases:   271_000,
			Population:    &popPER,
			CasesPer100K:  &ratePER,
			LagCases1:     &lagPER,
			LagCases2:     nil,
			MA3Cases:      497.2,
			RiskScore:     88.1,
			RiskLabel:     "Critical",
		},
		{
			AnalysisID:    2,
			CountryCode:   "URY",
			CountryNameEN: "Uruguay",
			Year:          2022,
			AnalysisTime:  now.Add(-23 * time.Hour),
			DengueCases:   12,
			Population:    nil, // No population reported - nullable field
			CasesPer100K:  nil,
			LagCases1:     nil,
			LagCases2:     nil,
			MA3Cases:      9.3,
			RiskScore:     4.7,
			RiskLabel:     "Low",
		},
	}
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:      record.AnalysisID,
			StartTime:       record.StartTime,
			EndTime:         record.EndTime,
			RunDurationMs:   record.RunDurationMs,
			TotalRowsScored: record.TotalRowsScored,
			ConfigParams:    record.ConfigParams,
		}
	}
	return result
}

// ConvertRiskRows converts schema.RiskRow to RiskTableRow for Parquet export.
func ConvertRiskRows(rows []schema.RiskRow) []RiskTableRow {
	result := make([]RiskTableRow, len(rows))
	for i, row := range rows {
		result[i] = RiskTableRow{
			CountryCode:   row.CountryCode,
			CountryNameEN: row.CountryNameEN,
			Year:          int32(row.Year),
			DengueCases:   row.DengueCases,
			Population:    row.Population,
			CasesPer100K:  row.CasesPer100K,
			LagCases1:     row.LagCases1,
			LagCases2:     row.LagCases2,
			MA3Cases:      row.MA3Cases,
			RiskScore:     row.RiskScore,
			RiskLabel:     schema.GetPlainLabel(row.RiskScore),
		}
	}
	return result
}

// ConvertRiskScoreRecords converts schema.RiskScoreRecord to RiskScore for Parquet export.
func ConvertRiskScoreRecords(records []schema.RiskScoreRecord) []RiskScore {
	result := make([]RiskScore, len(records))
	for i, record := range records {
		result[i] = RiskScore{
			AnalysisID:    record.AnalysisID,
			CountryCode:   record.CountryCode,
			CountryNameEN: record.CountryNameEN,
			Year:          record.Year,
			AnalysisTime:  record.AnalysisTime,
			DengueCases:   record.DengueCases,
			Population:    record.Population,
			CasesPer100K:  record.CasesPer100K,
			LagCases1:     record.LagCases1,
			LagCases2:     record.LagCases2,
			MA3Cases:      record.MA3Cases,
			RiskScore:     record.RiskScore,
			RiskLabel:     record.RiskLabel,
		}
	}
	return result
}
