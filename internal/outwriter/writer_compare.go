package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/episense/episense/schema"
)

// writeJSONResultsForComparison marshals the schema.ComparisonResult to JSON and writes it.
func writeJSONResultsForComparison(w io.Writer, result schema.ComparisonResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForComparison writes the schema.ComparisonResult data to a CSV writer.
func writeCSVResultsForComparison(w *csv.Writer, result schema.ComparisonResult, fmtFloat, fmtCount func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"rank",
		"country_code",
		"country_name",
		"before_year",
		"after_year",
		"base_score",
		"target_score",
		"delta_score",
		"delta_cases",
		"status",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for i, d := range result.Details {
		row := []string{
			strconv.Itoa(i + 1),          // Rank
			d.CountryCode,                // ISO3
			d.CountryName,                // Name
			strconv.Itoa(d.BeforeYear),   // Base Year
			strconv.Itoa(d.AfterYear),    // Target Year
			fmtFloat(d.BeforeScore),      // Base Score
			fmtFloat(d.AfterScore),       // Target Score
			fmtFloat(d.Delta),            // Delta Score (Target - Base)
			fmtCount(d.DeltaCases),       // Delta Cases
			string(d.Status),             // Status
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
