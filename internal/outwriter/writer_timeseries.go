package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/episense/episense/schema"
)

// writeJSONResultsForTimeseries writes the series as indented JSON.
func writeJSONResultsForTimeseries(w io.Writer, result schema.TimeseriesResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForTimeseries writes one CSV record per observed year.
// The country columns repeat on every row so the file stands alone.
func writeCSVResultsForTimeseries(w *csv.Writer, result schema.TimeseriesResult, fmtFloat, fmtCount func(float64) string) error {
	header := []string{"country_code", "country_name", "year", "dengue_cases", "population", "cases_per_100k", "ma3_cases", "risk_score", "label"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, p := range result.Points {
		record := []string{
			result.CountryCode,
			result.CountryName,
			strconv.Itoa(p.Year),
			fmtCount(p.DengueCases),
			formatNullable(p.Population, fmtCount, ""),
			formatNullable(p.CasesPer100K, fmtFloat, ""),
			fmtFloat(p.MA3Cases),
			fmtFloat(p.RiskScore),
			p.Label,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
