package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/episense/episense/schema"
)

// riskTableCSVHeader is the canonical column list shared by the table,
// countries and alerts CSV outputs.
var riskTableCSVHeader = []string{
	"rank",
	"country_code",
	"country_name_en",
	"year",
	"dengue_cases",
	"population",
	"cases_per_100k",
	"lag_cases_1",
	"lag_cases_2",
	"ma3_cases",
	"risk_score",
	"label",
}

// writeJSONRiskRows marshals risk rows with rank and label added.
func writeJSONRiskRows(w io.Writer, rows []schema.RiskRow) error {
	return writeJSON(w, schema.EnrichRows(rows))
}

// writeCSVRiskRows writes risk rows in CSV format. Null metrics become
// empty fields rather than zeros.
func writeCSVRiskRows(w *csv.Writer, rows []schema.RiskRow, fmtFloat, fmtCount func(float64) string) error {
	if err := w.Write(riskTableCSVHeader); err != nil {
		return err
	}
	for i, r := range rows {
		rec := []string{
			strconv.Itoa(i + 1),      // Rank
			r.CountryCode,            // ISO3 code
			r.CountryNameEN,          // Full name, untruncated
			strconv.Itoa(r.Year),     // Year
			fmtCount(r.DengueCases),  // Annual cases
			formatNullable(r.Population, fmtCount, ""),
			formatNullable(r.CasesPer100K, fmtFloat, ""),
			formatNullable(r.LagCases1, fmtCount, ""),
			formatNullable(r.LagCases2, fmtCount, ""),
			fmtFloat(r.MA3Cases),
			fmtFloat(r.RiskScore),
			schema.GetPlainLabel(r.RiskScore),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONCountries marshals the countries ranking with the evaluated year.
func writeJSONCountries(w io.Writer, result schema.CountriesResult) error {
	out := struct {
		Year int                      `json:"year"`
		Rows []schema.EnrichedRiskRow `json:"rows"`
	}{
		Year: result.Year,
		Rows: schema.EnrichRows(result.Rows),
	}
	return writeJSON(w, out)
}

// writeJSONAlerts marshals the alert rows with the evaluated year and threshold.
func writeJSONAlerts(w io.Writer, result schema.AlertsResult) error {
	out := struct {
		Year      int                      `json:"year"`
		Threshold float64                  `json:"threshold"`
		Rows      []schema.EnrichedRiskRow `json:"rows"`
	}{
		Year:      result.Year,
		Threshold: result.Threshold,
		Rows:      schema.EnrichRows(result.Rows),
	}
	return writeJSON(w, out)
}
