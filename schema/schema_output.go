package schema

// EnrichedRiskRow adds presentation data to a RiskRow.
type EnrichedRiskRow struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	RiskRow
}

// GetPlainLabel returns a plain text label indicating the criticality level
// based on the risk score.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return "Critical"
	case score >= 60:
		return "High"
	case score >= 40:
		return "Moderate"
	default:
		return "Low"
	}
}

// EnrichRows adds rank and label to a list of risk rows.
func EnrichRows(rows []RiskRow) []EnrichedRiskRow {
	output := make([]EnrichedRiskRow, len(rows))
	for i, r := range rows {
		output[i] = EnrichedRiskRow{
			Rank:    i + 1,
			Label:   GetPlainLabel(r.RiskScore),
			RiskRow: r,
		}
	}
	return output
}
