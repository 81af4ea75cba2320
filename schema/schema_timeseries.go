package schema

// TimeseriesPoint represents a single year in a country's series.
type TimeseriesPoint struct {
	Year         int      `json:"year"`
	DengueCases  float64  `json:"dengue_cases"`
	Population   *float64 `json:"population"`
	CasesPer100K *float64 `json:"cases_per_100k"`
	MA3Cases     float64  `json:"ma3_cases"`
	RiskScore    float64  `json:"risk_score"`
	Label        string   `json:"label"` // Criticality label for the score
}

// TimeseriesResult holds one country's year-ordered series.
type TimeseriesResult struct {
	CountryCode string            `json:"country_code"`
	CountryName string            `json:"country_name"`
	Points      []TimeseriesPoint `json:"points"`
}
