package schema

// ComparisonDetail holds the base info, target info, and their associated
// deltas for one country.
type ComparisonDetail struct {
	CountryCode string  `json:"country_code"` // ISO3 code joined across both snapshots
	CountryName string  `json:"country_name"` // English country name
	BeforeYear  int     `json:"before_year"`  // Year evaluated in the base snapshot (0 when absent)
	AfterYear   int     `json:"after_year"`   // Year evaluated in the target snapshot (0 when absent)
	BeforeScore float64 `json:"before_score"` // Score from the base analysis
	AfterScore  float64 `json:"after_score"`  // Score from the target analysis
	Delta       float64 `json:"delta"`        // AfterScore - BeforeScore (positive means worse)
	DeltaCases  float64 `json:"delta_cases"`  // Change in annual case count
	Status      Status  `json:"status"`       // new, active, or inactive
}

// ComparisonSummary has high-level deltas and counts.
type ComparisonSummary struct {
	// 1. Net Score Delta
	NetScoreDelta float64 `json:"net_score_delta"`

	// 2. Net Case Delta
	NetCasesDelta float64 `json:"net_cases_delta"`

	// 3. Country Status Counts
	TotalNewCountries      int `json:"total_new_countries"`
	TotalInactiveCountries int `json:"total_inactive_countries"`
	TotalActiveCountries   int `json:"total_active_countries"`
}

// ComparisonResult holds the comparison details and summary.
type ComparisonResult struct {
	Details []ComparisonDetail `json:"details"`
	Summary ComparisonSummary  `json:"summary"`
}
