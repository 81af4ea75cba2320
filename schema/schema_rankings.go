package schema

// CountriesResult holds the per-country ranking evaluated for one year.
// Rows are sorted by risk score descending.
type CountriesResult struct {
	Year int       `json:"year"` // Year the ranking was evaluated against
	Rows []RiskRow `json:"rows"`
}

// AlertsResult holds the rows meeting the alert threshold for one year.
// Rows are sorted by risk score descending.
type AlertsResult struct {
	Year      int       `json:"year"`      // Year the threshold was evaluated against
	Threshold float64   `json:"threshold"` // Effective alert threshold
	Rows      []RiskRow `json:"rows"`
}
