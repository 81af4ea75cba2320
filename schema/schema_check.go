package schema

// CheckResult holds the results of a risk gate evaluation.
type CheckResult struct {
	Passed     bool
	Year       int     // Year the gate was evaluated against
	Threshold  float64 // Alert threshold used for counting
	MaxRisk    float64 // Configured ceiling for the top score
	MaxAlerts  int     // Configured ceiling for the alert count
	TotalRows  int
	AlertCount int
	TopScore   float64
	TopCountry string
	FailedRows []CheckFailedRow
}

// CheckFailedRow represents a country that breached the gate.
type CheckFailedRow struct {
	CountryCode string
	CountryName string
	Year        int
	RiskScore   float64
	Threshold   float64
}
