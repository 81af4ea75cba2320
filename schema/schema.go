// Package schema has configs, models and global variables for all parts of episense.
package schema

// IndicatorRecord represents one raw long-format indicator observation.
// Values are normalized on ingest: indicator names are trimmed and lowercased,
// dimension types are trimmed and uppercased. Input rows are read-only.
type IndicatorRecord struct {
	IndicatorNameEN string  // English indicator name, lowercased
	IndicatorNameES string  // Spanish indicator name, lowercased
	SpatialDimType  string  // Spatial dimension type, e.g. COUNTRY
	SpatialDim      string  // ISO3 country code
	SpatialDimEN    string  // English country name
	SpatialDimES    string  // Spanish country name
	TimeDimType     string  // Time dimension type, YEAR or MONTH
	TimeDim         string  // Raw time value; the year is its leading 4 digits
	NumericValue    float64 // Measured value
}

// CountryYearKey identifies one aggregated series row. The country names are
// part of the key so that rows reported under divergent display names never
// collapse into one series.
type CountryYearKey struct {
	CountryCode   string // ISO3 code (spatial_dim)
	CountryNameEN string
	CountryNameES string
	Year          int
}

// FeatureRow is one per-country/per-year row of the feature table.
// Pointer fields are null when the value cannot be derived; those rows are
// kept, never dropped.
type FeatureRow struct {
	CountryCode   string   `json:"country_code"`    // ISO3 code used as the join key
	CountryNameEN string   `json:"country_name_en"` // English country name
	CountryNameES string   `json:"-"`               // Spanish country name, grouping only
	Year          int      `json:"year"`
	DengueCases   float64  `json:"dengue_cases"`   // Annual case count, summed over raw rows
	Population    *float64 `json:"population"`     // Annual population mean, thousands-corrected
	CasesPer100K  *float64 `json:"cases_per_100k"` // dengue_cases / population * 1e5; null when population is null or zero
	LagCases1     *float64 `json:"lag_cases_1"`    // Previous year's dengue_cases for this country
	LagCases2     *float64 `json:"lag_cases_2"`    // dengue_cases two years back for this country
	MA3Cases      float64  `json:"ma3_cases"`      // Trailing mean of up to 3 years including current
}

// Key returns the grouping key for the row.
func (f *FeatureRow) Key() CountryYearKey {
	return CountryYearKey{
		CountryCode:   f.CountryCode,
		CountryNameEN: f.CountryNameEN,
		CountryNameES: f.CountryNameES,
		Year:          f.Year,
	}
}

// Features returns the model feature vector in FeatureOrder,
// with nulls replaced by 0. The replacement applies uniformly
// to fitting and inference.
func (f *FeatureRow) Features() []float64 {
	return []float64{
		ValueOrZero(f.CasesPer100K),
		ValueOrZero(f.LagCases1),
		ValueOrZero(f.LagCases2),
		f.MA3Cases,
	}
}

// RiskRow is a FeatureRow with its batch-relative risk score attached.
// This is the canonical output table consumed by downstream collaborators.
type RiskRow struct {
	FeatureRow
	RiskScore float64 `json:"risk_score"` // Anomaly magnitude rescaled to [0,100]
}
