package schema

import "time"

// AnalysisRunRecord represents a row from the episense_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID      int64
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	TotalRowsScored int32
	ConfigParams    *string
}

// RiskScoreRecord represents a row from the episense_risk_scores table.
type RiskScoreRecord struct {
	AnalysisID    int64
	CountryCode   string
	CountryNameEN string
	Year          int32
	AnalysisTime  time.Time
	DengueCases   float64
	Population    *float64
	CasesPer100K  *float64
	LagCases1     *float64
	LagCases2     *float64
	MA3Cases      float64
	RiskScore     float64
	RiskLabel     string
}

// NewRiskScoreRecord converts one scored row into its store representation.
func NewRiskScoreRecord(analysisID int64, analysisTime time.Time, row RiskRow) RiskScoreRecord {
	return RiskScoreRecord{
		AnalysisID:    analysisID,
		CountryCode:   row.CountryCode,
		CountryNameEN: row.CountryNameEN,
		Year:          int32(row.Year),
		AnalysisTime:  analysisTime,
		DengueCases:   row.DengueCases,
		Population:    row.Population,
		CasesPer100K:  row.CasesPer100K,
		LagCases1:     row.LagCases1,
		LagCases2:     row.LagCases2,
		MA3Cases:      row.MA3Cases,
		RiskScore:     row.RiskScore,
		RiskLabel:     GetPlainLabel(row.RiskScore),
	}
}
