package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/episense/episense/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func riskRow(code, name string, year int, score float64, cases float64) schema.RiskRow {
	return schema.RiskRow{
		FeatureRow: schema.FeatureRow{
			CountryCode:   code,
			CountryNameEN: name,
			Year:          year,
			DengueCases:   cases,
		},
		RiskScore: score,
	}
}

func TestCompareSnapshots_StatusClassification(t *testing.T) {
	base := []schema.RiskRow{
		riskRow("BRA", "Brazil", 2021, 10, 1000),
		riskRow("PER", "Peru", 2021, 5, 200),
	}
	target := []schema.RiskRow{
		riskRow("BRA", "Brazil", 2022, 15, 1400),
		riskRow("COL", "Colombia", 2022, 8, 450),
	}

	result := compareSnapshots(base, target, 25)

	require.Len(t, result.Details, 3)

	byCode := make(map[string]schema.ComparisonDetail, len(result.Details))
	for _, d := range result.Details {
		byCode[d.CountryCode] = d
	}

	bra := byCode["BRA"]
	assert.Equal(t, schema.ActiveStatus, bra.Status)
	assert.Equal(t, 2021, bra.BeforeYear)
	assert.Equal(t, 2022, bra.AfterYear)
	assert.InDelta(t, 5.0, bra.Delta, 0.001)
	assert.InDelta(t, 400.0, bra.DeltaCases, 0.001)

	col := byCode["COL"]
	assert.Equal(t, schema.NewStatus, col.Status)
	assert.Equal(t, 0.0, col.BeforeScore)
	assert.InDelta(t, 8.0, col.Delta, 0.001)
	assert.Equal(t, 0.0, col.DeltaCases) // one-sided rows carry no case delta

	per := byCode["PER"]
	assert.Equal(t, schema.InactiveStatus, per.Status)
	assert.Equal(t, 0.0, per.AfterScore)
	assert.InDelta(t, -5.0, per.Delta, 0.001)
	assert.Equal(t, 0.0, per.DeltaCases)

	assert.Equal(t, 1, result.Summary.TotalNewCountries)
	assert.Equal(t, 1, result.Summary.TotalInactiveCountries)
	assert.Equal(t, 1, result.Summary.TotalActiveCountries)
	assert.InDelta(t, 8.0, result.Summary.NetScoreDelta, 0.001)
	assert.InDelta(t, 400.0, result.Summary.NetCasesDelta, 0.001)
}

func TestCompareSnapshots_LatestYearWins(t *testing.T) {
	// Multi-year snapshots: only each country's latest year represents it
	base := []schema.RiskRow{
		riskRow("BRA", "Brazil", 2019, 90, 5000),
		riskRow("BRA", "Brazil", 2021, 10, 1000),
	}
	target := []schema.RiskRow{
		riskRow("BRA", "Brazil", 2020, 70, 4000),
		riskRow("BRA", "Brazil", 2022, 40, 2500),
	}

	result := compareSnapshots(base, target, 25)

	require.Len(t, result.Details, 1)
	detail := result.Details[0]
	assert.Equal(t, 2021, detail.BeforeYear)
	assert.Equal(t, 2022, detail.AfterYear)
	assert.InDelta(t, 30.0, detail.Delta, 0.001)
}

func TestCompareSnapshots_InsignificantActiveExcluded(t *testing.T) {
	base := []schema.RiskRow{
		riskRow("BRA", "Brazil", 2021, 50.0, 1000),
		riskRow("COL", "Colombia", 2021, 20.0, 400),
	}
	target := []schema.RiskRow{
		riskRow("BRA", "Brazil", 2022, 50.001, 1000),
		riskRow("COL", "Colombia", 2022, 35.0, 600),
	}

	result := compareSnapshots(base, target, 25)

	// Brazil moved by 0.001, below the noise floor, so it drops out of
	// the details while still counting toward the summary.
	require.Len(t, result.Details, 1)
	assert.Equal(t, "COL", result.Details[0].CountryCode)
	assert.Equal(t, 2, result.Summary.TotalActiveCountries)
}

func TestCompareSnapshots_LimitTruncatesDetails(t *testing.T) {
	base := []schema.RiskRow{
		riskRow("BRA", "Brazil", 2021, 10, 0),
		riskRow("COL", "Colombia", 2021, 10, 0),
		riskRow("PER", "Peru", 2021, 10, 0),
	}
	target := []schema.RiskRow{
		riskRow("BRA", "Brazil", 2022, 90, 0),
		riskRow("COL", "Colombia", 2022, 60, 0),
		riskRow("PER", "Peru", 2022, 40, 0),
	}

	result := compareSnapshots(base, target, 2)

	require.Len(t, result.Details, 2)
	assert.Equal(t, "BRA", result.Details[0].CountryCode) // biggest mover first
	assert.Equal(t, "COL", result.Details[1].CountryCode)
	// Summary still covers the truncated country
	assert.Equal(t, 3, result.Summary.TotalActiveCountries)
}

func TestDetermineStatus(t *testing.T) {
	tests := []struct {
		name         string
		baseExists   bool
		targetExists bool
		expected     schema.Status
	}{
		{"both present", true, true, schema.ActiveStatus},
		{"target only", false, true, schema.NewStatus},
		{"base only", true, false, schema.InactiveStatus},
		{"neither", false, false, schema.UnknownStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, determineStatus(tt.baseExists, tt.targetExists))
		})
	}
}

func TestSortComparisonDetails(t *testing.T) {
	details := []schema.ComparisonDetail{
		{CountryCode: "PER", Delta: -3},
		{CountryCode: "BRA", Delta: 10},
		{CountryCode: "COL", Delta: -10},
		{CountryCode: "ECU", Delta: 3},
		{CountryCode: "ARG", Delta: 10},
	}

	sortComparisonDetails(details)

	codes := make([]string, len(details))
	for i, d := range details {
		codes[i] = d.CountryCode
	}

	// abs delta desc, then positive before negative, then code
	assert.Equal(t, []string{"ARG", "BRA", "COL", "ECU", "PER"}, codes)
}

func TestLatestByCountry(t *testing.T) {
	rows := []schema.RiskRow{
		riskRow("BRA", "Brazil", 2020, 10, 100),
		riskRow("BRA", "Brazil", 2022, 30, 300),
		riskRow("BRA", "Brazil", 2021, 20, 200),
		riskRow("COL", "Colombia", 2021, 5, 50),
	}

	latest := latestByCountry(rows)

	require.Len(t, latest, 2)
	assert.Equal(t, 2022, latest["BRA"].Year)
	assert.InDelta(t, 30.0, latest["BRA"].RiskScore, 0.001)
	assert.Equal(t, 2021, latest["COL"].Year)
}

func TestGetComparisonResults(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	dir := t.TempDir()

	header := "indicator_name,nombre_indicador,spatial_dim_type,spatial_dim,spatial_dim_en,spatial_dim_es,time_dim_type,time_dim,numeric_value"
	baseLines := []string{
		header,
		"Number of dengue cases,Casos de dengue,COUNTRY,BRA,Brazil,Brasil,YEAR,2021,1500",
		"Number of dengue cases,Casos de dengue,COUNTRY,COL,Colombia,Colombia,YEAR,2021,450",
		"Number of dengue cases,Casos de dengue,COUNTRY,PER,Peru,Perú,YEAR,2021,220",
	}
	targetLines := []string{
		header,
		"Number of dengue cases,Casos de dengue,COUNTRY,BRA,Brazil,Brasil,YEAR,2022,90000",
		"Number of dengue cases,Casos de dengue,COUNTRY,COL,Colombia,Colombia,YEAR,2022,500",
	}

	basePath := filepath.Join(dir, "base.csv")
	targetPath := filepath.Join(dir, "target.csv")
	require.NoError(t, os.WriteFile(basePath, []byte(strings.Join(baseLines, "\n")+"\n"), 0o644))
	require.NoError(t, os.WriteFile(targetPath, []byte(strings.Join(targetLines, "\n")+"\n"), 0o644))

	mockMgr := uncachedManager()

	cfg := forestConfig("")
	cfg.CompareMode = true
	cfg.BasePath = basePath
	cfg.TargetPath = targetPath
	cfg.Scorer = schema.ZScoreScorer

	result, duration, err := GetComparisonResults(ctx, cfg, mockMgr)

	require.NoError(t, err)
	assert.Greater(t, duration.Nanoseconds(), int64(0))

	byCode := make(map[string]schema.ComparisonDetail, len(result.Details))
	for _, d := range result.Details {
		byCode[d.CountryCode] = d
	}

	per, ok := byCode["PER"]
	require.True(t, ok, "dropped country should surface as inactive")
	assert.Equal(t, schema.InactiveStatus, per.Status)

	assert.Equal(t, 1, result.Summary.TotalInactiveCountries)
	assert.Equal(t, 2, result.Summary.TotalActiveCountries)
}

func TestGetComparisonResults_MissingBase(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	mockMgr := uncachedManager()

	cfg := forestConfig("")
	cfg.CompareMode = true
	cfg.BasePath = filepath.Join(t.TempDir(), "missing.csv")
	cfg.TargetPath = filepath.Join(t.TempDir(), "also-missing.csv")

	_, _, err := GetComparisonResults(ctx, cfg, mockMgr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "base snapshot analysis failed")
}
