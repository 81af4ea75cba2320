//go:build integration

// Package integration contains integration tests for episense.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	genCountries = 40
	genStartYear = 2012
	genEndYear   = 2023
	genPop       = 10000000
)

// spikedCountryIdx lists the countries whose final year gets a 40x case
// spike. Higher index means higher baseline, so the expected top of the
// risk table is index 31, then 17, then 4.
var spikedCountryIdx = []int{4, 17, 31}

// genCode derives a stable fake ISO3 code from a country index.
func genCode(i int) string {
	return fmt.Sprintf("%c%cX", 'A'+(i/26)%26, 'A'+i%26)
}

// genCases is the deterministic ground truth for annual case counts. The
// modular term stands in for noise without needing a RNG the test would
// have to replay.
func genCases(i, year int) int {
	cases := 800 + 60*i + 15*(year-genStartYear) + 35*((i*7+year*13)%9)
	if year == genEndYear {
		for _, s := range spikedCountryIdx {
			if s == i {
				return cases * 40
			}
		}
	}
	return cases
}

// writeGeneratedDataset writes an indicator CSV covering genCountries
// countries from genStartYear to genEndYear and returns its path.
func writeGeneratedDataset(t *testing.T) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("indicator_name,nombre_indicador,spatial_dim_type,spatial_dim,spatial_dim_en,spatial_dim_es,time_dim_type,time_dim,numeric_value\n")
	for i := 0; i < genCountries; i++ {
		code := genCode(i)
		for year := genStartYear; year <= genEndYear; year++ {
			fmt.Fprintf(&b, "dengue cases,casos de dengue,COUNTRY,%s,Country %s,País %s,YEAR,%d,%d\n",
				code, code, code, year, genCases(i, year))
			fmt.Fprintf(&b, "total population,población total,COUNTRY,%s,Country %s,País %s,YEAR,%d,%d\n",
				code, code, code, year, genPop)
		}
	}

	path := filepath.Join(t.TempDir(), "generated.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

// buildEpisense builds the CLI into a temp dir and returns the binary path.
func buildEpisense(t *testing.T) string {
	t.Helper()

	episensePath := filepath.Join(t.TempDir(), "episense")
	buildCmd := exec.Command("go", "build", "-o", episensePath, "./cmd/episense")
	buildCmd.Dir = ".." // Project root
	output, err := buildCmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(output))
	return episensePath
}

// TestRiskTableVerification scores a generated dataset and verifies the CSV
// output against values recomputed from the generator.
func TestRiskTableVerification(t *testing.T) {
	episensePath := buildEpisense(t)
	inputPath := writeGeneratedDataset(t)
	outPath := filepath.Join(t.TempDir(), "table.csv")

	cmd := exec.Command(episensePath, "table", inputPath,
		"--cache-backend", "none", "--scorer", "zscore",
		"--limit", "1000", "--precision", "2",
		"--output", "csv", "--output-file", outPath)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "table run failed: %s", string(output))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(records), 1, "expected header plus data rows")

	// Map column names to positions so layout changes fail loudly
	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range []string{"rank", "country_code", "year", "dengue_cases", "population", "cases_per_100k", "risk_score"} {
		require.Contains(t, col, name)
	}

	rows := records[1:]
	assert.Len(t, rows, genCountries*(genEndYear-genStartYear+1))

	prevScore := 101.0
	for idx, rec := range rows {
		rank, err := strconv.Atoi(rec[col["rank"]])
		require.NoError(t, err)
		assert.Equal(t, idx+1, rank)

		year, err := strconv.Atoi(rec[col["year"]])
		require.NoError(t, err)
		cases, err := strconv.ParseFloat(rec[col["dengue_cases"]], 64)
		require.NoError(t, err)
		per100k, err := strconv.ParseFloat(rec[col["cases_per_100k"]], 64)
		require.NoError(t, err)
		score, err := strconv.ParseFloat(rec[col["risk_score"]], 64)
		require.NoError(t, err)

		// Scores are sorted descending and bounded to [0, 100]
		assert.LessOrEqual(t, score, prevScore, "row %d out of order", idx)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
		prevScore = score

		// Case counts and the per-100k rate must match the generator
		code := rec[col["country_code"]]
		countryIdx := int(code[0]-'A')*26 + int(code[1]-'A')
		expectedCases := float64(genCases(countryIdx, year))
		assert.InDelta(t, expectedCases, cases, 0.5, "cases mismatch for %s %d", code, year)
		assert.InDelta(t, expectedCases/genPop*100000, per100k, 0.01, "rate mismatch for %s %d", code, year)
	}

	// The planted spikes must own the top three rows, highest baseline first
	assert.Equal(t, genCode(31), rows[0][col["country_code"]])
	assert.Equal(t, genCode(17), rows[1][col["country_code"]])
	assert.Equal(t, genCode(4), rows[2][col["country_code"]])
	for i := 0; i < 3; i++ {
		assert.Equal(t, strconv.Itoa(genEndYear), rows[i][col["year"]])
	}

	topScore, err := strconv.ParseFloat(rows[0][col["risk_score"]], 64)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, topScore, 0.01)
}

// TestTimeseriesVerification checks one spiked country's series against the
// generator year by year.
func TestTimeseriesVerification(t *testing.T) {
	episensePath := buildEpisense(t)
	inputPath := writeGeneratedDataset(t)
	outPath := filepath.Join(t.TempDir(), "series.json")
	code := genCode(31)

	cmd := exec.Command(episensePath, "timeseries", inputPath,
		"--cache-backend", "none", "--scorer", "zscore", "--country", code,
		"--output", "json", "--output-file", outPath)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "timeseries run failed: %s", string(output))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var result struct {
		CountryCode string `json:"country_code"`
		CountryName string `json:"country_name"`
		Points      []struct {
			Year        int     `json:"year"`
			DengueCases float64 `json:"dengue_cases"`
			RiskScore   float64 `json:"risk_score"`
			Label       string  `json:"label"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, code, result.CountryCode)
	require.Len(t, result.Points, genEndYear-genStartYear+1)

	for i, p := range result.Points {
		assert.Equal(t, genStartYear+i, p.Year, "points must be year-ordered")
		assert.InDelta(t, float64(genCases(31, p.Year)), p.DengueCases, 0.001)
	}

	// The final year carries the strongest spike in the whole batch
	last := result.Points[len(result.Points)-1]
	assert.InDelta(t, 100.0, last.RiskScore, 0.01)
	assert.Equal(t, "Critical", last.Label)
}
