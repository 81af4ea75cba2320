package algo

import (
	"testing"

	"github.com/episense/episense/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScores(t *testing.T) {
	tests := []struct {
		name     string
		raw      []float64
		expected []float64
		delta    float64
	}{
		{
			name:     "spread batch",
			raw:      []float64{1, 2, 3},
			expected: []float64{0, 50, 100},
			delta:    1e-6,
		},
		{
			name:     "flat batch stays at zero",
			raw:      []float64{5, 5, 5},
			expected: []float64{0, 0, 0},
			delta:    1e-12,
		},
		{
			name:     "single value",
			raw:      []float64{7},
			expected: []float64{0},
			delta:    1e-12,
		},
		{
			name:     "negative magnitudes",
			raw:      []float64{-3, -1},
			expected: []float64{0, 100},
			delta:    1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := NormalizeScores(tt.raw)
			require.Len(t, scores, len(tt.expected))
			for i, want := range tt.expected {
				assert.InDelta(t, want, scores[i], tt.delta)
			}
		})
	}
}

func TestNormalizeScoresEmpty(t *testing.T) {
	assert.Empty(t, NormalizeScores(nil))
}

func TestFeatureMatrix(t *testing.T) {
	rows := []schema.FeatureRow{
		{
			CountryCode:  "BRA",
			CasesPer100K: schema.FloatPtr(12.5),
			LagCases1:    schema.FloatPtr(3),
			MA3Cases:     4.5,
		},
		{
			CountryCode: "PER",
			MA3Cases:    1,
		},
	}

	matrix := FeatureMatrix(rows)
	require.Len(t, matrix, 2)
	assert.Equal(t, []float64{12.5, 3, 0, 4.5}, matrix[0])
	assert.Equal(t, []float64{0, 0, 0, 1}, matrix[1])
}

func TestApplyScores(t *testing.T) {
	rows := []schema.FeatureRow{
		{CountryCode: "BRA", Year: 2021},
		{CountryCode: "PER", Year: 2021},
	}

	risk := ApplyScores(rows, []float64{88.5, 12.0})
	require.Len(t, risk, 2)
	assert.Equal(t, "BRA", risk[0].CountryCode)
	assert.Equal(t, 88.5, risk[0].RiskScore)
	assert.Equal(t, 12.0, risk[1].RiskScore)
}

func TestZScoreDetectorOutlier(t *testing.T) {
	batch := [][]float64{
		{5, 4, 3, 4.5},
		{5.5, 4.5, 3.5, 5},
		{4.5, 3.5, 2.5, 4},
		{10000, 9500, 9000, 9500},
	}

	detector := NewZScoreDetector()
	detector.Fit(batch)
	raw := detector.Scores(batch)
	require.Len(t, raw, 4)

	for i := 0; i < 3; i++ {
		assert.Greater(t, raw[3], raw[i])
	}

	normalized := NormalizeScores(raw)
	assert.InDelta(t, 100.0, normalized[3], 1e-3)
}

func TestZScoreDetectorConstantBatch(t *testing.T) {
	batch := [][]float64{{5, 5, 5, 5}, {5, 5, 5, 5}}

	detector := NewZScoreDetector()
	detector.Fit(batch)

	for _, s := range detector.Scores(batch) {
		assert.Equal(t, 0.0, s)
	}
}

func TestZScoreDetectorUnfitted(t *testing.T) {
	detector := NewZScoreDetector()
	scores := detector.Scores([][]float64{{1, 2, 3, 4}})
	require.Len(t, scores, 1)
	assert.Equal(t, 0.0, scores[0])
}
