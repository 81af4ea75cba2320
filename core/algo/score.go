package algo

import "github.com/episense/episense/schema"

// scoreEpsilon keeps a flat batch at zero instead of dividing by zero.
const scoreEpsilon = 1e-9

// FeatureMatrix extracts the scoring features from rows with nulls
// replaced by zero, the shape every detector consumes.
func FeatureMatrix(rows []schema.FeatureRow) [][]float64 {
	matrix := make([][]float64, len(rows))
	for i, row := range rows {
		matrix[i] = row.Features()
	}
	return matrix
}

// NormalizeScores rescales raw anomaly magnitudes to [0,100] relative to
// the batch: 100 * (raw - min) / (max - min + epsilon). The same vector
// can land on a different score when the batch composition changes.
func NormalizeScores(raw []float64) []float64 {
	scores := make([]float64, len(raw))
	if len(raw) == 0 {
		return scores
	}

	lo, hi := raw[0], raw[0]
	for _, v := range raw[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	for i, v := range raw {
		scores[i] = 100 * (v - lo) / (hi - lo + scoreEpsilon)
	}
	return scores
}

// ApplyScores pairs feature rows with their normalized risk scores. Both
// slices must be index-aligned.
func ApplyScores(rows []schema.FeatureRow, scores []float64) []schema.RiskRow {
	risk := make([]schema.RiskRow, len(rows))
	for i, row := range rows {
		risk[i] = schema.RiskRow{FeatureRow: row}
		if i < len(scores) {
			risk[i].RiskScore = scores[i]
		}
	}
	return risk
}
