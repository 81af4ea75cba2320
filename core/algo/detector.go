// Package algo has the anomaly detection algorithms behind the risk
// scores.
package algo

import "github.com/episense/episense/schema"

// Detector scores feature vectors for anomalies. Fit learns from a full
// batch; Scores returns one raw magnitude per vector, higher meaning
// more anomalous. Implementations are interchangeable behind this
// contract.
type Detector interface {
	Fit(features [][]float64)
	Scores(features [][]float64) []float64
}

// NewDetector builds the configured local detector. Remote scoring does
// not go through here; it has its own HTTP client.
func NewDetector(kind schema.ScorerKind, trees, subsample int, seed int64) Detector {
	if kind == schema.ZScoreScorer {
		return NewZScoreDetector()
	}
	return NewIsolationForest(trees, subsample, seed)
}
