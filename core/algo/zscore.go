package algo

import "math"

// ZScoreDetector is a light statistical baseline. The anomaly magnitude
// of a vector is its mean absolute z-score across features, so it needs
// no randomness and no tuning.
type ZScoreDetector struct {
	means   []float64
	stddevs []float64
}

// NewZScoreDetector returns an unfitted z-score baseline.
func NewZScoreDetector() *ZScoreDetector {
	return &ZScoreDetector{}
}

// Fit records per-feature means and standard deviations over the batch.
func (d *ZScoreDetector) Fit(features [][]float64) {
	d.means = nil
	d.stddevs = nil
	if len(features) == 0 {
		return
	}

	dims := len(features[0])
	d.means = make([]float64, dims)
	d.stddevs = make([]float64, dims)

	for _, x := range features {
		for j, v := range x {
			d.means[j] += v
		}
	}
	n := float64(len(features))
	for j := range d.means {
		d.means[j] /= n
	}

	for _, x := range features {
		for j, v := range x {
			diff := v - d.means[j]
			d.stddevs[j] += diff * diff
		}
	}
	for j := range d.stddevs {
		d.stddevs[j] = math.Sqrt(d.stddevs[j] / n)
	}
}

// Scores returns the mean absolute z-score per vector. Zero-variance
// features contribute nothing, so a fully constant batch scores flat
// zeros.
func (d *ZScoreDetector) Scores(features [][]float64) []float64 {
	scores := make([]float64, len(features))
	if len(d.means) == 0 {
		return scores
	}

	for i, x := range features {
		total := 0.0
		for j, v := range x {
			if j < len(d.means) && d.stddevs[j] > 0 {
				total += math.Abs(v-d.means[j]) / d.stddevs[j]
			}
		}
		scores[i] = total / float64(len(d.means))
	}
	return scores
}
