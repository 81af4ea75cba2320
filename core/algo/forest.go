package algo

import (
	"math"
	"math/rand"
)

// eulerMascheroni approximates harmonic numbers in the path-length
// normalizer.
const eulerMascheroni = 0.5772156649

// IsolationForest is a deterministic isolation forest. Each tree grows on
// a subsample drawn without replacement; anomalous vectors isolate in
// fewer random splits, so shorter average path lengths mean higher
// scores.
type IsolationForest struct {
	trees     int
	subsample int
	seed      int64

	roots []*forestNode
	cn    float64 // normalizer c(effective subsample size)
}

// forestNode is one tree node. Internal nodes carry a split, external
// nodes carry the size of the sample that landed in them.
type forestNode struct {
	left    *forestNode
	right   *forestNode
	feature int
	split   float64
	size    int
}

// NewIsolationForest returns an unfitted forest with the given ensemble
// size, per-tree subsample cap and random seed.
func NewIsolationForest(trees, subsample int, seed int64) *IsolationForest {
	return &IsolationForest{trees: trees, subsample: subsample, seed: seed}
}

// Fit grows the ensemble over the batch. The same seed and the same
// batch contents in the same order grow the same forest.
func (f *IsolationForest) Fit(features [][]float64) {
	n := len(features)
	f.roots = nil
	if n == 0 {
		return
	}

	psi := f.subsample
	if psi > n {
		psi = n
	}
	maxDepth := int(math.Ceil(math.Log2(float64(psi))))
	rng := rand.New(rand.NewSource(f.seed))

	f.roots = make([]*forestNode, 0, f.trees)
	sample := make([][]float64, psi)
	for t := 0; t < f.trees; t++ {
		perm := rng.Perm(n)
		for i := 0; i < psi; i++ {
			sample[i] = features[perm[i]]
		}
		f.roots = append(f.roots, growTree(sample, rng, 0, maxDepth))
	}

	f.cn = avgPathLength(psi)
	if f.cn == 0 {
		// A subsample of one vector has no path information.
		f.cn = 1
	}
}

// Scores returns the anomaly magnitude 2^(-E[h(x)]/c(psi)) per vector,
// the positive counterpart of the fitted model's sample scores.
func (f *IsolationForest) Scores(features [][]float64) []float64 {
	scores := make([]float64, len(features))
	if len(f.roots) == 0 {
		return scores
	}

	for i, x := range features {
		total := 0.0
		for _, root := range f.roots {
			total += root.pathLength(x, 0)
		}
		mean := total / float64(len(f.roots))
		scores[i] = math.Exp2(-mean / f.cn)
	}
	return scores
}

// growTree recursively isolates a sample with uniform random splits. The
// sample slice is partitioned in place.
func growTree(sample [][]float64, rng *rand.Rand, depth, maxDepth int) *forestNode {
	if len(sample) <= 1 || depth >= maxDepth {
		return &forestNode{size: len(sample)}
	}

	feature, lo, hi, ok := pickSplitFeature(sample, rng)
	if !ok {
		// Every feature is constant here; nothing left to isolate.
		return &forestNode{size: len(sample)}
	}
	split := lo + rng.Float64()*(hi-lo)

	// Partition: strictly-below goes left.
	mid := 0
	for i, x := range sample {
		if x[feature] < split {
			sample[i], sample[mid] = sample[mid], sample[i]
			mid++
		}
	}
	left := make([][]float64, mid)
	copy(left, sample[:mid])
	right := make([][]float64, len(sample)-mid)
	copy(right, sample[mid:])

	return &forestNode{
		left:    growTree(left, rng, depth+1, maxDepth),
		right:   growTree(right, rng, depth+1, maxDepth),
		feature: feature,
		split:   split,
	}
}

// pickSplitFeature chooses a random feature that still varies within the
// sample and returns its value range.
func pickSplitFeature(sample [][]float64, rng *rand.Rand) (feature int, lo, hi float64, ok bool) {
	dims := len(sample[0])
	candidates := make([]int, 0, dims)
	for d := 0; d < dims; d++ {
		first := sample[0][d]
		for _, x := range sample[1:] {
			if x[d] != first {
				candidates = append(candidates, d)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return 0, 0, 0, false
	}

	feature = candidates[rng.Intn(len(candidates))]
	lo, hi = sample[0][feature], sample[0][feature]
	for _, x := range sample[1:] {
		if x[feature] < lo {
			lo = x[feature]
		}
		if x[feature] > hi {
			hi = x[feature]
		}
	}
	return feature, lo, hi, true
}

// pathLength walks a vector down the tree. External nodes holding more
// than one vector add the expected depth of the subtree that was never
// grown.
func (node *forestNode) pathLength(x []float64, depth float64) float64 {
	if node.left == nil {
		return depth + avgPathLength(node.size)
	}
	if x[node.feature] < node.split {
		return node.left.pathLength(x, depth+1)
	}
	return node.right.pathLength(x, depth+1)
}

// avgPathLength is c(n), the average depth of an unsuccessful search in
// a binary search tree over n values.
func avgPathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		harmonic := math.Log(float64(n-1)) + eulerMascheroni
		return 2*harmonic - 2*float64(n-1)/float64(n)
	}
}
