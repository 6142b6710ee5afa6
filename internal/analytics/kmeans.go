package analytics

import (
	"fmt"
	"math"
	"math/rand"
)

// K-means defaults.
const (
	DefaultSeed    int64 = 42
	DefaultMaxIter       = 300
	DefaultNInit         = 10
)

// Partition is the outcome of centroid-based clustering. Labels are
// contiguous ids in [0, K); a cluster may end up empty.
type Partition struct {
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Iterations int
}

// Sizes returns the member count of every cluster.
func (p *Partition) Sizes() []int {
	sizes := make([]int, len(p.Centroids))
	for _, l := range p.Labels {
		sizes[l]++
	}
	return sizes
}

// Partitioner splits the rows of x into k clusters.
type Partitioner interface {
	Partition(x [][]float64, k int) (*Partition, error)
}

// KMeans is Lloyd's algorithm seeded with greedy k-means++. Every restart
// draws from one generator seeded with Seed, so equal inputs always give the
// same partition.
type KMeans struct {
	MaxIter int
	NInit   int
	Seed    int64
}

// NewKMeans returns a KMeans with the package defaults.
func NewKMeans() *KMeans {
	return &KMeans{MaxIter: DefaultMaxIter, NInit: DefaultNInit, Seed: DefaultSeed}
}

// Partition runs NInit seeded restarts and keeps the one with the lowest
// inertia (the earliest on ties).
func (km *KMeans) Partition(x [][]float64, k int) (*Partition, error) {
	n := len(x)
	if n == 0 {
		return nil, fmt.Errorf("%w: nothing to partition", ErrEmptyInput)
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: k=%d with %d rows", ErrInvalidClusterCount, k, n)
	}

	maxIter, nInit := km.MaxIter, km.NInit
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if nInit <= 0 {
		nInit = 1
	}

	rng := rand.New(rand.NewSource(km.Seed))
	var best *Partition
	for run := 0; run < nInit; run++ {
		centers := seedCenters(x, k, rng)
		p := lloyd(x, centers, maxIter)
		if best == nil || p.Inertia < best.Inertia {
			best = p
		}
	}
	return best, nil
}

// seedCenters picks the first center uniformly, then each further center by
// sampling 2+ln(k) candidates proportionally to their squared distance from
// the nearest chosen center and keeping the candidate that lowers the total
// potential most.
func seedCenters(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(x)
	trials := 2 + int(math.Log(float64(k)))

	first := rng.Intn(n)
	centers := make([][]float64, 0, k)
	centers = append(centers, cloneRow(x[first]))

	closest := make([]float64, n)
	potential := 0.0
	for i := range x {
		closest[i] = sqDist(x[i], x[first])
		potential += closest[i]
	}

	for c := 1; c < k; c++ {
		bestIdx, bestPot := -1, math.Inf(1)
		var bestDist []float64
		for t := 0; t < trials; t++ {
			idx := sampleWeighted(closest, potential, rng)
			dist := make([]float64, n)
			pot := 0.0
			for i := range x {
				dist[i] = math.Min(closest[i], sqDist(x[i], x[idx]))
				pot += dist[i]
			}
			if pot < bestPot {
				bestIdx, bestPot, bestDist = idx, pot, dist
			}
		}
		centers = append(centers, cloneRow(x[bestIdx]))
		closest, potential = bestDist, bestPot
	}
	return centers
}

// sampleWeighted draws an index with probability w[i]/total. When every
// weight is zero (all points sit on a center) it falls back to uniform.
func sampleWeighted(w []float64, total float64, rng *rand.Rand) int {
	if total <= 0 {
		return rng.Intn(len(w))
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, v := range w {
		acc += v
		if r < acc {
			return i
		}
	}
	for i := len(w) - 1; i >= 0; i-- {
		if w[i] > 0 {
			return i
		}
	}
	return len(w) - 1
}

// lloyd alternates assignment and centroid updates until no label changes or
// maxIter assignment steps have run. Empty clusters keep their last centroid.
func lloyd(x [][]float64, centers [][]float64, maxIter int) *Partition {
	n, k, d := len(x), len(centers), len(x[0])
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	iter := 0
	converged := false
	for iter < maxIter {
		iter++
		if !assign(x, centers, labels) {
			converged = true
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, d)
		}
		for i, row := range x {
			l := labels[i]
			counts[l]++
			for j, v := range row {
				sums[l][j] += v
			}
		}
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				centers[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}
	if !converged {
		// Capped: make labels agree with the final centroids.
		assign(x, centers, labels)
	}

	inertia := 0.0
	for i, row := range x {
		inertia += sqDist(row, centers[labels[i]])
	}
	return &Partition{
		Labels:     labels,
		Centroids:  centers,
		Inertia:    inertia,
		Iterations: iter,
	}
}

// assign moves every row to its nearest center (lowest id on ties) and
// reports whether any label changed.
func assign(x [][]float64, centers [][]float64, labels []int) bool {
	changed := false
	for i, row := range x {
		best, bestDist := 0, math.Inf(1)
		for c, center := range centers {
			if dd := sqDist(row, center); dd < bestDist {
				best, bestDist = c, dd
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func cloneRow(r []float64) []float64 {
	out := make([]float64, len(r))
	copy(out, r)
	return out
}
