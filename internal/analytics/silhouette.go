package analytics

import (
	"fmt"
	"math"
)

// SilhouetteScore is the mean over rows of (b-a)/max(a,b), where a is the
// mean distance to the rest of the row's cluster and b the mean distance to
// the nearest other cluster. Rows alone in their cluster score 0.
//
// It requires 1 < k < len(x) and at least two non-empty clusters.
func SilhouetteScore(x [][]float64, labels []int, k int) (float64, error) {
	n := len(x)
	if k <= 1 || k >= n {
		return 0, fmt.Errorf("%w: silhouette needs 1 < k < %d, got %d", ErrInvalidClusterCount, n, k)
	}
	if len(labels) != n {
		return 0, fmt.Errorf("%w: %d labels for %d rows", ErrInvalidClusterCount, len(labels), n)
	}

	sizes := make([]int, k)
	for _, l := range labels {
		if l < 0 || l >= k {
			return 0, fmt.Errorf("%w: label %d outside [0, %d)", ErrInvalidClusterCount, l, k)
		}
		sizes[l]++
	}
	nonEmpty := 0
	for _, s := range sizes {
		if s > 0 {
			nonEmpty++
		}
	}
	if nonEmpty < 2 {
		return 0, fmt.Errorf("%w: silhouette needs two non-empty clusters", ErrInvalidClusterCount)
	}

	total := 0.0
	sums := make([]float64, k)
	for i := range x {
		for c := range sums {
			sums[c] = 0
		}
		for j := range x {
			if i == j {
				continue
			}
			sums[labels[j]] += math.Sqrt(sqDist(x[i], x[j]))
		}

		own := labels[i]
		if sizes[own] <= 1 {
			continue
		}
		a := sums[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for c, s := range sizes {
			if c == own || s == 0 {
				continue
			}
			b = math.Min(b, sums[c]/float64(s))
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n), nil
}
