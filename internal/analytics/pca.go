package analytics

import (
	"fmt"
	"math"
)

// Reducer projects rows onto two dimensions for plotting.
type Reducer interface {
	Reduce(x [][]float64) ([][2]float64, error)
}

// PCA projects centered rows onto the two leading eigenvectors of their
// covariance matrix, found by power iteration with deflation. Each component
// is sign-normalized so its largest-magnitude loading is positive.
type PCA struct {
	MaxIter int
	Tol     float64
}

// NewPCA returns a PCA with sensible iteration limits.
func NewPCA() *PCA {
	return &PCA{MaxIter: 1000, Tol: 1e-10}
}

// Reduce fits the components on x and returns the projection of every row.
// A second component that does not exist (one column, or no variance left)
// projects to 0.
func (p *PCA) Reduce(x [][]float64) ([][2]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, fmt.Errorf("%w: nothing to project", ErrEmptyInput)
	}
	d := len(x[0])

	mean := make([]float64, d)
	for _, row := range x {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}
	centered := make([][]float64, n)
	for i, row := range x {
		c := make([]float64, d)
		for j, v := range row {
			c[j] = v - mean[j]
		}
		centered[i] = c
	}

	cov := make([][]float64, d)
	for a := range cov {
		cov[a] = make([]float64, d)
	}
	for _, row := range centered {
		for a := 0; a < d; a++ {
			if row[a] == 0 {
				continue
			}
			for b := a; b < d; b++ {
				cov[a][b] += row[a] * row[b]
			}
		}
	}
	denom := float64(max(n-1, 1))
	for a := 0; a < d; a++ {
		for b := a; b < d; b++ {
			cov[a][b] /= denom
			cov[b][a] = cov[a][b]
		}
	}

	var components [2][]float64
	for c := 0; c < 2; c++ {
		vec, val := p.leadingEigen(cov)
		components[c] = vec
		if val == 0 {
			continue
		}
		for a := 0; a < d; a++ {
			for b := 0; b < d; b++ {
				cov[a][b] -= val * vec[a] * vec[b]
			}
		}
	}

	out := make([][2]float64, n)
	for i, row := range centered {
		for c := 0; c < 2; c++ {
			out[i][c] = dot(row, components[c])
		}
	}
	return out, nil
}

// leadingEigen returns the dominant eigenvector of the symmetric positive
// semi-definite matrix m and its eigenvalue. A zero matrix yields a zero
// vector and 0.
func (p *PCA) leadingEigen(m [][]float64) ([]float64, float64) {
	d := len(m)
	maxIter, tol := p.MaxIter, p.Tol
	if maxIter <= 0 {
		maxIter = 1000
	}
	if tol <= 0 {
		tol = 1e-10
	}

	// Uneven start so the iterate is not orthogonal to a symmetric
	// eigenvector by construction.
	v := make([]float64, d)
	for j := range v {
		v[j] = 1 + float64(j)/float64(d+1)
	}
	normalize(v)

	w := make([]float64, d)
	lambda := 0.0
	for it := 0; it < maxIter; it++ {
		for a := 0; a < d; a++ {
			w[a] = dot(m[a], v)
		}
		norm := math.Sqrt(dot(w, w))
		if norm < 1e-12 {
			return make([]float64, d), 0
		}
		delta := 0.0
		for j := range w {
			next := w[j] / norm
			delta += math.Abs(next - v[j])
			v[j] = next
		}
		lambda = norm
		if delta < tol {
			break
		}
	}

	big := 0
	for j := range v {
		if math.Abs(v[j]) > math.Abs(v[big]) {
			big = j
		}
	}
	if v[big] < 0 {
		for j := range v {
			v[j] = -v[j]
		}
	}
	return v, lambda
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func normalize(v []float64) {
	norm := math.Sqrt(dot(v, v))
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}
