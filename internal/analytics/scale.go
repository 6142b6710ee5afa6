package analytics

import (
	"fmt"
	"math"
)

// Scaler transforms a matrix column-wise before clustering.
type Scaler interface {
	FitTransform(x [][]float64) ([][]float64, error)
}

// StandardScaler maps every column to zero mean and unit population
// variance. Columns with zero variance map to all zeros.
type StandardScaler struct{}

// FitTransform standardizes x with its own per-column mean and standard
// deviation and returns the result as a new matrix.
func (StandardScaler) FitTransform(x [][]float64) ([][]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: nothing to standardize", ErrEmptyInput)
	}
	n, d := len(x), len(x[0])

	mean := make([]float64, d)
	for _, row := range x {
		if len(row) != d {
			return nil, fmt.Errorf("%w: ragged row of width %d, want %d", ErrInvalidFeatureColumn, len(row), d)
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	scale := make([]float64, d)
	for _, row := range x {
		for j, v := range row {
			diff := v - mean[j]
			scale[j] += diff * diff
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / float64(n))
		// Rounding in the mean of a constant column leaves a residue of a
		// few ulps; anything that small is zero variance.
		if scale[j] <= 10*epsilon*math.Abs(mean[j]) || constantColumn(x, j) {
			scale[j] = 0
		}
	}

	out := make([][]float64, n)
	for i, row := range x {
		z := make([]float64, d)
		for j, v := range row {
			if scale[j] == 0 {
				continue
			}
			z[j] = (v - mean[j]) / scale[j]
		}
		out[i] = z
	}
	return out, nil
}

const epsilon = 2.220446049250313e-16

func constantColumn(x [][]float64, j int) bool {
	first := x[0][j]
	for _, row := range x[1:] {
		if row[j] != first {
			return false
		}
	}
	return true
}
