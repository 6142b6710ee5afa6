package analytics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScaler_ConstantColumnIsZero(t *testing.T) {
	x := [][]float64{{1500.1, 1}, {1500.1, 2}, {1500.1, 3}}

	z, err := StandardScaler{}.FitTransform(x)
	require.NoError(t, err)

	for i := range z {
		assert.Equal(t, 0.0, z[i][0])
	}
	assert.InDelta(t, -math.Sqrt(1.5), z[0][1], 1e-12)
	assert.InDelta(t, 0, z[1][1], 1e-12)
	assert.InDelta(t, math.Sqrt(1.5), z[2][1], 1e-12)
}

func TestStandardScaler_UnitVariance(t *testing.T) {
	x := [][]float64{{10, 1500}, {12, 1510}, {500, 2400}, {40, 1700}}
	z, err := StandardScaler{}.FitTransform(x)
	require.NoError(t, err)

	for j := 0; j < 2; j++ {
		mean, sq := 0.0, 0.0
		for i := range z {
			mean += z[i][j]
		}
		mean /= float64(len(z))
		for i := range z {
			sq += (z[i][j] - mean) * (z[i][j] - mean)
		}
		assert.InDelta(t, 0, mean, 1e-12)
		assert.InDelta(t, 1, sq/float64(len(z)), 1e-12)
	}
	assert.Equal(t, 10.0, x[0][0], "input must not be modified")
}

func TestStandardScaler_Errors(t *testing.T) {
	_, err := StandardScaler{}.FitTransform(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = StandardScaler{}.FitTransform([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrInvalidFeatureColumn)
}

func TestKMeans_SeparatesObviousGroups(t *testing.T) {
	x := [][]float64{
		{0, 0}, {0.1, 0.2}, {-0.1, 0.1},
		{5, 5}, {5.2, 4.9}, {4.8, 5.1},
		{-5, 5}, {-5.1, 4.8},
	}

	p, err := NewKMeans().Partition(x, 3)
	require.NoError(t, err)

	assert.Equal(t, p.Labels[0], p.Labels[1])
	assert.Equal(t, p.Labels[0], p.Labels[2])
	assert.Equal(t, p.Labels[3], p.Labels[4])
	assert.Equal(t, p.Labels[3], p.Labels[5])
	assert.Equal(t, p.Labels[6], p.Labels[7])
	assert.NotEqual(t, p.Labels[0], p.Labels[3])
	assert.NotEqual(t, p.Labels[0], p.Labels[6])
	assert.NotEqual(t, p.Labels[3], p.Labels[6])
	assert.ElementsMatch(t, []int{3, 3, 2}, p.Sizes())
	assert.Len(t, p.Centroids, 3)
	assert.Greater(t, p.Iterations, 0)
}

func TestKMeans_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	x := make([][]float64, 60)
	for i := range x {
		x[i] = []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
	}

	first, err := NewKMeans().Partition(x, 4)
	require.NoError(t, err)
	second, err := NewKMeans().Partition(x, 4)
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, first.Centroids, second.Centroids)
	assert.Equal(t, first.Inertia, second.Inertia)
}

func TestKMeans_SingleCluster(t *testing.T) {
	x := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	p, err := NewKMeans().Partition(x, 1)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0}, p.Labels)
	assert.InDeltaSlice(t, []float64{3, 4}, p.Centroids[0], 1e-12)
}

func TestKMeans_InvalidK(t *testing.T) {
	x := [][]float64{{1}, {2}}
	for _, k := range []int{0, -1, 3} {
		_, err := NewKMeans().Partition(x, k)
		assert.ErrorIs(t, err, ErrInvalidClusterCount, "k=%d", k)
	}
	_, err := NewKMeans().Partition(nil, 1)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestKMeans_DuplicateRows(t *testing.T) {
	x := [][]float64{{1, 1}, {1, 1}, {1, 1}}
	p, err := NewKMeans().Partition(x, 2)
	require.NoError(t, err)
	assert.Len(t, p.Labels, 3)
	assert.Equal(t, 0.0, p.Inertia)
}

func TestSilhouetteScore(t *testing.T) {
	x := [][]float64{{0}, {1}, {10}, {11}}
	got, err := SilhouetteScore(x, []int{0, 0, 1, 1}, 2)
	require.NoError(t, err)

	want := (9.5/10.5 + 8.5/9.5) / 2
	assert.InDelta(t, want, got, 1e-12)
}

func TestSilhouetteScore_Undefined(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}}
	tests := []struct {
		name   string
		labels []int
		k      int
	}{
		{name: "single cluster", labels: []int{0, 0, 0}, k: 1},
		{name: "k equals rows", labels: []int{0, 1, 2}, k: 3},
		{name: "one non-empty cluster", labels: []int{1, 1, 1}, k: 2},
		{name: "label out of range", labels: []int{0, 2, 1}, k: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SilhouetteScore(x, tt.labels, tt.k)
			assert.ErrorIs(t, err, ErrInvalidClusterCount)
		})
	}
}

func TestPCA_PreservesDistancesInTwoDimensions(t *testing.T) {
	x := [][]float64{{1, 2}, {3, 1}, {4, 5}, {0, 0}, {2, 3}}
	got, err := NewPCA().Reduce(x)
	require.NoError(t, err)
	require.Len(t, got, len(x))

	// With two input columns the projection is a rotation of the centered
	// data, so every row keeps its distance from the mean.
	mx, my := 2.0, 2.2
	for i, row := range x {
		dx, dy := row[0]-mx, row[1]-my
		assert.InDelta(t, dx*dx+dy*dy, got[i][0]*got[i][0]+got[i][1]*got[i][1], 1e-6)
	}

	var v0, v1 float64
	for _, p := range got {
		v0 += p[0] * p[0]
		v1 += p[1] * p[1]
	}
	assert.GreaterOrEqual(t, v0, v1, "first component carries the most variance")
}

func TestPCA_SingleColumn(t *testing.T) {
	got, err := NewPCA().Reduce([][]float64{{1}, {2}, {3}})
	require.NoError(t, err)

	assert.InDelta(t, -1, got[0][0], 1e-9)
	assert.InDelta(t, 0, got[1][0], 1e-9)
	assert.InDelta(t, 1, got[2][0], 1e-9)
	for _, p := range got {
		assert.Equal(t, 0.0, p[1])
	}
}

func TestPCA_Deterministic(t *testing.T) {
	x := [][]float64{{1, 0, 2}, {0, 1, 1}, {3, 3, 0}, {2, 1, 5}}
	a, err := NewPCA().Reduce(x)
	require.NoError(t, err)
	b, err := NewPCA().Reduce(x)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestClusterColors(t *testing.T) {
	a := ClusterColors(4)
	b := ClusterColors(4)
	require.Len(t, a, 4)
	assert.Equal(t, a, b)

	seen := map[string]bool{}
	for i, c := range a {
		assert.Equal(t, i, c.Cluster)
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c.Hex)
		seen[c.Hex] = true
	}
	assert.Len(t, seen, 4)

	// The midpoint of an odd palette is the middle viridis stop.
	assert.Equal(t, "#21918c", ClusterColors(1)[0].Hex)
}
