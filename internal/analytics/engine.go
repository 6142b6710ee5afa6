package analytics

import (
	"errors"
	"fmt"
)

// Engine standardizes a feature matrix, partitions it, scores the partition
// and projects it to two dimensions. The three numeric stages are
// independent and can be swapped.
type Engine struct {
	Scaler      Scaler
	Partitioner Partitioner
	Reducer     Reducer
}

// NewEngine returns an engine using StandardScaler, seeded KMeans and PCA.
func NewEngine(km *KMeans) *Engine {
	if km == nil {
		km = NewKMeans()
	}
	return &Engine{
		Scaler:      StandardScaler{},
		Partitioner: km,
		Reducer:     NewPCA(),
	}
}

// Clustering is the output of one engine run.
type Clustering struct {
	Standardized [][]float64
	Partition    *Partition
	// Quality is the silhouette score, nil when it is undefined for the
	// partition (k <= 1, k >= rows, or fewer than two non-empty clusters).
	Quality   *float64
	Projected [][2]float64
}

// Cluster runs the engine on m with k clusters.
func (e *Engine) Cluster(m *FeatureMatrix, k int) (*Clustering, error) {
	n, _ := m.Shape()
	if n == 0 {
		return nil, fmt.Errorf("%w: no rows to cluster", ErrEmptyInput)
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: k must be in [1, %d], got %d", ErrInvalidClusterCount, n, k)
	}

	z, err := e.Scaler.FitTransform(m.Rows)
	if err != nil {
		return nil, fmt.Errorf("standardize: %w", err)
	}

	part, err := e.Partitioner.Partition(z, k)
	if err != nil {
		return nil, fmt.Errorf("partition: %w", err)
	}

	var quality *float64
	score, err := SilhouetteScore(z, part.Labels, k)
	switch {
	case err == nil:
		quality = &score
	case !errors.Is(err, ErrInvalidClusterCount):
		return nil, fmt.Errorf("silhouette: %w", err)
	}

	projected, err := e.Reducer.Reduce(z)
	if err != nil {
		return nil, fmt.Errorf("reduce: %w", err)
	}

	return &Clustering{
		Standardized: z,
		Partition:    part,
		Quality:      quality,
		Projected:    projected,
	}, nil
}
