package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openchess/stats-api/internal/models"
)

// Options tune one pipeline run. Zero values fall back to the package
// defaults.
type Options struct {
	MaxIter int
	NInit   int
	Seed    int64
	// Shards > 1 aggregates the match log in parallel.
	Shards int
	Logger *zap.SugaredLogger
}

func (o Options) kmeans() *KMeans {
	km := NewKMeans()
	if o.MaxIter > 0 {
		km.MaxIter = o.MaxIter
	}
	if o.NInit > 0 {
		km.NInit = o.NInit
	}
	if o.Seed != 0 {
		km.Seed = o.Seed
	}
	return km
}

func (o Options) logger() *zap.SugaredLogger {
	if o.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return o.Logger
}

// Run holds one materialized match log and the feature table derived from
// it. A Run is read-only after NewRun returns, so Cluster may be called
// concurrently with different requests.
type Run struct {
	Matches  []models.MatchRecord
	Features []models.EntityFeatureRecord

	engine *Engine
	logger *zap.SugaredLogger
}

// NewRun aggregates matches into per-player features.
func NewRun(ctx context.Context, matches []models.MatchRecord, opts Options) (*Run, error) {
	features, err := AggregateFeaturesParallel(ctx, matches, opts.Shards)
	if err != nil {
		return nil, fmt.Errorf("aggregate features: %w", err)
	}
	log := opts.logger()
	log.Debugw("Aggregated features", "matches", len(matches), "players", len(features))

	return &Run{
		Matches:  matches,
		Features: features,
		engine:   NewEngine(opts.kmeans()),
		logger:   log,
	}, nil
}

// Cluster runs the clustering pipeline for req over the run's features.
func (r *Run) Cluster(req models.ClusterRequest) (*models.ClusterResult, error) {
	return clusterWith(r.engine, r.logger, r.Features, req)
}

// Profile builds the profile of one player from the run's matches.
func (r *Run) Profile(username string) (*models.PlayerProfile, error) {
	return BuildPlayerProfile(r.Matches, username)
}

// Cluster partitions features per req and interprets the partition. Unset
// request fields take the ClusterRequest defaults.
func Cluster(features []models.EntityFeatureRecord, req models.ClusterRequest, opts Options) (*models.ClusterResult, error) {
	return clusterWith(NewEngine(opts.kmeans()), opts.logger(), features, req)
}

func clusterWith(engine *Engine, log *zap.SugaredLogger, features []models.EntityFeatureRecord, req models.ClusterRequest) (*models.ClusterResult, error) {
	req = req.WithDefaults()

	m, err := BuildMatrix(features, req.Mode, req.XAxis, req.YAxis)
	if err != nil {
		return nil, err
	}
	rows, cols := m.Shape()
	log.Debugw("Built feature matrix", "mode", req.Mode, "rows", rows, "columns", cols)

	c, err := engine.Cluster(m, req.NumClusters)
	if err != nil {
		return nil, err
	}

	xAxis, yAxis := req.XAxis, req.YAxis
	if req.Mode == models.ModeAllFeatures {
		xAxis, yAxis = models.ColumnAvgElo, models.ColumnAvgOpponentElo
	}

	labels := c.Partition.Labels
	view := Interpret(features, labels, req.NumClusters, xAxis, yAxis)

	players := make([]models.PlayerCluster, len(features))
	for i := range features {
		players[i] = models.PlayerCluster{
			EntityFeatureRecord: features[i],
			Cluster:             labels[i],
			Dim1:                c.Projected[i][0],
			Dim2:                c.Projected[i][1],
		}
	}

	if c.Quality != nil {
		log.Debugw("Clustered players", "k", req.NumClusters, "iterations", c.Partition.Iterations, "silhouette", *c.Quality)
	} else {
		log.Debugw("Clustered players", "k", req.NumClusters, "iterations", c.Partition.Iterations)
	}

	return &models.ClusterResult{
		RunID:              uuid.NewString(),
		NumClusters:        req.NumClusters,
		Mode:               req.Mode,
		XAxis:              xAxis,
		YAxis:              yAxis,
		Columns:            m.Columns,
		Clusters:           labels,
		Centroids:          c.Partition.Centroids,
		SilhouetteScore:    c.Quality,
		ProjectedCoords:    c.Projected,
		DimensionReduction: "pca",
		Iterations:         c.Partition.Iterations,
		Inertia:            c.Partition.Inertia,
		PlayerFeatures:     players,
		Summary:            view.Summary,
		Colors:             view.Colors,
		ProfileKey:         view.ProfileKey,
		DetailedStats:      view.DetailedStats,
		GeneratedAt:        time.Now().UTC(),
	}, nil
}
