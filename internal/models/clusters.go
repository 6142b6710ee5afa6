package models

import (
	"fmt"
	"time"
)

// ClusterMode selects how the feature matrix is built.
type ClusterMode string

const (
	// ModeFixed clusters on two named numeric columns.
	ModeFixed ClusterMode = "fixed"
	// ModeAllFeatures clusters on base columns plus one column per observed
	// variant and opening label.
	ModeAllFeatures ClusterMode = "all_features"
)

// Profile levels.
const (
	LevelHigh = "High"
	LevelLow  = "Low"
)

// ClusterRequest is the parameter set for one clustering run.
type ClusterRequest struct {
	NumClusters int         `json:"num_clusters" validate:"gte=1,lte=50"`
	Mode        ClusterMode `json:"mode" validate:"omitempty,oneof=fixed all_features"`
	XAxis       string      `json:"x_axis"`
	YAxis       string      `json:"y_axis"`
}

// WithDefaults fills unset fields with k=3, fixed mode and the
// avg_elo/avg_opponent_elo axes.
func (r ClusterRequest) WithDefaults() ClusterRequest {
	if r.NumClusters == 0 {
		r.NumClusters = 3
	}
	if r.Mode == "" {
		r.Mode = ModeFixed
	}
	if r.XAxis == "" {
		r.XAxis = ColumnAvgElo
	}
	if r.YAxis == "" {
		r.YAxis = ColumnAvgOpponentElo
	}
	return r
}

// CacheKey identifies the request for result memoization.
func (r ClusterRequest) CacheKey() string {
	return fmt.Sprintf("kmeans_%d_%s_%s_%s", r.NumClusters, r.Mode, r.XAxis, r.YAxis)
}

// PlayerCluster is a feature record with its assigned cluster and 2-D
// projection.
type PlayerCluster struct {
	EntityFeatureRecord
	Cluster int     `json:"cluster"`
	Dim1    float64 `json:"dim1"`
	Dim2    float64 `json:"dim2"`
}

// ClusterSummary is the per-cluster mean of the two axis features.
type ClusterSummary struct {
	Cluster     int     `json:"cluster"`
	XAxis       string  `json:"x_axis"`
	YAxis       string  `json:"y_axis"`
	XMean       float64 `json:"x_mean"`
	YMean       float64 `json:"y_mean"`
	PlayerCount int     `json:"player_count"`
}

// ClusterColor is the display color of one cluster.
type ClusterColor struct {
	Cluster int    `json:"cluster"`
	Hex     string `json:"hex"`
}

// FeatureLevel flags a cluster mean against the global mean.
type FeatureLevel struct {
	Feature     string  `json:"feature"`
	Level       string  `json:"level"`
	ClusterMean float64 `json:"cluster_mean"`
	GlobalMean  float64 `json:"global_mean"`
}

// ClusterProfile is the High/Low key of one cluster.
type ClusterProfile struct {
	Cluster int            `json:"cluster"`
	Levels  []FeatureLevel `json:"levels"`
}

// CategoryAverage is the mean per-member count of one label in a cluster.
type CategoryAverage struct {
	Label   string  `json:"label"`
	Average float64 `json:"average"`
}

// DetailedClusterStats are the per-cluster averages of the base features and
// label counts.
type DetailedClusterStats struct {
	Cluster        int               `json:"cluster"`
	Members        int               `json:"members"`
	AvgGames       float64           `json:"avg_games"`
	AvgElo         float64           `json:"avg_elo"`
	AvgOpponentElo float64           `json:"avg_opponent_elo"`
	Variants       []CategoryAverage `json:"variants,omitempty"`
	Openings       []CategoryAverage `json:"openings,omitempty"`
}

// ClusterResult is everything one clustering run produces.
type ClusterResult struct {
	RunID              string                 `json:"run_id"`
	NumClusters        int                    `json:"num_clusters"`
	Mode               ClusterMode            `json:"mode"`
	XAxis              string                 `json:"x_axis"`
	YAxis              string                 `json:"y_axis"`
	Columns            []string               `json:"columns"`
	Clusters           []int                  `json:"clusters"`
	Centroids          [][]float64            `json:"centroids"`
	SilhouetteScore    *float64               `json:"silhouette_score"`
	ProjectedCoords    [][2]float64           `json:"projected_coords"`
	DimensionReduction string                 `json:"dimension_reduction"`
	Iterations         int                    `json:"iterations"`
	Inertia            float64                `json:"inertia"`
	PlayerFeatures     []PlayerCluster        `json:"player_features"`
	Summary            []ClusterSummary       `json:"cluster_summary"`
	Colors             []ClusterColor         `json:"colors"`
	ProfileKey         []ClusterProfile       `json:"profile_key"`
	DetailedStats      []DetailedClusterStats `json:"detailed_stats"`
	GeneratedAt        time.Time              `json:"generated_at"`
}

// ClusterRun is the history row written for every computed result.
type ClusterRun struct {
	ID              string      `json:"id"`
	NumClusters     int         `json:"num_clusters"`
	Mode            ClusterMode `json:"mode"`
	XAxis           string      `json:"x_axis"`
	YAxis           string      `json:"y_axis"`
	Entities        int         `json:"entities"`
	Features        int         `json:"features"`
	SilhouetteScore *float64    `json:"silhouette_score"`
	Iterations      int         `json:"iterations"`
	DurationMs      int64       `json:"duration_ms"`
	CreatedAt       time.Time   `json:"created_at"`
}
