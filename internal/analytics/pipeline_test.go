package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openchess/stats-api/internal/models"
)

func outlierRecords() []models.EntityFeatureRecord {
	return []models.EntityFeatureRecord{
		record("low1", 10, 1500, 1490),
		record("low2", 12, 1510, 1480),
		record("high", 500, 2400, 2390),
	}
}

func TestEngine_SeparatesOutlier(t *testing.T) {
	m, err := BuildAllFeaturesMatrix(outlierRecords())
	require.NoError(t, err)

	c, err := NewEngine(nil).Cluster(m, 2)
	require.NoError(t, err)

	labels := c.Partition.Labels
	assert.Equal(t, labels[0], labels[1])
	assert.NotEqual(t, labels[0], labels[2])
	assert.Equal(t, 1, c.Partition.Sizes()[labels[2]])
	require.NotNil(t, c.Quality)
	assert.Greater(t, *c.Quality, 0.0)
	assert.Len(t, c.Projected, 3)
	assert.Len(t, c.Partition.Centroids, 2)
}

func TestEngine_SingleClusterHasNoQuality(t *testing.T) {
	m, err := BuildFixedMatrix(outlierRecords(), models.ColumnAvgElo, models.ColumnAvgOpponentElo)
	require.NoError(t, err)

	c, err := NewEngine(nil).Cluster(m, 1)
	require.NoError(t, err)

	assert.Nil(t, c.Quality)
	assert.Equal(t, []int{0, 0, 0}, c.Partition.Labels)
}

func TestEngine_InvalidClusterCount(t *testing.T) {
	m, err := BuildFixedMatrix(outlierRecords(), models.ColumnAvgElo, models.ColumnAvgOpponentElo)
	require.NoError(t, err)

	for _, k := range []int{0, 4} {
		_, err := NewEngine(nil).Cluster(m, k)
		assert.ErrorIs(t, err, ErrInvalidClusterCount, "k=%d", k)
	}
}

func TestEngine_Deterministic(t *testing.T) {
	recs := AggregateFeatures(sampleLog())
	m, err := BuildAllFeaturesMatrix(recs)
	require.NoError(t, err)

	a, err := NewEngine(nil).Cluster(m, 2)
	require.NoError(t, err)
	b, err := NewEngine(nil).Cluster(m, 2)
	require.NoError(t, err)

	assert.Equal(t, a.Partition.Labels, b.Partition.Labels)
	assert.Equal(t, a.Partition.Centroids, b.Partition.Centroids)
	assert.Equal(t, a.Projected, b.Projected)
}

func TestProfileKey_EqualityIsLow(t *testing.T) {
	recs := []models.EntityFeatureRecord{
		record("a", 10, 1500, 1500),
		record("b", 10, 1700, 1500),
		record("c", 10, 1300, 1500),
	}
	// Cluster 0 = {a}: its avg_elo equals the global mean of 1500.
	keys := ProfileKey(recs, []int{0, 1, 1}, 2, []string{models.ColumnGames, models.ColumnAvgElo})
	require.Len(t, keys, 2)

	for _, k := range keys {
		for _, lvl := range k.Levels {
			assert.Equal(t, models.LevelLow, lvl.Level, "cluster %d %s", k.Cluster, lvl.Feature)
		}
	}
	assert.Equal(t, 1500.0, keys[0].Levels[1].ClusterMean)
	assert.Equal(t, 1500.0, keys[0].Levels[1].GlobalMean)

	keys = ProfileKey(recs, []int{1, 0, 1}, 2, []string{models.ColumnAvgElo})
	assert.Equal(t, models.LevelHigh, keys[0].Levels[0].Level)
	assert.Equal(t, models.LevelLow, keys[1].Levels[0].Level)
}

func TestSummarize_SkipsEmptyClusters(t *testing.T) {
	recs := outlierRecords()
	got := Summarize(recs, []int{0, 0, 2}, 3, models.ColumnAvgElo, models.ColumnGames)
	require.Len(t, got, 2)

	assert.Equal(t, models.ClusterSummary{Cluster: 0, XAxis: "avg_elo", YAxis: "games", XMean: 1505, YMean: 11, PlayerCount: 2}, got[0])
	assert.Equal(t, 2, got[1].Cluster)
	assert.Equal(t, 1, got[1].PlayerCount)
}

func TestDetailedStats_AveragesWithZeroFill(t *testing.T) {
	a := record("a", 4, 1500, 1500)
	a.Openings.Add("Italian Game", 4)
	b := record("b", 2, 1600, 1400)
	b.Openings.Add("Ruy Lopez", 2)
	c := record("c", 6, 2000, 2000)
	c.Openings.Add("Italian Game", 6)

	got := DetailedStats([]models.EntityFeatureRecord{a, b, c}, []int{0, 0, 1}, 3)
	require.Len(t, got, 3)

	assert.Equal(t, 2, got[0].Members)
	assert.Equal(t, 3.0, got[0].AvgGames)
	assert.Equal(t, 1550.0, got[0].AvgElo)
	assert.Equal(t, 1450.0, got[0].AvgOpponentElo)
	assert.Equal(t, []models.CategoryAverage{{Label: "Italian Game", Average: 2}, {Label: "Ruy Lopez", Average: 1}}, got[0].Openings)
	assert.Empty(t, got[0].Variants)

	assert.Equal(t, []models.CategoryAverage{{Label: "Italian Game", Average: 6}, {Label: "Ruy Lopez", Average: 0}}, got[1].Openings)

	assert.Equal(t, 0, got[2].Members)
	assert.Nil(t, got[2].Openings)
}

func TestCluster_EndToEnd(t *testing.T) {
	res, err := Cluster(outlierRecords(), models.ClusterRequest{NumClusters: 2, Mode: models.ModeAllFeatures}, Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "pca", res.DimensionReduction)
	assert.Equal(t, models.ColumnAvgElo, res.XAxis)
	assert.Equal(t, models.ColumnAvgOpponentElo, res.YAxis)
	assert.Equal(t, []string{"games", "avg_elo", "avg_opponent_elo"}, res.Columns)
	require.Len(t, res.PlayerFeatures, 3)
	assert.Equal(t, res.Clusters[2], res.PlayerFeatures[2].Cluster)
	assert.Equal(t, res.ProjectedCoords[1][0], res.PlayerFeatures[1].Dim1)
	assert.Len(t, res.Colors, 2)
	assert.Len(t, res.ProfileKey, 2)
	assert.Len(t, res.DetailedStats, 2)
	require.Len(t, res.Summary, 2)

	outlier := res.Summary[0]
	if outlier.PlayerCount != 1 {
		outlier = res.Summary[1]
	}
	assert.Equal(t, 1, outlier.PlayerCount)
	assert.Equal(t, 2400.0, outlier.XMean)
}

func TestCluster_Defaults(t *testing.T) {
	recs := AggregateFeatures(sampleLog())
	res, err := Cluster(recs, models.ClusterRequest{}, Options{NInit: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, res.NumClusters)
	assert.Equal(t, models.ModeFixed, res.Mode)
	assert.Equal(t, []string{"avg_elo", "avg_opponent_elo"}, res.Columns)
}

func TestCluster_Errors(t *testing.T) {
	recs := outlierRecords()
	tests := []struct {
		name string
		req  models.ClusterRequest
		recs []models.EntityFeatureRecord
		want error
		kind string
	}{
		{name: "bad axis", req: models.ClusterRequest{NumClusters: 2, XAxis: "elo"}, recs: recs, want: ErrInvalidAxis, kind: "InvalidAxis"},
		{name: "too many clusters", req: models.ClusterRequest{NumClusters: 4}, recs: recs, want: ErrInvalidClusterCount, kind: "InvalidClusterCount"},
		{name: "no players", req: models.ClusterRequest{NumClusters: 2}, want: ErrEmptyInput, kind: "EmptyInput"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Cluster(tt.recs, tt.req, Options{})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.kind, ErrorKind(err))
			assert.True(t, IsValidation(err))
		})
	}
}

func TestRun_ClusterAndProfile(t *testing.T) {
	run, err := NewRun(context.Background(), sampleLog(), Options{Shards: 2})
	require.NoError(t, err)
	require.Len(t, run.Features, 4)

	res, err := run.Cluster(models.ClusterRequest{NumClusters: 2})
	require.NoError(t, err)
	assert.Len(t, res.Clusters, 4)

	again, err := run.Cluster(models.ClusterRequest{NumClusters: 2})
	require.NoError(t, err)
	assert.Equal(t, res.Clusters, again.Clusters)

	p, err := run.Profile("alice")
	require.NoError(t, err)
	assert.Equal(t, 3, p.TotalGames)

	_, err = run.Profile("nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.Equal(t, "PlayerNotFound", ErrorKind(err))
	assert.False(t, IsValidation(err))
}
