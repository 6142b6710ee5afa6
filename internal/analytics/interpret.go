package analytics

import (
	"github.com/openchess/stats-api/internal/models"
)

// Interpretation is the human-readable view over a partition.
type Interpretation struct {
	Summary       []models.ClusterSummary
	Colors        []models.ClusterColor
	ProfileKey    []models.ClusterProfile
	DetailedStats []models.DetailedClusterStats
}

// Interpret builds every derived view for records partitioned by labels into
// k clusters. labels[i] belongs to records[i]. Nothing passed in is modified.
func Interpret(records []models.EntityFeatureRecord, labels []int, k int, xAxis, yAxis string) Interpretation {
	return Interpretation{
		Summary:       Summarize(records, labels, k, xAxis, yAxis),
		Colors:        ClusterColors(k),
		ProfileKey:    ProfileKey(records, labels, k, models.NumericColumns),
		DetailedStats: DetailedStats(records, labels, k),
	}
}

// Summarize returns the mean of the two axis features and the member count of
// every non-empty cluster, ordered by cluster id.
func Summarize(records []models.EntityFeatureRecord, labels []int, k int, xAxis, yAxis string) []models.ClusterSummary {
	xs := make([]float64, k)
	ys := make([]float64, k)
	counts := make([]int, k)
	for i := range records {
		l := labels[i]
		x, _ := records[i].Numeric(xAxis)
		y, _ := records[i].Numeric(yAxis)
		xs[l] += x
		ys[l] += y
		counts[l]++
	}

	out := make([]models.ClusterSummary, 0, k)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		n := float64(counts[c])
		out = append(out, models.ClusterSummary{
			Cluster:     c,
			XAxis:       xAxis,
			YAxis:       yAxis,
			XMean:       xs[c] / n,
			YMean:       ys[c] / n,
			PlayerCount: counts[c],
		})
	}
	return out
}

// ProfileKey labels each cluster High or Low per feature: High when the
// cluster mean is strictly above the mean over all records, Low otherwise.
// An empty cluster has mean 0 for every feature.
func ProfileKey(records []models.EntityFeatureRecord, labels []int, k int, features []string) []models.ClusterProfile {
	d := len(features)
	global := make([]float64, d)
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, d)
	}
	counts := make([]int, k)

	for i := range records {
		l := labels[i]
		counts[l]++
		for j, f := range features {
			v, _ := records[i].Numeric(f)
			global[j] += v
			sums[l][j] += v
		}
	}
	if len(records) > 0 {
		for j := range global {
			global[j] /= float64(len(records))
		}
	}

	out := make([]models.ClusterProfile, k)
	for c := 0; c < k; c++ {
		levels := make([]models.FeatureLevel, d)
		for j, f := range features {
			mean := 0.0
			if counts[c] > 0 {
				mean = sums[c][j] / float64(counts[c])
			}
			level := models.LevelLow
			if mean > global[j] {
				level = models.LevelHigh
			}
			levels[j] = models.FeatureLevel{
				Feature:     f,
				Level:       level,
				ClusterMean: mean,
				GlobalMean:  global[j],
			}
		}
		out[c] = models.ClusterProfile{Cluster: c, Levels: levels}
	}
	return out
}

// DetailedStats averages games, ratings and every variant and opening count
// over the members of each cluster. Labels a member never played count as 0.
func DetailedStats(records []models.EntityFeatureRecord, labels []int, k int) []models.DetailedClusterStats {
	variants := vocabulary(records, func(r *models.EntityFeatureRecord) models.CountMap { return r.Variants })
	openings := vocabulary(records, func(r *models.EntityFeatureRecord) models.CountMap { return r.Openings })

	type clusterAccum struct {
		members               int
		games, elo, opponents float64
		variants, openings    []float64
	}
	accs := make([]clusterAccum, k)
	for c := range accs {
		accs[c].variants = make([]float64, len(variants))
		accs[c].openings = make([]float64, len(openings))
	}

	for i := range records {
		r := &records[i]
		a := &accs[labels[i]]
		a.members++
		a.games += float64(r.Games)
		a.elo += r.AvgElo
		a.opponents += r.AvgOpponentElo
		for j, v := range variants {
			a.variants[j] += float64(r.Variants.Get(v))
		}
		for j, o := range openings {
			a.openings[j] += float64(r.Openings.Get(o))
		}
	}

	out := make([]models.DetailedClusterStats, k)
	for c, a := range accs {
		st := models.DetailedClusterStats{Cluster: c, Members: a.members}
		if a.members > 0 {
			n := float64(a.members)
			st.AvgGames = a.games / n
			st.AvgElo = a.elo / n
			st.AvgOpponentElo = a.opponents / n
			st.Variants = categoryAverages(variants, a.variants, n)
			st.Openings = categoryAverages(openings, a.openings, n)
		}
		out[c] = st
	}
	return out
}

func categoryAverages(labels []string, sums []float64, n float64) []models.CategoryAverage {
	if len(labels) == 0 {
		return nil
	}
	out := make([]models.CategoryAverage, len(labels))
	for j, l := range labels {
		out[j] = models.CategoryAverage{Label: l, Average: sums[j] / n}
	}
	return out
}
