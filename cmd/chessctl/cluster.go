package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openchess/stats-api/internal/analytics"
	"github.com/openchess/stats-api/internal/models"
)

var (
	clusterK     int
	clusterMode  string
	clusterXAxis string
	clusterYAxis string
	clusterSeed  int64
)

// clusterCmd groups the players of a PGN file with k-means.
var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Cluster players by rating features",
	Long: `Aggregate every player in the PGN file, cluster them with k-means and
print the cluster summary, the High/Low profile key, the cluster colors and
the per-cluster variant and opening averages.`,
	Args: cobra.NoArgs,
	RunE: runCluster,
}

func init() {
	clusterCmd.Flags().IntVar(&clusterK, "k", 3, "number of clusters")
	clusterCmd.Flags().StringVar(&clusterMode, "mode", string(models.ModeFixed), "fixed or all_features")
	clusterCmd.Flags().StringVar(&clusterXAxis, "x", models.ColumnAvgElo, "x axis column")
	clusterCmd.Flags().StringVar(&clusterYAxis, "y", models.ColumnAvgOpponentElo, "y axis column")
	clusterCmd.Flags().Int64Var(&clusterSeed, "seed", 42, "k-means seed")
}

func runCluster(cmd *cobra.Command, args []string) error {
	matches, err := loadMatches()
	if err != nil {
		return err
	}

	run, err := analytics.NewRun(context.Background(), matches, analytics.Options{
		Seed:   clusterSeed,
		Logger: newLogger(),
	})
	if err != nil {
		return err
	}

	res, err := run.Cluster(models.ClusterRequest{
		NumClusters: clusterK,
		Mode:        models.ClusterMode(clusterMode),
		XAxis:       clusterXAxis,
		YAxis:       clusterYAxis,
	})
	if err != nil {
		if kind := analytics.ErrorKind(err); kind != "" {
			return fmt.Errorf("%s: %w", kind, err)
		}
		return err
	}

	fmt.Printf("%d players, %d features, k=%d, %d iterations, inertia %.3f",
		len(res.PlayerFeatures), len(res.Columns), res.NumClusters, res.Iterations, res.Inertia)
	if res.SilhouetteScore != nil {
		fmt.Printf(", silhouette %.3f", *res.SilhouetteScore)
	}
	fmt.Println()

	printSummary(res)
	printProfileKey(res)
	printDetailedStats(res)
	return nil
}

func printSummary(res *models.ClusterResult) {
	if len(res.Summary) == 0 {
		return
	}
	section("CLUSTERS")
	colors := make(map[int]string, len(res.Colors))
	for _, c := range res.Colors {
		colors[c.Cluster] = c.Hex
	}

	t := newTable()
	t.Header("CLUSTER", "COLOR", "PLAYERS", strings.ToUpper(res.Summary[0].XAxis), strings.ToUpper(res.Summary[0].YAxis))
	for _, s := range res.Summary {
		t.Append(
			fmt.Sprintf("%d", s.Cluster),
			colors[s.Cluster],
			fmt.Sprintf("%d", s.PlayerCount),
			fmt.Sprintf("%.1f", s.XMean),
			fmt.Sprintf("%.1f", s.YMean),
		)
	}
	t.Render()
}

func printProfileKey(res *models.ClusterResult) {
	if len(res.ProfileKey) == 0 {
		return
	}
	section("PROFILE KEY")

	header := []any{"CLUSTER"}
	for _, l := range res.ProfileKey[0].Levels {
		header = append(header, strings.ToUpper(l.Feature))
	}
	t := newTable()
	t.Header(header...)
	for _, p := range res.ProfileKey {
		row := []any{fmt.Sprintf("%d", p.Cluster)}
		for _, l := range p.Levels {
			row = append(row, fmt.Sprintf("%s (%.1f)", l.Level, l.ClusterMean))
		}
		t.Append(row...)
	}
	t.Render()
}

func printDetailedStats(res *models.ClusterResult) {
	section("DETAILED STATS")
	t := newTable()
	t.Header("CLUSTER", "MEMBERS", "AVG GAMES", "AVG ELO", "AVG OPP ELO", "TOP VARIANT", "TOP OPENING")
	for _, d := range res.DetailedStats {
		t.Append(
			fmt.Sprintf("%d", d.Cluster),
			fmt.Sprintf("%d", d.Members),
			fmt.Sprintf("%.1f", d.AvgGames),
			fmt.Sprintf("%.1f", d.AvgElo),
			fmt.Sprintf("%.1f", d.AvgOpponentElo),
			topCategory(d.Variants),
			topCategory(d.Openings),
		)
	}
	t.Render()
}

// topCategory names the label with the highest average, first on ties.
func topCategory(avgs []models.CategoryAverage) string {
	best := -1
	for i, a := range avgs {
		if best < 0 || a.Average > avgs[best].Average {
			best = i
		}
	}
	if best < 0 || avgs[best].Average == 0 {
		return "-"
	}
	return fmt.Sprintf("%s (%.2f)", avgs[best].Label, avgs[best].Average)
}
