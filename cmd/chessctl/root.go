package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openchess/stats-api/internal/models"
	"github.com/openchess/stats-api/internal/pgn"
)

var (
	pgnPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "chessctl",
	Short: "Chess match analytics tool",
	Long:  "Cluster players and build player profiles from a PGN match log.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&pgnPath, "pgn", "", "path to a PGN file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress")
	_ = rootCmd.MarkPersistentFlagRequired("pgn")

	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(topCmd)
}

// loadMatches reads every usable game from the --pgn file and reports how
// many were skipped.
func loadMatches() ([]models.MatchRecord, error) {
	f, err := os.Open(pgnPath)
	if err != nil {
		return nil, fmt.Errorf("open pgn: %w", err)
	}
	defer f.Close()

	r := pgn.NewReader(f)
	var matches []models.MatchRecord
	for {
		m, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read pgn: %w", err)
		}
		matches = append(matches, *m)
	}

	if skipped := r.SkippedTotal(); skipped > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d unusable games\n", skipped)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no usable games in %s", pgnPath)
	}
	return matches, nil
}

func newLogger() *zap.SugaredLogger {
	if !verbose {
		return zap.NewNop().Sugar()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

func newTable() *tablewriter.Table {
	return tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func section(title string) {
	fmt.Printf("\n%s\n", title)
}
