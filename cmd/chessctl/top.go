package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openchess/stats-api/internal/analytics"
)

var (
	topN        int
	topMinGames int
)

// topCmd lists the most active players and the players above a games threshold.
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "List the most active players",
	Args:  cobra.NoArgs,
	RunE:  runTop,
}

func init() {
	topCmd.Flags().IntVar(&topN, "n", 5, "players to list")
	topCmd.Flags().IntVar(&topMinGames, "min-games", 50, "games needed to rank as a top player")
}

func runTop(cmd *cobra.Command, args []string) error {
	matches, err := loadMatches()
	if err != nil {
		return err
	}

	section("MOST ACTIVE")
	at := newTable()
	at.Header("#", "PLAYER", "GAMES")
	for i, a := range analytics.MostActivePlayers(matches, topN) {
		at.Append(fmt.Sprintf("%d", i+1), a.Username, fmt.Sprintf("%d", a.Games))
	}
	at.Render()

	top, err := analytics.TopPlayers(matches, topMinGames)
	if err != nil {
		return err
	}

	section(fmt.Sprintf("TOP PLAYERS (%d+ GAMES)", topMinGames))
	if len(top) == 0 {
		fmt.Println("(none)")
		return nil
	}
	tt := newTable()
	tt.Header("PLAYER", "GAMES", "WIN%", "AVG RATING", "AVG OPP")
	for _, p := range top {
		tt.Append(
			p.Username,
			fmt.Sprintf("%d", p.TotalGames),
			fmt.Sprintf("%.1f", p.WinPercentage),
			fmt.Sprintf("%d", p.AverageRating),
			fmt.Sprintf("%.1f", p.AverageOpponentRating),
		)
	}
	tt.Render()
	return nil
}
