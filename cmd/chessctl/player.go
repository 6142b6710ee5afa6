package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openchess/stats-api/internal/analytics"
)

var playerOpenings int

// playerCmd prints the statistical profile of one player.
var playerCmd = &cobra.Command{
	Use:   "player <username>",
	Short: "Show a player's profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().IntVar(&playerOpenings, "openings", 10, "openings to list")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	matches, err := loadMatches()
	if err != nil {
		return err
	}

	p, err := analytics.BuildPlayerProfile(matches, args[0])
	if err != nil {
		return err
	}

	section("PROFILE")
	t := newTable()
	t.Header("PLAYER", "GAMES", "W", "L", "D", "WIN%", "AVG RATING", "AVG OPP", "RIVAL")
	t.Append(
		p.Username,
		fmt.Sprintf("%d", p.TotalGames),
		fmt.Sprintf("%d", p.Wins),
		fmt.Sprintf("%d", p.Losses),
		fmt.Sprintf("%d", p.Draws),
		fmt.Sprintf("%.1f", p.WinPercentage),
		fmt.Sprintf("%d", p.AverageRating),
		fmt.Sprintf("%.1f", p.AverageOpponentRating),
		p.MostCommonOpponent,
	)
	t.Render()

	section("VS RATING")
	rt := newTable()
	rt.Header("OPPONENT", "WINS", "LOSSES")
	rt.Append("higher rated", fmt.Sprintf("%d", p.HigherEloWins), fmt.Sprintf("%d", p.HigherEloLosses))
	rt.Append("lower rated", fmt.Sprintf("%d", p.LowerEloWins), fmt.Sprintf("%d", p.LowerEloLosses))
	rt.Render()

	winRates := make(map[string]float64, len(p.OpeningWinRates))
	for _, o := range p.OpeningWinRates {
		winRates[o.Name] = o.WinRate
	}

	section("OPENINGS")
	ot := newTable()
	ot.Header("OPENING", "GAMES", "WIN%")
	for i, o := range p.MostCommonOpenings {
		if i >= playerOpenings {
			break
		}
		ot.Append(o.Name, fmt.Sprintf("%d", o.Count), fmt.Sprintf("%.1f", winRates[o.Name]))
	}
	ot.Render()
	return nil
}
