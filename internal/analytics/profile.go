package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/openchess/stats-api/internal/models"
)

// BuildPlayerProfile computes the statistical profile of username over the
// matches it played. It fails with ErrPlayerNotFound when there are none.
func BuildPlayerProfile(matches []models.MatchRecord, username string) (*models.PlayerProfile, error) {
	p := &models.PlayerProfile{Username: username, GameLengths: []int{}}

	var (
		ratingSum, oppSum float64
		openingWins       models.CountMap
		opponents         models.CountMap
		higherGames       int
		lowerGames        int
	)

	for i := range matches {
		m := &matches[i]
		if !m.Involves(username) {
			continue
		}
		p.TotalGames++

		outcome := m.OutcomeFor(username)
		switch outcome {
		case models.OutcomeWin:
			p.Wins++
		case models.OutcomeLoss:
			p.Losses++
		default:
			p.Draws++
		}

		own, opp := m.Ratings(username)
		ratingSum += float64(m.WhiteElo + m.BlackElo)
		oppSum += float64(opp)

		opening := m.OpeningLabel()
		p.OpeningsDistribution.Inc(opening)
		if outcome == models.OutcomeWin {
			openingWins.Inc(opening)
		}

		p.GameLengths = append(p.GameLengths, m.Moves)
		opponents.Inc(m.Opponent(username))

		switch {
		case opp > own:
			higherGames++
			if outcome == models.OutcomeWin {
				p.HigherEloWins++
			}
		case opp < own:
			lowerGames++
			if outcome == models.OutcomeWin {
				p.LowerEloWins++
			}
		}
	}

	if p.TotalGames == 0 {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, username)
	}

	n := float64(p.TotalGames)
	p.WinPercentage = float64(p.Wins) / n * 100
	p.AverageRating = int(math.RoundToEven(ratingSum / (2 * n)))
	p.AverageOpponentRating = oppSum / n
	p.MostCommonOpponent, _ = opponents.Mode()

	// Anything but a win counts against the player here, draws included.
	p.HigherEloLosses = higherGames - p.HigherEloWins
	p.LowerEloLosses = lowerGames - p.LowerEloWins

	for _, name := range p.OpeningsDistribution.Keys() {
		total := p.OpeningsDistribution.Get(name)
		p.MostCommonOpenings = append(p.MostCommonOpenings, models.OpeningCount{Name: name, Count: total})
		p.OpeningWinRates = append(p.OpeningWinRates, models.OpeningWinRate{
			Name:    name,
			Games:   total,
			WinRate: float64(openingWins.Get(name)) / float64(total) * 100,
		})
	}
	sort.SliceStable(p.MostCommonOpenings, func(i, j int) bool {
		return p.MostCommonOpenings[i].Count > p.MostCommonOpenings[j].Count
	})

	return p, nil
}

// MostActivePlayers returns the n players with the most games, most games
// first. Equal counts keep first-appearance order.
func MostActivePlayers(matches []models.MatchRecord, n int) []models.PlayerActivity {
	all := playerActivity(matches)
	if n >= 0 && n < len(all) {
		all = all[:n]
	}
	return all
}

// TopPlayers returns the profiles of every player with at least minGames
// games, ordered by games descending then username.
func TopPlayers(matches []models.MatchRecord, minGames int) ([]models.PlayerProfile, error) {
	var names []string
	for _, a := range playerActivity(matches) {
		if a.Games >= minGames {
			names = append(names, a.Username)
		}
	}

	out := make([]models.PlayerProfile, 0, len(names))
	for _, name := range names {
		p, err := BuildPlayerProfile(matches, name)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalGames != out[j].TotalGames {
			return out[i].TotalGames > out[j].TotalGames
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func playerActivity(matches []models.MatchRecord) []models.PlayerActivity {
	var games models.CountMap
	for i := range matches {
		games.Inc(matches[i].White)
		games.Inc(matches[i].Black)
	}
	out := make([]models.PlayerActivity, 0, games.Len())
	for _, name := range games.Keys() {
		out = append(out, models.PlayerActivity{Username: name, Games: games.Get(name)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Games > out[j].Games })
	return out
}
