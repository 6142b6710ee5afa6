package models

// OpeningCount is one row of a player's opening distribution.
type OpeningCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// OpeningWinRate is a player's win percentage with one opening family.
type OpeningWinRate struct {
	Name    string  `json:"name"`
	Games   int     `json:"games"`
	WinRate float64 `json:"winrate"`
}

// PlayerProfile is the per-player statistical profile.
type PlayerProfile struct {
	Username              string           `json:"username"`
	TotalGames            int              `json:"total_games"`
	Wins                  int              `json:"wins"`
	Losses                int              `json:"losses"`
	Draws                 int              `json:"draws"`
	WinPercentage         float64          `json:"win_percentage"`
	AverageRating         int              `json:"average_rating"`
	AverageOpponentRating float64          `json:"average_opponent_rating"`
	OpeningsDistribution  CountMap         `json:"openings_distribution"`
	MostCommonOpenings    []OpeningCount   `json:"most_common_openings"`
	OpeningWinRates       []OpeningWinRate `json:"opening_winrates"`
	GameLengths           []int            `json:"game_lengths"`
	MostCommonOpponent    string           `json:"most_common_opponent,omitempty"`
	HigherEloWins         int              `json:"higher_elo_wins"`
	HigherEloLosses       int              `json:"higher_elo_losses"`
	LowerEloWins          int              `json:"lower_elo_wins"`
	LowerEloLosses        int              `json:"lower_elo_losses"`
}

// PlayerActivity is a player name with its game count.
type PlayerActivity struct {
	Username string `json:"username"`
	Games    int    `json:"games"`
}
