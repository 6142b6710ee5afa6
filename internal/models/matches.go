package models

import (
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of a match from White's point of view.
type Result string

const (
	ResultWhiteWins Result = "1-0"
	ResultBlackWins Result = "0-1"
	ResultDraw      Result = "1/2-1/2"
)

// Valid reports whether r is one of the three decisive/drawn outcomes.
func (r Result) Valid() bool {
	switch r {
	case ResultWhiteWins, ResultBlackWins, ResultDraw:
		return true
	}
	return false
}

// Outcome is a match result from one player's point of view.
type Outcome int

const (
	OutcomeLoss Outcome = iota
	OutcomeDraw
	OutcomeWin
)

// Variant labels derived from a time control.
const (
	VariantBullet    = "Bullet"
	VariantBlitz     = "Blitz"
	VariantRapid     = "Rapid"
	VariantClassical = "Classical"
)

// MatchRecord is one completed game between two players. White is side A,
// Black is side B. Records are immutable once parsed.
type MatchRecord struct {
	ID          string    `json:"id,omitempty"`
	Event       string    `json:"event,omitempty"`
	White       string    `json:"white" validate:"required"`
	Black       string    `json:"black" validate:"required,nefield=White"`
	WhiteElo    int       `json:"white_elo" validate:"required,gt=0"`
	BlackElo    int       `json:"black_elo" validate:"required,gt=0"`
	Result      Result    `json:"result" validate:"required,oneof=1-0 0-1 1/2-1/2"`
	ECO         string    `json:"eco,omitempty"`
	Opening     string    `json:"opening,omitempty"`
	Moves       int       `json:"moves" validate:"gte=0"`
	TimeControl string    `json:"time_control,omitempty"`
	Variant     string    `json:"variant,omitempty"`
	PlayedAt    time.Time `json:"played_at,omitempty"`
}

// Involves reports whether player took part in the match.
func (m *MatchRecord) Involves(player string) bool {
	return m.White == player || m.Black == player
}

// Opponent returns the other side of the match for player.
func (m *MatchRecord) Opponent(player string) string {
	if m.White == player {
		return m.Black
	}
	return m.White
}

// Ratings returns (own, opponent) ratings for player.
func (m *MatchRecord) Ratings(player string) (int, int) {
	if m.White == player {
		return m.WhiteElo, m.BlackElo
	}
	return m.BlackElo, m.WhiteElo
}

// OutcomeFor returns the result of the match from player's side.
func (m *MatchRecord) OutcomeFor(player string) Outcome {
	switch m.Result {
	case ResultDraw:
		return OutcomeDraw
	case ResultWhiteWins:
		if m.White == player {
			return OutcomeWin
		}
		return OutcomeLoss
	case ResultBlackWins:
		if m.Black == player {
			return OutcomeWin
		}
		return OutcomeLoss
	}
	return OutcomeDraw
}

// VariantLabel returns the stored variant, falling back to one derived from
// the time control.
func (m *MatchRecord) VariantLabel() string {
	if m.Variant != "" {
		return m.Variant
	}
	if m.TimeControl == "" {
		return ""
	}
	return VariantFromTimeControl(m.TimeControl)
}

// OpeningLabel returns the opening family the match is counted under.
func (m *MatchRecord) OpeningLabel() string {
	return OpeningFamily(m.Opening)
}

// VariantFromTimeControl classifies a "base+increment" time control in
// seconds. Increments are weighted by an assumed 40 moves. "-" (no clock) and
// unparsable controls count as 0+0.
func VariantFromTimeControl(tc string) string {
	var base, inc int
	tc = strings.TrimSpace(tc)
	if tc != "-" {
		b, i, found := strings.Cut(tc, "+")
		base, _ = strconv.Atoi(b)
		if found {
			inc, _ = strconv.Atoi(i)
		}
	}

	total := base + inc*40
	switch {
	case total >= 1800:
		return VariantClassical
	case total >= 600:
		return VariantRapid
	case total >= 180:
		return VariantBlitz
	default:
		return VariantBullet
	}
}

// OpeningFamily cuts an opening name at the first ':', '#' or ',' so that
// "Sicilian Defense: Najdorf Variation" and "Sicilian Defense, Dragon" both
// fall under "Sicilian Defense".
func OpeningFamily(name string) string {
	if i := strings.IndexAny(name, ":#,"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// BreakdownRow is one group of an aggregate match query.
type BreakdownRow struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
