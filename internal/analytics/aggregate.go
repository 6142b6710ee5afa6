package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/openchess/stats-api/internal/models"
)

// entityAccum holds one player's running totals during an aggregation pass.
type entityAccum struct {
	games               int
	wins, losses, draws int
	totalElo            float64
	totalOppElo         float64
	totalMoves          float64
	variants            models.CountMap
	openings            models.CountMap
}

func (a *entityAccum) add(m *models.MatchRecord, player string) {
	own, opp := m.Ratings(player)
	a.games++
	a.totalElo += float64(own)
	a.totalOppElo += float64(opp)
	a.totalMoves += float64(m.Moves)

	switch m.OutcomeFor(player) {
	case models.OutcomeWin:
		a.wins++
	case models.OutcomeLoss:
		a.losses++
	default:
		a.draws++
	}

	if v := m.VariantLabel(); v != "" {
		a.variants.Inc(v)
	}
	if o := m.OpeningLabel(); o != "" {
		a.openings.Inc(o)
	}
}

func (a *entityAccum) merge(b *entityAccum) {
	a.games += b.games
	a.wins += b.wins
	a.losses += b.losses
	a.draws += b.draws
	a.totalElo += b.totalElo
	a.totalOppElo += b.totalOppElo
	a.totalMoves += b.totalMoves
	a.variants.Merge(b.variants)
	a.openings.Merge(b.openings)
}

func (a *entityAccum) record(player string) models.EntityFeatureRecord {
	n := float64(a.games)
	variant, _ := a.variants.Mode()
	opening, _ := a.openings.Mode()
	return models.EntityFeatureRecord{
		Player:            player,
		Games:             a.games,
		AvgElo:            a.totalElo / n,
		AvgOpponentElo:    a.totalOppElo / n,
		Wins:              a.wins,
		Losses:            a.losses,
		Draws:             a.draws,
		WinRate:           float64(a.wins) / n,
		AvgMoves:          a.totalMoves / n,
		MostCommonVariant: variant,
		MostCommonOpening: opening,
		Variants:          a.variants.Clone(),
		Openings:          a.openings.Clone(),
	}
}

// accumTable is an insertion-ordered set of accumulators keyed by player.
type accumTable struct {
	order []string
	byKey map[string]*entityAccum
}

func newAccumTable() *accumTable {
	return &accumTable{byKey: make(map[string]*entityAccum)}
}

func (t *accumTable) get(player string) *entityAccum {
	acc, ok := t.byKey[player]
	if !ok {
		acc = &entityAccum{}
		t.byKey[player] = acc
		t.order = append(t.order, player)
	}
	return acc
}

func (t *accumTable) fold(matches []models.MatchRecord) {
	for i := range matches {
		m := &matches[i]
		t.get(m.White).add(m, m.White)
		t.get(m.Black).add(m, m.Black)
	}
}

func (t *accumTable) records() []models.EntityFeatureRecord {
	out := make([]models.EntityFeatureRecord, 0, len(t.order))
	for _, player := range t.order {
		out = append(out, t.byKey[player].record(player))
	}
	return out
}

// AggregateFeatures folds the match log into one feature record per player,
// in order of first appearance (White before Black within a match). It is
// total: an empty log yields an empty slice.
func AggregateFeatures(matches []models.MatchRecord) []models.EntityFeatureRecord {
	t := newAccumTable()
	t.fold(matches)
	return t.records()
}

// AggregateFeaturesParallel splits the log into contiguous shards, folds them
// concurrently and merges the shards in log order. Merging in order keeps
// player order and the first-seen tie-break of the label modes identical to
// AggregateFeatures.
func AggregateFeaturesParallel(ctx context.Context, matches []models.MatchRecord, shards int) ([]models.EntityFeatureRecord, error) {
	if shards <= 1 || len(matches) < shards*2 {
		return AggregateFeatures(matches), nil
	}

	size := (len(matches) + shards - 1) / shards
	tables := make([]*accumTable, shards)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < shards; i++ {
		lo := i * size
		hi := min(lo+size, len(matches))
		if lo >= hi {
			tables[i] = newAccumTable()
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t := newAccumTable()
			t.fold(matches[lo:hi])
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := newAccumTable()
	for _, t := range tables {
		for _, player := range t.order {
			merged.get(player).merge(t.byKey[player])
		}
	}
	return merged.records(), nil
}
