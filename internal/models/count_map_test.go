package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountMap_ModeBreaksTiesByFirstSeen(t *testing.T) {
	var c CountMap
	c.Inc("French Defense")
	c.Inc("Sicilian Defense")
	c.Inc("Sicilian Defense")
	c.Inc("French Defense")

	label, n := c.Mode()
	assert.Equal(t, "French Defense", label)
	assert.Equal(t, 2, n)

	var empty CountMap
	label, n = empty.Mode()
	assert.Equal(t, "", label)
	assert.Equal(t, 0, n)
}

func TestCountMap_MergeKeepsOrder(t *testing.T) {
	var a, b CountMap
	a.Add("x", 1)
	a.Add("y", 2)
	b.Add("z", 5)
	b.Add("x", 3)

	a.Merge(b)
	assert.Equal(t, []string{"x", "y", "z"}, a.Keys())
	assert.Equal(t, 4, a.Get("x"))
	assert.Equal(t, 11, a.Total())
	assert.Equal(t, 3, a.Len())
	assert.True(t, a.Has("z"))
	assert.False(t, a.Has("w"))
}

func TestCountMap_CloneIsIndependent(t *testing.T) {
	var a CountMap
	a.Inc("x")
	b := a.Clone()
	b.Inc("x")
	b.Inc("y")

	assert.Equal(t, 1, a.Get("x"))
	assert.False(t, a.Has("y"))
}

func TestCountMap_JSONKeepsInsertionOrder(t *testing.T) {
	var c CountMap
	c.Add("zeta", 1)
	c.Add("alpha", 2)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":2}`, string(data))

	var back CountMap
	require.NoError(t, json.Unmarshal([]byte(`{"b":3,"a":1}`), &back))
	assert.Equal(t, []string{"b", "a"}, back.Keys())
	assert.Equal(t, 3, back.Get("b"))

	var empty CountMap
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &back))
}

func TestVariantFromTimeControl(t *testing.T) {
	tests := []struct {
		tc   string
		want string
	}{
		{"60+0", VariantBullet},
		{"120+1", VariantBullet},
		{"180+0", VariantBlitz},
		{"300+3", VariantBlitz},
		{"600+0", VariantRapid},
		{"900+10", VariantRapid},
		{"1800+0", VariantClassical},
		{"1500+10", VariantClassical},
		{"-", VariantBullet},
		{"garbage", VariantBullet},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VariantFromTimeControl(tt.tc), tt.tc)
	}
}

func TestOpeningFamily(t *testing.T) {
	assert.Equal(t, "Sicilian Defense", OpeningFamily("Sicilian Defense: Najdorf Variation"))
	assert.Equal(t, "Sicilian Defense", OpeningFamily("Sicilian Defense, Dragon"))
	assert.Equal(t, "Queen's Pawn Game", OpeningFamily("Queen's Pawn Game #2"))
	assert.Equal(t, "Italian Game", OpeningFamily(" Italian Game "))
	assert.Equal(t, "", OpeningFamily(""))
}

func TestMatchRecord_OutcomeFor(t *testing.T) {
	m := MatchRecord{White: "a", Black: "b", WhiteElo: 1500, BlackElo: 1700, Result: ResultBlackWins}

	assert.Equal(t, OutcomeLoss, m.OutcomeFor("a"))
	assert.Equal(t, OutcomeWin, m.OutcomeFor("b"))
	assert.Equal(t, "b", m.Opponent("a"))
	own, opp := m.Ratings("b")
	assert.Equal(t, 1700, own)
	assert.Equal(t, 1500, opp)

	m.Result = ResultDraw
	assert.Equal(t, OutcomeDraw, m.OutcomeFor("a"))
	assert.False(t, Result("*").Valid())
}

func TestClusterRequest_WithDefaults(t *testing.T) {
	r := ClusterRequest{}.WithDefaults()
	assert.Equal(t, ClusterRequest{NumClusters: 3, Mode: ModeFixed, XAxis: ColumnAvgElo, YAxis: ColumnAvgOpponentElo}, r)
	assert.Equal(t, "kmeans_3_fixed_avg_elo_avg_opponent_elo", r.CacheKey())
}
