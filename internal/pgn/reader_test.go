package pgn

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openchess/stats-api/internal/models"
)

const sample = `[Event "Rated Blitz game"]
[Site "https://lichess.org/abc123"]
[White "alice"]
[Black "bob"]
[Result "1-0"]
[UTCDate "2016.02.01"]
[UTCTime "12:30:05"]
[WhiteElo "1500"]
[BlackElo "1620"]
[ECO "B90"]
[Opening "Sicilian Defense: Najdorf Variation"]
[TimeControl "300+0"]

1. e4 c5 2. Nf3 d6 { a comment with [brackets]
spanning lines } 3. d4 (3. Bb5+ Bd7) cxd4 4. Nxd4 $1 Nf6 5. Nc3 a6 1-0

[Event "Rated Bullet game"]
[White "carol"]
[Black "dave"]
[Result "1/2-1/2"]
[WhiteElo "?"]
[BlackElo "1400"]
[TimeControl "60+0"]

1. d4 d5 1/2-1/2

[Event "Rated Classical game"]
[White "bob"]
[Black "carol"]
[Result "0-1"]
[WhiteElo "1610"]
[BlackElo "1390"]
[TimeControl "1800+30"]

1. d4 Nf6 2. c4 e6 3. Nc3 Bb4 0-1

[White "erin"]
[Black "frank"]
[Result "*"]
[WhiteElo "1500"]
[BlackElo "1500"]

1. e4 *
`

func TestReadAll(t *testing.T) {
	got, err := ReadAll(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "alice", first.White)
	assert.Equal(t, "bob", first.Black)
	assert.Equal(t, 1500, first.WhiteElo)
	assert.Equal(t, 1620, first.BlackElo)
	assert.Equal(t, models.ResultWhiteWins, first.Result)
	assert.Equal(t, "B90", first.ECO)
	assert.Equal(t, "Sicilian Defense: Najdorf Variation", first.Opening)
	assert.Equal(t, "Sicilian Defense", first.OpeningLabel())
	assert.Equal(t, models.VariantBlitz, first.Variant)
	assert.Equal(t, 10, first.Moves)
	assert.Equal(t, time.Date(2016, 2, 1, 12, 30, 5, 0, time.UTC), first.PlayedAt)
	assert.NotEmpty(t, first.ID)

	second := got[1]
	assert.Equal(t, "bob", second.White)
	assert.Equal(t, models.VariantClassical, second.Variant)
	assert.Equal(t, UnknownOpening, second.Opening)
	assert.Equal(t, 6, second.Moves)
	assert.True(t, second.PlayedAt.IsZero())
}

func TestReader_SkipsUnusableGames(t *testing.T) {
	r := NewReader(strings.NewReader(sample))
	n := 0
	for {
		_, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		n++
	}

	assert.Equal(t, 2, n)
	assert.Equal(t, 2, r.SkippedTotal())
	skipped := r.Skipped()
	assert.Equal(t, 1, skipped[ErrUnrated])
	assert.Equal(t, 1, skipped[ErrUnknownResult])
}

func TestReader_DeterministicIDs(t *testing.T) {
	a, err := ReadAll(strings.NewReader(sample))
	require.NoError(t, err)
	b, err := ReadAll(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, a[0].ID, b[0].ID)
	assert.NotEqual(t, a[0].ID, a[1].ID)
}

func TestReader_MalformedTag(t *testing.T) {
	_, err := ReadAll(strings.NewReader("[White alice]\n\n1. e4 1-0\n"))
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestReader_Empty(t *testing.T) {
	got, err := ReadAll(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCountPlies(t *testing.T) {
	tests := []struct {
		name     string
		movetext string
		want     int
	}{
		{name: "plain", movetext: "1. e4 e5 2. Nf3 Nc6 1-0", want: 4},
		{name: "compact numbers", movetext: "1.e4 e5 2.Nf3 1/2-1/2", want: 3},
		{name: "black continuation", movetext: "1. e4 {best} 1... e5 *", want: 2},
		{name: "nested variation", movetext: "1. e4 (1. d4 d5 (1... Nf6)) e5 0-1", want: 2},
		{name: "line comment", movetext: "1. e4 ; great move\ne5", want: 2},
		{name: "castling and glyphs", movetext: "1. O-O $2 O-O-O! 2. 0-0 *", want: 3},
		{name: "empty", movetext: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountPlies(tt.movetext))
		})
	}
}
