// Package pgn reads Portable Game Notation files into match records.
//
// Only what the analytics need is parsed: the tag pairs and the number of
// half-moves in the main line. Moves are not validated against a board.
package pgn

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openchess/stats-api/internal/models"
)

// Reasons a game is left out of the match log.
var (
	ErrMissingPlayer   = errors.New("missing player name")
	ErrUnrated         = errors.New("missing or zero rating")
	ErrUnknownResult   = errors.New("unknown result")
	ErrMalformedHeader = errors.New("malformed tag pair")
)

// Defaults applied when a tag is absent.
const (
	DefaultTimeControl = "0+0"
	UnknownOpening     = "Unknown"
)

// matchNamespace scopes the deterministic match ids.
var matchNamespace = uuid.MustParse("6f0c4a56-6d2c-5b2f-9a0e-2b1f0c9e7d41")

// Reader pulls games one at a time from a PGN stream.
type Reader struct {
	sc      *bufio.Scanner
	line    int
	pending *string
	skipped map[error]int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, 4*1024*1024)
	return &Reader{sc: sc, skipped: make(map[error]int)}
}

// Next returns the next game that yields a usable match record. Games with a
// missing name, an unrated side or an unfinished result are counted in
// Skipped and passed over. It returns io.EOF after the last game.
func (r *Reader) Next() (*models.MatchRecord, error) {
	for {
		g, err := r.readGame()
		if err != nil {
			return nil, err
		}
		m, err := g.record()
		if err != nil {
			for _, reason := range []error{ErrMissingPlayer, ErrUnrated, ErrUnknownResult} {
				if errors.Is(err, reason) {
					r.skipped[reason]++
				}
			}
			continue
		}
		return m, nil
	}
}

// Skipped returns how many games were dropped, by reason.
func (r *Reader) Skipped() map[error]int {
	out := make(map[error]int, len(r.skipped))
	for k, v := range r.skipped {
		out[k] = v
	}
	return out
}

// SkippedTotal is the number of games dropped so far.
func (r *Reader) SkippedTotal() int {
	n := 0
	for _, v := range r.skipped {
		n += v
	}
	return n
}

// ReadAll reads every usable game from r.
func ReadAll(r io.Reader) ([]models.MatchRecord, error) {
	pr := NewReader(r)
	var out []models.MatchRecord
	for {
		m, err := pr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
}

type game struct {
	tags  map[string]string
	moves strings.Builder
}

func (r *Reader) readLine() (string, bool) {
	if r.pending != nil {
		l := *r.pending
		r.pending = nil
		return l, true
	}
	if !r.sc.Scan() {
		return "", false
	}
	r.line++
	return strings.TrimRight(r.sc.Text(), "\r"), true
}

func (r *Reader) unread(line string) {
	r.pending = &line
}

// readGame collects one tag section and the movetext that follows it. A tag
// line seen after movetext starts the next game.
func (r *Reader) readGame() (*game, error) {
	g := &game{tags: make(map[string]string)}
	seen, inMoves := false, false
	comment := 0

	for {
		line, ok := r.readLine()
		if !ok {
			if err := r.sc.Err(); err != nil {
				return nil, fmt.Errorf("read pgn: %w", err)
			}
			if seen {
				return g, nil
			}
			return nil, io.EOF
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case comment == 0 && strings.HasPrefix(trimmed, "["):
			if inMoves {
				r.unread(line)
				return g, nil
			}
			key, value, err := parseTag(trimmed)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", r.line, err)
			}
			g.tags[key] = value
			seen = true
		case comment == 0 && strings.HasPrefix(line, "%"):
		default:
			inMoves, seen = true, true
			comment += strings.Count(line, "{") - strings.Count(line, "}")
			comment = max(comment, 0)
			g.moves.WriteString(line)
			g.moves.WriteByte('\n')
		}
	}
}

// parseTag splits `[Key "Value"]`.
func parseTag(line string) (string, string, error) {
	if !strings.HasSuffix(line, "]") {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedHeader, line)
	}
	body := strings.TrimSpace(line[1 : len(line)-1])
	key, raw, ok := strings.Cut(body, " ")
	raw = strings.TrimSpace(raw)
	if !ok || key == "" || len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedHeader, line)
	}
	value := strings.NewReplacer(`\"`, `"`, `\\`, `\`).Replace(raw[1 : len(raw)-1])
	return key, value, nil
}

func (g *game) tag(key, fallback string) string {
	if v, ok := g.tags[key]; ok && v != "" && v != "?" {
		return v
	}
	return fallback
}

func (g *game) record() (*models.MatchRecord, error) {
	white, black := g.tag("White", ""), g.tag("Black", "")
	if white == "" || black == "" || white == black {
		return nil, ErrMissingPlayer
	}

	whiteElo, err1 := strconv.Atoi(g.tag("WhiteElo", "0"))
	blackElo, err2 := strconv.Atoi(g.tag("BlackElo", "0"))
	if err1 != nil || err2 != nil || whiteElo <= 0 || blackElo <= 0 {
		return nil, ErrUnrated
	}

	result := models.Result(g.tag("Result", ""))
	if !result.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResult, result)
	}

	tc := g.tag("TimeControl", DefaultTimeControl)
	movetext := strings.TrimSpace(g.moves.String())

	m := &models.MatchRecord{
		Event:       g.tag("Event", ""),
		White:       white,
		Black:       black,
		WhiteElo:    whiteElo,
		BlackElo:    blackElo,
		Result:      result,
		ECO:         g.tag("ECO", ""),
		Opening:     g.tag("Opening", UnknownOpening),
		Moves:       CountPlies(movetext),
		TimeControl: tc,
		Variant:     models.VariantFromTimeControl(tc),
		PlayedAt:    g.playedAt(),
	}
	m.ID = uuid.NewSHA1(matchNamespace, []byte(strings.Join([]string{
		g.tag("Site", ""), m.Event, white, black,
		g.tag("UTCDate", g.tag("Date", "")), g.tag("UTCTime", ""),
		string(result), movetext,
	}, "\x1f"))).String()
	return m, nil
}

func (g *game) playedAt() time.Time {
	date := g.tag("UTCDate", g.tag("Date", ""))
	if date == "" {
		return time.Time{}
	}
	if clock := g.tag("UTCTime", ""); clock != "" {
		if t, err := time.Parse("2006.01.02 15:04:05", date+" "+clock); err == nil {
			return t.UTC()
		}
	}
	if t, err := time.Parse("2006.01.02", date); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

// CountPlies counts the half-moves of the main line in movetext, ignoring
// move numbers, comments, variations, annotation glyphs and the result.
func CountPlies(movetext string) int {
	plies, depth := 0, 0
	var tok strings.Builder
	flush := func() {
		if depth == 0 && isMove(tok.String()) {
			plies++
		}
		tok.Reset()
	}

	for i := 0; i < len(movetext); i++ {
		switch c := movetext[i]; c {
		case '{':
			flush()
			j := strings.IndexByte(movetext[i:], '}')
			if j < 0 {
				return plies
			}
			i += j
		case ';':
			flush()
			j := strings.IndexByte(movetext[i:], '\n')
			if j < 0 {
				return plies
			}
			i += j
		case '(':
			flush()
			depth++
		case ')':
			flush()
			depth = max(depth-1, 0)
		case ' ', '\t', '\n', '\r':
			flush()
		default:
			tok.WriteByte(c)
		}
	}
	flush()
	return plies
}

func isMove(tok string) bool {
	switch tok {
	case "", "1-0", "0-1", "1/2-1/2", "*":
		return false
	}
	tok = strings.TrimLeft(tok, "0123456789")
	tok = strings.TrimLeft(tok, ".")
	return tok != "" && tok[0] != '$'
}
