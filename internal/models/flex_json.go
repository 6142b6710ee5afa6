package models

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// matchFieldMap caches JSON tag -> struct field index mappings
var (
	matchFieldMap     map[string]int
	matchFieldMapOnce sync.Once
)

func getMatchFieldMap() map[string]int {
	matchFieldMapOnce.Do(func() {
		t := reflect.TypeOf(MatchRecord{})
		matchFieldMap = make(map[string]int, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("json")
			if tag == "" || tag == "-" {
				continue
			}
			name := strings.Split(tag, ",")[0]
			matchFieldMap[name] = i
		}
	})
	return matchFieldMap
}

var (
	timeType   = reflect.TypeOf(time.Time{})
	resultType = reflect.TypeOf(Result(""))
)

// Date layouts seen in exported games, tried after RFC 3339.
var playedAtLayouts = []string{
	"2006.01.02 15:04:05",
	"2006.01.02",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON accepts match records the way PGN-to-JSON exporters write
// them: tag values copied verbatim as strings ("WhiteElo": "1500"), PGN dates
// ("2024.03.01"), "?" for unknown values and "½-½" for draws.
//
// Ratings and move counts must be whole numbers; "1500.7" is an error rather
// than a silently truncated rating. Unknown values decode as zero and are
// left for validation to reject.
func (m *MatchRecord) UnmarshalJSON(data []byte) error {
	// Alias prevents infinite recursion
	type Alias MatchRecord
	a := (*Alias)(m)

	// Fast path: the record is already in canonical form
	if err := json.Unmarshal(data, a); err == nil {
		m.Result = normalizeResult(string(m.Result))
		return nil
	}

	// Slow path: field-by-field coercion
	*a = Alias{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	fieldMap := getMatchFieldMap()
	v := reflect.ValueOf(a).Elem()

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}
		fv := v.Field(idx)

		switch {
		case fv.Type() == timeType:
			if t, ok := parsePlayedAt(rawVal); ok {
				fv.Set(reflect.ValueOf(t))
			}
		case fv.Type() == resultType:
			if s, ok := rawString(rawVal); ok {
				fv.SetString(string(normalizeResult(s)))
			}
		case fv.Kind() == reflect.Int:
			n, ok, err := parseWholeNumber(rawVal)
			if err != nil {
				return fmt.Errorf("flex unmarshal %s: %w", key, err)
			}
			if ok {
				fv.SetInt(n)
			}
		case fv.Kind() == reflect.String:
			if s, ok := rawString(rawVal); ok {
				fv.SetString(s)
			}
		}
	}

	return nil
}

// rawString returns a JSON string as is and any other scalar by its literal
// text, so "eco": 42 still reads as "42". null yields nothing.
func rawString(raw json.RawMessage) (string, bool) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	}
	lit := strings.TrimSpace(string(raw))
	if lit == "" || lit == "null" || lit[0] == '{' || lit[0] == '[' {
		return "", false
	}
	return lit, true
}

// parseWholeNumber reads an integer field given as a JSON number or string.
// Unknown markers and unparsable text report ok=false; a fractional value is
// an error.
func parseWholeNumber(raw json.RawMessage) (int64, bool, error) {
	s, ok := rawString(raw)
	if !ok {
		return 0, false, nil
	}
	s = strings.TrimSpace(s)
	switch s {
	case "", "?", "-":
		return 0, false, nil
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false, nil
	}
	if n != math.Trunc(n) {
		return 0, false, fmt.Errorf("%q is not a whole number", s)
	}
	return int64(n), true, nil
}

// parsePlayedAt accepts RFC 3339 and the PGN Date/UTCDate forms. PGN
// placeholders such as "????.??.??" leave the time unset.
func parsePlayedAt(raw json.RawMessage) (time.Time, bool) {
	s, ok := rawString(raw)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range playedAtLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeResult maps the draw spellings exporters use onto "1/2-1/2".
// Anything else is returned trimmed and left for validation.
func normalizeResult(s string) Result {
	s = strings.TrimSpace(s)
	switch s {
	case "½-½", "0.5-0.5", "1/2":
		return ResultDraw
	}
	return Result(s)
}
