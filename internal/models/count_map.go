package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CountMap is a label -> count mapping that remembers the order in which
// labels were first seen. The zero value is ready to use.
type CountMap struct {
	keys   []string
	counts map[string]int
}

// Inc adds one occurrence of label.
func (c *CountMap) Inc(label string) {
	c.Add(label, 1)
}

// Add adds n occurrences of label.
func (c *CountMap) Add(label string, n int) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, ok := c.counts[label]; !ok {
		c.keys = append(c.keys, label)
	}
	c.counts[label] += n
}

// Merge adds every count from other, appending labels unseen so far in
// other's order.
func (c *CountMap) Merge(other CountMap) {
	for _, k := range other.keys {
		c.Add(k, other.counts[k])
	}
}

// Get returns the count for label, 0 if absent.
func (c CountMap) Get(label string) int {
	return c.counts[label]
}

// Has reports whether label was ever added.
func (c CountMap) Has(label string) bool {
	_, ok := c.counts[label]
	return ok
}

// Keys returns the labels in first-seen order.
func (c CountMap) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of distinct labels.
func (c CountMap) Len() int {
	return len(c.keys)
}

// Total returns the sum of all counts.
func (c CountMap) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Mode returns the most frequent label. Ties go to the label seen first.
func (c CountMap) Mode() (string, int) {
	best, bestCount := "", 0
	for _, k := range c.keys {
		if n := c.counts[k]; n > bestCount {
			best, bestCount = k, n
		}
	}
	return best, bestCount
}

// Clone returns an independent copy.
func (c CountMap) Clone() CountMap {
	out := CountMap{
		keys:   make([]string, len(c.keys)),
		counts: make(map[string]int, len(c.counts)),
	}
	copy(out.keys, c.keys)
	for k, v := range c.counts {
		out.counts[k] = v
	}
	return out
}

// MarshalJSON encodes the map as a JSON object with keys in first-seen order.
func (c CountMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", c.counts[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (c *CountMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = CountMap{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("count map: expected object, got %v", tok)
	}

	out := CountMap{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("count map: expected string key, got %v", keyTok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("count map: value for %q: %w", key, err)
		}
		out.Add(key, n)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}
