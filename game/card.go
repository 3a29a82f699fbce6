package game

import (
	"errors"
	"fmt"
	"strings"
)

// Card is one combination of the four attributes. Each field is an index
// into the matching Domains list.
type Card struct {
	Shape int
	Color int
	Count int
	Fill  int
}

// Attrs returns the attribute tuple in shape, color, count, fill order.
func (c Card) Attrs() [4]int {
	return [4]int{c.Shape, c.Color, c.Count, c.Fill}
}

// IsSet reports whether the three cards form a set: for every attribute the
// values are either all equal or pairwise distinct.
func IsSet(a, b, c Card) bool {
	x, y, z := a.Attrs(), b.Attrs(), c.Attrs()
	for i := range x {
		allSame := x[i] == y[i] && y[i] == z[i]
		allDiff := x[i] != y[i] && y[i] != z[i] && x[i] != z[i]
		if !allSame && !allDiff {
			return false
		}
	}
	return true
}

// Domains holds the ordered value labels of each attribute.
type Domains struct {
	Shape []string `json:"shape" yaml:"shape"`
	Color []string `json:"color" yaml:"color"`
	Count []string `json:"count" yaml:"count"`
	Fill  []string `json:"fill" yaml:"fill"`
}

// StandardDomains returns the classic 3x3x3x3 label sets.
func StandardDomains() Domains {
	return Domains{
		Shape: []string{"circle", "square", "triangle"},
		Color: []string{"red", "green", "blue"},
		Count: []string{"1", "2", "3"},
		Fill:  []string{"solid", "striped", "open"},
	}
}

// ErrInvalidDomains is returned when an attribute domain cannot be used.
var ErrInvalidDomains = errors.New("invalid attribute domains")

func (d Domains) lists() [4][]string {
	return [4][]string{d.Shape, d.Color, d.Count, d.Fill}
}

var attrNames = [4]string{"shape", "color", "count", "fill"}

// Validate checks that every domain has at least two distinct labels.
func (d Domains) Validate() error {
	for i, values := range d.lists() {
		if len(values) < 2 {
			return fmt.Errorf("%w: %s has %d values, need at least 2", ErrInvalidDomains, attrNames[i], len(values))
		}
		seen := make(map[string]struct{}, len(values))
		for _, v := range values {
			if _, dup := seen[v]; dup {
				return fmt.Errorf("%w: %s repeats %q", ErrInvalidDomains, attrNames[i], v)
			}
			seen[v] = struct{}{}
		}
	}
	return nil
}

// Size returns the number of distinct cards the domains produce.
func (d Domains) Size() int {
	n := 1
	for _, values := range d.lists() {
		n *= len(values)
	}
	return n
}

// Labels returns the attribute labels of c. Out of range indices render as "?".
func (d Domains) Labels(c Card) [4]string {
	var out [4]string
	lists := d.lists()
	for i, idx := range c.Attrs() {
		if idx < 0 || idx >= len(lists[i]) {
			out[i] = "?"
			continue
		}
		out[i] = lists[i][idx]
	}
	return out
}

// Label renders c as "count color fill shape", e.g. "2 red striped circle".
func (d Domains) Label(c Card) string {
	l := d.Labels(c)
	return strings.Join([]string{l[2], l[1], l[3], l[0]}, " ")
}

// Parse looks up a card by its labels.
func (d Domains) Parse(shape, color, count, fill string) (Card, bool) {
	idx := [4]int{}
	for i, label := range [4]string{shape, color, count, fill} {
		idx[i] = indexOf(d.lists()[i], label)
		if idx[i] < 0 {
			return Card{}, false
		}
	}
	return Card{Shape: idx[0], Color: idx[1], Count: idx[2], Fill: idx[3]}, true
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}
