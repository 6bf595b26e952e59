package garment

import (
	"sort"
	"strings"
)

// Selection maps a category to the garment chosen for it. A category appears at most
// once by construction. Selections are treated as values: With and Without return
// copies and never touch the receiver.
type Selection map[Category]Garment

// NewSelection builds a selection from garments keyed by their own category.
// A later garment replaces an earlier one in the same category.
func NewSelection(items ...Garment) Selection {
	s := make(Selection, len(items))
	for _, g := range items {
		s[g.Category] = g
	}
	return s
}

// With returns a copy of s with g placed in category c.
func (s Selection) With(c Category, g Garment) Selection {
	out := make(Selection, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[c] = g
	return out
}

// Without returns a copy of s with category c cleared.
func (s Selection) Without(c Category) Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		if k != c {
			out[k] = v
		}
	}
	return out
}

// Has reports whether category c is occupied.
func (s Selection) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// Get returns the garment in category c.
func (s Selection) Get(c Category) (Garment, bool) {
	g, ok := s[c]
	return g, ok
}

// Categories returns the occupied categories in canonical order.
func (s Selection) Categories() []Category {
	out := make([]Category, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order() < out[j].Order() })
	return out
}

// Items returns the garments in canonical category order.
func (s Selection) Items() []Garment {
	cats := s.Categories()
	out := make([]Garment, len(cats))
	for i, c := range cats {
		out[i] = s[c]
	}
	return out
}

// Key identifies a selection by its category-ordered id tuple, e.g.
// "shirt=s1|pants=p2|shoes=k9". Two selections with the same garments share a key.
func (s Selection) Key() string {
	var b strings.Builder
	for i, c := range s.Categories() {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(string(c))
		b.WriteByte('=')
		b.WriteString(s[c].ID)
	}
	return b.String()
}
