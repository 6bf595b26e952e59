package garment

import (
	"fmt"
	"sort"
)

// Wardrobe is a read-only collection of garments grouped by category.
// It is supplied fresh by the caller to every engine call.
type Wardrobe struct {
	byCategory map[Category][]Garment
	byID       map[string]Garment
}

// NewWardrobe validates and groups items. Items in a category are ordered by id so
// that enumeration over a wardrobe is reproducible.
func NewWardrobe(items []Garment) (Wardrobe, error) {
	w := Wardrobe{
		byCategory: make(map[Category][]Garment),
		byID:       make(map[string]Garment, len(items)),
	}
	for i := range items {
		g := items[i]
		if err := g.Validate(); err != nil {
			return Wardrobe{}, err
		}
		if _, dup := w.byID[g.ID]; dup {
			return Wardrobe{}, fmt.Errorf("duplicate garment id %q", g.ID)
		}
		w.byID[g.ID] = g
		w.byCategory[g.Category] = append(w.byCategory[g.Category], g)
	}
	for c := range w.byCategory {
		pool := w.byCategory[c]
		sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	}
	return w, nil
}

// MustWardrobe is NewWardrobe for fixtures; it panics on invalid items.
func MustWardrobe(items ...Garment) Wardrobe {
	w, err := NewWardrobe(items)
	if err != nil {
		panic(err)
	}
	return w
}

// Items returns the garments in category c. The slice must not be modified.
func (w Wardrobe) Items(c Category) []Garment {
	return w.byCategory[c]
}

// Find returns the garment with the given id.
func (w Wardrobe) Find(id string) (Garment, bool) {
	g, ok := w.byID[id]
	return g, ok
}

// All returns every garment ordered by category then id.
func (w Wardrobe) All() []Garment {
	out := make([]Garment, 0, len(w.byID))
	for _, c := range Categories {
		out = append(out, w.byCategory[c]...)
	}
	return out
}

// Len returns the number of garments.
func (w Wardrobe) Len() int {
	return len(w.byID)
}

// Counts returns the number of garments per occupied category.
func (w Wardrobe) Counts() map[Category]int {
	out := make(map[Category]int, len(w.byCategory))
	for c, pool := range w.byCategory {
		out[c] = len(pool)
	}
	return out
}
