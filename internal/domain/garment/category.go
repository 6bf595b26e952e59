// Package garment contains the wardrobe item model shared by the outfit engine.
package garment

import (
	"fmt"
	"strings"
)

// Category is a garment slot. At most one garment occupies a category in a selection.
type Category string

// Known categories. Dress and Other form the open variant: they can be scored and
// checked for compatibility but never satisfy the required slots of an outfit.
const (
	Outerwear  Category = "outerwear"
	Shirt      Category = "shirt"
	Undershirt Category = "undershirt"
	Pants      Category = "pants"
	Shoes      Category = "shoes"
	Belt       Category = "belt"
	Watch      Category = "watch"
	Dress      Category = "dress"
	Other      Category = "other"
)

// Categories lists every category in canonical order. Keys and tie-breaks follow this order.
var Categories = []Category{Outerwear, Shirt, Undershirt, Pants, Shoes, Belt, Watch, Dress, Other}

var categoryRank = func() map[Category]int {
	m := make(map[Category]int, len(Categories))
	for i, c := range Categories {
		m[c] = i
	}
	return m
}()

// ParseCategory resolves a category key case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryRank[c]
	return ok
}

// Order returns the canonical position of c, or len(Categories) for unknown values.
func (c Category) Order() int {
	if i, ok := categoryRank[c]; ok {
		return i
	}
	return len(Categories)
}

// IsAccessory reports whether c is an accessory slot.
func (c Category) IsAccessory() bool {
	return c == Belt || c == Watch
}

// IsTop reports whether c can fill the top requirement of an outfit.
func (c Category) IsTop() bool {
	return c == Shirt || c == Undershirt
}

func (c Category) String() string { return string(c) }
