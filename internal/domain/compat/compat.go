// Package compat holds the pure predicates deciding whether garments may be worn together.
package compat

import (
	"github.com/okian/closet/internal/domain/garment"
)

// MaxFormalitySpread is the largest formality gap allowed between any two garments
// of one outfit. It is engine-wide and not user configurable.
const MaxFormalitySpread = 5

// Reason explains why two garments conflict.
type Reason string

// Conflict reasons.
const (
	ReasonNone      Reason = ""
	ReasonStyle     Reason = "style_tags_disjoint"
	ReasonFormality Reason = "formality_spread"
)

// StyleCompatible reports whether a and b share a style tag. A garment without tags
// is compatible with everything.
func StyleCompatible(a, b *garment.Garment) bool {
	ta, tb := a.Tags(), b.Tags()
	if len(ta) == 0 || len(tb) == 0 {
		return true
	}
	// Both slices are sorted; walk them together.
	i, j := 0, 0
	for i < len(ta) && j < len(tb) {
		switch {
		case ta[i] == tb[j]:
			return true
		case ta[i] < tb[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// FormalityCompatible reports whether a and b are at most MaxFormalitySpread apart.
func FormalityCompatible(a, b *garment.Garment) bool {
	d := a.Formality - b.Formality
	if d < 0 {
		d = -d
	}
	return d <= MaxFormalitySpread
}

// Check returns the first conflict between a and b, or ReasonNone.
func Check(a, b *garment.Garment) Reason {
	if !FormalityCompatible(a, b) {
		return ReasonFormality
	}
	if !StyleCompatible(a, b) {
		return ReasonStyle
	}
	return ReasonNone
}

// Compatible reports whether a and b may coexist in one outfit.
func Compatible(a, b *garment.Garment) bool {
	return Check(a, b) == ReasonNone
}

// Conflict names a pair of categories that cannot coexist.
type Conflict struct {
	A      garment.Category `json:"a"`
	B      garment.Category `json:"b"`
	Reason Reason           `json:"reason"`
}

// FitsSelection reports whether candidate is compatible with every garment of sel,
// ignoring whatever currently sits in the target category (the candidate replaces it).
func FitsSelection(sel garment.Selection, candidate *garment.Garment, target garment.Category) bool {
	for c, g := range sel {
		if c == target {
			continue
		}
		if !Compatible(&g, candidate) {
			return false
		}
	}
	return true
}

// Conflicts lists every incompatible pair in sel, in canonical category order.
func Conflicts(sel garment.Selection) []Conflict {
	cats := sel.Categories()
	var out []Conflict
	for i := 0; i < len(cats); i++ {
		a := sel[cats[i]]
		for j := i + 1; j < len(cats); j++ {
			b := sel[cats[j]]
			if r := Check(&a, &b); r != ReasonNone {
				out = append(out, Conflict{A: cats[i], B: cats[j], Reason: r})
			}
		}
	}
	return out
}

// Consistent reports whether every pair in sel is compatible.
func Consistent(sel garment.Selection) bool {
	cats := sel.Categories()
	for i := 0; i < len(cats); i++ {
		a := sel[cats[i]]
		for j := i + 1; j < len(cats); j++ {
			b := sel[cats[j]]
			if !Compatible(&a, &b) {
				return false
			}
		}
	}
	return true
}
