// Package validation decides whether outfit selections are wearable and consistent.
package validation

import (
	"fmt"

	"github.com/okian/closet/internal/domain/compat"
	"github.com/okian/closet/internal/domain/garment"
)

// Requirement names a structural slot an outfit must fill.
type Requirement string

// Structural requirements of a complete outfit.
const (
	RequireTop   Requirement = "top"
	RequirePants Requirement = "pants"
	RequireShoes Requirement = "shoes"
)

// Missing lists the structural requirements sel does not satisfy.
// Accessories and outerwear are optional.
func Missing(sel garment.Selection) []Requirement {
	var out []Requirement
	if !sel.Has(garment.Shirt) && !sel.Has(garment.Undershirt) {
		out = append(out, RequireTop)
	}
	if !sel.Has(garment.Pants) {
		out = append(out, RequirePants)
	}
	if !sel.Has(garment.Shoes) {
		out = append(out, RequireShoes)
	}
	return out
}

// ValidateOutfit reports whether sel is a complete, wearable outfit: a shirt or an
// undershirt, plus pants and shoes.
func ValidateOutfit(sel garment.Selection) bool {
	return len(Missing(sel)) == 0
}

// ValidatePartialSelection reports whether placing candidate into target keeps sel
// internally consistent. The candidate replaces any garment already in target.
// A candidate from another category is rejected. Errors are returned only for
// contract violations: a nil candidate or an unknown target.
func ValidatePartialSelection(sel garment.Selection, candidate *garment.Garment, target garment.Category) (bool, error) {
	if candidate == nil {
		return false, fmt.Errorf("validate partial selection: %w", garment.ErrNilGarment)
	}
	if !target.Valid() {
		return false, fmt.Errorf("validate partial selection: %w: %q", garment.ErrUnknownCategory, target)
	}
	if candidate.Category != target {
		return false, nil
	}
	return compat.FitsSelection(sel, candidate, target), nil
}

// Report is a structured verdict for presentation and API callers.
type Report struct {
	Complete  bool              `json:"complete"`
	Missing   []Requirement     `json:"missing,omitempty"`
	Conflicts []compat.Conflict `json:"conflicts,omitempty"`
}

// Valid reports whether the selection is complete and conflict free.
func (r Report) Valid() bool {
	return r.Complete && len(r.Conflicts) == 0
}

// Inspect builds a Report for sel.
func Inspect(sel garment.Selection) Report {
	missing := Missing(sel)
	return Report{
		Complete:  len(missing) == 0,
		Missing:   missing,
		Conflicts: compat.Conflicts(sel),
	}
}
