// Package types contains result shapes shared by the service and its presenters.
package types

import (
	"time"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/scoring"
	"github.com/okian/closet/internal/domain/validation"
)

// Entry is a ranked catalogue row. Rank is 1-based.
type Entry struct {
	Rank   int                     `json:"rank"`
	Outfit garment.GeneratedOutfit `json:"outfit"`
}

// Evaluation is the score and the validity verdict for one selection.
type Evaluation struct {
	Selection garment.Selection `json:"selection"`
	Breakdown scoring.Breakdown `json:"breakdown"`
	Report    validation.Report `json:"report"`
}

// Valid reports whether the evaluated selection is a complete, consistent outfit.
func (e *Evaluation) Valid() bool {
	return e.Report.Valid()
}

// RegenerateResult summarises a catalogue rebuild.
type RegenerateResult struct {
	Generated int           `json:"generated"`
	Added     int           `json:"added"`
	Removed   int           `json:"removed"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}
