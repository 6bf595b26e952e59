// Package layering assigns visibility weights to occupied categories. Outer layers
// cover inner ones: outerwear over shirt over undershirt.
package layering

import (
	"github.com/okian/closet/internal/domain/garment"
)

// Fixed visibility weights.
const (
	Visible         = 1.0
	PartlyCovered   = 0.7 // directly under outerwear
	DoublyCovered   = 0.3 // undershirt under a shirt, with or without outerwear
	AccessoryWeight = 0.8
)

// cover describes which covering categories are present.
type cover uint8

const (
	coverNone  cover = 0
	coverOuter cover = 1 << iota
	coverShirt
)

type key struct {
	category garment.Category
	cover    cover
}

// table is keyed by (category, covering presence). Categories missing from the
// table weigh as Visible regardless of cover.
var table = map[key]float64{
	{garment.Shirt, coverNone}:                    Visible,
	{garment.Shirt, coverOuter}:                   PartlyCovered,
	{garment.Undershirt, coverNone}:               Visible,
	{garment.Undershirt, coverOuter}:              PartlyCovered,
	{garment.Undershirt, coverShirt}:              DoublyCovered,
	{garment.Undershirt, coverShirt | coverOuter}: DoublyCovered,
	{garment.Belt, coverNone}:                     AccessoryWeight,
	{garment.Watch, coverNone}:                    AccessoryWeight,
}

// relevantCover masks the covering presence to what matters for c.
func relevantCover(c garment.Category, present cover) cover {
	switch c {
	case garment.Shirt:
		return present & coverOuter
	case garment.Undershirt:
		return present & (coverOuter | coverShirt)
	default:
		return coverNone
	}
}

func coverOf(sel garment.Selection) cover {
	var cv cover
	if sel.Has(garment.Outerwear) {
		cv |= coverOuter
	}
	if sel.Has(garment.Shirt) {
		cv |= coverShirt
	}
	return cv
}

// Weight returns the visibility weight for category c given the occupied categories
// of sel. It depends only on which categories are present, never on the garments.
func Weight(c garment.Category, sel garment.Selection) float64 {
	if w, ok := table[key{c, relevantCover(c, coverOf(sel))}]; ok {
		return w
	}
	return Visible
}

// Entry is the weight applied to one occupied category.
type Entry struct {
	Category garment.Category
	Weight   float64
}

// Weights returns the weight of every occupied category in canonical order.
func Weights(sel garment.Selection) []Entry {
	cv := coverOf(sel)
	cats := sel.Categories()
	out := make([]Entry, len(cats))
	for i, c := range cats {
		w, ok := table[key{c, relevantCover(c, cv)}]
		if !ok {
			w = Visible
		}
		out[i] = Entry{Category: c, Weight: w}
	}
	return out
}
