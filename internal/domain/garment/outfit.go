package garment

import "strings"

// Source tags where a generated outfit came from.
type Source string

// Known sources.
const (
	SourceCurated   Source = "curated"
	SourceGenerated Source = "generated"
)

// GeneratedOutfit is a selection plus engine-owned derived fields. The score is
// attached at creation; callers rescore when they change the selection.
type GeneratedOutfit struct {
	Key       string    `json:"key"`
	Selection Selection `json:"selection"`
	Score     int       `json:"score"`
	Source    Source    `json:"source"`
	Loved     bool      `json:"loved,omitempty"`
}

// NewGeneratedOutfit builds an outfit with its key derived from the selection.
func NewGeneratedOutfit(sel Selection, score int, source Source) GeneratedOutfit {
	return GeneratedOutfit{
		Key:       sel.Key(),
		Selection: sel,
		Score:     score,
		Source:    source,
	}
}

// Names returns the item names in canonical category order.
func (o *GeneratedOutfit) Names() []string {
	items := o.Selection.Items()
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].Name
	}
	return out
}

// CompareOutfits orders outfits by score descending, then walks categories in
// canonical order: an outfit occupying an earlier category sorts first, and equal
// categories compare by garment id.
func CompareOutfits(a, b *GeneratedOutfit) int {
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}
	return CompareSelections(a.Selection, b.Selection)
}

// CompareSelections orders selections category-then-id.
func CompareSelections(a, b Selection) int {
	for _, c := range Categories {
		ga, okA := a[c]
		gb, okB := b[c]
		switch {
		case okA && !okB:
			return -1
		case !okA && okB:
			return 1
		case okA && okB:
			if d := strings.Compare(ga.ID, gb.ID); d != 0 {
				return d
			}
		}
	}
	return 0
}
