// Package query filters outfit lists by search term and criteria, memoizes the
// results and schedules interactive searches so that newer input supersedes older.
package query

import (
	"strings"
	"time"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/pkg/metrics"
)

// Criteria narrows a filter beyond the search term. The zero value matches everything.
type Criteria struct {
	// MinScore excludes outfits scoring below it.
	MinScore int `json:"min_score,omitempty"`
	// Source restricts to curated or generated outfits when set.
	Source garment.Source `json:"source,omitempty"`
	// LovedOnly keeps only outfits marked as loved.
	LovedOnly bool `json:"loved_only,omitempty"`
	// Categories lists categories every kept outfit must occupy.
	Categories []garment.Category `json:"categories,omitempty"`
}

// Matches reports whether o satisfies c.
func (c *Criteria) Matches(o *garment.GeneratedOutfit) bool {
	if o.Score < c.MinScore {
		return false
	}
	if c.Source != "" && o.Source != c.Source {
		return false
	}
	if c.LovedOnly && !o.Loved {
		return false
	}
	for _, cat := range c.Categories {
		if !o.Selection.Has(cat) {
			return false
		}
	}
	return true
}

// MatchesTerm reports whether any item name of o contains term, ignoring case. The
// term is literal text; an empty or blank term matches every outfit.
func MatchesTerm(o *garment.GeneratedOutfit, term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}
	for _, item := range o.Selection {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			return true
		}
	}
	return false
}

// Filter keeps the outfits matching both term and c, preserving their order. It never
// fails and never modifies outfits; filtering its own output again is a no-op.
func Filter(outfits []garment.GeneratedOutfit, term string, c Criteria) []garment.GeneratedOutfit {
	start := time.Now()
	out := make([]garment.GeneratedOutfit, 0, len(outfits))
	for i := range outfits {
		if c.Matches(&outfits[i]) && MatchesTerm(&outfits[i], term) {
			out = append(out, outfits[i])
		}
	}
	metrics.RecordFilterLatency(float64(time.Since(start).Microseconds())/1000, len(out))
	return out
}
