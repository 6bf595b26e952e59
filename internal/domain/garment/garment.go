package garment

import (
	"fmt"
	"sort"
	"strings"
)

// Formality bounds.
const (
	MinFormality = 1
	MaxFormality = 10
)

// Garment is a read-only wardrobe item. The engine never mutates it.
type Garment struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Category  Category `json:"category" yaml:"category"`
	Formality int      `json:"formality" yaml:"formality"`
	StyleTags []string `json:"style_tags,omitempty" yaml:"style_tags,omitempty"`
	Brand     string   `json:"brand,omitempty" yaml:"brand,omitempty"`
	ImageRef  string   `json:"image_ref,omitempty" yaml:"image_ref,omitempty"`
}

// Validate checks the garment against the model constraints.
func (g *Garment) Validate() error {
	if g == nil {
		return ErrNilGarment
	}
	if strings.TrimSpace(g.ID) == "" {
		return ErrMissingID
	}
	if !g.Category.Valid() {
		return fmt.Errorf("garment %s: %w: %q", g.ID, ErrUnknownCategory, g.Category)
	}
	if g.Formality < MinFormality || g.Formality > MaxFormality {
		return fmt.Errorf("garment %s: %w: %d", g.ID, ErrInvalidFormality, g.Formality)
	}
	return nil
}

// Tags returns the normalized style tags: trimmed, lower-cased, deduplicated and sorted.
func (g *Garment) Tags() []string {
	if len(g.StyleTags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(g.StyleTags))
	out := make([]string, 0, len(g.StyleTags))
	for _, t := range g.StyleTags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Less orders garments by category then id.
func Less(a, b *Garment) bool {
	if a.Category != b.Category {
		return a.Category.Order() < b.Category.Order()
	}
	return a.ID < b.ID
}
