// Package seed generates random wardrobes for demos, load tests and benchmarks.
package seed

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/pkg/logger"
)

// Default generation settings.
const (
	DefaultPerCategory = 4
	MaxPerCategory     = 500
)

// Config controls wardrobe generation.
type Config struct {
	PerCategory int                // items generated per category
	Categories  []garment.Category // categories to fill; defaults to the outfit categories
	Seed        uint64             // zero picks a time based seed
	Brands      []string           // optional brand pool
}

// profile is a style band; each garment is drawn from one.
type profile struct {
	name          string
	minFormality  int
	formalityBand int
	tags          []string
}

var profiles = []profile{
	{name: "casual", minFormality: 1, formalityBand: 4, tags: []string{"casual", "relaxed", "street"}},
	{name: "smart", minFormality: 4, formalityBand: 4, tags: []string{"smart", "classic", "casual"}},
	{name: "formal", minFormality: 7, formalityBand: 4, tags: []string{"formal", "classic", "evening"}},
	{name: "sport", minFormality: 1, formalityBand: 3, tags: []string{"sport", "street"}},
}

var colours = []string{"Navy", "Grey", "Black", "White", "Olive", "Camel", "Burgundy", "Stone", "Charcoal", "Sky"}

var nouns = map[garment.Category][]string{
	garment.Outerwear:  {"Blazer", "Overcoat", "Bomber", "Denim Jacket", "Parka"},
	garment.Shirt:      {"Oxford Shirt", "Poplin Shirt", "Flannel Shirt", "Linen Shirt", "Polo"},
	garment.Undershirt: {"Tee", "Henley", "Tank", "Crew Neck", "Long Sleeve Tee"},
	garment.Pants:      {"Chinos", "Jeans", "Trousers", "Joggers", "Cords"},
	garment.Shoes:      {"Loafers", "Sneakers", "Derbies", "Boots", "Oxfords"},
	garment.Belt:       {"Leather Belt", "Canvas Belt", "Braided Belt"},
	garment.Watch:      {"Dress Watch", "Diver", "Field Watch", "Chronograph"},
	garment.Dress:      {"Slip Dress", "Shirt Dress", "Wrap Dress"},
	garment.Other:      {"Scarf", "Cap", "Tie"},
}

// DefaultCategories are the categories that take part in outfits.
var DefaultCategories = []garment.Category{
	garment.Outerwear, garment.Shirt, garment.Undershirt, garment.Pants,
	garment.Shoes, garment.Belt, garment.Watch,
}

// Generate builds a random wardrobe. A non-zero seed makes names, formality, tags
// and ids reproducible.
func Generate(ctx context.Context, cfg Config) ([]garment.Garment, error) {
	if cfg.PerCategory == 0 {
		cfg.PerCategory = DefaultPerCategory
	}
	if cfg.PerCategory < 0 || cfg.PerCategory > MaxPerCategory {
		return nil, fmt.Errorf("%w: per category must be in 1..%d, got %d", ErrInvalidConfig, MaxPerCategory, cfg.PerCategory)
	}
	cats := cfg.Categories
	if len(cats) == 0 {
		cats = DefaultCategories
	}
	for _, c := range cats {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidConfig, garment.ErrUnknownCategory, c)
		}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	rng := rand.New(src)

	out := make([]garment.Garment, 0, cfg.PerCategory*len(cats))
	for _, c := range cats {
		for i := 0; i < cfg.PerCategory; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			id, err := uuid.NewRandomFromReader(src)
			if err != nil {
				return nil, fmt.Errorf("generate id: %w", err)
			}
			out = append(out, item(rng, id.String(), c, cfg.Brands))
		}
	}

	logger.GetOrDiscard().Named("seed").Info(ctx, "wardrobe generated",
		logger.Int("garments", len(out)),
		logger.Int("categories", len(cats)))
	return out, nil
}

func item(rng *rand.Rand, id string, c garment.Category, brands []string) garment.Garment {
	p := profiles[rng.IntN(len(profiles))]
	pool := nouns[c]
	g := garment.Garment{
		ID:        id,
		Name:      colours[rng.IntN(len(colours))] + " " + pool[rng.IntN(len(pool))],
		Category:  c,
		Formality: clamp(p.minFormality + rng.IntN(p.formalityBand)),
	}
	// Some garments stay untagged and so match every style.
	if rng.IntN(5) > 0 {
		n := 1 + rng.IntN(len(p.tags))
		perm := rng.Perm(len(p.tags))
		for _, idx := range perm[:n] {
			g.StyleTags = append(g.StyleTags, p.tags[idx])
		}
	}
	if len(brands) > 0 {
		g.Brand = brands[rng.IntN(len(brands))]
	}
	return g
}

func clamp(f int) int {
	if f < garment.MinFormality {
		return garment.MinFormality
	}
	if f > garment.MaxFormality {
		return garment.MaxFormality
	}
	return f
}
