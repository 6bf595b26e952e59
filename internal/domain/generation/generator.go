// Package generation produces outfits from a wardrobe: random sampling, anchored
// enumeration, full enumeration and pick-list candidates.
package generation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/okian/closet/internal/domain/compat"
	"github.com/okian/closet/internal/domain/dedupe"
	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/scoring"
	"github.com/okian/closet/internal/domain/validation"
	"github.com/okian/closet/pkg/logger"
	"github.com/okian/closet/pkg/metrics"
)

// RandomResult is the outcome of RandomOutfit.
//
// Found is false only when a required slot has an empty pool; Outfit is then zero.
// Exhausted is true when no compatible combination turned up within the retry
// bound, in which case Outfit is the best-scoring combination seen.
type RandomResult struct {
	Outfit    garment.GeneratedOutfit `json:"outfit"`
	Attempts  int                     `json:"attempts"`
	Found     bool                    `json:"found"`
	Exhausted bool                    `json:"exhausted"`
}

// Generator builds outfits. It holds no wardrobe state; the wardrobe is passed into
// every call. The only mutable state is the random source, guarded by mu.
type Generator struct {
	scorer          scoring.Scorer
	retries         int
	accessoryChance float64
	optionalLayers  bool
	log             logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator with configuration options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		scorer:          scoring.NewEngine(),
		retries:         DefaultRetries,
		accessoryChance: DefaultAccessoryChance,
		log:             logger.GetOrDiscard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// topShape is one way of covering the torso.
type topShape []garment.Category

var (
	shapeShirt      = topShape{garment.Shirt}
	shapeUndershirt = topShape{garment.Undershirt}
	shapeLayered    = topShape{garment.Shirt, garment.Undershirt}
)

var optionalCategories = []garment.Category{garment.Outerwear, garment.Belt, garment.Watch}

// RandomOutfit samples outfits uniformly and returns the first one that is complete
// and internally compatible. It never loops past the retry bound.
func (g *Generator) RandomOutfit(w garment.Wardrobe) RandomResult {
	start := time.Now()
	defer func() {
		metrics.RecordGenerationLatency("random", float64(time.Since(start).Milliseconds()))
	}()

	shapes := availableShapes(w)
	if len(shapes) == 0 || len(w.Items(garment.Pants)) == 0 || len(w.Items(garment.Shoes)) == 0 {
		g.log.Debug(context.Background(), "random outfit: required pool empty",
			logger.Any("counts", w.Counts()))
		return RandomResult{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var (
		best     garment.GeneratedOutfit
		haveBest bool
		attempts int
	)
	for attempts < g.retries {
		attempts++
		sel := g.sample(w, shapes)
		outfit := garment.NewGeneratedOutfit(sel, g.scorer.Score(sel).Percentage, garment.SourceGenerated)
		if validation.ValidateOutfit(sel) && compat.Consistent(sel) {
			metrics.RecordRandomAttempts(attempts)
			metrics.RecordOutfitsGenerated("random", 1)
			return RandomResult{Outfit: outfit, Attempts: attempts, Found: true}
		}
		if !haveBest || garment.CompareOutfits(&outfit, &best) < 0 {
			best, haveBest = outfit, true
		}
	}

	metrics.RecordRandomAttempts(attempts)
	metrics.RecordRandomExhausted()
	g.log.Debug(context.Background(), "random outfit: retries exhausted, returning best effort",
		logger.Int("attempts", attempts),
		logger.String("key", best.Key),
		logger.Int("score", best.Score))
	return RandomResult{Outfit: best, Attempts: attempts, Found: true, Exhausted: true}
}

// sample draws one selection. Must be called with g.mu held.
func (g *Generator) sample(w garment.Wardrobe, shapes []topShape) garment.Selection {
	sel := make(garment.Selection, 6)
	for _, c := range shapes[g.rng.IntN(len(shapes))] {
		sel[c] = g.pick(w.Items(c))
	}
	sel[garment.Pants] = g.pick(w.Items(garment.Pants))
	sel[garment.Shoes] = g.pick(w.Items(garment.Shoes))
	for _, c := range optionalCategories {
		pool := w.Items(c)
		if len(pool) == 0 {
			continue
		}
		if g.rng.Float64() < g.accessoryChance {
			sel[c] = g.pick(pool)
		}
	}
	return sel
}

func (g *Generator) pick(pool []garment.Garment) garment.Garment {
	return pool[g.rng.IntN(len(pool))]
}

func availableShapes(w garment.Wardrobe) []topShape {
	hasShirt := len(w.Items(garment.Shirt)) > 0
	hasUnder := len(w.Items(garment.Undershirt)) > 0
	var shapes []topShape
	if hasShirt {
		shapes = append(shapes, shapeShirt)
	}
	if hasUnder {
		shapes = append(shapes, shapeUndershirt)
	}
	if hasShirt && hasUnder {
		shapes = append(shapes, shapeLayered)
	}
	return shapes
}

// OutfitsForAnchor fixes anchor in its category and enumerates every compatible,
// complete outfit around it, ordered by score descending then category-ordered ids.
// Candidates are pruned against the partial selection before descending, so
// incompatible branches are never scored.
func (g *Generator) OutfitsForAnchor(ctx context.Context, anchor *garment.Garment, w garment.Wardrobe) ([]garment.GeneratedOutfit, error) {
	start := time.Now()
	out, err := g.enumerateAnchor(ctx, anchor, w)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b garment.GeneratedOutfit) int { return garment.CompareOutfits(&a, &b) })

	metrics.RecordOutfitsGenerated("anchor", len(out))
	metrics.RecordGenerationLatency("anchor", float64(time.Since(start).Milliseconds()))
	return out, nil
}

// AllOutfits enumerates the whole compatible space by anchoring on every top garment.
// An outfit reachable from two anchors is listed once.
func (g *Generator) AllOutfits(ctx context.Context, w garment.Wardrobe) ([]garment.GeneratedOutfit, error) {
	start := time.Now()
	seen := dedupe.NewInMemoryDeduper()

	var out []garment.GeneratedOutfit
	for _, c := range []garment.Category{garment.Shirt, garment.Undershirt} {
		for _, anchor := range w.Items(c) {
			found, err := g.enumerateAnchor(ctx, &anchor, w)
			if err != nil {
				return nil, err
			}
			for _, o := range found {
				if seen.SeenAndRecord(ctx, o.Key) {
					metrics.RecordDuplicateOutfit()
					continue
				}
				out = append(out, o)
			}
		}
	}
	slices.SortFunc(out, func(a, b garment.GeneratedOutfit) int { return garment.CompareOutfits(&a, &b) })

	metrics.RecordOutfitsGenerated("all", len(out))
	metrics.RecordGenerationLatency("all", float64(time.Since(start).Milliseconds()))
	g.log.Debug(ctx, "enumerated all outfits",
		logger.Int("outfits", len(out)),
		logger.Int("wardrobe_items", w.Len()),
		logger.Duration("elapsed", time.Since(start)))
	return out, nil
}

// CompatibleItems returns the garments of target that keep sel consistent when placed
// into it, in wardrobe order. The result is empty, never nil, when nothing fits.
func (g *Generator) CompatibleItems(sel garment.Selection, target garment.Category, w garment.Wardrobe) ([]garment.Garment, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("compatible items: %w: %w: %q", ErrInvalidTarget, garment.ErrUnknownCategory, target)
	}
	out := []garment.Garment{}
	for _, item := range w.Items(target) {
		ok, err := validation.ValidatePartialSelection(sel, &item, target)
		if err != nil {
			return nil, fmt.Errorf("compatible items: %w", err)
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// slot is one position the enumerator fills. Optional slots may stay empty.
type slot struct {
	category garment.Category
	optional bool
}

func (g *Generator) enumerateAnchor(ctx context.Context, anchor *garment.Garment, w garment.Wardrobe) ([]garment.GeneratedOutfit, error) {
	if anchor == nil {
		return nil, fmt.Errorf("outfits for anchor: %w: %w", ErrInvalidAnchor, garment.ErrNilGarment)
	}
	if err := anchor.Validate(); err != nil {
		return nil, fmt.Errorf("outfits for anchor: %w: %w", ErrInvalidAnchor, err)
	}

	var out []garment.GeneratedOutfit
	for _, plan := range g.plans(anchor.Category) {
		sel := garment.Selection{anchor.Category: *anchor}
		if err := g.descend(ctx, w, sel, plan, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// plans lists the slot sequences to enumerate around an anchor of category c. Each
// plan covers a distinct top shape, so plans never produce the same outfit twice.
func (g *Generator) plans(c garment.Category) [][]slot {
	var shapes []topShape
	switch c {
	case garment.Shirt:
		shapes = []topShape{shapeShirt}
	case garment.Undershirt:
		shapes = []topShape{shapeUndershirt}
	default:
		shapes = []topShape{shapeShirt, shapeUndershirt}
	}
	if g.optionalLayers {
		shapes = append(shapes, shapeLayered)
	}

	plans := make([][]slot, 0, len(shapes))
	for _, shape := range shapes {
		var plan []slot
		for _, sc := range shape {
			if sc != c {
				plan = append(plan, slot{category: sc})
			}
		}
		for _, req := range []garment.Category{garment.Pants, garment.Shoes} {
			if req != c {
				plan = append(plan, slot{category: req})
			}
		}
		if g.optionalLayers {
			for _, oc := range optionalCategories {
				if oc != c {
					plan = append(plan, slot{category: oc, optional: true})
				}
			}
		}
		plans = append(plans, plan)
	}
	return plans
}

// descend fills plan depth first. sel is mutated in place and restored on return.
func (g *Generator) descend(ctx context.Context, w garment.Wardrobe, sel garment.Selection, plan []slot, out *[]garment.GeneratedOutfit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(plan) == 0 {
		if !validation.ValidateOutfit(sel) {
			return nil
		}
		final := make(garment.Selection, len(sel))
		for c, item := range sel {
			final[c] = item
		}
		*out = append(*out, garment.NewGeneratedOutfit(final, g.scorer.Score(final).Percentage, garment.SourceGenerated))
		return nil
	}

	s, rest := plan[0], plan[1:]
	if s.optional {
		if err := g.descend(ctx, w, sel, rest, out); err != nil {
			return err
		}
	}
	for _, candidate := range w.Items(s.category) {
		if !compat.FitsSelection(sel, &candidate, s.category) {
			continue
		}
		sel[s.category] = candidate
		if err := g.descend(ctx, w, sel, rest, out); err != nil {
			delete(sel, s.category)
			return err
		}
	}
	delete(sel, s.category)
	return nil
}
