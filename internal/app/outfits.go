package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/closet/internal/adapters/wardrobe"
	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/generation"
	"github.com/okian/closet/internal/domain/query"
	"github.com/okian/closet/internal/domain/scoring"
	"github.com/okian/closet/internal/domain/types"
	"github.com/okian/closet/internal/domain/validation"
	"github.com/okian/closet/pkg/logger"
	"github.com/okian/closet/pkg/metrics"
)

// Evaluation and RegenerateResult are shared with the presenters.
type (
	Evaluation       = types.Evaluation
	RegenerateResult = types.RegenerateResult
)

// Wardrobe loads the current wardrobe from the provider.
func (s *Service) Wardrobe(ctx context.Context) (garment.Wardrobe, error) {
	return s.provider.Wardrobe(ctx)
}

// Garments lists every garment in category then id order.
func (s *Service) Garments(ctx context.Context) ([]garment.Garment, error) {
	w, err := s.provider.Wardrobe(ctx)
	if err != nil {
		return nil, err
	}
	return w.All(), nil
}

// AddGarment stores g when the provider is writable.
func (s *Service) AddGarment(ctx context.Context, g garment.Garment) (garment.Garment, error) {
	store, ok := s.provider.(wardrobe.Store)
	if !ok {
		return garment.Garment{}, ErrReadOnly
	}
	return store.Add(ctx, g)
}

// DeleteGarment removes a garment when the provider is writable.
func (s *Service) DeleteGarment(ctx context.Context, id string) error {
	store, ok := s.provider.(wardrobe.Store)
	if !ok {
		return ErrReadOnly
	}
	if err := store.Delete(ctx, id); err != nil {
		if errors.Is(err, wardrobe.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrGarmentNotFound, id)
		}
		return err
	}
	return nil
}

// resolve turns garment ids into a selection over w. Each category may appear once.
func resolve(w garment.Wardrobe, ids []string) (garment.Selection, error) {
	sel := garment.Selection{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		g, ok := w.Find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrGarmentNotFound, id)
		}
		if prev, dup := sel.Get(g.Category); dup {
			return nil, fmt.Errorf("%w: %s and %s are both %s", ErrDuplicateCategory, prev.ID, g.ID, g.Category)
		}
		sel = sel.With(g.Category, g)
	}
	return sel, nil
}

// Selection loads the wardrobe and resolves ids against it.
func (s *Service) Selection(ctx context.Context, ids []string) (garment.Selection, garment.Wardrobe, error) {
	w, err := s.provider.Wardrobe(ctx)
	if err != nil {
		return nil, garment.Wardrobe{}, err
	}
	sel, err := resolve(w, ids)
	if err != nil {
		return nil, garment.Wardrobe{}, err
	}
	return sel, w, nil
}

// Evaluate scores and validates the selection made of ids.
func (s *Service) Evaluate(ctx context.Context, ids []string) (Evaluation, error) {
	if err := s.running(); err != nil {
		return Evaluation{}, err
	}
	sel, _, err := s.Selection(ctx, ids)
	if err != nil {
		return Evaluation{}, err
	}
	ev := Evaluation{
		Selection: sel,
		Breakdown: s.scorer.Score(sel),
		Report:    validation.Inspect(sel),
	}
	if ev.Breakdown.Percentage == scoring.NoScore {
		metrics.RecordDegenerateScore()
	} else {
		metrics.RecordOutfitScored(ev.Breakdown.Percentage)
	}
	metrics.RecordValidation("outfit", ev.Report.Valid())
	return ev, nil
}

// ValidatePartial reports whether the candidate garment fits into target on top of ids.
func (s *Service) ValidatePartial(ctx context.Context, ids []string, candidateID string, target garment.Category) (bool, error) {
	sel, w, err := s.Selection(ctx, ids)
	if err != nil {
		return false, err
	}
	candidate, ok := w.Find(candidateID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrGarmentNotFound, candidateID)
	}
	fits, err := validation.ValidatePartialSelection(sel, &candidate, target)
	if err != nil {
		return false, err
	}
	metrics.RecordValidation("partial", fits)
	return fits, nil
}

// Compatible lists garments of target that fit the selection made of ids.
func (s *Service) Compatible(ctx context.Context, ids []string, target garment.Category) ([]garment.Garment, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	sel, w, err := s.Selection(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.generator.CompatibleItems(sel, target, w)
}

// RandomOutfit samples one outfit from the wardrobe.
func (s *Service) RandomOutfit(ctx context.Context) (generation.RandomResult, error) {
	if err := s.running(); err != nil {
		return generation.RandomResult{}, err
	}
	w, err := s.provider.Wardrobe(ctx)
	if err != nil {
		return generation.RandomResult{}, err
	}
	return s.generator.RandomOutfit(w), nil
}

// OutfitsForAnchor enumerates the outfits around the garment with the given id.
func (s *Service) OutfitsForAnchor(ctx context.Context, id string) ([]garment.GeneratedOutfit, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	w, err := s.provider.Wardrobe(ctx)
	if err != nil {
		return nil, err
	}
	anchor, ok := w.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGarmentNotFound, id)
	}
	return s.generator.OutfitsForAnchor(ctx, &anchor, w)
}

// Regenerate enumerates every outfit in the wardrobe and replaces the generated part
// of the catalogue. Curated and loved outfits survive.
func (s *Service) Regenerate(ctx context.Context) (RegenerateResult, error) {
	if err := s.running(); err != nil {
		return RegenerateResult{}, err
	}
	start := time.Now()
	w, err := s.provider.Wardrobe(ctx)
	if err != nil {
		return RegenerateResult{}, err
	}
	outfits, err := s.generator.AllOutfits(ctx, w)
	if err != nil {
		return RegenerateResult{}, err
	}
	added, removed, err := s.catalogue.ReplaceGenerated(ctx, outfits)
	if err != nil {
		return RegenerateResult{}, err
	}

	res := RegenerateResult{
		Generated: len(outfits),
		Added:     added,
		Removed:   removed,
		Elapsed:   time.Since(start),
	}
	s.mu.Lock()
	s.generatedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info(ctx, "catalogue regenerated",
		logger.Int("generated", res.Generated),
		logger.Int("added", added),
		logger.Int("removed", removed),
		logger.Duration("elapsed", res.Elapsed))
	return res, nil
}

// Curate validates the selection made of ids, scores it and stores it as curated.
func (s *Service) Curate(ctx context.Context, ids []string) (garment.GeneratedOutfit, error) {
	ev, err := s.Evaluate(ctx, ids)
	if err != nil {
		return garment.GeneratedOutfit{}, err
	}
	if len(ev.Selection) == 0 {
		return garment.GeneratedOutfit{}, ErrEmptySelection
	}
	if !ev.Report.Valid() {
		metrics.RecordErrorByComponent("service", "invalid_outfit")
		return garment.GeneratedOutfit{}, fmt.Errorf("%w: missing %v, %d conflicts",
			ErrInvalidOutfit, ev.Report.Missing, len(ev.Report.Conflicts))
	}

	o := garment.NewGeneratedOutfit(ev.Selection, ev.Breakdown.Percentage, garment.SourceCurated)
	if _, err := s.catalogue.Upsert(ctx, o); err != nil {
		return garment.GeneratedOutfit{}, err
	}
	return s.catalogue.Get(ctx, o.Key)
}

// SetLoved marks or unmarks a catalogue outfit.
func (s *Service) SetLoved(ctx context.Context, key string, loved bool) (garment.GeneratedOutfit, error) {
	if err := s.running(); err != nil {
		return garment.GeneratedOutfit{}, err
	}
	return s.catalogue.SetLoved(ctx, key, loved)
}

// Outfit returns a catalogue outfit with its rank.
func (s *Service) Outfit(ctx context.Context, key string) (types.Entry, error) {
	if err := s.running(); err != nil {
		return types.Entry{}, err
	}
	return s.catalogue.Rank(ctx, key)
}

// TopN returns the first n catalogue entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.catalogue.TopN(ctx, n)
}

// Outfits filters the catalogue synchronously through the shared memo.
func (s *Service) Outfits(ctx context.Context, term string, c query.Criteria) ([]garment.GeneratedOutfit, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.memo.Filter(s.catalogue.All(ctx), term, c), nil
}
