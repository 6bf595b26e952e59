// Package wardrobe supplies garment collections to the engine from YAML files, a
// SQLite database or memory.
package wardrobe

import (
	"context"
	"sync"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/pkg/metrics"
)

// Provider returns the current wardrobe. Each call reads fresh state.
type Provider interface {
	Wardrobe(ctx context.Context) (garment.Wardrobe, error)
}

// Store is a Provider that can also be edited.
type Store interface {
	Provider
	// Add stores g, assigning an id when g has none, and returns the stored garment.
	Add(ctx context.Context, g garment.Garment) (garment.Garment, error)
	// List returns every garment ordered by category then id.
	List(ctx context.Context) ([]garment.Garment, error)
	// Delete removes the garment with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// Static is an in-memory Store.
type Static struct {
	mu    sync.RWMutex
	items map[string]garment.Garment
}

var _ Store = (*Static)(nil)

// NewStatic creates a static provider holding items.
func NewStatic(items ...garment.Garment) *Static {
	s := &Static{items: make(map[string]garment.Garment, len(items))}
	for _, g := range items {
		s.items[g.ID] = g
	}
	return s
}

// Wardrobe implements Provider.
func (s *Static) Wardrobe(ctx context.Context) (garment.Wardrobe, error) {
	items, _ := s.List(ctx)
	return build(items)
}

// Add implements Store.
func (s *Static) Add(_ context.Context, g garment.Garment) (garment.Garment, error) {
	g = withID(g)
	if err := g.Validate(); err != nil {
		return garment.Garment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[g.ID] = g
	return g, nil
}

// List implements Store.
func (s *Static) List(_ context.Context) ([]garment.Garment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]garment.Garment, 0, len(s.items))
	for _, g := range s.items {
		out = append(out, g)
	}
	sortGarments(out)
	return out, nil
}

// Delete implements Store.
func (s *Static) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// build validates items into a wardrobe and publishes per-category gauges.
func build(items []garment.Garment) (garment.Wardrobe, error) {
	w, err := garment.NewWardrobe(items)
	if err != nil {
		metrics.RecordWardrobeLoadError()
		return garment.Wardrobe{}, err
	}
	counts := w.Counts()
	for _, c := range garment.Categories {
		metrics.UpdateWardrobeItems(string(c), counts[c])
	}
	return w, nil
}
