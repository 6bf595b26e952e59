// Package repository keeps the outfit catalogue: curated and generated outfits ranked
// by score, then by category-ordered garment ids.
package repository

import (
	"context"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/types"
)

// Entry is a ranked catalogue row. Rank is 1-based.
type Entry = types.Entry

// Store provides read/write access to the catalogue.
type Store interface {
	// Upsert inserts o or replaces the outfit with the same key. A curated source and
	// a loved flag already stored survive the replacement. Returns true on insert.
	Upsert(ctx context.Context, o garment.GeneratedOutfit) (bool, error)

	// ReplaceGenerated swaps the generated outfits for outfits. Curated and loved
	// outfits are kept. Returns how many entries were added and removed.
	ReplaceGenerated(ctx context.Context, outfits []garment.GeneratedOutfit) (added, removed int, err error)

	// Get returns the outfit stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (garment.GeneratedOutfit, error)

	// Delete removes the outfit stored under key, or returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// SetLoved marks or unmarks an outfit as loved.
	SetLoved(ctx context.Context, key string, loved bool) (garment.GeneratedOutfit, error)

	// Rank returns the position of an outfit. Returns ErrNotFound if the key is unknown.
	Rank(ctx context.Context, key string) (Entry, error)

	// TopN returns the first n entries in catalogue order.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// All returns every outfit in catalogue order.
	All(ctx context.Context) []garment.GeneratedOutfit

	// Count returns the number of outfits in the catalogue.
	Count(ctx context.Context) int

	// Reset drops every outfit.
	Reset(ctx context.Context)
}
