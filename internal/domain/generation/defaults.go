package generation

import (
	"context"

	"github.com/okian/closet/internal/domain/garment"
)

var defaultGenerator = NewGenerator()

// GenerateRandomOutfit samples an outfit with the default generator.
func GenerateRandomOutfit(w garment.Wardrobe) RandomResult {
	return defaultGenerator.RandomOutfit(w)
}

// GetOutfitsForAnchor enumerates outfits around anchor with the default generator.
func GetOutfitsForAnchor(ctx context.Context, anchor *garment.Garment, w garment.Wardrobe) ([]garment.GeneratedOutfit, error) {
	return defaultGenerator.OutfitsForAnchor(ctx, anchor, w)
}

// GetAllOutfits enumerates every outfit with the default generator.
func GetAllOutfits(ctx context.Context, w garment.Wardrobe) ([]garment.GeneratedOutfit, error) {
	return defaultGenerator.AllOutfits(ctx, w)
}

// GetCompatibleItems lists the garments of target that fit sel.
func GetCompatibleItems(sel garment.Selection, target garment.Category, w garment.Wardrobe) ([]garment.Garment, error) {
	return defaultGenerator.CompatibleItems(sel, target, w)
}
