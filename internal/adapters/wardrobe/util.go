package wardrobe

import (
	"sort"

	"github.com/google/uuid"

	"github.com/okian/closet/internal/domain/garment"
)

// withID assigns a random id to garments that have none.
func withID(g garment.Garment) garment.Garment {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return g
}

func sortGarments(items []garment.Garment) {
	sort.Slice(items, func(i, j int) bool { return garment.Less(&items[i], &items[j]) })
}
