package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/okian/closet/internal/domain/garment"
)

// seedCatalogue fills store with n synthetic outfits.
func seedCatalogue(ctx context.Context, store Store, n int) error {
	for i := 0; i < n; i++ {
		sel := garment.NewSelection(
			garment.Garment{ID: fmt.Sprintf("s%d", i%997), Category: garment.Shirt, Formality: 1 + i%10},
			garment.Garment{ID: fmt.Sprintf("p%d", i), Category: garment.Pants, Formality: 1 + (i/10)%10},
			garment.Garment{ID: fmt.Sprintf("k%d", i%31), Category: garment.Shoes, Formality: 1 + (i/100)%10},
		)
		if _, err := store.Upsert(ctx, garment.NewGeneratedOutfit(sel, rand.IntN(101), garment.SourceGenerated)); err != nil {
			return err
		}
	}
	return nil
}

func BenchmarkTreapStore_Upsert(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() { _ = store.Close() }()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Upsert(ctx, testOutfit(rand.IntN(101), fmt.Sprintf("s%d", i), "p", "k"))
	}
}

func BenchmarkTreapStore_MixedLoad(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() { _ = store.Close() }()

	const size = 50_000
	if err := seedCatalogue(ctx, store, size); err != nil {
		b.Fatal(err)
	}
	keys := keysOf(store.All(ctx))

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			switch i % 10 {
			case 0, 1, 2:
				_, _ = store.SetLoved(ctx, keys[i%len(keys)], i%2 == 0)
			case 3, 4, 5, 6:
				_, _ = store.Rank(ctx, keys[i%len(keys)])
			default:
				_, _ = store.TopN(ctx, 10+i%100)
			}
			i++
		}
	})
}
