package loadtest

import (
	"context"
	"math/rand/v2"
	"net/http"
	"sync/atomic"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/types"
	"github.com/okian/closet/pkg/logger"
)

const optionalLayerChance = 0.4

type selectionRequest struct {
	Items []string `json:"items"`
}

// randomSelections draws one garment per required slot and sometimes optional
// layers. Draws happen up front so workers share no random source.
func randomSelections(rng *rand.Rand, items []garment.Garment, n int) [][]string {
	byCat := make(map[garment.Category][]garment.Garment)
	for _, g := range items {
		byCat[g.Category] = append(byCat[g.Category], g)
	}
	pick := func(c garment.Category) (string, bool) {
		pool := byCat[c]
		if len(pool) == 0 {
			return "", false
		}
		return pool[rng.IntN(len(pool))].ID, true
	}

	out := make([][]string, n)
	for i := range out {
		var ids []string
		top := garment.Shirt
		if rng.IntN(2) == 0 {
			top = garment.Undershirt
		}
		for _, c := range []garment.Category{top, garment.Pants, garment.Shoes} {
			if id, ok := pick(c); ok {
				ids = append(ids, id)
			}
		}
		for _, c := range []garment.Category{garment.Outerwear, garment.Belt, garment.Watch} {
			if rng.Float64() < optionalLayerChance {
				if id, ok := pick(c); ok {
					ids = append(ids, id)
				}
			}
		}
		out[i] = ids
	}
	return out
}

// scoreSelections posts random selections to /score concurrently.
func (r *runner) scoreSelections(ctx context.Context, items []garment.Garment) error {
	if r.cfg.Selections == 0 {
		return nil
	}
	selections := randomSelections(r.rng, items, r.cfg.Selections)
	r.log.Info(ctx, "scoring selections",
		logger.Int("selections", len(selections)),
		logger.Int("workers", r.cfg.Workers))

	var scored, valid, failed atomic.Int64
	fanOut(ctx, r.cfg.Workers, len(selections), func(i int) {
		var ev types.Evaluation
		err := r.client.call(ctx, http.MethodPost, "/score", selectionRequest{Items: selections[i]}, http.StatusOK, &ev)
		if err != nil {
			failed.Add(1)
			r.debug(ctx, "score failed", logger.Error(err))
			return
		}
		scored.Add(1)
		if ev.Valid() {
			valid.Add(1)
		}
	})

	r.stats.Scored = int(scored.Load())
	r.stats.ScoredValid = int(valid.Load())
	r.stats.ScoreFailed = int(failed.Load())
	r.log.Info(ctx, "scoring completed",
		logger.Int("scored", r.stats.Scored),
		logger.Int("valid", r.stats.ScoredValid),
		logger.Int("failed", r.stats.ScoreFailed))
	return ctx.Err()
}
