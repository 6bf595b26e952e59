package loadtest

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/seed"
	"github.com/okian/closet/pkg/logger"
)

// seedWardrobe posts a generated wardrobe. A read-only server answers 409 and the
// garments count as skipped.
func (r *runner) seedWardrobe(ctx context.Context) error {
	if r.cfg.PerCategory == 0 {
		return nil
	}
	items, err := seed.Generate(ctx, seed.Config{PerCategory: r.cfg.PerCategory, Seed: r.cfg.Seed})
	if err != nil {
		return err
	}
	r.log.Info(ctx, "seeding wardrobe", logger.Int("garments", len(items)))

	var added, skipped, failed atomic.Int64
	fanOut(ctx, r.cfg.Workers, len(items), func(i int) {
		status, body, err := r.client.do(ctx, http.MethodPost, "/garments", items[i])
		switch {
		case err != nil:
			failed.Add(1)
			r.debug(ctx, "garment not added", logger.Error(err))
		case status == http.StatusCreated:
			added.Add(1)
		case status == http.StatusConflict:
			skipped.Add(1)
		default:
			failed.Add(1)
			r.debug(ctx, "garment rejected", logger.Int("status", status), logger.String("body", string(body)))
		}
	})

	r.stats.GarmentsAdded = int(added.Load())
	r.stats.GarmentsSkipped = int(skipped.Load())
	r.stats.GarmentsFailed = int(failed.Load())
	r.log.Info(ctx, "wardrobe seeded",
		logger.Int("added", r.stats.GarmentsAdded),
		logger.Int("skipped", r.stats.GarmentsSkipped),
		logger.Int("failed", r.stats.GarmentsFailed))
	return ctx.Err()
}

// fetchWardrobe reads what the server holds now.
func (r *runner) fetchWardrobe(ctx context.Context) ([]garment.Garment, error) {
	var items []garment.Garment
	if err := r.client.call(ctx, http.MethodGet, "/garments", nil, http.StatusOK, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoGarments
	}
	r.stats.Wardrobe = len(items)
	return items, nil
}
