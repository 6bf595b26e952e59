package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/closet/internal/domain/types"
	"github.com/okian/closet/pkg/logger"
)

const displayTop = 10

// verifyCatalogue fetches the top of the catalogue and checks it against the
// per-outfit rank endpoint.
func (r *runner) verifyCatalogue(ctx context.Context) error {
	var top []types.Entry
	path := "/outfits/top?limit=" + strconv.Itoa(r.cfg.TopN)
	if err := r.client.call(ctx, http.MethodGet, path, nil, http.StatusOK, &top); err != nil {
		return err
	}
	r.stats.TopEntries = len(top)

	if err := checkOrder(top); err != nil {
		return err
	}

	// First, middle and last entries must report the same rank when fetched alone.
	if len(top) > 0 {
		for _, i := range []int{0, len(top) / 2, len(top) - 1} {
			var e types.Entry
			key := url.PathEscape(top[i].Outfit.Key)
			if err := r.client.call(ctx, http.MethodGet, "/outfits/key/"+key, nil, http.StatusOK, &e); err != nil {
				return err
			}
			if e.Rank != top[i].Rank {
				return fmt.Errorf("%w: %s ranked %d in top, %d alone", ErrInconsistent, top[i].Outfit.Key, top[i].Rank, e.Rank)
			}
		}
	}

	for i := 0; i < min(displayTop, len(top)); i++ {
		r.log.Info(ctx, "top outfit",
			logger.Int("rank", top[i].Rank),
			logger.Int("score", top[i].Outfit.Score),
			logger.String("key", top[i].Outfit.Key))
	}
	r.log.Info(ctx, "catalogue verified", logger.Int("entries", len(top)))
	return nil
}

// checkOrder verifies ranks are 1..n and entries are ordered by score desc, key asc.
func checkOrder(top []types.Entry) error {
	for i := range top {
		if top[i].Rank != i+1 {
			return fmt.Errorf("%w: entry %d has rank %d", ErrInconsistent, i, top[i].Rank)
		}
		if i == 0 {
			continue
		}
		prev, cur := top[i-1].Outfit, top[i].Outfit
		if cur.Score > prev.Score || (cur.Score == prev.Score && cur.Key < prev.Key) {
			return fmt.Errorf("%w: %s (%d) ranked after %s (%d)", ErrInconsistent, cur.Key, cur.Score, prev.Key, prev.Score)
		}
	}
	return nil
}
