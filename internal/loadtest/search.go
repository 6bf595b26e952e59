package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/query"
	"github.com/okian/closet/pkg/logger"
)

type sessionResponse struct {
	ID  string `json:"id"`
	Seq uint64 `json:"seq"`
}

type searchResponse struct {
	Ready  bool         `json:"ready"`
	Result query.Result `json:"result"`
}

// searchSessions types garment names into concurrent sessions one character at a
// time and checks that the result read back belongs to the final input.
func (r *runner) searchSessions(ctx context.Context, items []garment.Garment) error {
	if r.cfg.Sessions == 0 {
		return nil
	}
	terms := make([]string, r.cfg.Sessions)
	for i := range terms {
		terms[i] = strings.ToLower(items[r.rng.IntN(len(items))].Name)
	}
	r.log.Info(ctx, "typing into search sessions", logger.Int("sessions", len(terms)))

	var opened, ordered, failed atomic.Int64
	fanOut(ctx, r.cfg.Workers, len(terms), func(i int) {
		var sess sessionResponse
		if err := r.client.call(ctx, http.MethodPost, "/search/sessions", nil, http.StatusCreated, &sess); err != nil {
			failed.Add(1)
			r.debug(ctx, "open session failed", logger.Error(err))
			return
		}
		opened.Add(1)
		defer func() {
			_ = r.client.call(ctx, http.MethodDelete, "/search/sessions/"+sess.ID, nil, http.StatusNoContent, nil)
		}()

		if err := r.typeAndCheck(ctx, sess.ID, terms[i]); err != nil {
			failed.Add(1)
			r.debug(ctx, "search check failed", logger.String("session", sess.ID), logger.Error(err))
			return
		}
		ordered.Add(1)
	})

	r.stats.SessionsOpened = int(opened.Load())
	r.stats.SearchesOrdered = int(ordered.Load())
	r.stats.SearchesFailed = int(failed.Load())
	r.log.Info(ctx, "search sessions completed",
		logger.Int("opened", r.stats.SessionsOpened),
		logger.Int("ordered", r.stats.SearchesOrdered),
		logger.Int("failed", r.stats.SearchesFailed))
	if r.stats.SearchesFailed > 0 {
		return fmt.Errorf("%w: %d search sessions", ErrInconsistent, r.stats.SearchesFailed)
	}
	return ctx.Err()
}

func (r *runner) typeAndCheck(ctx context.Context, id, term string) error {
	path := "/search/sessions/" + id
	runes := []rune(term)
	var last sessionResponse
	for n := 1; n <= len(runes); n++ {
		body := map[string]string{"term": string(runes[:n])}
		if err := r.client.call(ctx, http.MethodPut, path, body, http.StatusAccepted, &last); err != nil {
			return err
		}
	}

	var res searchResponse
	wait := "?wait=" + url.QueryEscape(r.cfg.SearchWait.String())
	if err := r.client.call(ctx, http.MethodGet, path+wait, nil, http.StatusOK, &res); err != nil {
		return err
	}
	switch {
	case !res.Ready:
		return fmt.Errorf("%w: no result after %s", ErrInconsistent, r.cfg.SearchWait)
	case res.Result.Seq != last.Seq:
		return fmt.Errorf("%w: read seq %d, last input was %d", ErrInconsistent, res.Result.Seq, last.Seq)
	case res.Result.Term != term:
		return fmt.Errorf("%w: read term %q, typed %q", ErrInconsistent, res.Result.Term, term)
	}
	for i := range res.Result.Outfits {
		if !query.MatchesTerm(&res.Result.Outfits[i], term) {
			return fmt.Errorf("%w: outfit %s does not match %q", ErrInconsistent, res.Result.Outfits[i].Key, term)
		}
	}
	return nil
}
