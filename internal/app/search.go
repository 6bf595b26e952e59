package service

import (
	"context"
	"time"

	"github.com/okian/closet/internal/domain/query"
)

// OpenSearch starts a search session over the catalogue.
func (s *Service) OpenSearch() (*query.Session, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.sessions.Open(), nil
}

// Search submits new input to a session. The catalogue is captured at submission
// time; results for older input are never delivered after newer ones.
func (s *Service) Search(ctx context.Context, id, term string, c query.Criteria) (uint64, error) {
	if err := s.running(); err != nil {
		return 0, err
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		return 0, err
	}
	return sess.Submit(ctx, term, c, s.catalogue.All(ctx))
}

// SearchResult returns the newest delivered result of a session. With wait > 0 it
// blocks up to wait for a result at least as new as the last submission.
func (s *Service) SearchResult(ctx context.Context, id string, wait time.Duration) (query.Result, bool, error) {
	if err := s.running(); err != nil {
		return query.Result{}, false, err
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		return query.Result{}, false, err
	}
	if wait <= 0 {
		res, ok := sess.Latest()
		return res, ok, nil
	}

	wctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	res, err := sess.Wait(wctx, sess.Seq())
	if err != nil {
		if wctx.Err() != nil && ctx.Err() == nil {
			// Timed out: report whatever is newest.
			res, ok := sess.Latest()
			return res, ok, nil
		}
		return query.Result{}, false, err
	}
	return res, true, nil
}

// CloseSearch ends a session.
func (s *Service) CloseSearch(id string) error {
	if err := s.running(); err != nil {
		return err
	}
	return s.sessions.Close(id)
}
