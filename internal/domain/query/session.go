package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/pkg/logger"
	"github.com/okian/closet/pkg/metrics"
)

// DefaultDebounce is how long a session waits for further input before dispatching.
const DefaultDebounce = 150 * time.Millisecond

// Session errors.
var (
	ErrSessionClosed = errors.New("search session closed")
	ErrQueueRejected = errors.New("search request rejected by queue")
)

// Receiver accepts computed results. Deliver reports whether the result was kept.
type Receiver interface {
	Deliver(res Result) bool
}

// Request is one unit of background filter work.
type Request struct {
	SessionID string
	Seq       uint64
	Term      string
	Criteria  Criteria
	Outfits   []garment.GeneratedOutfit
	Submitted time.Time
	Reply     Receiver
}

// Result is a computed filter for one Request.
type Result struct {
	SessionID string                    `json:"session_id"`
	Seq       uint64                    `json:"seq"`
	Term      string                    `json:"term"`
	Outfits   []garment.GeneratedOutfit `json:"outfits"`
	Elapsed   time.Duration             `json:"elapsed_ns"`
}

// Compute runs the filter for req through memo, or directly when memo is nil.
func Compute(req *Request, memo *Memo) Result {
	var outfits []garment.GeneratedOutfit
	if memo != nil {
		outfits = memo.Filter(req.Outfits, req.Term, req.Criteria)
	} else {
		outfits = Filter(req.Outfits, req.Term, req.Criteria)
	}
	return Result{
		SessionID: req.SessionID,
		Seq:       req.Seq,
		Term:      req.Term,
		Outfits:   outfits,
		Elapsed:   time.Since(req.Submitted),
	}
}

// Enqueuer schedules requests for background computation. Enqueue reports whether
// the request was accepted.
type Enqueuer interface {
	Enqueue(ctx context.Context, req Request) bool
}

// SessionOption applies a configuration option to a Session.
type SessionOption func(*Session)

// WithDebounce sets the quiet period before a submission is dispatched. Zero
// dispatches immediately.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithSessionLogger sets the session logger.
func WithSessionLogger(l logger.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Session is one interactive search. Every Submit supersedes the previous ones: only
// the result of the newest submission is delivered, and a delivered result is never
// followed by an older one. Abandoned work may still run; its output is discarded.
type Session struct {
	id       string
	enq      Enqueuer
	debounce time.Duration
	log      logger.Logger

	mu        sync.Mutex
	seq       uint64
	delivered uint64
	timer     *time.Timer
	last      Result
	changed   chan struct{}
	results   chan Result
	closed    bool
}

// NewSession creates a session dispatching through enq.
func NewSession(id string, enq Enqueuer, opts ...SessionOption) *Session {
	s := &Session{
		id:       id,
		enq:      enq,
		debounce: DefaultDebounce,
		log:      logger.GetOrDiscard(),
		changed:  make(chan struct{}),
		results:  make(chan Result, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("search").Named(id)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Submit records new input and schedules its computation after the debounce period.
// It returns the sequence number assigned to the input.
func (s *Session) Submit(ctx context.Context, term string, c Criteria, outfits []garment.GeneratedOutfit) (uint64, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrSessionClosed
	}
	s.seq++
	req := Request{
		SessionID: s.id,
		Seq:       s.seq,
		Term:      term,
		Criteria:  c,
		Outfits:   outfits,
		Submitted: time.Now(),
		Reply:     s,
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.debounce > 0 {
		s.timer = time.AfterFunc(s.debounce, func() { s.dispatch(context.WithoutCancel(ctx), req) })
		s.mu.Unlock()
		return req.Seq, nil
	}
	s.mu.Unlock()

	return req.Seq, s.enqueue(ctx, req)
}

// dispatch enqueues req unless newer input arrived during the debounce period.
func (s *Session) dispatch(ctx context.Context, req Request) {
	s.mu.Lock()
	stale := s.closed || req.Seq != s.seq
	s.mu.Unlock()
	if stale {
		metrics.RecordSearchSuperseded()
		return
	}
	if err := s.enqueue(ctx, req); err != nil {
		s.log.Warn(ctx, "search dispatch failed", logger.Int("seq", int(req.Seq)), logger.Error(err))
	}
}

func (s *Session) enqueue(ctx context.Context, req Request) error {
	if !s.enq.Enqueue(ctx, req) {
		return ErrQueueRejected
	}
	return nil
}

// Deliver publishes res if it answers the newest submission and is newer than
// anything already delivered. Stale results are dropped.
func (s *Session) Deliver(res Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || res.Seq != s.seq || res.Seq <= s.delivered {
		metrics.RecordSearchSuperseded()
		return false
	}
	s.delivered = res.Seq
	s.last = res

	// One slot: a newer result replaces one nobody has read yet.
	select {
	case <-s.results:
	default:
	}
	s.results <- res

	close(s.changed)
	s.changed = make(chan struct{})
	metrics.RecordSearchDelivered()
	return true
}

// Results streams delivered results. Only the newest unread result is buffered.
func (s *Session) Results() <-chan Result {
	return s.results
}

// Latest returns the last delivered result.
func (s *Session) Latest() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.delivered > 0
}

// Seq returns the sequence number of the newest submission.
func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Wait blocks until a result with sequence >= minSeq is delivered, the session
// closes or ctx ends. It returns the latest delivered result in every case.
func (s *Session) Wait(ctx context.Context, minSeq uint64) (Result, error) {
	for {
		s.mu.Lock()
		if s.delivered > 0 && s.delivered >= minSeq {
			res := s.last
			s.mu.Unlock()
			return res, nil
		}
		if s.closed {
			res := s.last
			s.mu.Unlock()
			return res, ErrSessionClosed
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			res, _ := s.Latest()
			return res, ctx.Err()
		}
	}
}

// Close stops pending dispatches and wakes waiters. Later results are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	close(s.changed)
	close(s.results)
}
