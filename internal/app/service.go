// Package service composes the wardrobe source, the outfit engine, the catalogue and
// the background search pool into the operations served by the HTTP API and the CLI.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/closet/internal/adapters/mq/queue"
	"github.com/okian/closet/internal/adapters/mq/worker"
	"github.com/okian/closet/internal/adapters/repository"
	"github.com/okian/closet/internal/adapters/wardrobe"
	"github.com/okian/closet/internal/domain/generation"
	"github.com/okian/closet/internal/domain/query"
	"github.com/okian/closet/internal/domain/scoring"
	"github.com/okian/closet/pkg/logger"
	"github.com/okian/closet/pkg/metrics"
)

// Service implements the API dependencies for the outfit engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	provider  wardrobe.Provider
	scorer    *scoring.Engine
	generator *generation.Generator
	catalogue repository.Store
	memo      *query.Memo
	queue     *queue.InMemoryQueue
	pool      *worker.Pool
	sessions  *query.Registry

	// Configuration
	retries          int
	accessoryChance  float64
	optionalLayers   bool
	seed             uint64
	workerCount      int
	queueSize        int
	debounce         time.Duration
	memoSize         int
	snapshotInterval time.Duration

	// State
	started     bool
	cancel      context.CancelFunc
	generatedAt time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration. The wardrobe defaults to
// an empty static provider.
func New(opts ...Option) *Service {
	s := &Service{
		provider:         wardrobe.NewStatic(),
		retries:          generation.DefaultRetries,
		accessoryChance:  generation.DefaultAccessoryChance,
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        1024,
		debounce:         query.DefaultDebounce,
		memoSize:         query.DefaultMemoSize,
		snapshotInterval: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.GetOrDiscard().Named("service")
	}

	s.logger.Info(ctx, "starting closet service...")

	// The pool and the catalogue outlive the start request.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.scorer = scoring.NewEngine()
	genOpts := []generation.Option{
		generation.WithScorer(s.scorer),
		generation.WithRetries(s.retries),
		generation.WithAccessoryChance(s.accessoryChance),
		generation.WithOptionalLayers(s.optionalLayers),
		generation.WithLogger(s.logger.Named("generator")),
	}
	if s.seed != 0 {
		genOpts = append(genOpts, generation.WithSeed(s.seed))
	}
	s.generator = generation.NewGenerator(genOpts...)

	s.catalogue = repository.NewTreapStore(runCtx, repository.WithSnapshotInterval(s.snapshotInterval))
	s.memo = query.NewMemo(s.memoSize)
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, worker.MemoComputer(s.memo),
		worker.WithLogger(s.logger.Named("search-worker")))
	s.pool.Start(runCtx)
	s.sessions = query.NewRegistry(s.queue,
		query.WithDebounce(s.debounce),
		query.WithSessionLogger(s.logger.Named("search")))

	s.started = true
	s.logger.Info(ctx, "closet service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("retries", s.retries),
		logger.Bool("optionalLayers", s.optionalLayers),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping closet service...")

	s.sessions.CloseAll(ctx)
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown failed", logger.Error(err))
	}
	if closer, ok := s.catalogue.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if closer, ok := s.provider.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "closet service stopped")
}

// running returns an error unless Start has completed.
func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Ready returns ErrNotStarted until Start succeeds and again after Stop.
func (s *Service) Ready() error { return s.running() }

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"retries":        s.retries,
		"optionalLayers": s.optionalLayers,
	}
	if !s.started {
		return stats
	}

	queueLen := s.queue.Len(ctx)
	processed, delivered := s.pool.Processed()
	stats["queueLength"] = queueLen
	outfits := s.catalogue.Count(ctx)
	stats["outfits"] = outfits
	stats["searchSessions"] = s.sessions.Len()
	stats["searchesProcessed"] = processed
	stats["searchesDelivered"] = delivered
	stats["memoEntries"] = s.memo.Len()
	if !s.generatedAt.IsZero() {
		stats["generatedAt"] = s.generatedAt.UTC().Format(time.RFC3339)
	}

	metrics.UpdateQueueSize(queueLen)
	metrics.UpdateCatalogueSize(outfits)
	return stats
}
