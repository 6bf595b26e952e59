// Package worker computes queued search requests in the background and hands the
// results back to their sessions.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/closet/internal/adapters/mq/queue"
	"github.com/okian/closet/internal/domain/query"
	"github.com/okian/closet/pkg/logger"
	"github.com/okian/closet/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Computer turns a request into a result.
type Computer interface {
	Compute(req *query.Request) query.Result
}

// ComputeFunc adapts a function to Computer.
type ComputeFunc func(req *query.Request) query.Result

// Compute calls f.
func (f ComputeFunc) Compute(req *query.Request) query.Result { return f(req) }

// MemoComputer computes through a shared memo.
func MemoComputer(memo *query.Memo) Computer {
	return ComputeFunc(func(req *query.Request) query.Result { return query.Compute(req, memo) })
}

// Queue defines how workers receive requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Request
}

// Worker processes requests.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker over a Queue.
type InMemoryWorker struct {
	queue    Queue
	computer Computer
	name     string

	shutdown chan struct{}
	stopped  atomic.Bool
	done     chan struct{}

	processed atomic.Int64
	delivered atomic.Int64

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, c Computer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		computer: c,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.GetOrDiscard().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			if err := w.process(ctx, &req); err != nil {
				w.logger.Error(ctx, "error processing search request",
					logger.String("session", req.SessionID),
					logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	if !w.stopped.CompareAndSwap(false, true) {
		return ErrStopped
	}
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Processed returns the number of requests computed and how many of them were
// delivered rather than superseded.
func (w *InMemoryWorker) Processed() (processed, delivered int64) {
	return w.processed.Load(), w.delivered.Load()
}

// process computes one request. A result that arrives after newer input is simply
// not delivered by the session.
func (w *InMemoryWorker) process(ctx context.Context, req *query.Request) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if req.Reply == nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "no_receiver")
		return ErrNoReceiver
	}

	defer func() {
		if r := recover(); r != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "panic")
			err = fmt.Errorf("%w: %v", ErrComputePanic, r)
		}
	}()

	res := w.computer.Compute(req)
	w.processed.Add(1)
	if req.Reply.Deliver(res) {
		w.delivered.Add(1)
		return nil
	}
	w.logger.Debug(ctx, "search result superseded",
		logger.String("session", req.SessionID),
		logger.Int("seq", int(req.Seq)))
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a new worker pool. A count below 1 sizes the pool from the CPU count.
func NewPool(workerCount int, q Queue, c Computer, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.GetOrDiscard().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(q, c, workerOpts...)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Processed sums the counters of every worker.
func (p *Pool) Processed() (processed, delivered int64) {
	for _, w := range p.workers {
		a, b := w.Processed()
		processed += a
		delivered += b
	}
	return processed, delivered
}

// Shutdown closes the queue and waits for every worker to stop.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil && err != ErrStopped {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	return nil
}
