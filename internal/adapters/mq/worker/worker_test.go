package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/closet/internal/adapters/mq/queue"
	worker "github.com/okian/closet/internal/adapters/mq/worker"
	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/query"
	logging "github.com/okian/closet/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	requests chan queue.Request
}

func newMockQueue() *mockQueue {
	return &mockQueue{requests: make(chan queue.Request, 16)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Request {
	return mq.requests
}

func (mq *mockQueue) Close() error {
	close(mq.requests)
	return nil
}

// mockReceiver records deliveries; it accepts only results newer than the last one.
type mockReceiver struct {
	mu      sync.Mutex
	results []query.Result
	latest  uint64
	got     chan struct{}
}

func newMockReceiver() *mockReceiver {
	return &mockReceiver{got: make(chan struct{}, 64)}
}

func (r *mockReceiver) Deliver(res query.Result) bool {
	r.mu.Lock()
	defer func() {
		r.mu.Unlock()
		r.got <- struct{}{}
	}()
	if res.Seq <= r.latest {
		return false
	}
	r.latest = res.Seq
	r.results = append(r.results, res)
	return true
}

func (r *mockReceiver) snapshot() []query.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]query.Result(nil), r.results...)
}

func (r *mockReceiver) wait(n int) bool {
	for i := 0; i < n; i++ {
		select {
		case <-r.got:
		case <-time.After(2 * time.Second):
			return false
		}
	}
	return true
}

func outfits() []garment.GeneratedOutfit {
	mk := func(id, name string, c garment.Category) garment.Garment {
		return garment.Garment{ID: id, Name: name, Category: c, Formality: 5}
	}
	return []garment.GeneratedOutfit{
		garment.NewGeneratedOutfit(garment.NewSelection(mk("s1", "Linen Shirt", garment.Shirt), mk("p1", "Chinos", garment.Pants), mk("k1", "Loafers", garment.Shoes)), 80, garment.SourceGenerated),
		garment.NewGeneratedOutfit(garment.NewSelection(mk("u1", "Tee", garment.Undershirt), mk("p2", "Jeans", garment.Pants), mk("k2", "Sneakers", garment.Shoes)), 60, garment.SourceGenerated),
	}
}

func TestInMemoryWorker(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a new InMemoryWorker", t, func() {
		q := newMockQueue()
		memo := query.NewMemo(8)
		w := worker.NewInMemoryWorker(q, worker.MemoComputer(memo), worker.WithName("test-worker"))
		convey.So(w, convey.ShouldNotBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a request is processed", func() {
			rcv := newMockReceiver()
			q.requests <- query.Request{SessionID: "s", Seq: 1, Term: "linen", Outfits: outfits(), Reply: rcv}
			convey.So(rcv.wait(1), convey.ShouldBeTrue)

			convey.Convey("Then the filtered result is delivered", func() {
				got := rcv.snapshot()
				convey.So(len(got), convey.ShouldEqual, 1)
				convey.So(len(got[0].Outfits), convey.ShouldEqual, 1)
				convey.So(got[0].Outfits[0].Key, convey.ShouldEqual, "shirt=s1|pants=p1|shoes=k1")
				convey.So(memo.Len(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When a stale request arrives after a newer one", func() {
			rcv := newMockReceiver()
			q.requests <- query.Request{SessionID: "s", Seq: 2, Term: "tee", Outfits: outfits(), Reply: rcv}
			q.requests <- query.Request{SessionID: "s", Seq: 1, Term: "t", Outfits: outfits(), Reply: rcv}
			convey.So(rcv.wait(2), convey.ShouldBeTrue)

			convey.Convey("Then the stale result is computed but not kept", func() {
				got := rcv.snapshot()
				convey.So(len(got), convey.ShouldEqual, 1)
				convey.So(got[0].Seq, convey.ShouldEqual, 2)

				processed, delivered := w.Processed()
				convey.So(processed, convey.ShouldEqual, 2)
				convey.So(delivered, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When shutting down", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()
			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)

			convey.Convey("Then a second shutdown reports the worker stopped", func() {
				convey.So(errors.Is(w.Shutdown(sctx), worker.ErrStopped), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a worker whose computation panics", t, func() {
		q := newMockQueue()
		w := worker.NewInMemoryWorker(q, worker.ComputeFunc(func(*query.Request) query.Result { panic("boom") }))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("Then the worker survives and keeps consuming", func() {
			rcv := newMockReceiver()
			q.requests <- query.Request{SessionID: "s", Seq: 1, Reply: rcv}
			q.requests <- query.Request{SessionID: "s", Seq: 2}
			time.Sleep(50 * time.Millisecond)
			convey.So(len(rcv.snapshot()), convey.ShouldEqual, 0)

			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()
			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
		})
	})

	convey.Convey("When the queue channel is closed", t, func() {
		q := newMockQueue()
		w := worker.NewInMemoryWorker(q, worker.MemoComputer(nil))
		done := make(chan struct{})
		go func() {
			w.Run(context.Background())
			close(done)
		}()
		_ = q.Close()

		convey.Convey("Then the worker stops", func() {
			select {
			case <-done:
			case <-time.After(time.Second):
				convey.So("worker did not stop", convey.ShouldBeEmpty)
			}
		})
	})
}

func TestWorkerPool(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a worker pool over the in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		pool := worker.NewPool(4, q, worker.MemoComputer(query.NewMemo(16)))
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When sessions submit through the queue", func() {
			reg := query.NewRegistry(q, query.WithDebounce(0))
			sessions := make([]*query.Session, 5)
			for i := range sessions {
				sessions[i] = reg.Open()
				_, err := sessions[i].Submit(ctx, "jeans", query.Criteria{}, outfits())
				convey.So(err, convey.ShouldBeNil)
			}

			convey.Convey("Then every session receives its result", func() {
				for _, s := range sessions {
					wctx, wcancel := context.WithTimeout(ctx, 2*time.Second)
					res, err := s.Wait(wctx, 1)
					wcancel()
					convey.So(err, convey.ShouldBeNil)
					convey.So(len(res.Outfits), convey.ShouldEqual, 1)
				}
				processed, _ := pool.Processed()
				convey.So(processed, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When shutting down", func() {
			convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
			convey.So(q.IsClosed(), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a pool with the default count", t, func() {
		pool := worker.NewPool(0, newMockQueue(), worker.MemoComputer(nil))
		convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
	})
}
