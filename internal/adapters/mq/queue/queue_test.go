package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/closet/internal/domain/query"
)

func request(session string, seq uint64) Request {
	return Request{SessionID: session, Seq: seq, Term: "term", Criteria: query.Criteria{}}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, request("s1", 1)) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	r := <-q.Dequeue(ctx)
	if r.SessionID != "s1" || r.Seq != 1 {
		t.Errorf("expected s1/1, got %s/%d", r.SessionID, r.Seq)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, request("s1", 1)) || !q.Enqueue(ctx, request("s1", 2)) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, request("s1", 3)) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A ready channel may still win the select; either outcome must leave the queue consistent.
	ok := q.Enqueue(ctx, request("s1", 1))
	if want := map[bool]int{true: 1, false: 0}[ok]; q.Len(context.Background()) != want {
		t.Errorf("expected length %d, got %d", want, q.Len(context.Background()))
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	producers := 10
	perProducer := 100

	done := make(chan bool, producers)
	for i := 0; i < producers; i++ {
		go func(id int) {
			for j := 0; j < perProducer; j++ {
				for !q.Enqueue(ctx, request(fmt.Sprintf("s%d", id), uint64(j+1))) {
					time.Sleep(time.Millisecond)
				}
			}
			done <- true
		}(i)
	}

	consumed := make(chan string, producers*perProducer)
	for i := 0; i < producers; i++ {
		go func() {
			for r := range q.Dequeue(ctx) {
				consumed <- r.SessionID
			}
		}()
	}

	for i := 0; i < producers; i++ {
		<-done
	}

	deadline := time.After(2 * time.Second)
	for got := 0; got < producers*perProducer; got++ {
		select {
		case <-consumed:
		case <-deadline:
			t.Fatalf("consumed %d of %d requests", got, producers*perProducer)
		}
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, request("s1", 1)) {
		t.Error("expected enqueue to succeed")
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if q.Enqueue(ctx, request("s1", 2)) {
		t.Error("expected enqueue to fail after closing")
	}

	// Buffered requests drain before the channel closes.
	ch := q.Dequeue(ctx)
	timeout := time.After(time.Second)
	drained := 0
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				if drained != 1 {
					t.Errorf("expected 1 drained request, got %d", drained)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			drained++
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}
