package loadtest

import (
	"context"
	"sync"
)

const workerChannelMultiplier = 2

// fanOut calls fn for every index in [0, n) on at most workers goroutines and
// returns once all calls finish. Cancelling ctx stops handing out new indexes.
func fanOut(ctx context.Context, workers, n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers = max(1, min(workers, n))

	idx := make(chan int, workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				fn(i)
			}
		}()
	}

	func() {
		defer close(idx)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case idx <- i:
			}
		}
	}()
	wg.Wait()
}
