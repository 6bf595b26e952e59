package worker

import (
	"github.com/okian/closet/pkg/logger"
)

// Option configures an InMemoryWorker. Pool options apply to every worker.
type Option func(*InMemoryWorker)

// WithName labels the worker in logs; the pool names its workers worker-0..n.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger replaces the logger used for failed and superseded searches.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
