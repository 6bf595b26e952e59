package service

import (
	"time"

	"github.com/okian/closet/internal/adapters/wardrobe"
	"github.com/okian/closet/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider sets the wardrobe source.
func WithProvider(p wardrobe.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithRetries bounds random generation attempts.
func WithRetries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.retries = n
		}
	}
}

// WithAccessoryChance sets the probability of optional layers in random outfits.
func WithAccessoryChance(p float64) Option {
	return func(s *Service) {
		if p >= 0 && p <= 1 {
			s.accessoryChance = p
		}
	}
}

// WithOptionalLayers makes enumeration include optional layers.
func WithOptionalLayers(enabled bool) Option {
	return func(s *Service) {
		s.optionalLayers = enabled
	}
}

// WithSeed fixes the random generator.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithSearchWorkers sets the number of filter workers.
func WithSearchWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the search queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSearchDebounce sets how long search input settles before it is dispatched.
func WithSearchDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithMemoSize caps cached filter results.
func WithMemoSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.memoSize = n
		}
	}
}

// WithSnapshotInterval sets how often the catalogue publishes a read snapshot.
func WithSnapshotInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.snapshotInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
