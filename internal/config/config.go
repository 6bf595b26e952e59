// Package config defines service configuration and how it is loaded.
//
// Values are layered: defaults from New, then an optional YAML file named by
// CLOSET_CONFIG, then CLOSET_* environment variables.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// WardrobePath is a YAML file or a directory of YAML files.
	WardrobePath string `koanf:"wardrobe_path"`

	// WardrobeDB is a SQLite database path; it takes precedence over WardrobePath.
	WardrobeDB string `koanf:"wardrobe_db"`

	// RandomRetries bounds attempts for random outfit generation.
	RandomRetries int `koanf:"random_retries"`

	// AccessoryChance is the probability of adding each optional layer to a random outfit.
	AccessoryChance float64 `koanf:"accessory_chance"`

	// OptionalLayers makes enumeration include outerwear, belt, watch and layered tops.
	OptionalLayers bool `koanf:"optional_layers"`

	// RandomSeed fixes the random generator; zero seeds from the clock.
	RandomSeed uint64 `koanf:"random_seed"`

	// SearchWorkers sets the number of background filter workers.
	SearchWorkers int `koanf:"search_workers"`

	// SearchQueueSize bounds the in-memory search request queue.
	SearchQueueSize int `koanf:"search_queue_size"`

	// SearchDebounceMS delays dispatch of rapidly changing search input.
	SearchDebounceMS int `koanf:"search_debounce_ms"`

	// MemoSize caps cached filter results.
	MemoSize int `koanf:"memo_size"`

	// MaxTopLimit caps GET /outfits/top?limit.
	MaxTopLimit int `koanf:"max_top_limit"`

	// SnapshotIntervalMS controls how often the catalogue publishes a read snapshot.
	SnapshotIntervalMS int `koanf:"snapshot_interval_ms"`

	// MetricsNamespace and MetricsSubsystem prefix every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLatencyBucketsMS overrides the latency histogram buckets; empty keeps the built-in set.
	MetricsLatencyBucketsMS []float64 `koanf:"metrics_latency_buckets_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		WardrobePath:       "wardrobe.yaml",
		RandomRetries:      64,
		AccessoryChance:    0.5,
		SearchWorkers:      runtime.NumCPU() * 2,
		SearchQueueSize:    1024,
		SearchDebounceMS:   150,
		MemoSize:           256,
		MaxTopLimit:        100,
		SnapshotIntervalMS: 500,
		MetricsNamespace:   "closet",
		MetricsSubsystem:   "outfits",
	}
}

// SearchDebounce returns the debounce period as a duration.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// SnapshotInterval returns the catalogue snapshot period as a duration.
func (c *Config) SnapshotInterval() time.Duration {
	return time.Duration(c.SnapshotIntervalMS) * time.Millisecond
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WardrobePath == "" && c.WardrobeDB == "":
		return fmt.Errorf("%w: one of wardrobe_path or wardrobe_db is required", ErrInvalidConfig)
	case c.RandomRetries < 1:
		return fmt.Errorf("%w: random_retries must be positive, got %d", ErrInvalidConfig, c.RandomRetries)
	case c.AccessoryChance < 0 || c.AccessoryChance > 1:
		return fmt.Errorf("%w: accessory_chance must be in [0,1], got %g", ErrInvalidConfig, c.AccessoryChance)
	case c.SearchWorkers < 1:
		return fmt.Errorf("%w: search_workers must be positive, got %d", ErrInvalidConfig, c.SearchWorkers)
	case c.SearchQueueSize < 1:
		return fmt.Errorf("%w: search_queue_size must be positive, got %d", ErrInvalidConfig, c.SearchQueueSize)
	case c.SearchDebounceMS < 0:
		return fmt.Errorf("%w: search_debounce_ms must not be negative", ErrInvalidConfig)
	case c.MemoSize < 1:
		return fmt.Errorf("%w: memo_size must be positive, got %d", ErrInvalidConfig, c.MemoSize)
	case c.MaxTopLimit < 1:
		return fmt.Errorf("%w: max_top_limit must be positive, got %d", ErrInvalidConfig, c.MaxTopLimit)
	case c.SnapshotIntervalMS < 1:
		return fmt.Errorf("%w: snapshot_interval_ms must be positive, got %d", ErrInvalidConfig, c.SnapshotIntervalMS)
	case c.MetricsNamespace == "":
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	case !ascending(c.MetricsLatencyBucketsMS):
		return fmt.Errorf("%w: metrics_latency_buckets_ms must be positive and increasing", ErrInvalidConfig)
	}
	return nil
}

func ascending(buckets []float64) bool {
	prev := 0.0
	for _, b := range buckets {
		if b <= prev {
			return false
		}
		prev = b
	}
	return true
}
