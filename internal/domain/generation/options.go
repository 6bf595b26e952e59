package generation

import (
	"math/rand/v2"

	"github.com/okian/closet/internal/domain/scoring"
	"github.com/okian/closet/pkg/logger"
)

// Default configuration values.
const (
	DefaultRetries         = 64
	DefaultAccessoryChance = 0.5
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithScorer sets the scorer attached to every produced outfit.
func WithScorer(s scoring.Scorer) Option {
	return func(g *Generator) {
		if s != nil {
			g.scorer = s
		}
	}
}

// WithRetries bounds the number of random samples drawn per RandomOutfit call.
// Values below 1 are ignored.
func WithRetries(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.retries = n
		}
	}
}

// WithAccessoryChance sets the probability in [0,1] that random generation adds
// each of outerwear, belt and watch when the pool has any.
func WithAccessoryChance(p float64) Option {
	return func(g *Generator) {
		if p >= 0 && p <= 1 {
			g.accessoryChance = p
		}
	}
}

// WithOptionalLayers makes enumeration also vary outerwear, belt, watch and the
// shirt over undershirt shape. Without it only the required slots are enumerated.
func WithOptionalLayers(enabled bool) Option {
	return func(g *Generator) {
		g.optionalLayers = enabled
	}
}

// WithSeed makes random generation reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the logger for the generator.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}
