// Package scoring computes the formality and consistency score of an outfit selection.
package scoring

import (
	"math"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/layering"
)

// Score composition.
const (
	FormalityWeight   = 0.93
	ConsistencyWeight = 0.07

	// NoScore marks a selection with no meaningful score (empty, or zero total weight).
	NoScore = -1

	formalityScale = 10
	maxScoreValue  = 100
	// maxStdDev is the largest population standard deviation reachable on 1..10.
	maxStdDev = 4.5
)

// ConsistencyFunc maps raw formality values to a bonus in [0, 100]. It must return 0
// for fewer than two values and be non-increasing as the values spread apart.
type ConsistencyFunc func(values []int) float64

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithConsistency replaces the dispersion statistic behind the consistency bonus.
func WithConsistency(fn ConsistencyFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.consistency = fn
		}
	}
}

// Adjustment is the layer adjustment applied to one occupied category.
type Adjustment struct {
	Category     garment.Category `json:"category"`
	Formality    int              `json:"formality"`
	Weight       float64          `json:"weight"`
	Contribution float64          `json:"contribution"`
}

// Breakdown is the derived, ephemeral result of scoring a selection.
type Breakdown struct {
	Total            float64      `json:"total"`
	Percentage       int          `json:"percentage"`
	FormalityScore   float64      `json:"formality_score"`
	ConsistencyBonus float64      `json:"consistency_bonus"`
	Adjustments      []Adjustment `json:"adjustments"`
}

// HasScore reports whether the breakdown carries a meaningful score.
func (b Breakdown) HasScore() bool {
	return b.Percentage != NoScore
}

// Scorer scores outfit selections. Implementations must be pure.
type Scorer interface {
	Score(sel garment.Selection) Breakdown
}

// Engine implements Scorer with layer-weighted formality and a consistency bonus.
type Engine struct {
	consistency ConsistencyFunc
}

// NewEngine creates a scoring engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{consistency: StdDevConsistency}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// CalculateOutfitScore scores sel with the default engine.
func CalculateOutfitScore(sel garment.Selection) Breakdown {
	return defaultEngine.Score(sel)
}

// Score computes the breakdown for sel. It never panics and never returns NaN or
// Inf: degenerate input yields a breakdown with Percentage == NoScore.
func (e *Engine) Score(sel garment.Selection) Breakdown {
	if len(sel) == 0 {
		return degenerate(nil)
	}

	weights := layering.Weights(sel)
	adjustments := make([]Adjustment, len(weights))
	values := make([]int, len(weights))
	var weightSum, contributionSum float64
	for i, lw := range weights {
		g := sel[lw.Category]
		f := clampFormality(g.Formality)
		contribution := lw.Weight * float64(f*formalityScale)
		adjustments[i] = Adjustment{
			Category:     lw.Category,
			Formality:    g.Formality,
			Weight:       lw.Weight,
			Contribution: contribution,
		}
		values[i] = f
		weightSum += lw.Weight
		contributionSum += contribution
	}
	if weightSum <= 0 {
		return degenerate(adjustments)
	}

	formality := clamp(contributionSum / weightSum)
	bonus := clamp(e.consistency(values))
	total := formality*FormalityWeight + bonus*ConsistencyWeight
	if !finite(total) {
		return degenerate(adjustments)
	}

	return Breakdown{
		Total:            total,
		Percentage:       int(clamp(math.Round(total))),
		FormalityScore:   formality,
		ConsistencyBonus: bonus,
		Adjustments:      adjustments,
	}
}

// StdDevConsistency rewards low population standard deviation linearly:
// identical values earn 100, the widest possible spread earns 0.
func StdDevConsistency(values []int) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	sd := math.Sqrt(sq / float64(len(values)))
	return maxScoreValue * math.Max(0, 1-sd/maxStdDev)
}

func degenerate(adjustments []Adjustment) Breakdown {
	return Breakdown{Percentage: NoScore, Adjustments: adjustments}
}

func clampFormality(f int) int {
	switch {
	case f < garment.MinFormality:
		return garment.MinFormality
	case f > garment.MaxFormality:
		return garment.MaxFormality
	}
	return f
}

// clamp bounds x to [0, 100]; non-finite values collapse to 0.
func clamp(x float64) float64 {
	if !finite(x) {
		return 0
	}
	return math.Max(0, math.Min(maxScoreValue, x))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
