package loadtest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/okian/closet/internal/domain/types"
	"github.com/okian/closet/pkg/logger"
)

type runner struct {
	cfg    Config
	client *client
	rng    *rand.Rand
	stats  *Stats
	log    logger.Logger
}

// Run executes the complete load test against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	c := cfg.withDefaults()
	r := &runner{
		cfg:    c,
		client: newClient(c.BaseURL, c.Timeout),
		rng:    rand.New(rand.NewPCG(c.Seed, c.Seed>>1)),
		stats:  &Stats{StartTime: time.Now()},
		log:    logger.GetOrDiscard().Named("loadtest"),
	}

	r.log.Info(ctx, "starting load test",
		logger.String("baseURL", c.BaseURL),
		logger.Int("perCategory", c.PerCategory),
		logger.Int("selections", c.Selections),
		logger.Int("sessions", c.Sessions),
		logger.Int("workers", c.Workers),
		logger.Duration("timeout", c.Timeout))

	err := r.run(ctx)
	r.finish(ctx)
	if err != nil {
		return r.stats, err
	}
	r.log.Info(ctx, "load test completed successfully")
	return r.stats, nil
}

func (r *runner) run(ctx context.Context) error {
	if err := r.client.call(ctx, http.MethodGet, "/readyz", nil, http.StatusOK, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if err := r.seedWardrobe(ctx); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	items, err := r.fetchWardrobe(ctx)
	if err != nil {
		return fmt.Errorf("wardrobe retrieval failed: %w", err)
	}

	var regen types.RegenerateResult
	if err := r.client.call(ctx, http.MethodPost, "/outfits/regenerate", nil, http.StatusOK, &regen); err != nil {
		return fmt.Errorf("regeneration failed: %w", err)
	}
	r.stats.OutfitsGenerated = regen.Generated
	r.log.Info(ctx, "catalogue regenerated",
		logger.Int("generated", regen.Generated),
		logger.Duration("elapsed", regen.Elapsed))

	if err := r.scoreSelections(ctx, items); err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}
	if err := r.searchSessions(ctx, items); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if err := r.verifyCatalogue(ctx); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	return nil
}

// finish stamps the duration and logs the final statistics.
func (r *runner) finish(ctx context.Context) {
	s := r.stats
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)

	var scoresPerSecond float64
	if s.Duration > 0 {
		scoresPerSecond = float64(s.Scored) / s.Duration.Seconds()
	}
	r.log.Info(ctx, "final statistics",
		logger.Int("garmentsAdded", s.GarmentsAdded),
		logger.Int("garmentsSkipped", s.GarmentsSkipped),
		logger.Int("garmentsFailed", s.GarmentsFailed),
		logger.Int("wardrobe", s.Wardrobe),
		logger.Int("outfitsGenerated", s.OutfitsGenerated),
		logger.Int("scored", s.Scored),
		logger.Int("scoredValid", s.ScoredValid),
		logger.Int("scoreFailed", s.ScoreFailed),
		logger.Int("sessionsOpened", s.SessionsOpened),
		logger.Int("searchesOrdered", s.SearchesOrdered),
		logger.Int("searchesFailed", s.SearchesFailed),
		logger.Int("topEntries", s.TopEntries),
		logger.Duration("duration", s.Duration),
		logger.Float64("scoresPerSecond", scoresPerSecond))
}

// debug logs per-request detail only in verbose runs.
func (r *runner) debug(ctx context.Context, msg string, fields ...logger.Field) {
	if r.cfg.Verbose {
		r.log.Warn(ctx, msg, fields...)
	}
}
