package services

import (
	"context"
	"fmt"
	"log/slog"

	"dashpulse/internal/cache"
	"dashpulse/internal/config"
	"dashpulse/internal/elections"
)

// ElectionService serves the synthetic election dataset. Generation is
// deterministic for a given seed, so the dataset is generated once per
// seed and cached; filters always recompute over the cached slice.
type ElectionService struct {
	generator *elections.Generator
	seed      int64
	cache     *cache.Cache[[]elections.County]
	logger    *slog.Logger
}

// NewElectionService creates an election service from configuration
func NewElectionService(cfg config.ElectionsConfig, logger *slog.Logger) *ElectionService {
	return &ElectionService{
		generator: elections.NewGenerator(cfg.States, cfg.CountiesPerParty),
		seed:      cfg.Seed,
		cache:     cache.New[[]elections.County](),
		logger:    logger.With(slog.String("component", "election_service")),
	}
}

// dataset returns the generated counties for the configured seed
func (s *ElectionService) dataset(ctx context.Context) ([]elections.County, error) {
	key := fmt.Sprintf("counties:%d", s.seed)
	return s.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]elections.County, error) {
		s.logger.InfoContext(ctx, "generating election dataset", slog.Int64("seed", s.seed))
		return s.generator.Generate(s.seed), nil
	})
}

// Counties returns the counties passing the given criteria
func (s *ElectionService) Counties(ctx context.Context, c elections.Criteria) ([]elections.County, error) {
	counties, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return elections.Filter(counties, c), nil
}

// Shifts returns the top-n margin shifts among counties passing the criteria
func (s *ElectionService) Shifts(ctx context.Context, c elections.Criteria, n int, dir elections.Direction) ([]elections.Shift, error) {
	filtered, err := s.Counties(ctx, c)
	if err != nil {
		return nil, err
	}
	return elections.TopShift(filtered, n, dir), nil
}

// Stats returns county counts per party among counties passing the criteria
func (s *ElectionService) Stats(ctx context.Context, c elections.Criteria) (elections.Summary, error) {
	filtered, err := s.Counties(ctx, c)
	if err != nil {
		return elections.Summary{}, err
	}
	return elections.Stats(filtered), nil
}

// States returns the sorted distinct states in the full dataset
func (s *ElectionService) States(ctx context.Context) ([]string, error) {
	counties, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return elections.States(counties), nil
}
