package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/league-results/internal/domain/standing"
	"github.com/riskibarqy/league-results/internal/platform/cache"
	"github.com/riskibarqy/league-results/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultTopScorerLimit = 10
	maxTopScorerLimit     = 100
	computedTablePrefix   = "table:computed:"
)

// StandingService serves the league table, preferring the upstream provider
// and computing from the loaded results when the provider is absent or failing.
type StandingService struct {
	provider standing.Provider
	season   string
	results  *ResultsService
	cache    *cache.Store[[]standing.Entry]
	logger   *logging.Logger
}

func NewStandingService(provider standing.Provider, season string, results *ResultsService, ttl time.Duration, logger *logging.Logger) *StandingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingService{
		provider: provider,
		season:   strings.TrimSpace(season),
		results:  results,
		cache:    cache.NewStore[[]standing.Entry](ttl),
		logger:   logger,
	}
}

func (s *StandingService) Table(ctx context.Context) ([]standing.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.Table", attribute.String("league.season", s.season))
	defer span.End()

	if s.provider != nil {
		key := "table:provider:" + s.season
		table, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]standing.Entry, error) {
			rows, err := s.provider.FetchTable(ctx, s.season)
			if err != nil {
				return nil, err
			}
			if len(rows) == 0 {
				return nil, fmt.Errorf("%w: provider returned an empty table", ErrEmptyResult)
			}
			return standing.Rank(rows), nil
		})
		if err == nil {
			return cloneEntries(table), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.WarnContext(ctx, "league table provider failed, computing from results", "season", s.season, "error", err)
	}

	snapshot := s.results.Snapshot()
	if !snapshot.Loaded() {
		return nil, fmt.Errorf("%w: league table needs loaded results", ErrNotLoaded)
	}

	// Only the current generation is ever read again.
	key := computedTablePrefix + strconv.FormatUint(snapshot.Generation, 10)
	if _, ok := s.cache.Get(ctx, key); !ok {
		s.cache.DeletePrefix(ctx, computedTablePrefix)
	}
	table, err := s.cache.GetOrLoad(ctx, key, func(context.Context) ([]standing.Entry, error) {
		return standing.Compute(snapshot.Matchdays), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneEntries(table), nil
}

// StatisticsService derives per-player aggregates from the loaded results.
type StatisticsService struct {
	results *ResultsService
}

func NewStatisticsService(results *ResultsService) *StatisticsService {
	return &StatisticsService{results: results}
}

func (s *StatisticsService) TopScorers(ctx context.Context, limit int) ([]standing.TopScorer, error) {
	_, span := startUsecaseSpan(ctx, "usecase.StatisticsService.TopScorers", attribute.Int("statistics.limit", limit))
	defer span.End()

	switch {
	case limit == 0:
		limit = defaultTopScorerLimit
	case limit < 0 || limit > maxTopScorerLimit:
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, maxTopScorerLimit)
	}

	snapshot := s.results.Snapshot()
	if !snapshot.Loaded() {
		return nil, fmt.Errorf("%w: statistics need loaded results", ErrNotLoaded)
	}
	return standing.TopScorers(snapshot.Matchdays, limit), nil
}

func cloneEntries(items []standing.Entry) []standing.Entry {
	out := make([]standing.Entry, len(items))
	copy(out, items)
	return out
}
