package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/league-results/internal/domain/matchday"
	"github.com/riskibarqy/league-results/internal/domain/standing"
	"github.com/sourcegraph/conc"
)

// Overview bundles everything a landing view renders in one response.
type Overview struct {
	Status         LoadStatus             `json:"status"`
	ActiveMatchday *matchday.MatchdayData `json:"activeMatchday,omitempty"`
	Matchdays      []int                  `json:"matchdays"`
	Table          []standing.Entry       `json:"table"`
	TopScorers     []standing.TopScorer   `json:"topScorers"`
	Warnings       []string               `json:"warnings,omitempty"`
}

type OverviewService struct {
	results    *ResultsService
	standings  *StandingService
	statistics *StatisticsService
}

func NewOverviewService(results *ResultsService, standings *StandingService, statistics *StatisticsService) *OverviewService {
	return &OverviewService{
		results:    results,
		standings:  standings,
		statistics: statistics,
	}
}

// Get assembles the overview. The table and scorer list are fetched
// concurrently; a failing table only adds a warning.
func (s *OverviewService) Get(ctx context.Context) (Overview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OverviewService.Get")
	defer span.End()

	snapshot := s.results.Snapshot()
	if !snapshot.Loaded() {
		return Overview{}, fmt.Errorf("%w: overview needs loaded results", ErrNotLoaded)
	}

	out := Overview{
		Status:    snapshot.Status,
		Matchdays: matchday.Numbers(snapshot.Matchdays),
	}
	if active, ok := matchday.Find(snapshot.Matchdays, snapshot.ActiveMatchday); ok {
		out.ActiveMatchday = &active
	}

	var (
		tableErr   error
		scorersErr error
		wg         conc.WaitGroup
	)
	wg.Go(func() {
		out.Table, tableErr = s.standings.Table(ctx)
	})
	wg.Go(func() {
		out.TopScorers, scorersErr = s.statistics.TopScorers(ctx, defaultTopScorerLimit)
	})
	if recovered := wg.WaitAndRecover(); recovered != nil {
		return Overview{}, fmt.Errorf("build overview: %w", recovered.AsError())
	}

	if scorersErr != nil {
		return Overview{}, scorersErr
	}
	if tableErr != nil {
		if errors.Is(tableErr, context.Canceled) || errors.Is(tableErr, context.DeadlineExceeded) {
			return Overview{}, tableErr
		}
		out.Warnings = append(out.Warnings, "league table unavailable")
		out.Table = []standing.Entry{}
	}
	return out, nil
}
