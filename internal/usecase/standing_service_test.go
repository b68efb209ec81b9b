package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/league-results/internal/domain/standing"
	matchdaymock "github.com/riskibarqy/league-results/internal/mocks/domain/matchday"
	standingmock "github.com/riskibarqy/league-results/internal/mocks/domain/standing"
	"github.com/stretchr/testify/mock"
)

func loadedResultsService(t *testing.T, numbers ...int) *ResultsService {
	t.Helper()

	source := matchdaymock.NewSource(t)
	source.On("FetchMatchdays", mock.Anything, "2024").Return(testMatchdays(numbers...), nil).Once()
	service := newTestResultsService(source)
	if _, err := service.Load(context.Background()); err != nil {
		t.Fatalf("load results: %v", err)
	}
	return service
}

func TestStandingService_Table_UsesProviderAndCaches(t *testing.T) {
	t.Parallel()

	provider := standingmock.NewProvider(t)
	provider.On("FetchTable", mock.Anything, "2024").Return([]standing.Entry{
		{TeamName: "VfB Stuttgart", Points: 3, Won: 1, GoalsFor: 2, GoalsAgainst: 1},
		{TeamName: "FC Bayern München", Points: 6, Won: 2, GoalsFor: 5, GoalsAgainst: 0},
	}, nil).Once()

	service := NewStandingService(provider, "2024", newTestResultsService(nil), time.Minute, nil)

	for i := 0; i < 2; i++ {
		table, err := service.Table(context.Background())
		if err != nil {
			t.Fatalf("table: %v", err)
		}
		if table[0].TeamName != "FC Bayern München" || table[0].Position != 1 || table[0].GoalDifference != 5 {
			t.Fatalf("unexpected first row: %+v", table[0])
		}
	}
}

func TestStandingService_Table_FallsBackToComputed(t *testing.T) {
	t.Parallel()

	provider := standingmock.NewProvider(t)
	provider.On("FetchTable", mock.Anything, "2024").Return(nil, errors.New("status 502"))

	service := NewStandingService(provider, "2024", loadedResultsService(t, 1, 2, 3), time.Minute, nil)
	table, err := service.Table(context.Background())
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("expected two teams computed from results, got=%d", len(table))
	}
	for _, row := range table {
		if row.Played != 3 {
			t.Fatalf("expected three played matches, got %+v", row)
		}
	}
}

func TestStandingService_Table_NotLoaded(t *testing.T) {
	t.Parallel()

	service := NewStandingService(nil, "2024", newTestResultsService(nil), time.Minute, nil)
	if _, err := service.Table(context.Background()); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestStatisticsService_TopScorers(t *testing.T) {
	t.Parallel()

	service := NewStatisticsService(loadedResultsService(t, 1, 2, 3))

	scorers, err := service.TopScorers(context.Background(), 0)
	if err != nil {
		t.Fatalf("top scorers: %v", err)
	}
	if len(scorers) != 1 || scorers[0].Player != "Undav" || scorers[0].Goals != 3 {
		t.Fatalf("unexpected scorers: %+v", scorers)
	}
	if _, err := service.TopScorers(context.Background(), 500); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for large limit, got %v", err)
	}
}

func TestOverviewService_Get(t *testing.T) {
	t.Parallel()

	results := loadedResultsService(t, 1, 2)
	standings := NewStandingService(nil, "2024", results, time.Minute, nil)
	overview := NewOverviewService(results, standings, NewStatisticsService(results))

	got, err := overview.Get(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if got.ActiveMatchday == nil || got.ActiveMatchday.Matchday != 2 {
		t.Fatalf("expected active matchday 2, got %+v", got.ActiveMatchday)
	}
	if len(got.Table) != 2 || len(got.TopScorers) != 1 {
		t.Fatalf("unexpected overview: %+v", got)
	}
	if len(got.Matchdays) != 2 || got.Matchdays[0] != 2 {
		t.Fatalf("expected descending matchday numbers, got=%v", got.Matchdays)
	}
}

func TestStandingService_Table_KeepsOnlyCurrentComputedTable(t *testing.T) {
	t.Parallel()

	source := matchdaymock.NewSource(t)
	source.On("FetchMatchdays", mock.Anything, "2024").Return(testMatchdays(1, 2), nil)

	results := newTestResultsService(source)
	service := NewStandingService(nil, "2024", results, 0, nil)

	for i := 0; i < 20; i++ {
		if _, err := results.Load(context.Background()); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if _, err := service.Table(context.Background()); err != nil {
			t.Fatalf("table %d: %v", i, err)
		}
	}
	if got := service.cache.Len(); got != 1 {
		t.Fatalf("expected one cached table after reloads, got %d", got)
	}
}
