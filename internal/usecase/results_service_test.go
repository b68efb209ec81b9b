package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/league-results/internal/domain/matchday"
	matchdaymock "github.com/riskibarqy/league-results/internal/mocks/domain/matchday"
	"github.com/stretchr/testify/mock"
)

func testMatchdays(numbers ...int) []matchday.MatchdayData {
	out := make([]matchday.MatchdayData, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, matchday.MatchdayData{
			Matchday: n,
			Matches: []matchday.Match{{
				ID:        matchday.SyntheticID(n, 0),
				Kickoff:   time.Date(2024, 8, 23, 18, 30, 0, 0, time.UTC).AddDate(0, 0, 7*(n-1)),
				HomeTeam:  "Bayer 04 Leverkusen",
				AwayTeam:  "VfB Stuttgart",
				HomeScore: n % 3,
				AwayScore: 1,
				Matchday:  n,
				Status:    matchday.StatusFinished,
				Goals:     []matchday.Goal{{Minute: 10 + n, Player: "Undav", Team: "VfB Stuttgart"}},
			}},
		})
	}
	return out
}

func newTestResultsService(source MatchdaySource) *ResultsService {
	return NewResultsService(ResultsServiceConfig{
		Source:     source,
		SourceName: "openligadb",
		Query:      "2024",
		Now:        func() time.Time { return time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func TestResultsService_Load_SortsDescendingAndActivatesNewest(t *testing.T) {
	t.Parallel()

	source := matchdaymock.NewSource(t)
	source.On("FetchMatchdays", mock.Anything, "2024").Return(testMatchdays(1, 3, 2), nil).Once()

	service := newTestResultsService(source)
	snapshot, err := service.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snapshot.Status != LoadStatusSuccess {
		t.Fatalf("expected success status, got=%s", snapshot.Status)
	}
	if got := matchday.Numbers(snapshot.Matchdays); got[0] != 3 || got[1] != 2 || got[2] != 1 {
		t.Fatalf("expected descending order, got=%v", got)
	}
	if snapshot.ActiveMatchday != 3 {
		t.Fatalf("expected active matchday 3, got=%d", snapshot.ActiveMatchday)
	}
	if snapshot.LoadedAt == nil {
		t.Fatalf("expected loaded-at timestamp")
	}
}

func TestResultsService_Load_FailureDiscardsPreviousSnapshot(t *testing.T) {
	t.Parallel()

	source := matchdaymock.NewSource(t)
	source.On("FetchMatchdays", mock.Anything, "2024").Return(testMatchdays(1, 2), nil).Once()
	source.On("FetchMatchdays", mock.Anything, "2024").Return(nil, errors.New("status 503")).Once()

	service := newTestResultsService(source)
	if _, err := service.Load(context.Background()); err != nil {
		t.Fatalf("first load: %v", err)
	}

	snapshot, err := service.Load(context.Background())
	if err == nil {
		t.Fatalf("expected load error")
	}
	if snapshot.Status != LoadStatusError || snapshot.Error != LoadFailureMessage {
		t.Fatalf("unexpected failure snapshot: %+v", snapshot)
	}
	if len(snapshot.Matchdays) != 0 || snapshot.ActiveMatchday != 0 {
		t.Fatalf("expected previous data to be discarded, got=%+v", snapshot)
	}
	if _, err := service.Matchday(1); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded after failure, got %v", err)
	}
}

func TestResultsService_Load_EmptyResultIsFailure(t *testing.T) {
	t.Parallel()

	source := matchdaymock.NewSource(t)
	source.On("FetchMatchdays", mock.Anything, "2024").Return([]matchday.MatchdayData{}, nil).Once()

	service := newTestResultsService(source)
	_, err := service.Load(context.Background())
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	if service.Snapshot().Status != LoadStatusError {
		t.Fatalf("expected error status")
	}
}

func TestResultsService_Load_RejectsDuplicateMatchdays(t *testing.T) {
	t.Parallel()

	source := matchdaymock.NewSource(t)
	source.On("FetchMatchdays", mock.Anything, "2024").Return(testMatchdays(2, 2), nil).Once()

	service := newTestResultsService(source)
	_, err := service.Load(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestResultsService_Load_CoalescesConcurrentCalls(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	source := matchdaymock.NewSource(t)
	source.On("FetchMatchdays", mock.Anything, "2024").
		Run(func(mock.Arguments) { <-release }).
		Return(testMatchdays(1, 2), nil).
		Once()

	service := newTestResultsService(source)

	const callers = 8
	var wg sync.WaitGroup
	errCh := make(chan error, callers)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := service.Load(context.Background())
			errCh <- err
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected load error: %v", err)
		}
	}
}

func TestResultsService_SelectAndMatchday(t *testing.T) {
	t.Parallel()

	source := matchdaymock.NewSource(t)
	service := newTestResultsService(source)

	if _, err := service.Select(1); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded before load, got %v", err)
	}

	source.On("FetchMatchdays", mock.Anything, "2024").Return(testMatchdays(1, 2, 3), nil).Once()
	if _, err := service.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	selected, err := service.Select(2)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selected.Matchday != 2 || service.Snapshot().ActiveMatchday != 2 {
		t.Fatalf("expected matchday 2 to become active")
	}
	if _, err := service.Select(9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if service.Snapshot().ActiveMatchday != 2 {
		t.Fatalf("failed select must keep the active matchday")
	}

	active, err := service.Active()
	if err != nil || active.Matchday != 2 {
		t.Fatalf("unexpected active matchday: %+v %v", active, err)
	}

	snapshot := service.Snapshot()
	snapshot.Matchdays[0].Matches[0].HomeTeam = "mutated"
	if got, _ := service.Matchday(3); got.Matches[0].HomeTeam == "mutated" {
		t.Fatalf("snapshot must be a deep copy")
	}
}
