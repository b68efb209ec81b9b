package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/league-results/internal/domain/matchday"
	"github.com/riskibarqy/league-results/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

// MatchdaySource is the contract both upstream adapters implement.
type MatchdaySource = matchday.Source

type LoadStatus string

const (
	LoadStatusIdle    LoadStatus = "idle"
	LoadStatusLoading LoadStatus = "loading"
	LoadStatusSuccess LoadStatus = "success"
	LoadStatusError   LoadStatus = "error"
)

// LoadFailureMessage is the only failure text exposed to clients.
const LoadFailureMessage = "could not load results"

const loadFlightKey = "results"

// ResultsSnapshot is a point-in-time copy of the aggregated results.
type ResultsSnapshot struct {
	Status         LoadStatus              `json:"status"`
	Source         string                  `json:"source"`
	Generation     uint64                  `json:"generation"`
	ActiveMatchday int                     `json:"activeMatchday,omitempty"`
	LoadedAt       *time.Time              `json:"loadedAt,omitempty"`
	Error          string                  `json:"error,omitempty"`
	Matchdays      []matchday.MatchdayData `json:"matchdays"`
}

type ResultsServiceConfig struct {
	Source     MatchdaySource
	SourceName string
	Query      string
	Logger     *logging.Logger
	Now        func() time.Time
}

// ResultsService keeps the latest successful load and the active matchday.
type ResultsService struct {
	source     MatchdaySource
	sourceName string
	query      string
	logger     *logging.Logger
	now        func() time.Time
	flight     singleflight.Group

	mu         sync.RWMutex
	status     LoadStatus
	matchdays  []matchday.MatchdayData
	active     int
	loadedAt   time.Time
	generation uint64
}

func NewResultsService(cfg ResultsServiceConfig) *ResultsService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &ResultsService{
		source:     cfg.Source,
		sourceName: strings.TrimSpace(cfg.SourceName),
		query:      strings.TrimSpace(cfg.Query),
		logger:     logger,
		now:        now,
		status:     LoadStatusIdle,
	}
}

// Load fetches a fresh collection from the source. Callers arriving while a
// load is running join it and receive the same outcome.
func (s *ResultsService) Load(ctx context.Context) (ResultsSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsService.Load", attribute.String("results.source", s.sourceName))
	defer span.End()

	ch := s.flight.DoChan(loadFlightKey, func() (any, error) {
		return nil, s.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return ResultsSnapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return s.Snapshot(), res.Err
		}
		return s.Snapshot(), nil
	}
}

func (s *ResultsService) load(ctx context.Context) error {
	if s.source == nil {
		err := fmt.Errorf("%w: no results source configured", ErrPrecondition)
		s.fail(ctx, err)
		return err
	}

	s.mu.Lock()
	s.status = LoadStatusLoading
	s.mu.Unlock()

	started := s.now()
	items, err := s.source.FetchMatchdays(ctx, s.query)
	if err == nil && len(items) == 0 {
		err = fmt.Errorf("%w: source returned no matchdays", ErrEmptyResult)
	}
	if err == nil {
		err = matchday.ValidateCollection(items)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
	}
	if err != nil {
		s.fail(ctx, err)
		return fmt.Errorf("load results: %w", err)
	}

	items = matchday.CloneAll(items)
	matchday.SortDescending(items)

	s.mu.Lock()
	s.matchdays = items
	s.active = items[0].Matchday
	s.status = LoadStatusSuccess
	s.loadedAt = s.now().UTC()
	s.generation++
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "results loaded",
		"source", s.sourceName,
		"matchdays", len(items),
		"active_matchday", items[0].Matchday,
		"duration", s.now().Sub(started),
	)
	return nil
}

func (s *ResultsService) fail(ctx context.Context, cause error) {
	s.mu.Lock()
	s.matchdays = nil
	s.active = 0
	s.loadedAt = time.Time{}
	s.status = LoadStatusError
	s.generation++
	s.mu.Unlock()

	s.logger.ErrorContext(ctx, "results load failed", "source", s.sourceName, "error", cause)
}

// Snapshot returns a deep copy safe for the caller to mutate.
func (s *ResultsService) Snapshot() ResultsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := ResultsSnapshot{
		Status:         s.status,
		Source:         s.sourceName,
		Generation:     s.generation,
		ActiveMatchday: s.active,
		Matchdays:      matchday.CloneAll(s.matchdays),
	}
	if !s.loadedAt.IsZero() {
		loadedAt := s.loadedAt
		out.LoadedAt = &loadedAt
	}
	if s.status == LoadStatusError {
		out.Error = LoadFailureMessage
	}
	return out
}

// Loaded reports whether the snapshot holds a successful load. A refresh in
// progress keeps the previous collection, so readers keep serving it.
func (s ResultsSnapshot) Loaded() bool {
	return len(s.Matchdays) > 0
}

// Select switches the active matchday without contacting the source.
func (s *ResultsService) Select(number int) (matchday.MatchdayData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLoadedLocked(); err != nil {
		return matchday.MatchdayData{}, err
	}
	item, ok := matchday.Find(s.matchdays, number)
	if !ok {
		return matchday.MatchdayData{}, fmt.Errorf("%w: matchday %d is not loaded", ErrNotFound, number)
	}
	s.active = number
	return item.Clone(), nil
}

// Matchday returns one loaded matchday.
func (s *ResultsService) Matchday(number int) (matchday.MatchdayData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireLoadedLocked(); err != nil {
		return matchday.MatchdayData{}, err
	}
	item, ok := matchday.Find(s.matchdays, number)
	if !ok {
		return matchday.MatchdayData{}, fmt.Errorf("%w: matchday %d is not loaded", ErrNotFound, number)
	}
	return item.Clone(), nil
}

// Active returns the currently selected matchday.
func (s *ResultsService) Active() (matchday.MatchdayData, error) {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()

	item, err := s.Matchday(active)
	if err != nil && !errors.Is(err, ErrNotLoaded) {
		return matchday.MatchdayData{}, fmt.Errorf("%w: no active matchday", ErrNotFound)
	}
	return item, err
}

func (s *ResultsService) requireLoadedLocked() error {
	if len(s.matchdays) == 0 {
		return fmt.Errorf("%w: status=%s", ErrNotLoaded, s.status)
	}
	return nil
}
