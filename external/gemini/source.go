package gemini

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-results/internal/domain/matchday"
	"github.com/riskibarqy/league-results/internal/platform/logging"
	"github.com/riskibarqy/league-results/internal/usecase"
)

const (
	placeholderAPIKey = "PLACEHOLDER_API_KEY"
	defaultModel      = "gemini-2.0-flash"
	defaultLeague     = "1. Bundesliga"
	defaultSeason     = "2024/2025"
	defaultQuery      = "current"
	rawExcerptLimit   = 500
)

var (
	ErrMissingCredential = fmt.Errorf("%w: gemini api key is not configured", usecase.ErrPrecondition)
	ErrEmptyResponse     = fmt.Errorf("%w: gemini returned an empty response", usecase.ErrMalformedResponse)
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006",
}

type Config struct {
	APIKey          string
	Model           string
	League          string
	Season          string
	SearchGrounding bool
	Location        *time.Location
	HTTPClient      *http.Client
	Generator       Generator
	Logger          *logging.Logger
}

// Source asks a generative model for matchday results and validates the answer.
type Source struct {
	model           string
	league          string
	season          string
	searchGrounding bool
	location        *time.Location
	generator       Generator
	validate        *validator.Validate
	logger          *logging.Logger
}

// HasCredential reports whether key is usable, treating the template placeholder as missing.
func HasCredential(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != placeholderAPIKey
}

func NewSource(ctx context.Context, cfg Config) (*Source, error) {
	if !HasCredential(cfg.APIKey) {
		return nil, ErrMissingCredential
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	generator := cfg.Generator
	if generator == nil {
		built, err := NewGenAIGenerator(ctx, strings.TrimSpace(cfg.APIKey), cfg.HTTPClient)
		if err != nil {
			return nil, err
		}
		generator = built
	}

	return &Source{
		model:           firstNonEmpty(cfg.Model, defaultModel),
		league:          firstNonEmpty(cfg.League, defaultLeague),
		season:          firstNonEmpty(cfg.Season, defaultSeason),
		searchGrounding: cfg.SearchGrounding,
		location:        loc,
		generator:       generator,
		validate:        validator.New(),
		logger:          logger,
	}, nil
}

// FetchMatchdays sends one generation request describing the wanted matchday range.
func (s *Source) FetchMatchdays(ctx context.Context, query string) ([]matchday.MatchdayData, error) {
	query = firstNonEmpty(query, defaultQuery)

	text, err := s.generator.Generate(ctx, Request{
		Model:           s.model,
		Prompt:          s.prompt(query),
		Schema:          responseSchema(),
		SearchGrounding: s.searchGrounding,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: gemini generate content: %w", usecase.ErrDependencyUnavailable, err)
	}

	items, err := s.parse(text)
	if err != nil {
		s.logger.ErrorContext(ctx, "parse gemini response failed",
			"model", s.model,
			"error", err,
			"raw_excerpt", excerpt(text, rawExcerptLimit),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "gemini matchdays parsed", "model", s.model, "query", query, "matchdays", len(items))
	return items, nil
}

func (s *Source) prompt(query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Return the results of the %s season %s for the matchday range: %s.\n", s.league, s.season, query)
	b.WriteString("Include every match of each matchday with kickoff date, final score and all goal scorers with minute and team.\n")
	b.WriteString("Use the team names exactly as they appear in the home and away fields when attributing goals.\n")
	if s.searchGrounding {
		b.WriteString("Use the most recent data available on the web.\n")
	}
	return b.String()
}

type wireGoal struct {
	Minute *float64 `json:"minute" validate:"required,gte=0"`
	Player string   `json:"player" validate:"required"`
	Team   string   `json:"team" validate:"required"`
}

type wireMatch struct {
	ID        string     `json:"id"`
	Date      string     `json:"date" validate:"required"`
	HomeTeam  string     `json:"homeTeam" validate:"required"`
	AwayTeam  string     `json:"awayTeam" validate:"required"`
	HomeScore *float64   `json:"homeScore" validate:"required,gte=0"`
	AwayScore *float64   `json:"awayScore" validate:"required,gte=0"`
	Status    string     `json:"status"`
	Goals     []wireGoal `json:"goals" validate:"omitempty,dive"`
}

type wireMatchday struct {
	Matchday *float64    `json:"matchday" validate:"required,gt=0"`
	Matches  []wireMatch `json:"matches" validate:"required,dive"`
}

func (s *Source) parse(text string) ([]matchday.MatchdayData, error) {
	body := stripCodeFence(text)
	if body == "" {
		return nil, ErrEmptyResponse
	}
	if !strings.HasPrefix(body, "[") {
		return nil, fmt.Errorf("%w: expected a JSON array of matchdays", usecase.ErrMalformedResponse)
	}

	var wire []wireMatchday
	if err := sonic.UnmarshalString(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: decode matchdays: %v", usecase.ErrMalformedResponse, err)
	}
	if len(wire) == 0 {
		return nil, fmt.Errorf("%w: gemini returned no matchdays", usecase.ErrEmptyResult)
	}

	out := make([]matchday.MatchdayData, 0, len(wire))
	for i, md := range wire {
		if err := s.validate.Struct(md); err != nil {
			return nil, fmt.Errorf("%w: matchday entry #%d: %v", usecase.ErrMalformedResponse, i, err)
		}
		number, ok := wholeNumber(*md.Matchday)
		if !ok {
			return nil, fmt.Errorf("%w: matchday entry #%d: matchday %v is not a whole number", usecase.ErrMalformedResponse, i, *md.Matchday)
		}

		drafts := make([]matchday.MatchDraft, 0, len(md.Matches))
		for idx, m := range md.Matches {
			draft, err := s.toDraft(number, idx, m)
			if err != nil {
				return nil, err
			}
			drafts = append(drafts, draft)
		}

		item, err := matchday.Normalize(number, drafts)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", usecase.ErrMalformedResponse, err)
		}
		out = append(out, item)
	}

	if err := matchday.ValidateCollection(out); err != nil {
		return nil, fmt.Errorf("%w: %w", usecase.ErrMalformedResponse, err)
	}
	matchday.SortAscending(out)
	return out, nil
}

func (s *Source) toDraft(number, idx int, m wireMatch) (matchday.MatchDraft, error) {
	kickoff, err := parseDate(m.Date, s.location)
	if err != nil {
		return matchday.MatchDraft{}, fmt.Errorf("%w: matchday %d match #%d: %v", usecase.ErrMalformedResponse, number, idx, err)
	}
	home, ok := wholeNumber(*m.HomeScore)
	if !ok {
		return matchday.MatchDraft{}, fmt.Errorf("%w: matchday %d match #%d: home score is not a whole number", usecase.ErrMalformedResponse, number, idx)
	}
	away, ok := wholeNumber(*m.AwayScore)
	if !ok {
		return matchday.MatchDraft{}, fmt.Errorf("%w: matchday %d match #%d: away score is not a whole number", usecase.ErrMalformedResponse, number, idx)
	}

	var goals []matchday.Goal
	if m.Goals != nil {
		goals = make([]matchday.Goal, 0, len(m.Goals))
		for _, g := range m.Goals {
			goals = append(goals, matchday.Goal{
				Minute: int(math.Round(*g.Minute)),
				Player: strings.TrimSpace(g.Player),
				Team:   strings.TrimSpace(g.Team),
			})
		}
	}

	return matchday.MatchDraft{
		ID:        strings.TrimSpace(m.ID),
		Kickoff:   kickoff,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		HomeScore: &home,
		AwayScore: &away,
		Status:    m.Status,
		Goals:     goals,
	}, nil
}

func parseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		var (
			parsed time.Time
			err    error
		)
		if layout == time.RFC3339 {
			parsed, err = time.Parse(layout, raw)
		} else {
			parsed, err = time.ParseInLocation(layout, raw, loc)
		}
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date %q", raw)
}

func wholeNumber(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
