package matchday

import (
	"fmt"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidRecord      = crerr.New("invalid match record")
	ErrInvalidCollection  = crerr.New("invalid matchday collection")
	errDuplicateMatchday  = crerr.New("duplicate matchday")
	errNonPositiveNumber  = crerr.New("matchday must be greater than zero")
	errMatchdayMembership = crerr.New("match belongs to a different matchday")
)

// ValidationError describes the first field of a match that could not be normalized.
// Index is the position of the match inside its matchday, or -1 for matchday-level problems.
type ValidationError struct {
	Matchday int
	Index    int
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("matchday %d: %s: %s", e.Matchday, e.Field, e.Reason)
	}
	return fmt.Sprintf("matchday %d match #%d: %s: %s", e.Matchday, e.Index, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}

func invalid(matchday, index int, field, reason string) error {
	return &ValidationError{Matchday: matchday, Index: index, Field: field, Reason: reason}
}

// SyntheticID is the identifier assigned to a match the source left unnamed.
func SyntheticID(matchday, index int) string {
	return "md" + strconv.Itoa(matchday) + "-m" + strconv.Itoa(index)
}

// Normalize turns source drafts into a fully populated MatchdayData.
// Missing IDs are synthesized, missing goals become an empty list and a missing status
// defaults to finished. Anything that cannot be repaired is reported as *ValidationError.
func Normalize(number int, drafts []MatchDraft) (MatchdayData, error) {
	if number <= 0 {
		return MatchdayData{}, invalid(number, -1, "matchday", "must be greater than zero")
	}

	out := MatchdayData{
		Matchday: number,
		Matches:  make([]Match, 0, len(drafts)),
	}

	provided := make(map[string]struct{}, len(drafts))
	for idx, draft := range drafts {
		id := strings.TrimSpace(draft.ID)
		if id == "" {
			continue
		}
		if _, exists := provided[id]; exists {
			return MatchdayData{}, invalid(number, idx, "id", fmt.Sprintf("duplicate id %q", id))
		}
		provided[id] = struct{}{}
	}

	used := make(map[string]struct{}, len(drafts))
	for id := range provided {
		used[id] = struct{}{}
	}

	for idx, draft := range drafts {
		item, err := normalizeMatch(number, idx, draft)
		if err != nil {
			return MatchdayData{}, err
		}
		if item.ID == "" {
			item.ID = uniqueSyntheticID(number, idx, used)
			used[item.ID] = struct{}{}
		}
		out.Matches = append(out.Matches, item)
	}

	return out, nil
}

func normalizeMatch(number, idx int, draft MatchDraft) (Match, error) {
	home := strings.TrimSpace(draft.HomeTeam)
	away := strings.TrimSpace(draft.AwayTeam)
	switch {
	case home == "":
		return Match{}, invalid(number, idx, "homeTeam", "is required")
	case away == "":
		return Match{}, invalid(number, idx, "awayTeam", "is required")
	case strings.EqualFold(home, away):
		return Match{}, invalid(number, idx, "awayTeam", "must differ from homeTeam")
	}

	if draft.HomeScore == nil {
		return Match{}, invalid(number, idx, "homeScore", "is required")
	}
	if draft.AwayScore == nil {
		return Match{}, invalid(number, idx, "awayScore", "is required")
	}
	if *draft.HomeScore < 0 {
		return Match{}, invalid(number, idx, "homeScore", "must not be negative")
	}
	if *draft.AwayScore < 0 {
		return Match{}, invalid(number, idx, "awayScore", "must not be negative")
	}

	status := StatusFinished
	if strings.TrimSpace(draft.Status) != "" {
		parsed, ok := ParseStatus(draft.Status)
		if !ok {
			return Match{}, invalid(number, idx, "status", fmt.Sprintf("unknown status %q", draft.Status))
		}
		status = parsed
	}

	goals := make([]Goal, 0, len(draft.Goals))
	for goalIdx, goal := range draft.Goals {
		if goal.Minute < 0 {
			return Match{}, invalid(number, idx, fmt.Sprintf("goals[%d].minute", goalIdx), "must not be negative")
		}
		player := strings.TrimSpace(goal.Player)
		if player == "" {
			return Match{}, invalid(number, idx, fmt.Sprintf("goals[%d].player", goalIdx), "is required")
		}
		team, ok := resolveTeam(goal.Team, home, away)
		if !ok {
			return Match{}, invalid(number, idx, fmt.Sprintf("goals[%d].team", goalIdx), fmt.Sprintf("%q is neither %q nor %q", goal.Team, home, away))
		}
		goal.Player = player
		goal.Team = team
		goals = append(goals, goal)
	}

	return Match{
		ID:        strings.TrimSpace(draft.ID),
		Kickoff:   draft.Kickoff,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: *draft.HomeScore,
		AwayScore: *draft.AwayScore,
		Matchday:  number,
		Status:    status,
		Goals:     goals,
	}, nil
}

func resolveTeam(candidate, home, away string) (string, bool) {
	value := strings.TrimSpace(candidate)
	switch {
	case strings.EqualFold(value, home):
		return home, true
	case strings.EqualFold(value, away):
		return away, true
	default:
		return "", false
	}
}

func uniqueSyntheticID(number, idx int, used map[string]struct{}) string {
	id := SyntheticID(number, idx)
	if _, taken := used[id]; !taken {
		return id
	}
	for suffix := 1; ; suffix++ {
		candidate := id + "-" + strconv.Itoa(suffix)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}

// ValidateCollection checks the cross-matchday invariants of a loaded collection.
func ValidateCollection(items []MatchdayData) error {
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if item.Matchday <= 0 {
			return crerr.Mark(crerr.Wrapf(errNonPositiveNumber, "matchday=%d", item.Matchday), ErrInvalidCollection)
		}
		if _, exists := seen[item.Matchday]; exists {
			return crerr.Mark(crerr.Wrapf(errDuplicateMatchday, "matchday=%d", item.Matchday), ErrInvalidCollection)
		}
		seen[item.Matchday] = struct{}{}

		for _, m := range item.Matches {
			if m.Matchday != item.Matchday {
				return crerr.Mark(
					crerr.Wrapf(errMatchdayMembership, "match %s carries matchday=%d inside matchday=%d", m.ID, m.Matchday, item.Matchday),
					ErrInvalidCollection,
				)
			}
		}
	}
	return nil
}
