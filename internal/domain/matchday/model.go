package matchday

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in-progress"
	StatusFinished   Status = "finished"
)

var statusAliases = map[string]Status{
	"scheduled":   StatusScheduled,
	"planned":     StatusScheduled,
	"geplant":     StatusScheduled,
	"ns":          StatusScheduled,
	"in-progress": StatusInProgress,
	"in_progress": StatusInProgress,
	"live":        StatusInProgress,
	"läuft":       StatusInProgress,
	"laeuft":      StatusInProgress,
	"ht":          StatusInProgress,
	"finished":    StatusFinished,
	"final":       StatusFinished,
	"ft":          StatusFinished,
	"beendet":     StatusFinished,
}

// ParseStatus maps a source status string to a Status. Empty input is reported as not ok.
func ParseStatus(value string) (Status, bool) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return "", false
	}
	status, ok := statusAliases[key]
	return status, ok
}

// Goal is one scoring event attributed to a team.
type Goal struct {
	Minute  int    `json:"minute"`
	Player  string `json:"player"`
	Team    string `json:"team"`
	Penalty bool   `json:"penalty,omitempty"`
	OwnGoal bool   `json:"ownGoal,omitempty"`
}

// Match is the canonical match record shared by every source.
type Match struct {
	ID        string    `json:"id"`
	Kickoff   time.Time `json:"date"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	HomeScore int       `json:"homeScore"`
	AwayScore int       `json:"awayScore"`
	Matchday  int       `json:"matchday"`
	Status    Status    `json:"status"`
	Goals     []Goal    `json:"goals"`
}

// MatchdayData groups the matches of one round.
type MatchdayData struct {
	Matchday int     `json:"matchday"`
	Matches  []Match `json:"matches"`
}

// MatchDraft is a match as delivered by a source before normalization.
// Nil pointers, a nil goal slice, an empty ID and an empty status mean "not reported".
type MatchDraft struct {
	ID        string
	Kickoff   time.Time
	HomeTeam  string
	AwayTeam  string
	HomeScore *int
	AwayScore *int
	Status    string
	Goals     []Goal
}

func (m Match) Clone() Match {
	out := m
	out.Goals = append([]Goal(nil), m.Goals...)
	if out.Goals == nil {
		out.Goals = []Goal{}
	}
	return out
}

func (d MatchdayData) Clone() MatchdayData {
	out := MatchdayData{
		Matchday: d.Matchday,
		Matches:  make([]Match, 0, len(d.Matches)),
	}
	for _, item := range d.Matches {
		out.Matches = append(out.Matches, item.Clone())
	}
	return out
}

// CloneAll deep-copies a collection.
func CloneAll(items []MatchdayData) []MatchdayData {
	out := make([]MatchdayData, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

// Find returns the matchday with the given number.
func Find(items []MatchdayData, number int) (MatchdayData, bool) {
	for _, item := range items {
		if item.Matchday == number {
			return item, true
		}
	}
	return MatchdayData{}, false
}
