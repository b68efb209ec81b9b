package standing

import (
	"sort"
	"strings"
)

// Entry represents a league table row for one team.
type Entry struct {
	Position       int    `json:"position"`
	TeamName       string `json:"teamName"`
	Played         int    `json:"matches"`
	Won            int    `json:"wins"`
	Draw           int    `json:"draws"`
	Lost           int    `json:"losses"`
	GoalsFor       int    `json:"goals"`
	GoalsAgainst   int    `json:"opponentGoals"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
	CrestURL       string `json:"iconUrl,omitempty"`
}

// TopScorer aggregates goals per player and team.
type TopScorer struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	Goals  int    `json:"goals"`
}

// Finalize recomputes derived columns so goal difference always equals for minus against.
func (e Entry) Finalize() Entry {
	e.TeamName = strings.TrimSpace(e.TeamName)
	e.CrestURL = strings.TrimSpace(e.CrestURL)
	e.GoalDifference = e.GoalsFor - e.GoalsAgainst
	if total := e.Won + e.Draw + e.Lost; total > 0 && e.Played != total {
		e.Played = total
	}
	return e
}

// Rank sorts by points, goal difference, goals scored and team name, then assigns positions.
func Rank(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, item := range entries {
		out = append(out, item.Finalize())
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamName < b.TeamName
	})

	for i := range out {
		out[i].Position = i + 1
	}
	return out
}
