package matchday

import "sort"

// ScoreEvent is a scoring update reported as the new running total of both sides.
type ScoreEvent struct {
	Minute    int
	Player    string
	HomeTotal int
	AwayTotal int
	Penalty   bool
	OwnGoal   bool
}

// ReconstructGoals attributes cumulative score events to teams.
//
// Events are replayed in minute order; a goal belongs to the home team when the home
// counter increased since the previous event, otherwise to the away team. Ties on the
// minute are ordered by running total so that replay stays monotonic. The input slice
// is not modified.
func ReconstructGoals(events []ScoreEvent, homeTeam, awayTeam string) []Goal {
	if len(events) == 0 {
		return []Goal{}
	}

	sorted := append([]ScoreEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Minute != sorted[j].Minute {
			return sorted[i].Minute < sorted[j].Minute
		}
		return sorted[i].HomeTotal+sorted[i].AwayTotal < sorted[j].HomeTotal+sorted[j].AwayTotal
	})

	goals := make([]Goal, 0, len(sorted))
	prevHome := 0
	for _, event := range sorted {
		team := awayTeam
		if event.HomeTotal > prevHome {
			team = homeTeam
		}
		minute := event.Minute
		if minute < 0 {
			minute = 0
		}
		goals = append(goals, Goal{
			Minute:  minute,
			Player:  event.Player,
			Team:    team,
			Penalty: event.Penalty,
			OwnGoal: event.OwnGoal,
		})
		prevHome = event.HomeTotal
	}

	return goals
}

// Replay returns the running score after every goal in order.
func Replay(goals []Goal, homeTeam string) [][2]int {
	out := make([][2]int, 0, len(goals))
	home, away := 0, 0
	for _, goal := range goals {
		if goal.Team == homeTeam {
			home++
		} else {
			away++
		}
		out = append(out, [2]int{home, away})
	}
	return out
}
