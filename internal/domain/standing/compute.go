package standing

import (
	"sort"

	"github.com/riskibarqy/league-results/internal/domain/matchday"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// Compute builds a league table from finished matches only.
func Compute(items []matchday.MatchdayData) []Entry {
	byTeam := make(map[string]*Entry, 18)
	get := func(name string) *Entry {
		if e, ok := byTeam[name]; ok {
			return e
		}
		e := &Entry{TeamName: name}
		byTeam[name] = e
		return e
	}

	for _, md := range items {
		for _, m := range md.Matches {
			if m.Status != matchday.StatusFinished {
				continue
			}
			home := get(m.HomeTeam)
			away := get(m.AwayTeam)

			home.GoalsFor += m.HomeScore
			home.GoalsAgainst += m.AwayScore
			away.GoalsFor += m.AwayScore
			away.GoalsAgainst += m.HomeScore

			switch {
			case m.HomeScore > m.AwayScore:
				home.Won++
				away.Lost++
				home.Points += pointsWin
			case m.HomeScore < m.AwayScore:
				away.Won++
				home.Lost++
				away.Points += pointsWin
			default:
				home.Draw++
				away.Draw++
				home.Points += pointsDraw
				away.Points += pointsDraw
			}
		}
	}

	entries := make([]Entry, 0, len(byTeam))
	for _, e := range byTeam {
		entries = append(entries, *e)
	}
	return Rank(entries)
}

// TopScorers counts goals per player and team, excluding own goals, and returns the best limit rows.
func TopScorers(items []matchday.MatchdayData, limit int) []TopScorer {
	type key struct {
		player string
		team   string
	}

	counts := make(map[key]int, 64)
	for _, md := range items {
		for _, m := range md.Matches {
			for _, g := range m.Goals {
				if g.OwnGoal || g.Player == "" {
					continue
				}
				counts[key{player: g.Player, team: g.Team}]++
			}
		}
	}

	out := make([]TopScorer, 0, len(counts))
	for k, goals := range counts {
		out = append(out, TopScorer{Player: k.player, Team: k.team, Goals: goals})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Goals != out[j].Goals {
			return out[i].Goals > out[j].Goals
		}
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return out[i].Team < out[j].Team
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
