package openligadb

import (
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/league-results/internal/domain/matchday"
)

// finalResultTypeID marks the end-of-match entry in matchResults.
const finalResultTypeID = 2

// unknownScorer keeps the score replay intact when the scorer name is missing upstream.
const unknownScorer = "Unknown"

func (c *Client) toDraft(item matchItem) matchday.MatchDraft {
	home := strings.TrimSpace(item.Team1.TeamName)
	away := strings.TrimSpace(item.Team2.TeamName)
	homeScore, awayScore := finalScore(item.MatchResults)
	kickoff := c.parseKickoff(item)

	draft := matchday.MatchDraft{
		Kickoff:   kickoff,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: &homeScore,
		AwayScore: &awayScore,
		Status:    string(deriveStatus(item.MatchIsFinished, kickoff, c.now())),
		Goals:     matchday.ReconstructGoals(scoreEvents(item.Goals), home, away),
	}
	if item.MatchID > 0 {
		draft.ID = strconv.Itoa(item.MatchID)
	}
	return draft
}

// finalScore reads the final result entry and defaults to 0:0 when absent.
func finalScore(results []matchResultItem) (int, int) {
	for _, r := range results {
		if r.ResultTypeID == finalResultTypeID {
			return maxInt(r.PointsTeam1, 0), maxInt(r.PointsTeam2, 0)
		}
	}
	return 0, 0
}

// deriveStatus cannot see live data, so any unfinished match whose kickoff has
// passed is reported as in progress.
func deriveStatus(finished bool, kickoff, now time.Time) matchday.Status {
	if finished {
		return matchday.StatusFinished
	}
	if kickoff.After(now) {
		return matchday.StatusScheduled
	}
	return matchday.StatusInProgress
}

func scoreEvents(goals []goalItem) []matchday.ScoreEvent {
	out := make([]matchday.ScoreEvent, 0, len(goals))
	for _, g := range goals {
		minute := 0
		if g.MatchMinute != nil {
			minute = *g.MatchMinute
		}
		player := strings.TrimSpace(g.GoalGetterName)
		if player == "" {
			player = unknownScorer
		}
		out = append(out, matchday.ScoreEvent{
			Minute:    minute,
			Player:    player,
			HomeTotal: g.ScoreTeam1,
			AwayTotal: g.ScoreTeam2,
			Penalty:   g.IsPenalty,
			OwnGoal:   g.IsOwnGoal,
		})
	}
	return out
}

func (c *Client) parseKickoff(item matchItem) time.Time {
	if raw := strings.TrimSpace(item.MatchDateTimeUTC); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return parsed.UTC()
		}
	}
	raw := strings.TrimSpace(item.MatchDateTime)
	if raw == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC()
	}
	if parsed, err := time.ParseInLocation("2006-01-02T15:04:05", raw, c.location); err == nil {
		return parsed.UTC()
	}
	return time.Time{}
}
