package openligadb

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/league-results/internal/domain/standing"
	"github.com/riskibarqy/league-results/internal/usecase"
)

// FetchTable reads the current league table for a season. An empty season uses the configured one.
func (c *Client) FetchTable(ctx context.Context, season string) ([]standing.Entry, error) {
	season, err := c.resolveSeason(season)
	if err != nil {
		return nil, err
	}

	var rows []tableItem
	path := fmt.Sprintf("/getbltable/%s/%s", c.league, season)
	if err := c.doJSON(ctx, path, &rows); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: fetch league table league=%s season=%s: %w", usecase.ErrDependencyUnavailable, c.league, season, err)
	}

	entries := make([]standing.Entry, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.TeamName)
		if name == "" {
			continue
		}
		entries = append(entries, standing.Entry{
			TeamName:     name,
			Played:       row.Matches,
			Won:          row.Won,
			Draw:         row.Draw,
			Lost:         row.Lost,
			GoalsFor:     row.Goals,
			GoalsAgainst: row.OpponentGoals,
			Points:       row.Points,
			CrestURL:     row.TeamIconURL,
		})
	}
	return standing.Rank(entries), nil
}
