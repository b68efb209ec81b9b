package openligadb

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/league-results/internal/domain/matchday"
	"github.com/riskibarqy/league-results/internal/usecase"
)

// FetchMatchdays discovers the season's groups and loads each one on a bounded
// worker pool. A failing group is logged and skipped, groups without matches
// are omitted and the result is ordered by ascending matchday number.
func (c *Client) FetchMatchdays(ctx context.Context, query string) ([]matchday.MatchdayData, error) {
	season, err := c.resolveSeason(query)
	if err != nil {
		return nil, err
	}

	var groups []groupItem
	groupsPath := fmt.Sprintf("/getavailablegroups/%s/%s", c.league, season)
	if err := c.doJSON(ctx, groupsPath, &groups); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: fetch available groups league=%s season=%s: %w", usecase.ErrDependencyUnavailable, c.league, season, err)
	}

	groupNumbers := uniqueGroupNumbers(groups)
	if len(groupNumbers) == 0 {
		return []matchday.MatchdayData{}, nil
	}

	pool, err := ants.NewPool(minInt(c.workers, len(groupNumbers)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	slots := make([]*matchday.MatchdayData, len(groupNumbers))
	var wg sync.WaitGroup
	for i, number := range groupNumbers {
		i, number := i, number
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			item, fetchErr := c.fetchMatchday(ctx, season, number)
			if fetchErr != nil {
				if ctx.Err() == nil {
					c.logger.WarnContext(ctx, "fetch matchday failed, skipping",
						"league", c.league,
						"season", season,
						"matchday", number,
						"error", fetchErr,
					)
				}
				return
			}
			if len(item.Matches) == 0 {
				return
			}
			slots[i] = &item
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit matchday %d to worker pool: %w", number, err)
		}
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	out := make([]matchday.MatchdayData, 0, len(slots))
	for _, item := range slots {
		if item != nil {
			out = append(out, *item)
		}
	}
	matchday.SortAscending(out)

	c.logger.InfoContext(ctx, "openligadb matchdays fetched",
		"league", c.league,
		"season", season,
		"groups", len(groupNumbers),
		"matchdays", len(out),
	)
	return out, nil
}

func (c *Client) fetchMatchday(ctx context.Context, season string, number int) (matchday.MatchdayData, error) {
	var raw []matchItem
	path := fmt.Sprintf("/getmatchdata/%s/%s/%d", c.league, season, number)
	if err := c.doJSON(ctx, path, &raw); err != nil {
		return matchday.MatchdayData{}, err
	}
	if len(raw) == 0 {
		return matchday.MatchdayData{Matchday: number}, nil
	}

	drafts := make([]matchday.MatchDraft, 0, len(raw))
	for _, item := range raw {
		if item.Group.GroupOrderID > 0 && item.Group.GroupOrderID != number {
			c.logger.WarnContext(ctx, "match reports a different matchday, dropping",
				"match_id", item.MatchID,
				"requested", number,
				"reported", item.Group.GroupOrderID,
			)
			continue
		}
		drafts = append(drafts, c.toDraft(item))
	}

	return matchday.Normalize(number, drafts)
}

func uniqueGroupNumbers(groups []groupItem) []int {
	seen := make(map[int]struct{}, len(groups))
	out := make([]int, 0, len(groups))
	for _, g := range groups {
		if g.GroupOrderID <= 0 {
			continue
		}
		if _, ok := seen[g.GroupOrderID]; ok {
			continue
		}
		seen[g.GroupOrderID] = struct{}{}
		out = append(out, g.GroupOrderID)
	}
	return out
}

func minInt(left, right int) int {
	if left < right {
		return left
	}
	return right
}
