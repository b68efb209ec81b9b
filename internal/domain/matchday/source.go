package matchday

import "context"

// Source retrieves every matchday a query describes. Implementations return
// validated collections; partial upstream failures are their own concern.
type Source interface {
	FetchMatchdays(ctx context.Context, query string) ([]MatchdayData, error)
}
