package matchday

import "sort"

// SortAscending orders a collection by matchday number, lowest first, in place.
func SortAscending(items []MatchdayData) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Matchday < items[j].Matchday
	})
}

// SortDescending orders a collection by matchday number, most recent first, in place.
func SortDescending(items []MatchdayData) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Matchday > items[j].Matchday
	})
}

// Numbers lists the matchday numbers of a collection in its current order.
func Numbers(items []MatchdayData) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.Matchday)
	}
	return out
}
