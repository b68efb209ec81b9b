package matchday

import (
	"reflect"
	"testing"
)

func TestSortRoundTrip(t *testing.T) {
	t.Parallel()

	items := []MatchdayData{{Matchday: 3}, {Matchday: 1}, {Matchday: 5}, {Matchday: 2}}

	SortAscending(items)
	asc := Numbers(items)
	if !reflect.DeepEqual(asc, []int{1, 2, 3, 5}) {
		t.Fatalf("unexpected ascending order: %v", asc)
	}

	SortDescending(items)
	desc := Numbers(items)
	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Fatalf("descending is not the reverse of ascending: %v vs %v", asc, desc)
		}
	}

	SortAscending(items)
	if !reflect.DeepEqual(Numbers(items), asc) {
		t.Fatalf("round trip changed order: %v", Numbers(items))
	}
}

func TestCloneAll_IsDeep(t *testing.T) {
	t.Parallel()

	src := []MatchdayData{{Matchday: 1, Matches: []Match{{ID: "x", Goals: []Goal{{Player: "p"}}}}}}
	dst := CloneAll(src)
	dst[0].Matches[0].Goals[0].Player = "changed"
	if src[0].Matches[0].Goals[0].Player != "p" {
		t.Fatalf("clone shares goal storage with source")
	}

	if _, ok := Find(src, 1); !ok {
		t.Fatalf("expected to find matchday 1")
	}
	if _, ok := Find(src, 2); ok {
		t.Fatalf("did not expect matchday 2")
	}
}
