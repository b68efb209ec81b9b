package main

import (
	"fmt"
	"strconv"
	"strings"
)

// maxSelection matches the largest export the HTTP API accepts.
const maxSelection = 100

// parseMatchdays reads "1,2,5-7" style selections. Empty input selects nothing.
func parseMatchdays(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if from, to, ok := strings.Cut(part, "-"); ok {
			start, err := positive(from)
			if err != nil {
				return nil, err
			}
			end, err := positive(to)
			if err != nil {
				return nil, err
			}
			if end < start {
				return nil, fmt.Errorf("invalid matchday range %q", part)
			}
			if end-start+1 > maxSelection-len(out) {
				return nil, fmt.Errorf("selection exceeds %d matchdays", maxSelection)
			}
			for n := start; n <= end; n++ {
				out = append(out, n)
			}
			continue
		}

		n, err := positive(part)
		if err != nil {
			return nil, err
		}
		if len(out) >= maxSelection {
			return nil, fmt.Errorf("selection exceeds %d matchdays", maxSelection)
		}
		out = append(out, n)
	}
	return out, nil
}

func positive(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid matchday %q", raw)
	}
	return n, nil
}
