// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "sort"

// tally is a per-idea figure awaiting ranking.
type tally struct {
	index  int // position in the input idea slice
	value  float64
	result Result
}

// newTallies allocates one zeroed tally per idea and an ID lookup into it.
// Duplicate idea IDs resolve to the first occurrence.
func newTallies(ideas []Idea) ([]tally, map[string]int) {
	tallies := make([]tally, len(ideas))
	byID := make(map[string]int, len(ideas))
	for i, idea := range ideas {
		tallies[i] = tally{
			index:  i,
			result: Result{IdeaID: idea.ID, Title: idea.Title},
		}
		if _, seen := byID[idea.ID]; !seen {
			byID[idea.ID] = i
		}
	}
	return tallies, byID
}

// rankTallies sorts descending by value, breaking ties on input index, and
// assigns 1-based ranks.
func rankTallies(tallies []tally) []Result {
	sort.Slice(tallies, func(i, j int) bool {
		a, b := tallies[i], tallies[j]
		if a.value != b.value {
			return a.value > b.value
		}
		return a.index < b.index
	})

	results := make([]Result, len(tallies))
	for i, t := range tallies {
		results[i] = t.result
		results[i].Rank = i + 1
	}
	return results
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
