// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

// FirstChoiceTally ranks ideas by how many votes placed them at rank 1.
//
// This is the "ranked_choice" method. It is a single round: no idea is
// eliminated and no vote is redistributed, so it is not instant-runoff.
// Score holds the first-choice count; Percentage is that count over every
// vote record passed in, whatever its rank.
func FirstChoiceTally(ideas []Idea, votes []Vote) []Result {
	tallies, byID := newTallies(ideas)

	firsts := make([]int, len(ideas))
	for _, v := range votes {
		rank, ok := v.Rank()
		if !ok || rank != 1 {
			continue
		}
		if i, known := byID[v.IdeaID]; known {
			firsts[i]++
		}
	}

	total := len(votes)
	for i := range tallies {
		count := float64(firsts[i])
		pct := 0.0
		if total > 0 {
			pct = count / float64(total) * 100
		}
		tallies[i].value = count
		tallies[i].result.Score = floatPtr(count)
		tallies[i].result.Percentage = floatPtr(pct)
	}

	return rankTallies(tallies)
}
