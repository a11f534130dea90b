// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

// Borda ranks ideas by summed Borda points. Each ranked vote is worth
// maxRank-rank+1, where maxRank is the largest rank across all votes, so
// rank 1 earns maxRank and the last place earns 1.
func Borda(ideas []Idea, votes []Vote) []Result {
	tallies, byID := newTallies(ideas)

	maxRank := 0
	for _, v := range votes {
		if rank, ok := v.Rank(); ok && rank > maxRank {
			maxRank = rank
		}
	}

	points := make([]int, len(ideas))
	for _, v := range votes {
		rank, ok := v.Rank()
		if !ok {
			continue
		}
		i, known := byID[v.IdeaID]
		if !known {
			continue
		}
		// never let a degenerate rank subtract points
		if p := maxRank - rank + 1; p > 0 {
			points[i] += p
		}
	}

	for i := range tallies {
		tallies[i].value = float64(points[i])
		tallies[i].result.Points = intPtr(points[i])
	}

	return rankTallies(tallies)
}
