// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "math"

// Score ranks ideas by their mean score. Votes without a score, or with a
// NaN score, are skipped, and an idea with no scored votes averages 0. Percentage is the mean as a
// share of MaxScore.
func Score(ideas []Idea, votes []Vote) []Result {
	tallies, byID := newTallies(ideas)

	sums := make([]float64, len(ideas))
	counts := make([]int, len(ideas))
	for _, v := range votes {
		score, ok := v.Score()
		if !ok || math.IsNaN(score) {
			continue
		}
		i, known := byID[v.IdeaID]
		if !known {
			continue
		}
		sums[i] += score
		counts[i]++
	}

	for i := range tallies {
		mean := 0.0
		if counts[i] > 0 {
			mean = sums[i] / float64(counts[i])
		}
		tallies[i].value = mean
		tallies[i].result.Score = floatPtr(mean)
		tallies[i].result.Percentage = floatPtr(mean / MaxScore * 100)
	}

	return rankTallies(tallies)
}
