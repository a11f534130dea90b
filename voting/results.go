// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "fmt"

// ComputeResults runs one method and returns one Result per idea, ranked.
// Unknown methods fail with ErrInvalidMethod and no results.
func ComputeResults(ideas []Idea, votes []Vote, method Method) ([]Result, error) {
	switch method {
	case MethodScore:
		return Score(ideas, votes), nil
	case MethodRankedChoice:
		return FirstChoiceTally(ideas, votes), nil
	case MethodBorda:
		return Borda(ideas, votes), nil
	case MethodCondorcet:
		return condorcetListing(ideas, WeakCondorcet(ideas, votes)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
}

// ComputeAllResults runs every method in Methods() over the same input.
func ComputeAllResults(ideas []Idea, votes []Vote) []ResultSet {
	sets := make([]ResultSet, 0, len(methods))
	for _, m := range methods {
		results, err := ComputeResults(ideas, votes, m)
		if err != nil {
			// methods only holds valid tags
			panic(err)
		}
		sets = append(sets, ResultSet{
			Method:  m,
			Results: results,
			Winners: Winners(results),
		})
	}
	return sets
}

// Winners returns every result at rank 1.
func Winners(results []Result) []Result {
	winners := []Result{}
	for _, r := range results {
		if r.Rank == 1 {
			winners = append(winners, r)
		}
	}
	return winners
}

// condorcetListing expands a WeakCondorcet outcome into a full ranking. The
// winner, if any, leads with score 1; every other idea scores 0 in input
// order.
func condorcetListing(ideas []Idea, winner *Result) []Result {
	tallies, _ := newTallies(ideas)
	placed := false
	for i := range tallies {
		score := 0.0
		if winner != nil && !placed && tallies[i].result.IdeaID == winner.IdeaID {
			score = 1
			placed = true
		}
		tallies[i].value = score
		tallies[i].result.Score = floatPtr(score)
	}
	return rankTallies(tallies)
}
