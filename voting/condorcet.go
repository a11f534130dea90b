// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "sort"

// wins[a][b] counts the voters who ranked idea a above idea b.
type wins map[string]map[string]int

func (w wins) add(preferred, other string) {
	row, ok := w[preferred]
	if !ok {
		row = make(map[string]int)
		w[preferred] = row
	}
	row[other]++
}

func (w wins) get(preferred, other string) int {
	return w[preferred][other]
}

// rankedEntry is one ranked vote inside a voter's ballot.
type rankedEntry struct {
	ideaID string
	rank   int
	seq    int // order of appearance in the vote slice
}

// ballots groups ranked votes by voter, each sorted by rank ascending.
// Voters appear in the order they first cast a ranked vote.
func ballots(votes []Vote) [][]rankedEntry {
	var order []string
	byVoter := make(map[string][]rankedEntry)
	for seq, v := range votes {
		rank, ok := v.Rank()
		if !ok {
			continue
		}
		if _, seen := byVoter[v.VoterID]; !seen {
			order = append(order, v.VoterID)
		}
		byVoter[v.VoterID] = append(byVoter[v.VoterID], rankedEntry{ideaID: v.IdeaID, rank: rank, seq: seq})
	}

	out := make([][]rankedEntry, 0, len(order))
	for _, voter := range order {
		entries := byVoter[voter]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].rank != entries[j].rank {
				return entries[i].rank < entries[j].rank
			}
			return entries[i].seq < entries[j].seq
		})
		out = append(out, entries)
	}
	return out
}

// pairwiseWins counts, for every voter, each idea against every idea ranked
// below it on that voter's ballot (not only adjacent ones).
func pairwiseWins(votes []Vote) (wins, int) {
	w := make(wins)
	groups := ballots(votes)
	for _, entries := range groups {
		for i := 0; i < len(entries); i++ {
			for j := i + 1; j < len(entries); j++ {
				if entries[i].ideaID == entries[j].ideaID {
					continue
				}
				w.add(entries[i].ideaID, entries[j].ideaID)
			}
		}
	}
	return w, len(groups)
}

// WeakCondorcet returns the first idea, in input order, that beat every other
// idea at least once across all voters' orderings, or nil if none did.
//
// This is the "condorcet" method. It does not compare wins[X][Y] against
// wins[Y][X]: an idea that lost most head-to-heads but won each of them
// once still qualifies. With no ranked votes there is no winner.
//
// The winner is returned with Score 1 and Rank 1.
func WeakCondorcet(ideas []Idea, votes []Vote) *Result {
	w, voters := pairwiseWins(votes)
	if voters == 0 {
		return nil
	}

	for i, candidate := range ideas {
		beatsAll := true
		for j, other := range ideas {
			if i == j || other.ID == candidate.ID {
				continue
			}
			if w.get(candidate.ID, other.ID) == 0 {
				beatsAll = false
				break
			}
		}
		if beatsAll {
			return &Result{
				IdeaID: candidate.ID,
				Title:  candidate.Title,
				Score:  floatPtr(1),
				Rank:   1,
			}
		}
	}
	return nil
}
