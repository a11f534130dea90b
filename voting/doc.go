// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting computes ranked results for a session's ideas from the votes
cast against them.

The package is pure: every function reads its arguments, allocates new
output and returns. Nothing here performs I/O, holds state between calls or
mutates the slices it is given, so any function may be called from
concurrent goroutines without coordination.

# Methods

Four methods are supported, selected by a Method tag:

	MethodScore        = "score"          → Score
	MethodRankedChoice = "ranked_choice"  → FirstChoiceTally
	MethodBorda        = "borda"          → Borda
	MethodCondorcet    = "condorcet"      → WeakCondorcet

Score averages cardinal ratings on a fixed 0-10 scale (MaxScore).

FirstChoiceTally counts rank-1 votes only. It is a single-round tally with
no elimination or redistribution, not instant-runoff. The method tag keeps
its historical "ranked_choice" name.

Borda awards maxRank-rank+1 points per ranked vote, where maxRank is the
largest rank present in the input.

WeakCondorcet picks the first idea (in input order) that beat every other
idea in at least one voter's ordering. This is not the majority Condorcet
criterion (wins[X][Y] > wins[Y][X]); several ideas can satisfy it at once.

# Ties

Score, FirstChoiceTally and Borda sort descending on their figure and break
ties by the idea's position in the input slice. Ties are not otherwise
resolved: two ideas with equal figures get consecutive ranks.

# Votes

A Vote carries a Mark that is either ScoreMark or RankMark. A vote whose
mark does not fit the method (or has no mark) contributes nothing; the
engine does not reject it. Duplicate votes are counted as independent
ballots, and votes for ideas outside the idea list are ignored in per-idea
tallies.

# Orchestration

	results, err := voting.ComputeResults(ideas, votes, voting.MethodBorda)
	winners := voting.Winners(results)

	sets := voting.ComputeAllResults(ideas, votes)

ComputeResults always returns one Result per idea. For the Condorcet method
it lists the winner first with a score of 1 and every other idea at 0, or
every idea at 0 when WeakCondorcet finds no winner.
*/
package voting
