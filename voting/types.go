// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"errors"
	"fmt"
)

// Method identifies a result computation.
type Method string

const (
	MethodScore        Method = "score"
	MethodRankedChoice Method = "ranked_choice"
	MethodBorda        Method = "borda"
	MethodCondorcet    Method = "condorcet"
)

var methods = []Method{MethodScore, MethodRankedChoice, MethodBorda, MethodCondorcet}

// Methods lists every supported method in reporting order. The slice is a
// fresh copy on every call.
func Methods() []Method {
	return append([]Method(nil), methods...)
}

// MaxScore is the top of the rating scale every Score ballot is assumed to use.
// It is not read from input.
const MaxScore = 10.0

var ErrInvalidMethod = errors.New("invalid voting method")

// ParseMethod validates a method tag.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
	return m, nil
}

// Valid reports whether m is one of Methods().
func (m Method) Valid() bool {
	switch m {
	case MethodScore, MethodRankedChoice, MethodBorda, MethodCondorcet:
		return true
	}
	return false
}

// Ranked reports whether the method reads ordinal ranks rather than scores.
func (m Method) Ranked() bool {
	return m == MethodRankedChoice || m == MethodBorda || m == MethodCondorcet
}

// Idea is one option within a session.
type Idea struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Mark is the value a vote carries: ScoreMark or RankMark.
type Mark interface {
	mark()
}

// ScoreMark is a cardinal rating on the 0..MaxScore scale.
type ScoreMark struct {
	Value float64
}

// RankMark is a 1-based ordinal position, 1 being the most preferred.
type RankMark struct {
	Position int
}

func (ScoreMark) mark() {}
func (RankMark) mark()  {}

// Vote links one voter to one idea. Mark is nil when the record carries
// neither a score nor a rank.
type Vote struct {
	VoterID string
	IdeaID  string
	Mark    Mark
}

// ScoreVote builds a vote carrying a score.
func ScoreVote(voterID, ideaID string, score float64) Vote {
	return Vote{VoterID: voterID, IdeaID: ideaID, Mark: ScoreMark{Value: score}}
}

// RankedVote builds a vote carrying a rank.
func RankedVote(voterID, ideaID string, rank int) Vote {
	return Vote{VoterID: voterID, IdeaID: ideaID, Mark: RankMark{Position: rank}}
}

// Score returns the vote's score, if it has one.
func (v Vote) Score() (float64, bool) {
	m, ok := v.Mark.(ScoreMark)
	return m.Value, ok
}

// Rank returns the vote's rank, if it has one.
func (v Vote) Rank() (int, bool) {
	m, ok := v.Mark.(RankMark)
	return m.Position, ok
}

// Result is one idea's outcome under a method. Which of Score, Points and
// Percentage are set depends on the method that produced it.
type Result struct {
	IdeaID     string   `json:"idea_id"`
	Title      string   `json:"title"`
	Score      *float64 `json:"score,omitempty"`
	Points     *int     `json:"points,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	Rank       int      `json:"rank"` // 1-indexed ranking
}

// ResultSet is the full ranking produced by one method.
type ResultSet struct {
	Method  Method   `json:"method"`
	Results []Result `json:"results"`
	Winners []Result `json:"winners"`
}
