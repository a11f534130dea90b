// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JMP-APZH/conspop2-sub000/auth"
	"github.com/JMP-APZH/conspop2-sub000/testutil"
	"github.com/JMP-APZH/conspop2-sub000/voting"
)

func TestLoadTallyNormalizesMarks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	sessionID, _, _ := testutil.CreateTestSession(t, db, cfg, "open", "score")
	a := testutil.AddTestIdea(t, db, sessionID, "A")
	b := testutil.AddTestIdea(t, db, sessionID, "B")

	scorer := testutil.CreateTestVoter(t, db, sessionID, "Scorer")
	ranker := testutil.CreateTestVoter(t, db, sessionID, "Ranker")
	blank := testutil.CreateTestVoter(t, db, sessionID, "Blank")
	testutil.InsertTestScores(t, db, sessionID, scorer, map[string]float64{a: 6.5})
	testutil.InsertTestRanking(t, db, sessionID, ranker, b)

	// A row with neither column set
	_, err := db.Exec(`
		INSERT INTO vote (id, session_id, voter_token, idea_id)
		VALUES ($1, $2, $3, $4)
	`, auth.NewRecordID(), sessionID, blank, a)
	if err != nil {
		t.Fatalf("Failed to insert blank vote: %v", err)
	}

	// Votes of another session stay out
	otherID, _, _ := testutil.CreateTestSession(t, db, cfg, "open", "score")
	otherIdea := testutil.AddTestIdea(t, db, otherID, "Other")
	otherVoter := testutil.CreateTestVoter(t, db, otherID, "Other")
	testutil.InsertTestScores(t, db, otherID, otherVoter, map[string]float64{otherIdea: 1})

	tally, err := LoadTally(t.Context(), db, sessionID)
	if err != nil {
		t.Fatalf("LoadTally failed: %v", err)
	}

	if len(tally.Ideas) != 2 || tally.Ideas[0].ID != a || tally.Ideas[1].ID != b {
		t.Fatalf("Unexpected ideas: %+v", tally.Ideas)
	}
	if tally.Ideas[0].Title != "A" {
		t.Errorf("Expected title A, got %s", tally.Ideas[0].Title)
	}
	if len(tally.Votes) != 3 {
		t.Fatalf("Expected 3 votes, got %d", len(tally.Votes))
	}
	if tally.VoterCount != 3 {
		t.Errorf("Expected voter count 3, got %d", tally.VoterCount)
	}

	byVoter := make(map[string]voting.Vote)
	for _, v := range tally.Votes {
		byVoter[v.VoterID] = v
	}

	if s, ok := byVoter[scorer].Score(); !ok || s != 6.5 {
		t.Errorf("Expected score 6.5, got %v (ok=%v)", s, ok)
	}
	if _, ok := byVoter[scorer].Rank(); ok {
		t.Error("Score vote should not carry a rank")
	}
	if r, ok := byVoter[ranker].Rank(); !ok || r != 1 {
		t.Errorf("Expected rank 1, got %v (ok=%v)", r, ok)
	}
	if byVoter[blank].Mark != nil {
		t.Errorf("Expected no mark on blank vote, got %#v", byVoter[blank].Mark)
	}
}

func TestLoadTallyEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)

	tally, err := LoadTally(t.Context(), db, "no-such-session")
	if err != nil {
		t.Fatalf("LoadTally failed: %v", err)
	}
	if len(tally.Ideas) != 0 || len(tally.Votes) != 0 || tally.VoterCount != 0 {
		t.Errorf("Expected empty tally, got %+v", tally)
	}
	if tally.InputsHash() != "no-votes" {
		t.Errorf("Expected no-votes hash, got %s", tally.InputsHash())
	}
}

func TestInputsHash(t *testing.T) {
	base := Tally{Votes: []voting.Vote{
		voting.ScoreVote("v1", "a", 5),
		voting.RankedVote("v2", "b", 1),
	}}
	same := Tally{Votes: []voting.Vote{
		voting.ScoreVote("v1", "a", 5),
		voting.RankedVote("v2", "b", 1),
	}}
	changed := Tally{Votes: []voting.Vote{
		voting.ScoreVote("v1", "a", 6),
		voting.RankedVote("v2", "b", 1),
	}}

	if base.InputsHash() != same.InputsHash() {
		t.Error("Expected equal tallies to hash equally")
	}
	if base.InputsHash() == changed.InputsHash() {
		t.Error("Expected a changed score to change the hash")
	}
}

func TestWithDeadline(t *testing.T) {
	t.Run("returns the value", func(t *testing.T) {
		got, err := withDeadline(t.Context(), time.Second, func() (int, error) {
			return 42, nil
		})
		if err != nil || got != 42 {
			t.Errorf("Expected 42, got %d (err=%v)", got, err)
		}
	})

	t.Run("passes errors through", func(t *testing.T) {
		_, err := withDeadline(t.Context(), time.Second, func() (int, error) {
			return 0, voting.ErrInvalidMethod
		})
		if !errors.Is(err, voting.ErrInvalidMethod) {
			t.Errorf("Expected ErrInvalidMethod, got %v", err)
		}
	})

	t.Run("times out", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		_, err := withDeadline(t.Context(), 10*time.Millisecond, func() (int, error) {
			<-release
			return 1, nil
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Expected deadline exceeded, got %v", err)
		}
	})
}

func TestComputeMethodResultsInvalidMethod(t *testing.T) {
	_, err := ComputeMethodResults(t.Context(), Tally{}, voting.Method("nope"), time.Second)
	if !errors.Is(err, voting.ErrInvalidMethod) {
		t.Errorf("Expected ErrInvalidMethod, got %v", err)
	}
}
