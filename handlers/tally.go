// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/JMP-APZH/conspop2-sub000/models"
	"github.com/JMP-APZH/conspop2-sub000/voting"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoSnapshot      = errors.New("closed session has no result snapshot")
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const sessionColumns = `id, title, description, creator_name, method, status,
		       share_slug, closed_at, final_snapshot_id, created_at`

func scanSession(row *sql.Row) (models.Session, error) {
	var s models.Session
	err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.CreatorName, &s.Method, &s.Status,
		&s.ShareSlug, &s.ClosedAt, &s.FinalSnapshotID, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Session{}, ErrSessionNotFound
	}
	return s, err
}

func getSessionByID(ctx context.Context, q querier, sessionID string) (models.Session, error) {
	return scanSession(q.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM vote_session
		WHERE id = $1
	`, sessionID))
}

func getSessionBySlug(ctx context.Context, q querier, shareSlug string) (models.Session, error) {
	return scanSession(q.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM vote_session
		WHERE share_slug = $1
	`, shareSlug))
}

// loadIdeas returns the session's ideas in insertion order.
func loadIdeas(ctx context.Context, q querier, sessionID string) ([]models.Idea, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, session_id, title, position
		FROM idea
		WHERE session_id = $1
		ORDER BY position, id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ideas := []models.Idea{}
	for rows.Next() {
		var idea models.Idea
		if err := rows.Scan(&idea.ID, &idea.SessionID, &idea.Title, &idea.Position); err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

// Tally is everything the engine needs for one session.
type Tally struct {
	Ideas      []voting.Idea
	Votes      []voting.Vote
	VoterCount int
}

// LoadTally reads a session's ideas and votes and normalizes vote rows into
// engine votes: a score column becomes a ScoreMark, a rank column a
// RankMark, and a row with neither carries no mark.
func LoadTally(ctx context.Context, q querier, sessionID string) (Tally, error) {
	ideas, err := loadIdeas(ctx, q, sessionID)
	if err != nil {
		return Tally{}, fmt.Errorf("failed to load ideas: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT voter_token, idea_id, score, rank
		FROM vote
		WHERE session_id = $1
		ORDER BY submitted_at, voter_token, idea_id
	`, sessionID)
	if err != nil {
		return Tally{}, fmt.Errorf("failed to load votes: %w", err)
	}
	defer rows.Close()

	t := Tally{
		Ideas: make([]voting.Idea, len(ideas)),
		Votes: []voting.Vote{},
	}
	for i, idea := range ideas {
		t.Ideas[i] = voting.Idea{ID: idea.ID, Title: idea.Title}
	}

	voters := make(map[string]bool)
	for rows.Next() {
		var voterToken, ideaID string
		var score sql.NullFloat64
		var rank sql.NullInt64
		if err := rows.Scan(&voterToken, &ideaID, &score, &rank); err != nil {
			return Tally{}, fmt.Errorf("failed to scan vote: %w", err)
		}

		v := voting.Vote{VoterID: voterToken, IdeaID: ideaID}
		switch {
		case score.Valid:
			v.Mark = voting.ScoreMark{Value: score.Float64}
		case rank.Valid:
			v.Mark = voting.RankMark{Position: int(rank.Int64)}
		}
		t.Votes = append(t.Votes, v)
		voters[voterToken] = true
	}
	if err := rows.Err(); err != nil {
		return Tally{}, fmt.Errorf("failed to load votes: %w", err)
	}

	t.VoterCount = len(voters)
	return t, nil
}

// InputsHash fingerprints the tally so a snapshot can be checked against
// the votes it was computed from.
func (t Tally) InputsHash() string {
	if len(t.Votes) == 0 {
		return "no-votes"
	}
	h := sha256.New()
	for _, v := range t.Votes {
		h.Write([]byte(v.VoterID))
		h.Write([]byte{0})
		h.Write([]byte(v.IdeaID))
		h.Write([]byte{0})
		if s, ok := v.Score(); ok {
			h.Write([]byte("s" + strconv.FormatFloat(s, 'g', -1, 64)))
		}
		if r, ok := v.Rank(); ok {
			h.Write([]byte("r" + strconv.Itoa(r)))
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// withDeadline runs a computation but stops waiting for it once timeout
// elapses or ctx is cancelled. The engine has no cancellation of its own.
func withDeadline[T any](ctx context.Context, timeout time.Duration, compute func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := compute()
		done <- outcome{v, err}
	}()

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("result computation aborted: %w", ctx.Err())
	}
}

// ComputeSessionResults runs every method over the tally, bounded by timeout.
func ComputeSessionResults(ctx context.Context, t Tally, timeout time.Duration) ([]voting.ResultSet, error) {
	return withDeadline(ctx, timeout, func() ([]voting.ResultSet, error) {
		return voting.ComputeAllResults(t.Ideas, t.Votes), nil
	})
}

// ComputeMethodResults runs one method over the tally, bounded by timeout.
func ComputeMethodResults(ctx context.Context, t Tally, method voting.Method, timeout time.Duration) ([]voting.Result, error) {
	return withDeadline(ctx, timeout, func() ([]voting.Result, error) {
		return voting.ComputeResults(t.Ideas, t.Votes, method)
	})
}
