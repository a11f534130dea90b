// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JMP-APZH/conspop2-sub000/auth"
	"github.com/JMP-APZH/conspop2-sub000/cliparse"
	"github.com/JMP-APZH/conspop2-sub000/db"
	"github.com/JMP-APZH/conspop2-sub000/middleware"
	"github.com/JMP-APZH/conspop2-sub000/models"
	"github.com/JMP-APZH/conspop2-sub000/voting"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// ClaimVoter handles POST /sessions/{slug}/voters
func (h *VotingHandler) ClaimVoter(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.ClaimVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 2 || len(req.Name) > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must be 2-50 characters")
		return
	}

	ctx := r.Context()
	session, err := getSessionBySlug(ctx, h.db, shareSlug)
	if errors.Is(err, ErrSessionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if session.Status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is not open for voting")
		return
	}

	voterToken, err := auth.GenerateVoterToken()
	if err != nil {
		slog.Error("failed to generate voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to claim name")
		return
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO voter (session_id, name, voter_token, ip_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, session.ID, req.Name, voterToken, ipHash, time.Now())
	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Name already taken")
			return
		}
		slog.Error("failed to insert voter", "error", err, "session_id", session.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to claim name")
		return
	}

	slog.Info("voter claimed", "session_id", session.ID, "name", req.Name)

	middleware.JSONResponse(w, http.StatusCreated, models.ClaimVoterResponse{
		VoterToken: voterToken,
	})
}

// voterSession resolves the slug and X-Voter-Token of a voter request. It
// writes the error response itself and returns ok=false on failure.
func (h *VotingHandler) voterSession(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Session, string, bool) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return models.Session{}, "", false
	}

	voterToken := r.Header.Get("X-Voter-Token")
	if voterToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return models.Session{}, "", false
	}
	if err := auth.CheckVoterToken(voterToken); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token")
		return models.Session{}, "", false
	}

	session, err := getSessionBySlug(ctx, h.db, shareSlug)
	if errors.Is(err, ErrSessionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return models.Session{}, "", false
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Session{}, "", false
	}

	var exists bool
	err = h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM voter
			WHERE session_id = $1 AND voter_token = $2
		)
	`, session.ID, voterToken).Scan(&exists)
	if err != nil {
		slog.Error("failed to verify voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Session{}, "", false
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token for this session")
		return models.Session{}, "", false
	}

	return session, voterToken, true
}

// ballotRow is one vote row about to be written.
type ballotRow struct {
	ideaID string
	score  *float64
	rank   *int
}

// buildBallot checks that the request matches the session method and only
// names known ideas, and converts it to rows.
func buildBallot(method voting.Method, req models.SubmitVotesRequest, ideas []models.Idea) ([]ballotRow, error) {
	known := make(map[string]bool, len(ideas))
	for _, idea := range ideas {
		known[idea.ID] = true
	}

	if method.Ranked() {
		if len(req.Scores) > 0 {
			return nil, fmt.Errorf("%s sessions take a ranking, not scores", method)
		}
		if len(req.Ranking) == 0 {
			return nil, errors.New("ranking cannot be empty")
		}
		rows := make([]ballotRow, 0, len(req.Ranking))
		seen := make(map[string]bool, len(req.Ranking))
		for i, ideaID := range req.Ranking {
			if !known[ideaID] {
				return nil, fmt.Errorf("invalid idea_id: %s", ideaID)
			}
			if seen[ideaID] {
				return nil, fmt.Errorf("idea %s ranked more than once", ideaID)
			}
			seen[ideaID] = true
			rank := i + 1
			rows = append(rows, ballotRow{ideaID: ideaID, rank: &rank})
		}
		return rows, nil
	}

	if len(req.Ranking) > 0 {
		return nil, errors.New("score sessions take scores, not a ranking")
	}
	if len(req.Scores) == 0 {
		return nil, errors.New("scores cannot be empty")
	}
	rows := make([]ballotRow, 0, len(req.Scores))
	// iterate ideas rather than the map so rows are written in a stable order
	for _, idea := range ideas {
		score, ok := req.Scores[idea.ID]
		if !ok {
			continue
		}
		if score < 0 || score > voting.MaxScore {
			return nil, fmt.Errorf("score for %s must be between 0 and %g", idea.ID, voting.MaxScore)
		}
		rows = append(rows, ballotRow{ideaID: idea.ID, score: &score})
	}
	for ideaID := range req.Scores {
		if !known[ideaID] {
			return nil, fmt.Errorf("invalid idea_id: %s", ideaID)
		}
	}
	return rows, nil
}

// SubmitVotes handles POST /sessions/{slug}/votes.
// A submission replaces any earlier ballot from the same voter.
func (h *VotingHandler) SubmitVotes(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx := r.Context()
	session, voterToken, ok := h.voterSession(ctx, w, r)
	if !ok {
		return
	}
	if session.Status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is not open for voting")
		return
	}

	method, err := voting.ParseMethod(session.Method)
	if err != nil {
		slog.Error("session has unknown method", "session_id", session.ID, "method", session.Method)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Session misconfigured")
		return
	}

	ideas, err := loadIdeas(ctx, h.db, session.ID)
	if err != nil {
		slog.Error("failed to query ideas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := buildBallot(method, req, ideas)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// the close may have happened since the first lookup
	var status string
	if err := tx.QueryRowContext(ctx, `SELECT status FROM vote_session WHERE id = $1`, session.ID).Scan(&status); err != nil {
		slog.Error("failed to re-read session status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is not open for voting")
		return
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM vote WHERE session_id = $1 AND voter_token = $2
	`, session.ID, voterToken)
	if err != nil {
		slog.Error("failed to delete previous votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save votes")
		return
	}
	replaced, _ := res.RowsAffected()

	now := time.Now()
	for _, row := range rows {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO vote (id, session_id, voter_token, idea_id, score, rank, submitted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, auth.NewRecordID(), session.ID, voterToken, row.ideaID, row.score, row.rank, now)
		if err != nil {
			slog.Error("failed to insert vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save votes")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save votes")
		return
	}

	isUpdate := replaced > 0
	message := "Votes submitted successfully"
	if isUpdate {
		message = "Votes updated successfully"
	}

	slog.Info("votes submitted", "session_id", session.ID, "votes", len(rows), "is_update", isUpdate)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVotesResponse{
		VoteCount: len(rows),
		Message:   message,
	})
}

// GetMyVotes handles GET /sessions/{slug}/my-votes
func (h *VotingHandler) GetMyVotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, voterToken, ok := h.voterSession(ctx, w, r)
	if !ok {
		return
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT v.idea_id, v.score, v.rank
		FROM vote v
		JOIN idea i ON i.id = v.idea_id
		WHERE v.session_id = $1 AND v.voter_token = $2
		ORDER BY COALESCE(v.rank, 0), i.position
	`, session.ID, voterToken)
	if err != nil {
		slog.Error("failed to query votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		var score sql.NullFloat64
		var rank sql.NullInt64
		if err := rows.Scan(&v.IdeaID, &score, &rank); err != nil {
			slog.Error("failed to scan vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if score.Valid {
			s := score.Float64
			v.Score = &s
		}
		if rank.Valid {
			n := int(rank.Int64)
			v.Rank = &n
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if len(votes) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "No votes submitted yet")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MyVotesResponse{
		Method: session.Method,
		Votes:  votes,
	})
}
