// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/JMP-APZH/conspop2-sub000/cliparse"
	"github.com/JMP-APZH/conspop2-sub000/middleware"
	"github.com/JMP-APZH/conspop2-sub000/models"
	"github.com/JMP-APZH/conspop2-sub000/voting"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// publicSession resolves {slug}, writing the error response on failure.
func (h *ResultsHandler) publicSession(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return models.Session{}, false
	}

	session, err := getSessionBySlug(r.Context(), h.db, shareSlug)
	if errors.Is(err, ErrSessionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return models.Session{}, false
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Session{}, false
	}
	return session, true
}

// closedSession is publicSession plus the sealed-results rule.
func (h *ResultsHandler) closedSession(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	session, ok := h.publicSession(w, r)
	if !ok {
		return session, false
	}
	// Results are sealed while the session is open
	if session.Status != models.StatusClosed {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until the session is closed")
		return session, false
	}
	return session, true
}

func (h *ResultsHandler) voterCount(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := h.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT voter_token) FROM vote WHERE session_id = $1
	`, sessionID).Scan(&n)
	return n, err
}

// GetSession handles GET /sessions/{slug}
// Returns session details and ideas, never results.
func (h *ResultsHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.publicSession(w, r)
	if !ok {
		return
	}

	ideas, err := loadIdeas(r.Context(), h.db, session.ID)
	if err != nil {
		slog.Error("failed to query ideas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionWithIdeas{
		Session: session,
		Ideas:   ideas,
	})
}

// GetResults handles GET /sessions/{slug}/results?method=
// Computes one method over the stored votes. The method defaults to the
// session's own.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	session, ok := h.closedSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	methodTag := r.URL.Query().Get("method")
	if methodTag == "" {
		methodTag = session.Method
	}
	method, err := voting.ParseMethod(methodTag)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	tally, err := LoadTally(ctx, h.db, session.ID)
	if err != nil {
		slog.Error("failed to load tally", "error", err, "session_id", session.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	results, err := ComputeMethodResults(ctx, tally, method, h.cfg.ResultsTimeout)
	if errors.Is(err, voting.ErrInvalidMethod) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to compute results", "error", err, "session_id", session.ID, "method", method)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Result computation timed out")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MethodResultsResponse{
		Session:    session,
		Method:     method,
		Results:    results,
		Winners:    voting.Winners(results),
		VoterCount: tally.VoterCount,
	})
}

// loadSnapshot reads the final snapshot of a closed session.
func (h *ResultsHandler) loadSnapshot(ctx context.Context, session models.Session) (models.ResultSnapshot, error) {
	if session.FinalSnapshotID == nil {
		return models.ResultSnapshot{}, ErrNoSnapshot
	}

	var snapshot models.ResultSnapshot
	var payload []byte
	err := h.db.QueryRowContext(ctx, `
		SELECT id, session_id, method, computed_at, payload
		FROM result_snapshot
		WHERE id = $1
	`, *session.FinalSnapshotID).Scan(
		&snapshot.ID, &snapshot.SessionID, &snapshot.Method, &snapshot.ComputedAt, &payload,
	)
	if err == sql.ErrNoRows {
		return models.ResultSnapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return models.ResultSnapshot{}, err
	}

	var p snapshotPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return models.ResultSnapshot{}, fmt.Errorf("failed to parse snapshot payload: %w", err)
	}
	snapshot.ResultSets = p.ResultSets
	snapshot.InputsHash = p.InputsHash
	return snapshot, nil
}

// GetAllResults handles GET /sessions/{slug}/results/all
// Returns all four result sets from the snapshot taken at close.
func (h *ResultsHandler) GetAllResults(w http.ResponseWriter, r *http.Request) {
	session, ok := h.closedSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	snapshot, err := h.loadSnapshot(ctx, session)
	if err != nil {
		slog.Error("failed to load snapshot", "error", err, "session_id", session.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Results not available")
		return
	}

	voters, err := h.voterCount(ctx, session.ID)
	if err != nil {
		slog.Error("failed to count voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AllResultsResponse{
		Session:    session,
		ResultSets: snapshot.ResultSets,
		VoterCount: voters,
	})
}

// GetVoteCount handles GET /sessions/{slug}/vote-count
// Visible while the session is open.
func (h *ResultsHandler) GetVoteCount(w http.ResponseWriter, r *http.Request) {
	session, ok := h.publicSession(w, r)
	if !ok {
		return
	}

	voters, err := h.voterCount(r.Context(), session.ID)
	if err != nil {
		slog.Error("failed to count voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]int{
		"voter_count": voters,
	})
}

// GetPreview handles GET /sessions/{slug}/preview
// Compact session summary for link previews.
func (h *ResultsHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	session, ok := h.publicSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var ideaCount int
	err := h.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM idea WHERE session_id = $1
	`, session.ID).Scan(&ideaCount)
	if err != nil {
		slog.Error("failed to count ideas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	voters, err := h.voterCount(ctx, session.ID)
	if err != nil {
		slog.Error("failed to count voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	preview := models.SessionPreviewResponse{
		Title:      session.Title,
		Status:     session.Status,
		Method:     session.Method,
		IdeaCount:  ideaCount,
		VoterCount: voters,
	}
	if session.ClosedAt != nil {
		preview.ClosedAgo = humanize.Time(*session.ClosedAt)
	}

	middleware.JSONResponse(w, http.StatusOK, preview)
}
