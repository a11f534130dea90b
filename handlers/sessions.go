// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/JMP-APZH/conspop2-sub000/auth"
	"github.com/JMP-APZH/conspop2-sub000/cliparse"
	"github.com/JMP-APZH/conspop2-sub000/middleware"
	"github.com/JMP-APZH/conspop2-sub000/models"
	"github.com/JMP-APZH/conspop2-sub000/voting"
)

const (
	maxTitleLen    = 200
	minSessionIdea = 2
)

type SessionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSessionHandler(db *sql.DB, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{db: db, cfg: cfg}
}

// requireAdmin validates the X-Admin-Key header against the {id} path value.
// It writes the error response itself and returns "" on failure.
func (h *SessionHandler) requireAdmin(w http.ResponseWriter, r *http.Request) string {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return ""
	}
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(sessionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return ""
	}
	return sessionID
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Title) > maxTitleLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is too long")
		return
	}
	if req.CreatorName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "creator_name is required")
		return
	}

	method, err := voting.ParseMethod(req.Method)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate session ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO vote_session (id, title, description, creator_name, method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, sessionID, req.Title, req.Description, req.CreatorName, string(method), models.StatusDraft, time.Now())
	if err != nil {
		slog.Error("failed to insert session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("session created", "session_id", sessionID, "method", method, "creator", req.CreatorName)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sessionID,
		AdminKey:  auth.GenerateAdminKey(sessionID, h.cfg.AdminKeySalt),
	})
}

// AddIdea handles POST /sessions/{id}/ideas
func (h *SessionHandler) AddIdea(w http.ResponseWriter, r *http.Request) {
	sessionID := h.requireAdmin(w, r)
	if sessionID == "" {
		return
	}

	var req models.AddIdeaRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Title) > maxTitleLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is too long")
		return
	}

	ctx := r.Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	session, err := getSessionByID(ctx, tx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if session.Status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot add ideas to a session that is not a draft")
		return
	}

	var position int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), 0) + 1 FROM idea WHERE session_id = $1
	`, sessionID).Scan(&position)
	if err != nil {
		slog.Error("failed to compute idea position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	ideaID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate idea ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add idea")
		return
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO idea (id, session_id, title, position)
		VALUES ($1, $2, $3, $4)
	`, ideaID, sessionID, req.Title, position)
	if err != nil {
		slog.Error("failed to insert idea", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add idea")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add idea")
		return
	}

	slog.Info("idea added", "session_id", sessionID, "idea_id", ideaID, "position", position)

	middleware.JSONResponse(w, http.StatusCreated, models.AddIdeaResponse{IdeaID: ideaID})
}

// PublishSession handles POST /sessions/{id}/publish
func (h *SessionHandler) PublishSession(w http.ResponseWriter, r *http.Request) {
	sessionID := h.requireAdmin(w, r)
	if sessionID == "" {
		return
	}
	ctx := r.Context()

	session, err := getSessionByID(ctx, h.db, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if session.Status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is not in draft status")
		return
	}

	var ideaCount int
	err = h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM idea WHERE session_id = $1`, sessionID).Scan(&ideaCount)
	if err != nil {
		slog.Error("failed to count ideas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if ideaCount < minSessionIdea {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Session must have at least 2 ideas")
		return
	}

	shareSlug := auth.GenerateShareSlug(sessionID, h.cfg.SessionSlugSalt)

	res, err := h.db.ExecContext(ctx, `
		UPDATE vote_session
		SET status = $1, share_slug = $2
		WHERE id = $3 AND status = $4
	`, models.StatusOpen, shareSlug, sessionID, models.StatusDraft)
	if err != nil {
		slog.Error("failed to publish session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to publish session")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is not in draft status")
		return
	}

	slog.Info("session published", "session_id", sessionID, "share_slug", shareSlug, "ideas", ideaCount)

	middleware.JSONResponse(w, http.StatusOK, models.PublishSessionResponse{
		ShareSlug: shareSlug,
		ShareURL:  strings.TrimRight(h.cfg.BaseURL, "/") + "/sessions/" + shareSlug,
	})
}

// GetSessionAdmin handles GET /sessions/{id}/admin
func (h *SessionHandler) GetSessionAdmin(w http.ResponseWriter, r *http.Request) {
	sessionID := h.requireAdmin(w, r)
	if sessionID == "" {
		return
	}
	ctx := r.Context()

	session, err := getSessionByID(ctx, h.db, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	ideas, err := loadIdeas(ctx, h.db, sessionID)
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

// CloseSession handles POST /sessions/{id}/close.
// Votes are read inside the closing transaction so the snapshot covers
// exactly the ballots accepted before the status flip.
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := h.requireAdmin(w, r)
	if sessionID == "" {
		return
	}
	ctx := r.Context()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	session, err := getSessionByID(ctx, tx, sessionID)
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
		middleware.ErrorResponse(w, http.StatusConflict, "Session is not open")
		return
	}

	tally, err := LoadTally(ctx, tx, sessionID)
	if err != nil {
		slog.Error("failed to load tally", "error", err, "session_id", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resultSets, err := ComputeSessionResults(ctx, tally, h.cfg.ResultsTimeout)
	if err != nil {
		slog.Error("failed to compute results", "error", err, "session_id", sessionID)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Result computation timed out")
		return
	}

	closedAt := time.Now()
	snapshot := models.ResultSnapshot{
		ID:         auth.NewRecordID(),
		SessionID:  sessionID,
		Method:     session.Method,
		ComputedAt: closedAt,
		ResultSets: resultSets,
		InputsHash: tally.InputsHash(),
	}

	payload, err := json.Marshal(snapshotPayload{
		ResultSets: snapshot.ResultSets,
		InputsHash: snapshot.InputsHash,
	})
	if err != nil {
		slog.Error("failed to encode snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save results")
		return
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE vote_session
		SET status = $1, closed_at = $2, final_snapshot_id = $3
		WHERE id = $4
	`, models.StatusClosed, closedAt, snapshot.ID, sessionID)
	if err != nil {
		slog.Error("failed to close session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close session")
		return
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO result_snapshot (id, session_id, method, computed_at, payload)
		VALUES ($1, $2, $3, $4, $5)
	`, snapshot.ID, sessionID, session.Method, closedAt, string(payload))
	if err != nil {
		slog.Error("failed to insert snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save results")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close session")
		return
	}

	slog.Info("session closed",
		"session_id", sessionID,
		"snapshot_id", snapshot.ID,
		"voters", humanize.Comma(int64(tally.VoterCount)),
		"votes", humanize.Comma(int64(len(tally.Votes))),
	)

	middleware.JSONResponse(w, http.StatusOK, models.CloseSessionResponse{
		ClosedAt: closedAt,
		Snapshot: snapshot,
	})
}

// snapshotPayload is the JSON stored in result_snapshot.payload.
type snapshotPayload struct {
	ResultSets []voting.ResultSet `json:"result_sets"`
	InputsHash string             `json:"inputs_hash"`
}
