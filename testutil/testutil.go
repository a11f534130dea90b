// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JMP-APZH/conspop2-sub000/auth"
	"github.com/JMP-APZH/conspop2-sub000/cliparse"
	"github.com/JMP-APZH/conspop2-sub000/db"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// It is closed automatically when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     ":memory:",
		DatabaseType:    "sqlite",
		AdminKeySalt:    "test-admin-salt",
		SessionSlugSalt: "test-slug-salt",
		ResultsTimeout:  5 * time.Second,
		BaseURL:         "https://conspop.test",
	}
}

// CreateTestSession inserts a session and returns its ID, admin key and share
// slug. status should be "draft", "open", or "closed"; drafts get no slug.
func CreateTestSession(t *testing.T, conn *sql.DB, cfg cliparse.Config, status, method string) (sessionID, adminKey, shareSlug string) {
	t.Helper()

	sessionID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(sessionID, cfg.AdminKeySalt)

	var slug *string
	if status == "open" || status == "closed" {
		s := auth.GenerateShareSlug(sessionID, cfg.SessionSlugSalt)
		slug = &s
		shareSlug = s
	}

	var closedAt *time.Time
	if status == "closed" {
		now := time.Now()
		closedAt = &now
	}

	_, err := conn.Exec(`
		INSERT INTO vote_session (id, title, description, creator_name, method, status, share_slug, closed_at, created_at)
		VALUES ($1, 'Test Session', 'A test session', 'TestUser', $2, $3, $4, $5, $6)
	`, sessionID, method, status, slug, closedAt, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return sessionID, adminKey, shareSlug
}

// AddTestIdea appends an idea to a session and returns its ID
func AddTestIdea(t *testing.T, conn *sql.DB, sessionID, title string) string {
	t.Helper()

	ideaID, _ := auth.GenerateID(12)
	_, err := conn.Exec(`
		INSERT INTO idea (id, session_id, title, position)
		SELECT $1, $2, $3, COALESCE(MAX(position), 0) + 1 FROM idea WHERE session_id = $2
	`, ideaID, sessionID, title)
	if err != nil {
		t.Fatalf("Failed to create test idea: %v", err)
	}

	return ideaID
}

// CreateTestVoter claims a voter name and returns the voter token
func CreateTestVoter(t *testing.T, conn *sql.DB, sessionID, name string) string {
	t.Helper()

	voterToken, _ := auth.GenerateVoterToken()
	_, err := conn.Exec(`
		INSERT INTO voter (session_id, name, voter_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, sessionID, name, voterToken, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voterToken
}

// InsertTestScores stores score votes for a voter directly
func InsertTestScores(t *testing.T, conn *sql.DB, sessionID, voterToken string, scores map[string]float64) {
	t.Helper()

	for ideaID, score := range scores {
		_, err := conn.Exec(`
			INSERT INTO vote (id, session_id, voter_token, idea_id, score, submitted_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, auth.NewRecordID(), sessionID, voterToken, ideaID, score, time.Now())
		if err != nil {
			t.Fatalf("Failed to create test score: %v", err)
		}
	}
}

// InsertTestRanking stores rank votes for a voter directly, most preferred first
func InsertTestRanking(t *testing.T, conn *sql.DB, sessionID, voterToken string, ranking ...string) {
	t.Helper()

	for i, ideaID := range ranking {
		_, err := conn.Exec(`
			INSERT INTO vote (id, session_id, voter_token, idea_id, rank, submitted_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, auth.NewRecordID(), sessionID, voterToken, ideaID, i+1, time.Now())
		if err != nil {
			t.Fatalf("Failed to create test rank: %v", err)
		}
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
