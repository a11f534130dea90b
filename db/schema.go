// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// The schema sticks to the subset PostgreSQL and SQLite share.
const schema = `
CREATE TABLE IF NOT EXISTS vote_session (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    creator_name TEXT NOT NULL,
    method TEXT NOT NULL CHECK (method IN ('score', 'ranked_choice', 'borda', 'condorcet')),
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'open', 'closed')),
    share_slug TEXT UNIQUE,
    closed_at TIMESTAMP,
    final_snapshot_id TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_vote_session_share_slug ON vote_session(share_slug);
CREATE INDEX IF NOT EXISTS idx_vote_session_status ON vote_session(status);

CREATE TABLE IF NOT EXISTS idea (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES vote_session(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_idea_session_id ON idea(session_id);

CREATE TABLE IF NOT EXISTS voter (
    session_id TEXT NOT NULL REFERENCES vote_session(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    voter_token TEXT NOT NULL,
    ip_hash TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session_id, voter_token),
    UNIQUE (session_id, name)
);

CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES vote_session(id) ON DELETE CASCADE,
    voter_token TEXT NOT NULL,
    idea_id TEXT NOT NULL REFERENCES idea(id) ON DELETE CASCADE,
    score REAL CHECK (score IS NULL OR (score >= 0 AND score <= 10)),
    rank INTEGER CHECK (rank IS NULL OR rank >= 1),
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (session_id, voter_token, idea_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_session_id ON vote(session_id);
CREATE INDEX IF NOT EXISTS idx_vote_voter ON vote(session_id, voter_token);

CREATE TABLE IF NOT EXISTS result_snapshot (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES vote_session(id) ON DELETE CASCADE,
    method TEXT NOT NULL,
    computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_result_snapshot_session_id ON result_snapshot(session_id)
`
