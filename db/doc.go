// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

"postgres" uses github.com/lib/pq; "sqlite" (the default) uses the pure-Go
modernc.org/sqlite driver. SQLite connections are capped at one open
connection, so callers must finish iterating rows before issuing the next
query.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL only uses syntax both engines accept.

# Tables

  - vote_session: session metadata, method and lifecycle state
  - idea: options per session, ordered by position
  - voter: claimed voter names and their tokens
  - vote: one score or rank per voter per idea
  - result_snapshot: JSON results for all methods, written on close

# Relationships

	vote_session 1──* idea
	vote_session 1──* voter
	vote_session 1──* vote
	idea 1──* vote
	vote_session 1──* result_snapshot

# Errors

IsUniqueViolation recognizes duplicate-key errors from both drivers.
*/
package db
