// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the conspop API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - SessionHandler: Session lifecycle (create, add ideas, publish, close)
  - VotingHandler: Voter name claims and vote submission
  - ResultsHandler: Session info, vote counts and results

Handlers are created via constructor functions that accept *sql.DB and Config:

	sessionHandler := handlers.NewSessionHandler(db, cfg)

# Session Lifecycle

Sessions progress through three states: draft → open → closed

	POST /sessions              → CreateSession (returns admin_key)
	POST /sessions/{id}/ideas   → AddIdea (draft only)
	POST /sessions/{id}/publish → PublishSession (generates share_slug)
	POST /sessions/{id}/close   → CloseSession (snapshots all four methods)

Admin operations require the X-Admin-Key header. The voting method is
chosen at creation and decides the ballot shape: score sessions take
scores from 0 to 10, ranked_choice, borda and condorcet sessions take an
ordered ranking.

# Voting Flow

Voters interact via the share slug:

	POST /sessions/{slug}/voters   → ClaimVoter (returns voter_token)
	POST /sessions/{slug}/votes    → SubmitVotes (create or replace)
	GET  /sessions/{slug}/my-votes → GetMyVotes

Voter operations require the X-Voter-Token header.

# Results

Stored votes are loaded with LoadTally and handed to the voting package:

	tally, err := LoadTally(ctx, db, sessionID)
	sets, err := ComputeSessionResults(ctx, tally, cfg.ResultsTimeout)

Computation is bounded by the configured results timeout. Results stay
sealed (403) until the session is closed.
*/
package handlers
