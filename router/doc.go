// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the conspop API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Session management (admin, requires X-Admin-Key):

	POST /sessions              - Create session
	GET  /sessions/{id}/admin   - Get session details
	POST /sessions/{id}/ideas   - Add idea
	POST /sessions/{id}/publish - Open for voting
	POST /sessions/{id}/close   - Close and snapshot results

Voting (public, uses share slug):

	POST /sessions/{slug}/voters   - Claim voter name
	POST /sessions/{slug}/votes    - Submit/replace votes
	GET  /sessions/{slug}/my-votes - Read back own votes

Results (public):

	GET /sessions/{slug}              - Session info and ideas
	GET /sessions/{slug}/results      - One method, ?method= (closed only)
	GET /sessions/{slug}/results/all  - All four methods (closed only)
	GET /sessions/{slug}/vote-count   - Voter count
	GET /sessions/{slug}/preview      - Compact preview data
*/
package router
