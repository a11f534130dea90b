// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware holds the HTTP plumbing shared by the conspop handlers.

# Request Logging

WithLogging wraps a single route:

	mux.HandleFunc("POST /sessions/{slug}/votes", middleware.WithLogging(h.SubmitVotes))

Each request logs "request started" and "request completed". The
completion line carries the status code the handler wrote, captured by a
statusRecorder around the ResponseWriter, and duration_ms. Handlers that
never call WriteHeader are logged as 200.

# CORS

CORS wraps the whole mux and answers OPTIONS preflights with 200. Browsers
may send the two credential headers the API reads:

  - X-Admin-Key: session management
  - X-Voter-Token: vote submission and my-votes

# JSON Helpers

Every response body is JSON. Errors use the {error, message} shape of
models.ErrorResponse:

	middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until the session is closed")

ParseJSONBody decodes a request body and closes it.

# Client IP

GetClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then
the host part of RemoteAddr (IPv6 without brackets). ClaimVoter hashes it
with auth.HashIP; the raw address is never stored.
*/
package middleware
