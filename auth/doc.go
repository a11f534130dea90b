// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session admin keys, voter tokens and ID generation.

# Admin Keys

Admin keys are an HMAC-SHA256 of the session ID, so they can be checked
without being stored:

	adminKey := auth.GenerateAdminKey(sessionID, salt)
	err := auth.ValidateAdminKey(sessionID, adminKey, salt)

# Voter Tokens

Voter tokens are random 192-bit secrets handed out when a voter claims a
name. CheckVoterToken rejects malformed tokens before any lookup.

# Share Slugs

	slug := auth.GenerateShareSlug(sessionID, salt)

Base62, deterministic from the session ID and salt.

# IDs

GenerateID returns random hex for sessions and ideas; NewRecordID returns a
UUID for vote rows and result snapshots.
*/
package auth
