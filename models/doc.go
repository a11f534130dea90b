// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSessionRequest: title, description, creator_name, method
  - AddIdeaRequest: title
  - ClaimVoterRequest: name
  - SubmitVotesRequest: scores (map[string]float64) or ranking ([]string)

# Response Types

Types for JSON responses:

  - CreateSessionResponse: session_id, admin_key
  - AddIdeaResponse: idea_id
  - PublishSessionResponse: share_slug, share_url
  - ClaimVoterResponse: voter_token
  - SubmitVotesResponse: vote_count, message
  - CloseSessionResponse: closed_at, snapshot
  - MethodResultsResponse / AllResultsResponse: ranked results per method
  - ErrorResponse: error, message

# Domain Types

  - Session: session metadata, lifecycle state and voting method
  - Idea: one option within a session, ordered by position
  - Vote: one stored score or rank
  - ResultSnapshot: immutable results for all four methods

Result rows themselves are voting.Result values.
*/
package models
