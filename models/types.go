package models

import (
	"time"

	"github.com/JMP-APZH/conspop2-sub000/voting"
)

// Session status constants
const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Request types

type CreateSessionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatorName string `json:"creator_name"`
	Method      string `json:"method"`
}

type AddIdeaRequest struct {
	Title string `json:"title"`
}

type ClaimVoterRequest struct {
	Name string `json:"name"`
}

// Scores is used by score sessions (idea_id -> 0..10), Ranking by ranked
// sessions (idea IDs, most preferred first). Exactly one must be set.
type SubmitVotesRequest struct {
	Scores  map[string]float64 `json:"scores,omitempty"`
	Ranking []string           `json:"ranking,omitempty"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	AdminKey  string `json:"admin_key"`
}

type AddIdeaResponse struct {
	IdeaID string `json:"idea_id"`
}

type PublishSessionResponse struct {
	ShareSlug string `json:"share_slug"`
	ShareURL  string `json:"share_url"`
}

type ClaimVoterResponse struct {
	VoterToken string `json:"voter_token"`
}

type SubmitVotesResponse struct {
	VoteCount int    `json:"vote_count"`
	Message   string `json:"message"`
}

type CloseSessionResponse struct {
	ClosedAt time.Time      `json:"closed_at"`
	Snapshot ResultSnapshot `json:"snapshot"`
}

type MethodResultsResponse struct {
	Session    Session         `json:"session"`
	Method     voting.Method   `json:"method"`
	Results    []voting.Result `json:"results"`
	Winners    []voting.Result `json:"winners"`
	VoterCount int             `json:"voter_count"`
}

type AllResultsResponse struct {
	Session    Session            `json:"session"`
	ResultSets []voting.ResultSet `json:"result_sets"`
	VoterCount int                `json:"voter_count"`
}

type SessionPreviewResponse struct {
	Title      string `json:"title"`
	Status     string `json:"status"`
	Method     string `json:"method"`
	IdeaCount  int    `json:"idea_count"`
	VoterCount int    `json:"voter_count"`
	ClosedAgo  string `json:"closed_ago,omitempty"`
}

// Domain types

type Session struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CreatorName     string     `json:"creator_name"`
	Method          string     `json:"method"`
	Status          string     `json:"status"`
	ShareSlug       *string    `json:"share_slug,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	FinalSnapshotID *string    `json:"final_snapshot_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Idea struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	Position  int    `json:"position"`
}

type SessionWithIdeas struct {
	Session Session `json:"session"`
	Ideas   []Idea  `json:"ideas"`
}

// Vote is one stored vote row. Score and Rank are mutually exclusive.
type Vote struct {
	IdeaID string   `json:"idea_id"`
	Score  *float64 `json:"score,omitempty"`
	Rank   *int     `json:"rank,omitempty"`
}

type MyVotesResponse struct {
	Method string `json:"method"`
	Votes  []Vote `json:"votes"`
}

type ResultSnapshot struct {
	ID         string             `json:"id"`
	SessionID  string             `json:"session_id"`
	Method     string             `json:"method"`
	ComputedAt time.Time          `json:"computed_at"`
	ResultSets []voting.ResultSet `json:"result_sets"`
	InputsHash string             `json:"inputs_hash"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
