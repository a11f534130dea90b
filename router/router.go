// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/JMP-APZH/conspop2-sub000/cliparse"
	"github.com/JMP-APZH/conspop2-sub000/handlers"
	"github.com/JMP-APZH/conspop2-sub000/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	sessionHandler := handlers.NewSessionHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session management (admin operations, X-Admin-Key)
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /sessions/{id}/admin", middleware.WithLogging(sessionHandler.GetSessionAdmin))
	mux.HandleFunc("POST /sessions/{id}/ideas", middleware.WithLogging(sessionHandler.AddIdea))
	mux.HandleFunc("POST /sessions/{id}/publish", middleware.WithLogging(sessionHandler.PublishSession))
	mux.HandleFunc("POST /sessions/{id}/close", middleware.WithLogging(sessionHandler.CloseSession))

	// Voting (public, X-Voter-Token)
	mux.HandleFunc("POST /sessions/{slug}/voters", middleware.WithLogging(votingHandler.ClaimVoter))
	mux.HandleFunc("POST /sessions/{slug}/votes", middleware.WithLogging(votingHandler.SubmitVotes))
	mux.HandleFunc("GET /sessions/{slug}/my-votes", middleware.WithLogging(votingHandler.GetMyVotes))

	// Results (public, sealed until close)
	mux.HandleFunc("GET /sessions/{slug}", middleware.WithLogging(resultsHandler.GetSession))
	mux.HandleFunc("GET /sessions/{slug}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /sessions/{slug}/results/all", middleware.WithLogging(resultsHandler.GetAllResults))
	mux.HandleFunc("GET /sessions/{slug}/vote-count", middleware.WithLogging(resultsHandler.GetVoteCount))
	mux.HandleFunc("GET /sessions/{slug}/preview", middleware.WithLogging(resultsHandler.GetPreview))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("conspop API v1"))
	})

	return mux
}
