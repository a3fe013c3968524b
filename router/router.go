// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/livepolls/cliparse"
	"github.com/danielhkuo/livepolls/handlers"
	"github.com/danielhkuo/livepolls/middleware"
	"github.com/danielhkuo/livepolls/vote"
	"github.com/danielhkuo/livepolls/ws"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, svc *vote.Service, hub *ws.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, cfg)
	pollHandler := handlers.NewPollHandler(db, svc)
	votingHandler := handlers.NewVotingHandler(svc)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /api/users", middleware.WithLogging(userHandler.Register))
	mux.HandleFunc("POST /api/users/login", middleware.WithLogging(userHandler.Login))

	// Poll management
	mux.HandleFunc("POST /api/polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /api/polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("GET /api/polls/{pollID}", middleware.WithLogging(pollHandler.GetPoll))

	// Voting
	mux.HandleFunc("POST /api/polls/{pollID}/vote", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /api/polls/{pollID}/user/{userID}/vote-status", middleware.WithLogging(votingHandler.VoteStatus))

	// Live updates
	mux.Handle("/ws", ws.NewHandler(hub, svc))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("livepolls API v1"))
	})

	return mux
}
