// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Live Polls API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, svc, hub)

# Endpoints

Health:

	GET /health

Accounts:

	POST /api/users       - Register
	POST /api/users/login - Login

Polls:

	POST /api/polls          - Create poll with options
	GET  /api/polls          - Published polls with vote counts
	GET  /api/polls/{pollID} - Single poll with vote counts

Voting:

	POST /api/polls/{pollID}/vote                      - Submit vote
	GET  /api/polls/{pollID}/user/{userID}/vote-status - Has this user voted?

Live updates:

	GET /ws - Websocket endpoint (joinAllPolls / joinPoll / castVote)

Both vote-submission routes - HTTP POST and the websocket castVote
command - reach the same vote.Service operation.
*/
package router
