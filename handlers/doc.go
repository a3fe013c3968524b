// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Live Polls API.

# Handler Types

Each handler is a struct with its dependencies injected via constructor:

  - VotingHandler: vote submission and vote-status lookup (delegates to
    the shared vote service - the websocket transport uses the same one)
  - PollHandler: poll creation, listing, and retrieval
  - UserHandler: account registration and login

# Voting Flow

	POST /api/polls/{pollID}/vote                       → CastVote
	GET  /api/polls/{pollID}/user/{userID}/vote-status  → VoteStatus

CastVote returns the refreshed poll (with per-option counts and total)
plus the admitted vote's identifiers, or {success: false, error: ...}
with 400 for validation, unpublished-poll, invalid-option and duplicate
rejections, 404 when the poll does not exist, and 500 for internal
failures. The handler only translates the wire format; all decisions
happen in the vote package.

# Poll Management

	POST /api/polls        → CreatePoll (question, creatorId, options, isPublished)
	GET  /api/polls        → ListPolls (published only, with counts)
	GET  /api/polls/{pollID} → GetPoll

# Accounts

	POST /api/users       → Register
	POST /api/users/login → Login (returns a signed session token)
*/
package handlers
