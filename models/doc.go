// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Wire Identifiers

The ID type accepts numeric identifiers as either JSON numbers or numeric
strings ("7" and 7 both parse). Handlers reject anything else with a
validation error before it reaches shared state.

# Request Types

Types for parsing incoming JSON:

  - CreateUserRequest: username, email, password
  - LoginRequest: email, password
  - CreatePollRequest: question, creatorId, options, isPublished
  - CastVoteRequest: userId, optionId

# Response Types

  - VoteResponse: success envelope with refreshed poll and vote reference
  - UserResponse: user payload plus session token
  - VoteStatus: hasVoted / votedOptionId / votedOptionText
  - ErrorEnvelope: {success: false, error: "..."}

# Domain Types

  - User, PublicUser: account and its public projection
  - Poll, Option: stored poll definition
  - PollDetail, OptionCount: poll with derived vote counts
  - VoteRef: admitted vote identifiers for confirmations

# Websocket Frames

Frame type constants and payload structs for the persistent-connection
transport: joinAllPolls, joinPoll, castVote inbound; voteSuccess,
voteError, pollUpdated outbound.
*/
package models
