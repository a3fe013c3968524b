// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Database type constants
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

// Websocket frame types (client -> server)
const (
	FrameJoinAllPolls = "joinAllPolls"
	FrameJoinPoll     = "joinPoll"
	FrameCastVote     = "castVote"
)

// Websocket frame types (server -> client)
const (
	FrameVoteSuccess = "voteSuccess"
	FrameVoteError   = "voteError"
	FramePollUpdated = "pollUpdated"
)

// ID is a numeric database identifier as it appears on the wire.
// Clients send identifiers as either JSON numbers or numeric strings,
// so unmarshaling accepts both forms.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*id = ID(n)
	return nil
}

func (id ID) Int64() int64 { return int64(id) }

// Request types

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreatePollRequest struct {
	Question    string   `json:"question"`
	CreatorID   ID       `json:"creatorId"`
	Options     []string `json:"options"`
	IsPublished bool     `json:"isPublished"`
}

type CastVoteRequest struct {
	UserID   ID `json:"userId"`
	OptionID ID `json:"optionId"`
}

// Response types

type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type VoteResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    PollDetail `json:"data"`
	Vote    VoteRef    `json:"vote"`
}

type UserResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
	Token   string     `json:"token,omitempty"`
}

// VoteStatus answers "has this user voted on this poll, and on what".
type VoteStatus struct {
	HasVoted        bool   `json:"hasVoted"`
	VotedOptionID   int64  `json:"votedOptionId,omitempty"`
	VotedOptionText string `json:"votedOptionText,omitempty"`
}

// Domain types

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicUser is the creator reference embedded in poll payloads.
type PublicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Poll struct {
	ID          int64     `json:"id"`
	Question    string    `json:"question"`
	IsPublished bool      `json:"isPublished"`
	CreatorID   int64     `json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Option struct {
	ID     int64  `json:"id"`
	PollID int64  `json:"pollId"`
	Text   string `json:"text"`
}

// OptionCount is an option together with its current vote count.
type OptionCount struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Votes  int    `json:"votes"`
	PollID int64  `json:"pollId"`
}

// PollDetail is the full poll representation sent to clients: the poll,
// its creator, and a derived aggregate snapshot (per-option counts plus
// total). Counts are recomputed from stored votes, never cached.
type PollDetail struct {
	ID          int64         `json:"id"`
	Question    string        `json:"question"`
	IsPublished bool          `json:"isPublished"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Creator     PublicUser    `json:"creator"`
	TotalVotes  int           `json:"totalVotes"`
	Options     []OptionCount `json:"options"`
}

// VoteRef identifies an admitted vote in confirmations. It is only ever
// sent point-to-point to the submitting client; broadcast payloads carry
// no user attribution.
type VoteRef struct {
	ID       int64 `json:"id"`
	UserID   int64 `json:"userId"`
	OptionID int64 `json:"optionId"`
}

// Websocket payload types

type JoinPollPayload struct {
	PollID ID `json:"pollId"`
}

type CastVotePayload struct {
	PollID   ID `json:"pollId"`
	UserID   ID `json:"userId"`
	OptionID ID `json:"optionId"`
}

type VoteSuccessPayload struct {
	Message string  `json:"message"`
	PollID  int64   `json:"pollId"`
	Vote    VoteRef `json:"vote"`
}

type VoteErrorPayload struct {
	PollID  int64  `json:"pollId"`
	Message string `json:"message"`
}
