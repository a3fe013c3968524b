// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/livepolls/middleware"
	"github.com/danielhkuo/livepolls/models"
	"github.com/danielhkuo/livepolls/vote"
)

type VotingHandler struct {
	svc *vote.Service
}

func NewVotingHandler(svc *vote.Service) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// CastVote handles POST /api/polls/:pollID/vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := strconv.ParseInt(r.PathValue("pollID"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, vote.ErrInvalidID.Error())
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, vote.ErrInvalidID.Error())
		return
	}

	ref, detail, err := h.svc.Submit(r.Context(), pollID, req.OptionID.Int64(), req.UserID.Int64())
	if err != nil {
		status := vote.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("vote submission failed", "error", err, "poll_id", pollID)
		}
		middleware.ErrorResponse(w, status, vote.PublicMessage(err))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Success: true,
		Message: "Vote submitted successfully",
		Data:    detail,
		Vote:    ref,
	})
}

// VoteStatus handles GET /api/polls/:pollID/user/:userID/vote-status
func (h *VotingHandler) VoteStatus(w http.ResponseWriter, r *http.Request) {
	pollID, err := strconv.ParseInt(r.PathValue("pollID"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, vote.ErrInvalidID.Error())
		return
	}
	userID, err := strconv.ParseInt(r.PathValue("userID"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, vote.ErrInvalidID.Error())
		return
	}

	status, err := h.svc.Status(r.Context(), pollID, userID)
	if err != nil {
		statusCode := vote.HTTPStatus(err)
		if statusCode == http.StatusInternalServerError {
			slog.Error("vote status query failed", "error", err, "poll_id", pollID, "user_id", userID)
		}
		middleware.ErrorResponse(w, statusCode, vote.PublicMessage(err))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, status)
}
