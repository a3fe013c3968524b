// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/livepolls/middleware"
	"github.com/danielhkuo/livepolls/models"
	"github.com/danielhkuo/livepolls/vote"
)

type PollHandler struct {
	db  *sql.DB
	svc *vote.Service
}

func NewPollHandler(db *sql.DB, svc *vote.Service) *PollHandler {
	return &PollHandler{db: db, svc: svc}
}

// CreatePoll handles POST /api/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Question == "" || req.CreatorID <= 0 || len(req.Options) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question, creatorId and options are required")
		return
	}
	for _, text := range req.Options {
		if text == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "option text cannot be empty")
			return
		}
	}

	creatorID := req.CreatorID.Int64()

	var creatorExists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)
	`, creatorID).Scan(&creatorExists)
	if err != nil {
		slog.Error("failed to query creator", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !creatorExists {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown creatorId")
		return
	}

	// Same creator asking the same question again is treated as a
	// duplicate of the earlier poll.
	var duplicate bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM poll WHERE creator_id = $1 AND question = $2)
	`, creatorID, req.Question).Scan(&duplicate)
	if err != nil {
		slog.Error("failed to check for duplicate poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if duplicate {
		middleware.ErrorResponse(w, http.StatusBadRequest, "You have already created this poll")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	now := time.Now()
	var pollID int64
	err = tx.QueryRow(`
		INSERT INTO poll (question, is_published, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, req.Question, req.IsPublished, creatorID, now, now).Scan(&pollID)
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	// Insertion order is display order.
	for _, text := range req.Options {
		if _, err := tx.Exec(`
			INSERT INTO poll_option (poll_id, text)
			VALUES ($1, $2)
		`, pollID, text); err != nil {
			slog.Error("failed to insert option", "error", err, "poll_id", pollID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "creator_id", creatorID, "published", req.IsPublished)

	detail, err := h.svc.PollDetail(r.Context(), pollID)
	if err != nil {
		slog.Error("failed to load created poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, detail)
}

// ListPolls handles GET /api/polls
// Returns all published polls with current vote counts, newest first.
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	details, err := h.svc.ListPublished(r.Context())
	if err != nil {
		slog.Error("failed to list polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, details)
}

// GetPoll handles GET /api/polls/:pollID
// The creator can fetch an unpublished poll through here; only voting
// is gated on the published flag.
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := strconv.ParseInt(r.PathValue("pollID"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, vote.ErrInvalidID.Error())
		return
	}

	detail, err := h.svc.PollDetail(r.Context(), pollID)
	if errors.Is(err, vote.ErrPollNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, vote.ErrPollNotFound.Error())
		return
	}
	if err != nil {
		slog.Error("failed to load poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}
