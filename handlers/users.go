// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/livepolls/auth"
	"github.com/danielhkuo/livepolls/cliparse"
	dbpkg "github.com/danielhkuo/livepolls/db"
	"github.com/danielhkuo/livepolls/middleware"
	"github.com/danielhkuo/livepolls/models"
)

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: db, cfg: cfg}
}

// Register handles POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "please provide all fields")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	// The unique index on email decides; no pre-check.
	var userID int64
	err = h.db.QueryRow(`
		INSERT INTO users (name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, req.Username, req.Email, passwordHash, time.Now()).Scan(&userID)
	if err != nil {
		if dbpkg.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "user already exists")
			return
		}
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	slog.Info("user registered", "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.UserResponse{
		Success: true,
		Message: "Account created successfully",
		User:    models.PublicUser{ID: userID, Name: req.Username, Email: req.Email},
	})
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "please provide all fields")
		return
	}

	var user models.PublicUser
	var passwordHash string
	err := h.db.QueryRow(`
		SELECT id, name, email, password_hash FROM users WHERE email = $1
	`, req.Email).Scan(&user.ID, &user.Name, &user.Email, &passwordHash)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.VerifyPassword(req.Password, passwordHash); err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Error("password verification failed", "error", err, "user_id", user.ID)
		}
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateSessionToken(user.ID, h.cfg.SessionSalt)
	if err != nil {
		slog.Error("failed to generate session token", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.UserResponse{
		Success: true,
		Message: "User login successfully",
		User:    user,
		Token:   token,
	})
}
