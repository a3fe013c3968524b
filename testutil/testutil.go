// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/livepolls/cliparse"
	"github.com/danielhkuo/livepolls/db"
	"github.com/danielhkuo/livepolls/models"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full
// schema. Each call gets its own database, so tests never share state.
// shared-cache mode keeps the database alive across the pool's
// connections for the lifetime of the returned handle.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := db.Open(models.DatabaseSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, models.DatabaseSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         5000,
		DatabaseURL:  ":memory:",
		DatabaseType: models.DatabaseSQLite,
		SessionSalt:  "test-session-salt",
	}
}

// CreateTestUser inserts a user and returns its ID
func CreateTestUser(t *testing.T, db *sql.DB, name, email string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`
		INSERT INTO users (name, email, password_hash, created_at)
		VALUES ($1, $2, 'x$x', $3)
		RETURNING id
	`, name, email, time.Now()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// CreateTestPoll inserts a poll with options and returns the poll ID
// and the option IDs in insertion order.
func CreateTestPoll(t *testing.T, db *sql.DB, creatorID int64, question string, published bool, options ...string) (int64, []int64) {
	t.Helper()

	now := time.Now()
	var pollID int64
	err := db.QueryRow(`
		INSERT INTO poll (question, is_published, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, question, published, creatorID, now, now).Scan(&pollID)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	optionIDs := make([]int64, 0, len(options))
	for _, text := range options {
		var optionID int64
		err := db.QueryRow(`
			INSERT INTO poll_option (poll_id, text)
			VALUES ($1, $2)
			RETURNING id
		`, pollID, text).Scan(&optionID)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, optionID)
	}

	return pollID, optionIDs
}

// CastTestVote inserts a vote directly, bypassing the service.
func CastTestVote(t *testing.T, db *sql.DB, pollID, optionID, userID int64) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`
		INSERT INTO vote (poll_id, option_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, pollID, optionID, userID, time.Now()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
	return id
}

// CountVotes returns the number of stored votes for a poll.
func CountVotes(t *testing.T, db *sql.DB, pollID int64) int {
	t.Helper()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE poll_id = $1`, pollID).Scan(&n); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
