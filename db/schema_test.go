// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/livepolls/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := Open(models.DatabaseSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	conn := openTestDB(t)

	if err := CreateSchema(conn, models.DatabaseSQLite); err != nil {
		t.Fatalf("First CreateSchema failed: %v", err)
	}
	if err := CreateSchema(conn, models.DatabaseSQLite); err != nil {
		t.Fatalf("Second CreateSchema failed: %v", err)
	}
}

func TestUniqueViolationDetection(t *testing.T) {
	conn := openTestDB(t)
	if err := CreateSchema(conn, models.DatabaseSQLite); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}

	now := time.Now()
	if _, err := conn.Exec(`
		INSERT INTO users (name, email, password_hash, created_at)
		VALUES ('a', 'a@example.com', 'x$x', $1)
	`, now); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	_, err := conn.Exec(`
		INSERT INTO users (name, email, password_hash, created_at)
		VALUES ('b', 'a@example.com', 'x$x', $1)
	`, now)
	if err == nil {
		t.Fatal("Expected duplicate email to fail")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation did not recognize: %v", err)
	}

	// Unrelated errors are not unique violations.
	if IsUniqueViolation(errors.New("connection refused")) {
		t.Error("Arbitrary error misclassified as unique violation")
	}
	if IsUniqueViolation(nil) {
		t.Error("nil misclassified as unique violation")
	}
}

func TestVoteUniquePerUserPerPoll(t *testing.T) {
	conn := openTestDB(t)
	if err := CreateSchema(conn, models.DatabaseSQLite); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}

	now := time.Now()
	var userID, pollID, optA, optB int64
	if err := conn.QueryRow(`
		INSERT INTO users (name, email, password_hash, created_at)
		VALUES ('a', 'a@example.com', 'x$x', $1) RETURNING id
	`, now).Scan(&userID); err != nil {
		t.Fatalf("Insert user failed: %v", err)
	}
	if err := conn.QueryRow(`
		INSERT INTO poll (question, is_published, creator_id, created_at, updated_at)
		VALUES ('q', 1, $1, $2, $3) RETURNING id
	`, userID, now, now).Scan(&pollID); err != nil {
		t.Fatalf("Insert poll failed: %v", err)
	}
	if err := conn.QueryRow(`INSERT INTO poll_option (poll_id, text) VALUES ($1, 'A') RETURNING id`, pollID).Scan(&optA); err != nil {
		t.Fatalf("Insert option failed: %v", err)
	}
	if err := conn.QueryRow(`INSERT INTO poll_option (poll_id, text) VALUES ($1, 'B') RETURNING id`, pollID).Scan(&optB); err != nil {
		t.Fatalf("Insert option failed: %v", err)
	}

	if _, err := conn.Exec(`
		INSERT INTO vote (poll_id, option_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, optA, userID, now); err != nil {
		t.Fatalf("First vote failed: %v", err)
	}

	// Same user, same poll, different option: still a duplicate.
	_, err := conn.Exec(`
		INSERT INTO vote (poll_id, option_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, optB, userID, now)
	if !IsUniqueViolation(err) {
		t.Errorf("Expected unique violation, got %v", err)
	}
}
