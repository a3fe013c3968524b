// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Opening a Connection

Open picks the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Supported types are "sqlite" (modernc.org/sqlite, cgo-free, the default)
and "postgres" (lib/pq).

# Schema Creation

CreateSchema initializes all required tables for the given dialect:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: Accounts (email unique)
  - poll: Question, published flag, creator reference
  - poll_option: Options per poll; id order is display order
  - vote: One row per accepted vote

# Relationships

	users 1──* poll
	poll  1──* poll_option
	poll  1──* vote
	users 1──* vote

# The Vote Uniqueness Constraint

vote carries UNIQUE (poll_id, user_id). This is the admission primitive
for the whole system: inserting a vote either succeeds or fails on the
constraint, and IsUniqueViolation translates the failure for both
drivers. There is deliberately no "check whether the user voted" query
on the write path.
*/
package db
