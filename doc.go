// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Live Polls API server.

Live Polls lets many concurrent clients vote on polls and watch
aggregate results update in near real time, over both a JSON HTTP API
and a websocket connection.

# Starting the Server

The server runs on sqlite out of the box:

	SESSION_SALT=secret go run main.go

Or against PostgreSQL:

	go run main.go -t postgres -d "postgres://..." -session-salt secret

# Configuration

Required settings:

  - SESSION_SALT (-session-salt): Secret for session token signing

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): Connection string (sqlite defaults to livepolls.db)

A .env file in the working directory is honored.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - vote: vote admission, aggregation, and the shared submit operation
  - ws: websocket transport, topic hub, broadcast fanout
  - handlers: HTTP request handlers (voting, polls, users)
  - client: client-side vote state reconciliation
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Password hashing and session tokens
  - db: Connection and schema creation
  - cliparse: Configuration parsing

One vote per user per poll is enforced by a database uniqueness
constraint at insert time, so concurrent submissions over either
transport cannot produce duplicates. Admitted votes trigger a
recomputed aggregate snapshot that is broadcast to the poll's topic
and the all-polls topic.

See package documentation for each component.
*/
package main
