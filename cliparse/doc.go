// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded (via godotenv) before
flags and environment variables are read.

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: Connection string or sqlite file path
  - DatabaseType: "sqlite" (default) or "postgres"
  - SessionSalt: Secret for session token generation (required)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-session-salt Session salt

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	SESSION_SALT  → -session-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided for postgres (sqlite defaults to
    a livepolls.db file)
  - SESSION_SALT must be provided
*/
package cliparse
