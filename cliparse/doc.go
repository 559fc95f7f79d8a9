// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first when present.

# CLI Flags and Environment Variables

	-p            PORT                    (default 3318)
	-d            DATABASE_URL            (required)
	-t            DATABASE_TYPE           sqlite | postgres (default sqlite)
	-jwt-secret   JWT_SECRET              (required)
	-admin-file   ADMIN_CREDENTIALS_FILE  (default admin_config.yaml)
	-vote-url     VOTE_BASE_URL           (default http://localhost:<port>/)
	-tz           TIMEZONE                (default Asia/Taipei)
	-session-ttl  SESSION_TTL             (default 12h)
	-log-level    LOG_LEVEL               (default info)

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error when DATABASE_URL or JWT_SECRET is missing, the
database type is unknown, or the timezone cannot be loaded.
*/
package cliparse
