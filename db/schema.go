// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names accepted by Open
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Open connects to the database and verifies the connection.
// For sqlite the URL is a file path (or a file: URI); busy timeout and
// foreign keys are switched on for every pooled connection.
func Open(dialect, url string) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch dialect {
	case DialectPostgres:
		conn, err = sql.Open("postgres", url)
	case DialectSQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(url))
		if err == nil {
			// One writer at a time; sqlite serializes writes anyway and this
			// keeps SQLITE_BUSY out of concurrent ballot submissions.
			conn.SetMaxOpenConns(1)
		}
	default:
		return nil, fmt.Errorf("unsupported database type %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

func sqliteDSN(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	stmts := schema
	if dialect == DialectSQLite {
		stmts = strings.ReplaceAll(stmts, "DOUBLE PRECISION", "REAL")
	}

	// One statement per Exec keeps pq and sqlite behaving the same
	for _, stmt := range strings.Split(stmts, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

const schema = `
-- Households (replaced wholesale on upload)
CREATE TABLE IF NOT EXISTS household (
    code TEXT PRIMARY KEY,
    share DOUBLE PRECISION,
    created_at TIMESTAMP NOT NULL
);

-- Topics (replaced wholesale on upload, ids restart at 1)
CREATE TABLE IF NOT EXISTS topic (
    id INTEGER PRIMARY KEY,
    text TEXT NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL
);

-- Ballots: at most one per household per topic
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    household_code TEXT NOT NULL,
    topic_id INTEGER NOT NULL REFERENCES topic(id) ON DELETE CASCADE,
    decision TEXT NOT NULL CHECK (decision IN ('agree', 'disagree')),
    cast_at TIMESTAMP NOT NULL,
    UNIQUE (household_code, topic_id)
);

CREATE INDEX IF NOT EXISTS idx_ballot_topic_id ON ballot(topic_id);

-- Voting control (singleton row)
CREATE TABLE IF NOT EXISTS voting_control (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    is_open BOOLEAN NOT NULL DEFAULT FALSE,
    deadline TIMESTAMP,
    updated_at TIMESTAMP NOT NULL
);
`
