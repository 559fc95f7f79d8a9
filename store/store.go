// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/taidase2077-blip/voting-system-backend/db"
)

// ErrNotFound is returned when a lookup by key matches no row
var ErrNotFound = errors.New("not found")

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries runs statements against either the pool or an open transaction.
type Queries struct {
	q       querier
	dialect string
}

// Store is the storage handle passed to the ledger. It owns no global state;
// the process entry point opens the *sql.DB and hands it over.
type Store struct {
	*Queries
	db *sql.DB
}

func New(conn *sql.DB, dialect string) *Store {
	return &Store{
		Queries: &Queries{q: conn, dialect: dialect},
		db:      conn,
	}
}

// InTx runs fn inside a transaction. Any error from fn rolls it back.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Queries{q: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping checks the underlying connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var placeholder = regexp.MustCompile(`\$(\d+)`)

// rebind turns $N placeholders into ?N for sqlite
func (q *Queries) rebind(query string) string {
	if q.dialect != db.DialectSQLite {
		return query
	}
	return placeholder.ReplaceAllString(query, "?$1")
}

func (q *Queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.q.ExecContext(ctx, q.rebind(query), args...)
}

func (q *Queries) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.q.QueryContext(ctx, q.rebind(query), args...)
}

func (q *Queries) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.q.QueryRowContext(ctx, q.rebind(query), args...)
}
