// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the community voting server.

Households of a residential community vote agree or disagree on assembly
topics. Each household is identified by its code, delivered as a QR link;
each household casts at most one ballot per topic. Administrators upload the
household registry and the topic list, open and close voting, set a
deadline, and read live tallies.

# Starting the Server

	JWT_SECRET=... DATABASE_URL=voting.db go run .

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..." -jwt-secret ...

# Admin Credentials

Admins are read from admin_config.yaml (username: bcrypt hash). Create a hash
with:

	go run . hash-password

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): signing secret for admin sessions

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ADMIN_CREDENTIALS_FILE (-admin-file)
  - VOTE_BASE_URL (-vote-url): prefix of the QR vote links
  - TIMEZONE (-tz): canonical zone for timestamps (default: Asia/Taipei)
  - SESSION_TTL (-session-ttl), LOG_LEVEL (-log-level)

# Architecture

  - handlers: HTTP request handlers (admin, registry, control, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, admin sessions, JSON helpers
  - ledger: vote-once rule, voting gate, tallies
  - store: SQL for households, topics, ballots and the gate
  - upload: CSV and XLSX parsing
  - qrpack: QR code bundle
  - auth: admin credentials and session tokens
  - metrics: Prometheus collectors
  - models: Request/response types
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing
*/
package main
