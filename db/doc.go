// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

Open accepts two dialects:

  - postgres: github.com/lib/pq, URL form postgres://...
  - sqlite: modernc.org/sqlite, URL is a file path

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

# Schema Creation

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - household: registry of voting units (code, optional ownership share)
  - topic: resolutions put to a vote, sequential ids
  - ballot: one decision per household per topic, UNIQUE (household_code, topic_id)
  - voting_control: singleton open/closed flag and deadline

# Relationships

	topic 1──* ballot (ON DELETE CASCADE)

Ballots do not reference household: a registry replace keeps earlier ballots.
*/
package db
