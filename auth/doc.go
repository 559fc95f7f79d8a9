// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth handles administrator credentials and sessions.

# Credentials File

Admins are listed in a YAML (or JSON) file mapping username to a bcrypt hash:

	admin: $2a$10$...
	treasurer: $2a$10$...

Generate a hash with the server binary:

	voting-system hash-password

LoadCredentials refuses entries that are not bcrypt hashes, so plaintext
passwords cannot be deployed by accident.

# Verification

	creds, err := auth.LoadCredentials(cfg.AdminCredentials)
	err = creds.Verify(username, password) // ErrInvalidCredentials

Unknown usernames and wrong passwords return the same error after the same
amount of bcrypt work, so the response does not reveal which admins exist.

# Sessions

A successful login yields an HS256 JWT:

	sessions := auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL)
	token, expiresAt, err := sessions.Issue("admin")
	username, err := sessions.Parse(token) // ErrInvalidToken

Admin routes expect it in the Authorization header as a Bearer token.
*/
package auth
