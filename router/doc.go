// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the voting server.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(ledgerService, creds, metrics.New(), cfg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Household voting (public, the code comes from the QR link):

	GET  /vote?vote={code} - Ballot sheet
	POST /vote?vote={code} - Cast {topic_id, decision}

Admin session:

	POST /admin/login - Exchange username/password for a token

Admin (requires Authorization: Bearer <token>):

	PUT   /admin/households              - Upload registry (csv/xlsx)
	GET   /admin/households              - List registry
	GET   /admin/households/qrcodes.zip  - QR code per household
	PUT   /admin/topics                  - Upload topics (csv/xlsx)
	GET   /admin/topics                  - List topics
	PATCH /admin/topics/{id}             - Activate or deactivate a topic
	GET   /admin/voting                  - Gate status
	PUT   /admin/voting                  - Open or close voting
	PUT   /admin/voting/deadline         - Set deadline
	DELETE /admin/voting/deadline        - Remove deadline
	GET   /admin/results                 - Tally of every topic
	GET   /admin/results/{id}            - Tally of one topic

Every route except /health and /metrics is logged and counted in the
request metrics under its pattern.
*/
package router
