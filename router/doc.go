// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the redblue server.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, svc, hub)

db is the optional history database and may be nil.

# Endpoints

Health:

	GET /health

Rooms:

	POST /create-room    - Create an empty room
	GET  /rooms/{id}/qr  - Join QR code (PNG)

Game protocol:

	GET /ws - Websocket; see package handlers for events

Stats:

	GET /stats - Live counts and recorded history
*/
package router
