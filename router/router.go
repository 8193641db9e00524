// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/danielhkuo/redblue/cliparse"
	"github.com/danielhkuo/redblue/game"
	"github.com/danielhkuo/redblue/handlers"
	"github.com/danielhkuo/redblue/hub"
	"github.com/danielhkuo/redblue/middleware"
)

// NewRouter registers every endpoint. db may be nil when history is disabled.
func NewRouter(db *sql.DB, cfg cliparse.Config, svc *game.Service, h *hub.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(svc, cfg)
	socketHandler := handlers.NewSocketHandler(svc, h, cfg)
	statsHandler := handlers.NewStatsHandler(svc, h, db, time.Now())

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Rooms
	mux.HandleFunc("POST /create-room", middleware.WithLogging(roomHandler.CreateRoom))
	mux.HandleFunc("GET /rooms/{id}/qr", middleware.WithLogging(roomHandler.QRCode))

	// Game protocol
	mux.HandleFunc("GET /ws", middleware.WithLogging(socketHandler.Serve))

	mux.HandleFunc("GET /stats", middleware.WithLogging(statsHandler.GetStats))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("redblue API v1"))
	})

	return mux
}
