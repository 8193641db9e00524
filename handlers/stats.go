// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/redblue/db"
	"github.com/danielhkuo/redblue/game"
	"github.com/danielhkuo/redblue/hub"
	"github.com/danielhkuo/redblue/middleware"
	"github.com/danielhkuo/redblue/models"
)

type StatsHandler struct {
	svc     *game.Service
	hub     *hub.Hub
	db      *sql.DB // nil when history is disabled
	started time.Time
}

func NewStatsHandler(svc *game.Service, h *hub.Hub, historyDB *sql.DB, started time.Time) *StatsHandler {
	return &StatsHandler{svc: svc, hub: h, db: historyDB, started: started}
}

// GetStats handles GET /stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	rooms, players := h.svc.Stats()
	resp := models.StatsResponse{
		Rooms:   rooms,
		Players: players,
		Clients: h.hub.Clients(),
		Started: humanize.Time(h.started),
	}

	if h.db != nil {
		if err := h.readHistory(r.Context(), &resp); err != nil {
			slog.Error("failed to read history", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read history")
			return
		}
	}

	resp.Summary = fmt.Sprintf("%s rooms, %s players, %s connections",
		humanize.Comma(int64(resp.Rooms)),
		humanize.Comma(int64(resp.Players)),
		humanize.Comma(int64(resp.Clients)),
	)
	if resp.RecordedRounds != nil {
		resp.Summary += fmt.Sprintf(", %s rounds played", humanize.Comma(*resp.RecordedRounds))
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

func (h *StatsHandler) readHistory(ctx context.Context, resp *models.StatsResponse) error {
	rooms, err := db.CountRooms(ctx, h.db)
	if err != nil {
		return err
	}
	rounds, err := db.CountRounds(ctx, h.db)
	if err != nil {
		return err
	}
	wins, err := db.CountWins(ctx, h.db)
	if err != nil {
		return err
	}
	resp.RecordedRooms = &rooms
	resp.RecordedRounds = &rounds
	resp.RecordedWins = &wins
	return nil
}
