// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/danielhkuo/redblue/auth"
	"github.com/danielhkuo/redblue/cliparse"
	"github.com/danielhkuo/redblue/game"
	"github.com/danielhkuo/redblue/middleware"
	"github.com/danielhkuo/redblue/models"
)

// qrSize is the PNG edge length in pixels
const qrSize = 320

type RoomHandler struct {
	svc *game.Service
	cfg cliparse.Config
}

func NewRoomHandler(svc *game.Service, cfg cliparse.Config) *RoomHandler {
	return &RoomHandler{svc: svc, cfg: cfg}
}

// CreateRoom handles POST /create-room
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := h.svc.CreateRoom()
	if err != nil {
		slog.Error("failed to create room", "error", err)
		if errors.Is(err, game.ErrNoFreeRoomCode) {
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "No room codes available")
			return
		}
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CreateRoomResponse{RoomID: roomID})
}

// QRCode handles GET /rooms/{id}/qr
func (h *RoomHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if !auth.IsRoomCode(roomID) || !h.svc.HasRoom(roomID) {
		middleware.ErrorResponse(w, http.StatusNotFound, models.MsgRoomNotFound)
		return
	}

	png, err := qrcode.Encode(h.joinURL(r, roomID), qrcode.Medium, qrSize)
	if err != nil {
		slog.Error("failed to generate QR code", "room_id", roomID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "QR generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// joinURL is the address a phone should open to join roomID. Without a
// configured public URL it is derived from the request.
func (h *RoomHandler) joinURL(r *http.Request, roomID string) string {
	base := strings.TrimSuffix(h.cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return base + "/?room=" + url.QueryEscape(roomID)
}
