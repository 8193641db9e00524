package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/redblue/cliparse"
	"github.com/danielhkuo/redblue/db"
	"github.com/danielhkuo/redblue/game"
	"github.com/danielhkuo/redblue/hub"
	"github.com/danielhkuo/redblue/middleware"
	"github.com/danielhkuo/redblue/router"
)

func main() {
	var err error

	// Load .env for local development
	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hub delivers events to websocket clients
	clients := hub.New(hub.DefaultSendBuffer)

	opts := []game.Option{
		game.WithRoundDuration(cfg.RoundDuration),
		game.WithDiscardStaleRounds(cfg.DiscardStaleRounds),
	}

	// Match history is optional
	var historyDB *sql.DB
	if cfg.HistoryEnabled() {
		historyDB, err = db.Open(cfg)
		if err != nil {
			slog.Error("history database unavailable", "type", cfg.DatabaseType, "error", err)
			os.Exit(1)
		}
		defer historyDB.Close()
		slog.Info("Database schema ready", "type", cfg.DatabaseType)

		rec := db.NewRecorder(historyDB, db.DefaultRecorderBuffer)
		defer rec.Close()
		opts = append(opts, game.WithRecorder(rec))
	}

	svc := game.NewService(game.NewRegistry(), clients, opts...)
	defer svc.Close()

	if cfg.RoomIdleTimeout > 0 {
		slog.Info("Reaping idle rooms", "timeout", cfg.RoomIdleTimeout)
		go svc.RunReaper(ctx, cfg.RoomIdleTimeout)
	}

	// Create router
	mux := router.NewRouter(historyDB, cfg, svc, clients)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(cfg.AllowedOrigin)(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		clients.Close()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "round", cfg.RoundDuration)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
