package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"set-game-server/api"
	"set-game-server/auth"
	"set-game-server/config"
	"set-game-server/loghandler"
	"set-game-server/session"
	"set-game-server/skin"
	"set-game-server/storage"
	"set-game-server/ws"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stdout, level)))

	if envErr != nil {
		slog.Info("no .env file found; using environment variables", "tag", "main")
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("bad configuration", "tag", "main", "err", err)
		os.Exit(1)
	}

	slog.Info("configuration", "tag", "main",
		"board", fmt.Sprintf("%dx%d", cfg.BoardRows, cfg.BoardCols),
		"flash_ms", cfg.FlashDurationMS,
		"tick_rate", cfg.TickRate,
		"skin", cfg.Skin,
		"ws_port", cfg.WSPort,
		"max_sessions", cfg.MaxSessions)

	skins, err := skin.Load(cfg.SkinsFile)
	if err != nil {
		slog.Error("loading skins", "tag", "main", "path", cfg.SkinsFile, "err", err)
		os.Exit(1)
	}
	if _, err := skins.Get(cfg.Skin); err != nil {
		slog.Error("default skin", "tag", "main", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connecting to Postgres", "tag", "main", "err", err)
		os.Exit(1)
	}
	defer store.Close()
	var sink session.RoundSink
	var roundStore storage.RoundStore
	if store != nil {
		sink, roundStore = store, store
	} else {
		slog.Info("DATABASE_URL is not set; rounds will not be recorded", "tag", "main")
	}

	var validator *auth.Validator
	if cfg.AuthBaseURL == "" {
		slog.Info("AUTH_BASE_URL is not set; clients play anonymously", "tag", "main")
	} else {
		validator, err = auth.NewValidator(cfg.AuthBaseURL)
		if err != nil {
			slog.Error("configuring auth", "tag", "main", "err", err)
			os.Exit(1)
		}
		slog.Info("auth configured", "tag", "main", "base_url", cfg.AuthBaseURL)
	}

	sessions := session.NewManager(cfg.MaxSessions)

	hub := ws.NewHub(cfg, sessions, skins, validator, sink)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	api.NewHandler(cfg, roundStore, sessions, skins, validator).Routes(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WSPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Set server listening", "tag", "main", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "tag", "main", "err", err)
		os.Exit(1)
	}
}
