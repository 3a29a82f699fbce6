package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"set-game-server/auth"
	"set-game-server/config"
	"set-game-server/session"
	"set-game-server/skin"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub maintains the set of active clients and owns their sessions.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Sessions   *session.Manager
	Skins      *skin.Registry
	Config     *config.Config
	// Auth is nil when auth is not configured; clients then play anonymously.
	Auth *auth.Validator
	Sink session.RoundSink

	// ctx is the parent of every session; cancelled when Run stops.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a new Hub. auth and sink may be nil.
func NewHub(cfg *config.Config, sessions *session.Manager, skins *skin.Registry, validator *auth.Validator, sink session.RoundSink) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Sessions:   sessions,
		Skins:      skins,
		Config:     cfg,
		Auth:       validator,
		Sink:       sink,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run starts the hub's main loop. Should be run as a goroutine.
// When ctx is cancelled (e.g. on server shutdown), Run returns and running sessions stop.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.cancel()
			slog.Info("shutdown signal received, stopping", "tag", "ws")
			return
		case client := <-h.Register:
			h.Clients[client] = true
			slog.Info("client connected", "tag", "ws", "clients", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				if client.Session != nil {
					client.Session.Close()
				}
				slog.Info("client disconnected", "tag", "ws", "clients", len(h.Clients))
			}
		}
	}
}

// ServeWS handles WebSocket upgrade requests and creates a new Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("upgrade failed", "tag", "ws", "err", err)
		return
	}

	client := &Client{
		Hub:  h,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

// sessionOptions builds the per-connection session options.
func (h *Hub) sessionOptions(sk skin.Skin, userID string) session.Options {
	cfg := h.Config
	return session.Options{
		Rows:           cfg.BoardRows,
		Cols:           cfg.BoardCols,
		FlashTicks:     cfg.FlashTicks(),
		RepairAttempts: cfg.RepairAttempts,
		TickInterval:   cfg.TickInterval(),
		Seed:           cfg.Seed,
		Skin:           sk,
		UserID:         userID,
		Sink:           h.Sink,
	}
}
