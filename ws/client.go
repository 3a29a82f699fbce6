package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"set-game-server/auth"
	"set-game-server/input"
	"set-game-server/session"
	"set-game-server/sessionerrors"
	"set-game-server/wsutil"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a middleman between the websocket connection and its session.
type Client struct {
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	Name    string
	UserID  string
	Session *session.Session
}

// ReadPump pumps messages from the websocket connection to the session.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("read error", "tag", "ws", "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "hello":
		c.handleHello(envelope.Raw)
	case "input":
		c.handleInput(envelope.Raw)
	case "press":
		c.handlePress(envelope.Raw)
	default:
		c.sendError("Unknown message type: " + envelope.Type)
	}
}

func (c *Client) handleHello(raw json.RawMessage) {
	if c.Session != nil {
		c.sendError("Session already started.")
		return
	}
	var msg HelloMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid hello message.")
		return
	}

	c.Name = "Player"
	if c.Hub.Auth != nil {
		claims, err := c.Hub.Auth.Validate(msg.Token)
		if err != nil {
			slog.Info("rejected token", "tag", "ws", "err", err)
			c.sendError("Authentication failed.")
			return
		}
		c.UserID = auth.UserIDFromClaims(claims)
		c.Name = auth.FirstNameFromClaims(claims)
	}

	skinName := msg.Skin
	if skinName == "" {
		skinName = c.Hub.Config.Skin
	}
	sk, err := c.Hub.Skins.Get(skinName)
	if err != nil {
		c.sendError("Unknown skin: " + skinName)
		return
	}

	opts := c.Hub.sessionOptions(sk, c.UserID)
	s, err := c.Hub.Sessions.Open(opts, c.Send)
	if errors.Is(err, sessionerrors.ErrSessionLimit) {
		c.sendError("Server is full, try again later.")
		return
	}
	if err != nil {
		c.sendError("Could not start session.")
		return
	}
	c.Session = s

	welcome := WelcomeMsg{Type: "welcome", SessionID: s.ID, Name: c.Name, Skin: sk.Name, Domains: sk.Domains}
	data, _ := json.Marshal(welcome)
	wsutil.SafeSend(c.Send, data)
	c.Hub.Sessions.Run(c.Hub.ctx, s)
	slog.Info("session started", "tag", "ws", "session", s.ID, "skin", sk.Name, "user", c.UserID)
}

func (c *Client) handleInput(raw json.RawMessage) {
	if c.Session == nil {
		c.sendError("Send hello first.")
		return
	}
	var msg InputMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid input message.")
		return
	}
	c.submit(input.FromMap(msg.Buttons))
}

func (c *Client) handlePress(raw json.RawMessage) {
	if c.Session == nil {
		c.sendError("Send hello first.")
		return
	}
	var msg PressMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid press message.")
		return
	}
	b, ok := input.ParseButton(msg.Button)
	if !ok {
		c.sendError("Unknown button: " + msg.Button)
		return
	}
	if !c.submit(input.Snapshot(0).With(b)) {
		return
	}
	c.submit(0)
}

func (c *Client) submit(levels input.Snapshot) bool {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	if err := c.Session.Submit(ctx, levels); err != nil {
		c.sendError("Session is no longer running.")
		return false
	}
	return true
}

func (c *Client) sendError(message string) {
	msg := ErrorMsg{Type: "error", Message: message}
	data, _ := json.Marshal(msg)
	wsutil.SafeSend(c.Send, data)
}
