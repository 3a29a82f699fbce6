package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"set-game-server/app"
	"set-game-server/game"
	"set-game-server/input"
	"set-game-server/random"
	"set-game-server/sessionerrors"
	"set-game-server/skin"
	"set-game-server/wsutil"
)

// ActionType enumerates the kinds of actions a session can process.
type ActionType int

const (
	ActionInput ActionType = iota // new button levels from the client
	ActionClose
)

// Action is sent into the session's action channel.
type Action struct {
	Type  ActionType
	Input input.Snapshot
}

// Round describes one finished round for telemetry.
type Round struct {
	ID        uuid.UUID
	SessionID string
	UserID    string
	Skin      string
	Seed      int64
	Rows      int
	Cols      int
	Score     int
	StartedAt time.Time
	EndedAt   time.Time
}

// RoundSink records finished rounds. Optional; may be nil.
type RoundSink interface {
	RecordRound(ctx context.Context, r Round) error
}

// Options configures a session.
type Options struct {
	Rows           int
	Cols           int
	FlashTicks     int
	RepairAttempts int
	TickInterval   time.Duration
	// Seed fixes the sequence of round seeds; 0 draws each one from the OS.
	Seed   int64
	Skin   skin.Skin
	UserID string
	Sink   RoundSink
	Logger *slog.Logger
}

// ViewMsg is pushed to the client whenever the rendered view changes.
type ViewMsg struct {
	Type      string   `json:"type"`
	SessionID string   `json:"sessionId"`
	Skin      string   `json:"skin"`
	Tick      uint64   `json:"tick"`
	View      app.View `json:"view"`
}

// Session drives one app.App for a single client.
type Session struct {
	ID      string
	Actions chan Action
	Done    chan struct{}

	opts  Options
	app   *app.App
	send  chan []byte
	log   *slog.Logger
	seeds *rand.Rand

	latest  input.Snapshot
	pending input.Snapshot // presses seen since the last step
	tick    uint64

	roundSeed  int64
	roundStart time.Time
	sentView   []byte // last view the client accepted

	mu       sync.RWMutex
	lastView []byte
}

// New creates a session writing view messages to send. send may be nil.
func New(opts Options, send chan []byte) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second / 60
	}
	if opts.Skin.Name == "" {
		opts.Skin = skin.Builtin()[0]
	}
	s := &Session{
		ID:      uuid.NewString(),
		Actions: make(chan Action, 16),
		Done:    make(chan struct{}),
		opts:    opts,
		send:    send,
	}
	s.log = opts.Logger.With("tag", "session", "session", s.ID)
	if opts.Seed != 0 {
		s.seeds = rand.New(rand.NewSource(opts.Seed))
	}
	s.app = app.New(s.newBoard, s.roundEnded, s.log)
	return s
}

func (s *Session) nextSeed() int64 {
	if s.seeds != nil {
		return s.seeds.Int63()
	}
	seed, err := random.NewSeed()
	if err != nil {
		s.log.Warn("falling back to time seed", "err", err)
		return time.Now().UnixNano()
	}
	return seed
}

func (s *Session) newBoard() (*game.Board, error) {
	seed := s.nextSeed()
	b, err := game.NewBoard(game.BoardOptions{
		Rows:           s.opts.Rows,
		Cols:           s.opts.Cols,
		Domains:        s.opts.Skin.Domains,
		FlashTicks:     s.opts.FlashTicks,
		RepairAttempts: s.opts.RepairAttempts,
		Rand:           rand.New(rand.NewSource(seed)),
		Logger:         s.log,
	})
	if err != nil {
		return nil, err
	}
	s.roundSeed = seed
	s.roundStart = time.Now()
	return b, nil
}

func (s *Session) roundEnded(score int) {
	if s.opts.Sink == nil {
		return
	}
	r := Round{
		ID:        uuid.New(),
		SessionID: s.ID,
		UserID:    s.opts.UserID,
		Skin:      s.opts.Skin.Name,
		Seed:      s.roundSeed,
		Rows:      s.opts.Rows,
		Cols:      s.opts.Cols,
		Score:     score,
		StartedAt: s.roundStart,
		EndedAt:   time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.opts.Sink.RecordRound(ctx, r); err != nil {
			s.log.Error("recording round", "err", err)
		}
	}()
}

// Run is the session loop. It processes actions and steps the app once per
// tick until ctx is cancelled or a close action arrives.
// It should be run as a goroutine.
func (s *Session) Run(ctx context.Context) {
	defer close(s.Done)

	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	s.publish()
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-s.Actions:
			switch a.Type {
			case ActionInput:
				s.latest = a.Input
				s.pending |= a.Input
			case ActionClose:
				s.log.Info("closed")
				return
			}
		case <-ticker.C:
			s.step()
		}
	}
}

// step applies one frame. A press released before the tick still counts
// as held for this frame so quick taps are not lost.
func (s *Session) step() {
	in := s.latest | s.pending
	s.pending = 0
	s.tick++
	s.app.Update(in)
	s.publish()
}

func (s *Session) publish() {
	view := s.app.View()
	data, err := json.Marshal(view)
	if err != nil {
		s.log.Error("encoding view", "err", err)
		return
	}
	s.mu.Lock()
	s.lastView = data
	s.mu.Unlock()
	if s.send == nil || string(data) == string(s.sentView) {
		return
	}
	msg, err := json.Marshal(ViewMsg{Type: "view", SessionID: s.ID, Skin: s.opts.Skin.Name, Tick: s.tick, View: view})
	if err != nil {
		s.log.Error("encoding view message", "err", err)
		return
	}
	// A dropped view is retried on the next step.
	if wsutil.SafeSend(s.send, msg) {
		s.sentView = data
	}
}

// Submit queues new button levels. It fails once the session has stopped.
func (s *Session) Submit(ctx context.Context, levels input.Snapshot) error {
	select {
	case <-s.Done:
		return sessionerrors.ErrSessionClosed
	default:
	}
	select {
	case s.Actions <- Action{Type: ActionInput, Input: levels}:
		return nil
	case <-s.Done:
		return sessionerrors.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close asks the loop to stop. Safe to call after the loop has exited.
func (s *Session) Close() {
	select {
	case s.Actions <- Action{Type: ActionClose}:
	case <-s.Done:
	}
}

// LastView returns the most recently published view JSON.
func (s *Session) LastView() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(json.RawMessage(nil), s.lastView...)
}
