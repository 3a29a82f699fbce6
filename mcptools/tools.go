// Package mcptools exposes one local game to an MCP client over tool calls.
// Each call advances the game synchronously; there is no wall-clock ticker.
package mcptools

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"set-game-server/app"
	"set-game-server/bot"
	"set-game-server/config"
	"set-game-server/game"
	"set-game-server/input"
	"set-game-server/random"
	"set-game-server/render"
	"set-game-server/skin"
)

// Tools holds the single game driven by this MCP process.
type Tools struct {
	mu     sync.Mutex
	cfg    *config.Config
	skins  *skin.Registry
	log    *slog.Logger
	app    *app.App
	skin   skin.Skin
	seed   int64
	render *render.Renderer
}

// New returns tools with no game running.
func New(cfg *config.Config, skins *skin.Registry, logger *slog.Logger) *Tools {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tools{cfg: cfg, skins: skins, log: logger.With("tag", "mcp")}
}

// Register adds all game tools to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(newGameTool(), t.handleNewGame)
	s.AddTool(pressTool(), t.handlePress)
	s.AddTool(selectCardTool(), t.handleSelectCard)
	s.AddTool(getStateTool(), t.handleGetState)
	s.AddTool(hintTool(), t.handleHint)
}

// --- Tool definitions ---

func newGameTool() mcp.Tool {
	return mcp.NewTool("new_game",
		mcp.WithDescription("Start a new round of Set, discarding any game in progress. Returns the board."),
		mcp.WithNumber("seed", mcp.Description("Shuffle seed for a reproducible deal; 0 or omitted picks one at random")),
		mcp.WithString("skin", mcp.Description("Attribute label set, e.g. 'vector' or 'pixel'")),
	)
}

func pressTool() mcp.Tool {
	return mcp.NewTool("press",
		mcp.WithDescription("Tap a button: pressed for one step, released the next. "+
			"Directions move the cursor with wrap-around; 'a' selects or deselects the card under the cursor "+
			"and confirms menus; 'start' restarts after game over."),
		mcp.WithString("button", mcp.Required(), mcp.Enum("up", "down", "left", "right", "a", "b", "start"),
			mcp.Description("Button to tap")),
		mcp.WithNumber("times", mcp.Description("How many taps (default 1)"), mcp.Min(1), mcp.Max(32)),
	)
}

func selectCardTool() mcp.Tool {
	return mcp.NewTool("select_card",
		mcp.WithDescription("Move the cursor to a card and tap 'a' on it. Selecting a third card checks the set."),
		mcp.WithNumber("row", mcp.Required(), mcp.Description("0-based row")),
		mcp.WithNumber("col", mcp.Required(), mcp.Description("0-based column")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current screen, board and score without changing anything. Read-only."),
	)
}

func hintTool() mcp.Tool {
	return mcp.NewTool("hint",
		mcp.WithDescription("Reveal the positions of one valid set on the board, if any. Read-only."),
	)
}

// --- Responses ---

type stateResponse struct {
	View  app.View `json:"view"`
	Board string   `json:"board,omitempty"`
	Skin  string   `json:"skin"`
	Seed  int64    `json:"seed"`
}

type hintResponse struct {
	Found     bool            `json:"found"`
	Positions []game.Position `json:"positions,omitempty"`
	Cards     []string        `json:"cards,omitempty"`
}

func respondJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return `{"error": "marshal failed"}`
	}
	return string(data)
}

// state must be called with t.mu held.
func (t *Tools) state() *mcp.CallToolResult {
	v := t.app.View()
	resp := stateResponse{View: v, Skin: t.skin.Name, Seed: t.seed}
	if v.Board != nil {
		resp.Board = t.render.App(v)
	}
	return mcp.NewToolResultText(respondJSON(resp))
}

// tap presses then releases b. Must be called with t.mu held.
func (t *Tools) tap(b input.Button) {
	t.app.Update(input.Snapshot(0).With(b))
	t.app.Update(0)
}

// --- Tool handlers ---

func (t *Tools) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skinName := request.GetString("skin", t.cfg.Skin)
	sk, err := t.skins.Get(skinName)
	if err != nil {
		return mcp.NewToolResultErrorf("Unknown skin %q.", skinName), nil
	}
	seed := int64(request.GetInt("seed", 0))
	if seed == 0 {
		seed = t.cfg.Seed
	}
	if seed == 0 {
		if seed, err = random.NewSeed(); err != nil {
			return mcp.NewToolResultErrorf("Failed to seed game: %v", err), nil
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.skin = sk
	t.seed = seed
	t.render = render.New(sk.Domains, true)
	seeds := rand.New(rand.NewSource(seed))
	factory := func() (*game.Board, error) {
		return game.NewBoard(game.BoardOptions{
			Rows:           t.cfg.BoardRows,
			Cols:           t.cfg.BoardCols,
			Domains:        sk.Domains,
			FlashTicks:     t.cfg.FlashTicks(),
			RepairAttempts: t.cfg.RepairAttempts,
			Rand:           rand.New(rand.NewSource(seeds.Int63())),
			Logger:         t.log,
		})
	}
	onEnd := func(score int) {
		t.log.Info("round finished", "score", score, "seed", seed)
	}
	t.app = app.New(factory, onEnd, t.log)
	t.tap(input.Start)
	if t.app.State() != app.Playing {
		t.app = nil
		return mcp.NewToolResultError("Failed to deal a board; check the board size."), nil
	}
	return t.state(), nil
}

func (t *Tools) handlePress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("button", "")
	b, ok := input.ParseButton(name)
	if !ok {
		return mcp.NewToolResultErrorf("Unknown button %q.", name), nil
	}
	times := request.GetInt("times", 1)
	if times < 1 || times > 32 {
		return mcp.NewToolResultErrorf("times must be 1-32, got %d.", times), nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.app == nil {
		return mcp.NewToolResultError("No game is running. Use new_game first."), nil
	}
	for i := 0; i < times; i++ {
		t.tap(b)
	}
	return t.state(), nil
}

func (t *Tools) handleSelectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.app == nil {
		return mcp.NewToolResultError("No game is running. Use new_game first."), nil
	}
	if t.app.State() != app.Playing {
		return mcp.NewToolResultErrorf("Cannot select a card on the %s screen.", t.app.State()), nil
	}

	b := t.app.Board()
	row := request.GetInt("row", -1)
	col := request.GetInt("col", -1)
	if row < 0 || row >= b.Rows() || col < 0 || col >= b.Cols() {
		return mcp.NewToolResultErrorf("Position (%d, %d) is off the %dx%d board.", row, col, b.Rows(), b.Cols()), nil
	}
	target := game.Position{Row: row, Col: col}
	if _, ok := b.CardAt(target); !ok {
		return mcp.NewToolResultErrorf("Slot (%d, %d) is empty.", row, col), nil
	}
	for _, move := range bot.Path(b.Cursor(), target, b.Rows(), b.Cols()) {
		t.tap(move)
	}
	t.tap(input.A)
	return t.state(), nil
}

func (t *Tools) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.app == nil {
		return mcp.NewToolResultError("No game is running. Use new_game first."), nil
	}
	return t.state(), nil
}

func (t *Tools) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.app == nil || t.app.Board() == nil {
		return mcp.NewToolResultError("No game is running. Use new_game first."), nil
	}
	b := t.app.Board()
	set, ok := bot.FindSet(b)
	if !ok {
		return mcp.NewToolResultText(respondJSON(hintResponse{Found: false})), nil
	}
	resp := hintResponse{Found: true, Positions: set[:]}
	for _, p := range set {
		c, _ := b.CardAt(p)
		resp.Cards = append(resp.Cards, b.Domains().Label(c))
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}
