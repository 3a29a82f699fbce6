package mcptools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"set-game-server/config"
	"set-game-server/skin"
)

func newTools() *Tools {
	return New(config.Defaults(), skin.NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("expected content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return res, text.Text
}

func decodeState(t *testing.T, text string) stateResponse {
	t.Helper()
	var resp stateResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v\ntext: %s", err, text)
	}
	return resp
}

func TestCallsBeforeNewGame(t *testing.T) {
	tools := newTools()
	for name, h := range map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"get_state":   tools.handleGetState,
		"hint":        tools.handleHint,
		"select_card": tools.handleSelectCard,
	} {
		res, text := call(t, h, map[string]any{"row": 0, "col": 0})
		if !res.IsError {
			t.Errorf("%s: expected error before new_game, got %s", name, text)
		}
	}
	res, _ := call(t, tools.handlePress, map[string]any{"button": "a"})
	if !res.IsError {
		t.Error("press: expected error before new_game")
	}
}

func TestNewGame(t *testing.T) {
	tools := newTools()
	res, text := call(t, tools.handleNewGame, map[string]any{"seed": 42, "skin": "pixel"})
	if res.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	resp := decodeState(t, text)
	if resp.View.State != "playing" {
		t.Errorf("expected playing, got %q", resp.View.State)
	}
	if resp.Seed != 42 || resp.Skin != "pixel" {
		t.Errorf("expected seed 42 skin pixel, got %d %q", resp.Seed, resp.Skin)
	}
	if resp.View.Board == nil || len(resp.View.Board.Cards) != 9 {
		t.Fatal("expected 9 cards")
	}
	if resp.View.Board.Score != 0 || len(resp.View.Board.Selected) != 0 {
		t.Error("expected a fresh board with no selection")
	}
	if !strings.Contains(resp.Board, "[score: 00") {
		t.Errorf("expected rendered board, got %q", resp.Board)
	}

	res, _ = call(t, tools.handleNewGame, map[string]any{"skin": "nope"})
	if !res.IsError {
		t.Error("expected unknown skin error")
	}
}

func TestSeededGamesMatch(t *testing.T) {
	_, a := call(t, newTools().handleNewGame, map[string]any{"seed": 7})
	_, b := call(t, newTools().handleNewGame, map[string]any{"seed": 7})
	if a != b {
		t.Error("expected identical states for identical seeds")
	}
}

func TestPressMovesCursor(t *testing.T) {
	tools := newTools()
	call(t, tools.handleNewGame, map[string]any{"seed": 1})

	_, text := call(t, tools.handlePress, map[string]any{"button": "right", "times": 2})
	resp := decodeState(t, text)
	if got := resp.View.Board.Cursor; got.Row != 0 || got.Col != 2 {
		t.Errorf("expected cursor (0,2), got %+v", got)
	}
	_, text = call(t, tools.handlePress, map[string]any{"button": "up"})
	resp = decodeState(t, text)
	if got := resp.View.Board.Cursor; got.Row != 2 || got.Col != 2 {
		t.Errorf("expected cursor to wrap to (2,2), got %+v", got)
	}

	res, _ := call(t, tools.handlePress, map[string]any{"button": "jump"})
	if !res.IsError {
		t.Error("expected unknown button error")
	}
	res, _ = call(t, tools.handlePress, map[string]any{"button": "a", "times": 0})
	if !res.IsError {
		t.Error("expected error for zero taps")
	}
}

func TestHintThenSelectScores(t *testing.T) {
	tools := newTools()
	call(t, tools.handleNewGame, map[string]any{"seed": 3})

	_, text := call(t, tools.handleHint, nil)
	var hint hintResponse
	if err := json.Unmarshal([]byte(text), &hint); err != nil {
		t.Fatal(err)
	}
	if !hint.Found || len(hint.Positions) != 3 || len(hint.Cards) != 3 {
		t.Fatalf("expected a set on a fresh board, got %+v", hint)
	}

	var resp stateResponse
	for i, p := range hint.Positions {
		res, text := call(t, tools.handleSelectCard, map[string]any{"row": p.Row, "col": p.Col})
		if res.IsError {
			t.Fatalf("select %d failed: %s", i, text)
		}
		resp = decodeState(t, text)
	}
	if resp.View.Board.Score != 1 {
		t.Errorf("expected score 1 after selecting the hinted set, got %d", resp.View.Board.Score)
	}
	if resp.View.Board.Feedback != "success" {
		t.Errorf("expected success feedback, got %q", resp.View.Board.Feedback)
	}
}

func TestSelectCardOffBoard(t *testing.T) {
	tools := newTools()
	call(t, tools.handleNewGame, map[string]any{"seed": 3})
	res, _ := call(t, tools.handleSelectCard, map[string]any{"row": 3, "col": 0})
	if !res.IsError {
		t.Error("expected error for position off the board")
	}
}
