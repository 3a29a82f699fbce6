package main

import (
	"bytes"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"set-game-server/app"
	"set-game-server/game"
	"set-game-server/input"
)

func TestParseCommands(t *testing.T) {
	taps, quit, err := parseCommands("ddx")
	if err != nil || quit {
		t.Fatalf("unexpected result quit=%v err=%v", quit, err)
	}
	want := []input.Button{input.Right, input.Right, input.A}
	if len(taps) != len(want) {
		t.Fatalf("expected %d taps, got %d", len(want), len(taps))
	}
	for i := range want {
		if taps[i] != want[i] {
			t.Errorf("tap %d: expected %s, got %s", i, want[i], taps[i])
		}
	}

	taps, quit, err = parseCommands("wq")
	if err != nil || !quit || len(taps) != 1 || taps[0] != input.Up {
		t.Errorf("expected one up tap then quit, got %v %v %v", taps, quit, err)
	}

	if _, _, err := parseCommands("dz"); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestPlayScript(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := func() (*game.Board, error) {
		return game.NewBoard(game.BoardOptions{
			Rows: 3, Cols: 3, Rand: rand.New(rand.NewSource(8)), Logger: logger,
		})
	}
	a := app.New(factory, nil, logger)
	var out bytes.Buffer

	play(a, newRenderer(game.StandardDomains(), true), strings.NewReader("p\nd\nz\nq\n"), &out, false)

	if a.State() != app.Playing {
		t.Fatalf("expected playing, got %s", a.State())
	}
	if got := a.Board().Cursor(); got.Col != 1 {
		t.Errorf("expected cursor in column 1, got %+v", got)
	}
	text := out.String()
	if !strings.Contains(text, "> Start Game") {
		t.Error("expected title screen in output")
	}
	if !strings.Contains(text, "[score: 00") {
		t.Error("expected board in output")
	}
	if !strings.Contains(text, `unknown command 'z'`) {
		t.Errorf("expected unknown command message, got %q", text)
	}
}

func TestHelpPromptNamesWorkingKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := func() (*game.Board, error) {
		return game.NewBoard(game.BoardOptions{
			Rows: 3, Cols: 3, Rand: rand.New(rand.NewSource(8)), Logger: logger,
		})
	}
	a := app.New(factory, nil, logger)
	var out bytes.Buffer

	play(a, newRenderer(game.StandardDomains(), true), strings.NewReader("sx\nx\nq\n"), &out, false)

	if !strings.Contains(out.String(), "(press x to go back)") {
		t.Errorf("expected help prompt naming x, got %q", out.String())
	}
	if a.State() != app.Title {
		t.Errorf("expected x to leave help, got %s", a.State())
	}
}
