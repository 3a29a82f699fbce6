package app

import (
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"set-game-server/bot"
	"set-game-server/game"
	"set-game-server/input"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func seededFactory(seed int64) BoardFactory {
	return func() (*game.Board, error) {
		return game.NewBoard(game.BoardOptions{
			Rows:   3,
			Cols:   4,
			Rand:   rand.New(rand.NewSource(seed)),
			Logger: quietLogger,
		})
	}
}

func tap(a *App, buttons ...input.Button) {
	a.Update(input.Snapshot(0).With(buttons...))
	a.Update(0)
}

func TestTitleMenuWraps(t *testing.T) {
	a := New(seededFactory(1), nil, quietLogger)
	if a.State() != Title {
		t.Fatalf("expected title, got %v", a.State())
	}
	tap(a, input.Up)
	if a.MenuSelection() != MenuHelp {
		t.Errorf("expected up to wrap to help, got %d", a.MenuSelection())
	}
	tap(a, input.Down)
	if a.MenuSelection() != MenuStart {
		t.Errorf("expected down to wrap to start, got %d", a.MenuSelection())
	}
}

func TestHelpRoundTrip(t *testing.T) {
	a := New(seededFactory(1), nil, quietLogger)
	tap(a, input.Down)
	tap(a, input.A)
	if a.State() != Help {
		t.Fatalf("expected help, got %v", a.State())
	}
	if v := a.View(); len(v.Help) == 0 || v.Board != nil {
		t.Errorf("unexpected help view %+v", v)
	}
	tap(a, input.B)
	if a.State() != Title {
		t.Errorf("expected B to return to title, got %v", a.State())
	}
}

func TestStartDoesNotSelectHeldCard(t *testing.T) {
	a := New(seededFactory(1), nil, quietLogger)
	held := input.Snapshot(0).With(input.A)
	a.Update(held)
	if a.State() != Playing {
		t.Fatalf("expected playing, got %v", a.State())
	}
	a.Update(held)
	a.Update(held)
	if got := len(a.Board().Selected()); got != 0 {
		t.Errorf("held start button selected %d cards", got)
	}
	a.Update(0)
	tap(a, input.A)
	if got := len(a.Board().Selected()); got != 1 {
		t.Errorf("expected a fresh press to select, got %d", got)
	}
}

func TestFactoryErrorStaysOnTitle(t *testing.T) {
	a := New(func() (*game.Board, error) { return nil, errors.New("boom") }, nil, quietLogger)
	tap(a, input.Start)
	if a.State() != Title || a.Board() != nil {
		t.Errorf("expected title without board, got %v", a.State())
	}
}

func TestFullRoundAndReplay(t *testing.T) {
	var scores []int
	a := New(seededFactory(77), func(score int) { scores = append(scores, score) }, quietLogger)
	tap(a, input.Start)

	first := a.Board()
	p := bot.NewPlayer(first)
	for step := 0; step < 20000 && a.State() == Playing; step++ {
		a.Update(p.Next())
	}
	if a.State() != GameOver {
		t.Fatalf("expected game over, got %v (score %d, deck %d)", a.State(), first.Score(), first.DeckSize())
	}
	if len(scores) != 1 || scores[0] != first.Score() {
		t.Errorf("expected one round callback with score %d, got %v", first.Score(), scores)
	}
	v := a.View()
	if v.Result == nil || v.Result.Score != first.Score() || v.Board == nil || !v.Board.GameOver {
		t.Errorf("unexpected game over view %+v", v)
	}

	a.Update(0)
	tap(a, input.A)
	if a.State() != Playing {
		t.Fatalf("expected replay to start a round, got %v", a.State())
	}
	if a.Board() == first {
		t.Error("replay must build a new board")
	}
	if a.Board().Score() != 0 {
		t.Errorf("expected fresh score, got %d", a.Board().Score())
	}
}

func TestRoundDealtWithoutSetEnds(t *testing.T) {
	var scores []int
	factory := func() (*game.Board, error) {
		return game.NewBoard(game.BoardOptions{
			Rows: 4,
			Cols: 4,
			Domains: game.Domains{
				Shape: []string{"heart", "star"},
				Color: []string{"magenta", "cyan"},
				Count: []string{"1", "2"},
				Fill:  []string{"solid", "outline"},
			},
			Rand:   rand.New(rand.NewSource(3)),
			Logger: quietLogger,
		})
	}
	a := New(factory, func(score int) { scores = append(scores, score) }, quietLogger)
	tap(a, input.Start)
	if a.State() != GameOver {
		t.Fatalf("expected game over, got %v (deck %d)", a.State(), a.Board().DeckSize())
	}
	if len(scores) != 1 || scores[0] != 0 {
		t.Errorf("expected one round with score 0, got %v", scores)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{Title, "title"},
		{Help, "help"},
		{Playing, "playing"},
		{GameOver, "game_over"},
	}
	for _, test := range tests {
		if got := test.state.String(); got != test.expected {
			t.Errorf("State(%d).String() = %q, want %q", test.state, got, test.expected)
		}
	}
}
