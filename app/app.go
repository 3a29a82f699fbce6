// Package app is the outer flow around a round of play: title menu, help,
// playing and game over.
package app

import (
	"log/slog"

	"set-game-server/game"
	"set-game-server/input"
)

// State is the screen the app is on.
type State int

const (
	Title State = iota
	Help
	Playing
	GameOver
)

// String returns the protocol string for a State.
func (s State) String() string {
	switch s {
	case Title:
		return "title"
	case Help:
		return "help"
	case Playing:
		return "playing"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Menu entries on the title screen.
const (
	MenuStart = iota
	MenuHelp
	menuItems
)

// MenuLabels are the title screen entries in order.
var MenuLabels = [menuItems]string{"Start Game", "How to Play"}

// HelpLines is the rules text shown on the help screen.
var HelpLines = []string{
	"Find 3 cards that form a SET.",
	"",
	"For each property (shape, color,",
	"count, fill), all 3 cards must be:",
	"  ALL THE SAME  or  ALL DIFFERENT",
	"",
	"Example valid SET:",
	"  1 red solid circle",
	"  2 red solid squares",
	"  3 red solid triangles",
	"  (same color/fill, diff count/shape)",
}

// BoardFactory builds the board for a new round.
type BoardFactory func() (*game.Board, error)

// RoundEnded is called once per finished round with its final score.
type RoundEnded func(score int)

// App owns at most one Board and replaces it wholesale on replay.
type App struct {
	state    State
	menu     int
	board    *game.Board
	newBoard BoardFactory
	onEnd    RoundEnded
	edges    input.Detector
	log      *slog.Logger
}

// New returns an App on the title screen.
func New(factory BoardFactory, onEnd RoundEnded, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{state: Title, newBoard: factory, onEnd: onEnd, log: logger}
}

// State returns the current screen.
func (a *App) State() State { return a.state }

// MenuSelection returns the highlighted title entry.
func (a *App) MenuSelection() int { return a.menu }

// Board returns the current round's board, or nil before the first round.
func (a *App) Board() *game.Board { return a.board }

// startRound discards any previous board and enters Playing. A factory
// error leaves the app where it was.
func (a *App) startRound(held input.Snapshot) {
	b, err := a.newBoard()
	if err != nil {
		a.log.Error("building board", "tag", "app", "err", err)
		return
	}
	b.PrimeInput(held)
	a.board = b
	a.state = Playing
	a.log.Info("round started", "tag", "app", "deck", b.DeckSize())
}

// Update runs one step with the current button levels.
func (a *App) Update(in input.Snapshot) {
	pressed := a.edges.Step(in)

	switch a.state {
	case Title:
		if pressed.Pressed(input.Up) {
			a.menu = (a.menu - 1 + menuItems) % menuItems
		}
		if pressed.Pressed(input.Down) {
			a.menu = (a.menu + 1) % menuItems
		}
		if pressed.Pressed(input.A) || pressed.Pressed(input.Start) {
			if a.menu == MenuStart {
				a.startRound(in)
			} else {
				a.state = Help
			}
		}
	case Help:
		if pressed.Pressed(input.A) || pressed.Pressed(input.B) || pressed.Pressed(input.Start) {
			a.state = Title
		}
	case GameOver:
		if pressed.Pressed(input.A) || pressed.Pressed(input.Start) {
			a.startRound(in)
		}
	case Playing:
		a.board.Update(in)
		if a.board.GameOver() {
			a.state = GameOver
			a.log.Info("round finished", "tag", "app", "score", a.board.Score())
			if a.onEnd != nil {
				a.onEnd(a.board.Score())
			}
		}
	}
}

// View is the JSON-ready snapshot of the whole app.
type View struct {
	State  string          `json:"state"`
	Menu   *MenuView       `json:"menu,omitempty"`
	Help   []string        `json:"help,omitempty"`
	Board  *game.BoardView `json:"board,omitempty"`
	Result *ResultView     `json:"result,omitempty"`
}

// MenuView describes the title screen.
type MenuView struct {
	Items    []string `json:"items"`
	Selected int      `json:"selected"`
}

// ResultView describes the game over screen.
type ResultView struct {
	Score int `json:"score"`
}

// View snapshots the app for a renderer.
func (a *App) View() View {
	v := View{State: a.state.String()}
	switch a.state {
	case Title:
		v.Menu = &MenuView{Items: MenuLabels[:], Selected: a.menu}
	case Help:
		v.Help = HelpLines
	case Playing:
		bv := game.BuildBoardView(a.board)
		v.Board = &bv
	case GameOver:
		bv := game.BuildBoardView(a.board)
		v.Board = &bv
		v.Result = &ResultView{Score: a.board.Score()}
	}
	return v
}
