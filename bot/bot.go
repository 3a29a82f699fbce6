// Package bot plays a board through the same button interface as a human:
// it finds a set, walks the cursor to each card and presses A.
package bot

import (
	"set-game-server/game"
	"set-game-server/input"
)

// FindSet returns the first set on the board in row-major order.
func FindSet(b *game.Board) ([3]game.Position, bool) {
	sets := b.ValidSets()
	if len(sets) == 0 {
		return [3]game.Position{}, false
	}
	return sets[0], true
}

// Path returns the shortest cursor moves from one cell to another, using
// the wrap-around edges when that is shorter.
func Path(from, to game.Position, rows, cols int) []input.Button {
	var moves []input.Button
	moves = appendAxis(moves, from.Row, to.Row, rows, input.Down, input.Up)
	moves = appendAxis(moves, from.Col, to.Col, cols, input.Right, input.Left)
	return moves
}

func appendAxis(moves []input.Button, from, to, n int, fwd, back input.Button) []input.Button {
	steps := ((to-from)%n + n) % n
	if steps == 0 {
		return moves
	}
	btn := fwd
	if steps > n-steps {
		steps = n - steps
		btn = back
	}
	for i := 0; i < steps; i++ {
		moves = append(moves, btn)
	}
	return moves
}

// Plan returns the presses that leave exactly target selected, starting
// from the board's current cursor and selection. Cards selected outside
// target are deselected first.
func Plan(b *game.Board, target [3]game.Position) []input.Button {
	var presses []input.Button
	cursor := b.Cursor()
	visit := func(p game.Position) {
		presses = append(presses, Path(cursor, p, b.Rows(), b.Cols())...)
		presses = append(presses, input.A)
		cursor = p
	}

	inTarget := func(p game.Position) bool {
		for _, t := range target {
			if t == p {
				return true
			}
		}
		return false
	}
	for _, p := range b.Selected() {
		if !inTarget(p) {
			visit(p)
		}
	}
	for _, p := range target {
		if !b.IsSelected(p) {
			visit(p)
		}
	}
	return presses
}

// Player turns plans into per-step input snapshots. Every press is
// followed by a released step so the board sees a fresh edge.
type Player struct {
	board   *game.Board
	queue   []input.Button
	release bool
}

// NewPlayer returns a Player for b.
func NewPlayer(b *game.Board) *Player {
	return &Player{board: b}
}

// Next returns the snapshot for the next step. It returns an empty
// snapshot when the board is finished or holds no set.
func (p *Player) Next() input.Snapshot {
	if p.release {
		p.release = false
		return 0
	}
	if len(p.queue) == 0 {
		if p.board.GameOver() {
			return 0
		}
		target, ok := FindSet(p.board)
		if !ok {
			return 0
		}
		p.queue = Plan(p.board, target)
		if len(p.queue) == 0 {
			return 0
		}
	}
	btn := p.queue[0]
	p.queue = p.queue[1:]
	p.release = true
	return input.Snapshot(0).With(btn)
}
