package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"set-game-server/input"
)

const (
	// DefaultFlashTicks is half a second at 60 steps per second.
	DefaultFlashTicks = 30
	// DefaultRepairAttempts bounds the swap loop of ensurePlayableSetExists.
	DefaultRepairAttempts = 1000

	setSize = 3
)

// ErrInvalidOptions is returned by NewBoard for unusable options.
var ErrInvalidOptions = errors.New("invalid board options")

// Direction is a cursor movement.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Position addresses one grid cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Feedback is the outcome shown while an evaluated triple flashes.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackSuccess
	FeedbackFailure
)

// String returns the protocol string for a Feedback.
func (f Feedback) String() string {
	switch f {
	case FeedbackNone:
		return "none"
	case FeedbackSuccess:
		return "success"
	case FeedbackFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Slot is one grid cell. Filled is false once the deck could not refill it.
type Slot struct {
	Card   Card
	Filled bool
}

// BoardOptions configures NewBoard. Zero values pick the defaults.
type BoardOptions struct {
	Rows           int
	Cols           int
	Domains        Domains
	FlashTicks     int
	RepairAttempts int
	Rand           *rand.Rand
	Logger         *slog.Logger
}

// Board is one round of play: the grid, the deck behind it and the
// selection state machine. A new round always gets a new Board.
type Board struct {
	rows    int
	cols    int
	domains Domains
	slots   []Slot
	deck    *Deck
	rng     *rand.Rand
	log     *slog.Logger

	selected []Position
	cursor   Position

	flashTicks int
	flashTimer int
	feedback   Feedback
	flashing   []Position

	score          int
	gameOver       bool
	repairAttempts int

	edges input.Detector
}

// NewBoard shuffles a full deck, deals Rows x Cols cards from its end and
// repairs the deal until it holds a set.
func NewBoard(opts BoardOptions) (*Board, error) {
	if opts.Rows < 1 || opts.Cols < 1 || opts.Rows*opts.Cols < setSize {
		return nil, fmt.Errorf("%w: %dx%d grid cannot hold a set", ErrInvalidOptions, opts.Rows, opts.Cols)
	}
	domains := opts.Domains
	if domains.Shape == nil && domains.Color == nil && domains.Count == nil && domains.Fill == nil {
		domains = StandardDomains()
	}
	if err := domains.Validate(); err != nil {
		return nil, err
	}
	if opts.FlashTicks <= 0 {
		opts.FlashTicks = DefaultFlashTicks
	}
	if opts.RepairAttempts <= 0 {
		opts.RepairAttempts = DefaultRepairAttempts
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	b := &Board{
		rows:           opts.Rows,
		cols:           opts.Cols,
		domains:        domains,
		slots:          make([]Slot, opts.Rows*opts.Cols),
		deck:           NewDeck(domains, opts.Rand),
		rng:            opts.Rand,
		log:            opts.Logger,
		flashTicks:     opts.FlashTicks,
		repairAttempts: opts.RepairAttempts,
	}
	for i := range b.slots {
		b.fill(i)
	}
	b.ensurePlayableSetExists()
	b.checkGameOver()
	b.logValidSets()
	return b, nil
}

func (b *Board) index(p Position) int {
	return p.Row*b.cols + p.Col
}

func (b *Board) position(i int) Position {
	return Position{Row: i / b.cols, Col: i % b.cols}
}

// fill draws into slot i, leaving it empty when the deck is exhausted.
func (b *Board) fill(i int) {
	if b.deck.Size() == 0 {
		b.slots[i] = Slot{}
		return
	}
	c, err := b.deck.Draw()
	if err != nil {
		b.slots[i] = Slot{}
		return
	}
	b.slots[i] = Slot{Card: c, Filled: true}
}

func (b *Board) occupied() []int {
	idx := make([]int, 0, len(b.slots))
	for i, s := range b.slots {
		if s.Filled {
			idx = append(idx, i)
		}
	}
	return idx
}

// forEachSet calls fn for each set among occupied slots until fn returns false.
func (b *Board) forEachSet(fn func(i, j, k int) bool) {
	idx := b.occupied()
	for x := 0; x < len(idx); x++ {
		for y := x + 1; y < len(idx); y++ {
			for z := y + 1; z < len(idx); z++ {
				i, j, k := idx[x], idx[y], idx[z]
				if IsSet(b.slots[i].Card, b.slots[j].Card, b.slots[k].Card) {
					if !fn(i, j, k) {
						return
					}
				}
			}
		}
	}
}

// HasValidSet reports whether any three occupied slots form a set.
func (b *Board) HasValidSet() bool {
	found := false
	b.forEachSet(func(_, _, _ int) bool {
		found = true
		return false
	})
	return found
}

// ValidSets lists every set on the board, positions in row-major order.
func (b *Board) ValidSets() [][3]Position {
	var sets [][3]Position
	b.forEachSet(func(i, j, k int) bool {
		sets = append(sets, [3]Position{b.position(i), b.position(j), b.position(k)})
		return true
	})
	return sets
}

// ensurePlayableSetExists swaps random board cards with random deck cards
// until the board holds a set, the deck is empty or the attempt budget is
// spent. Running out of attempts is accepted silently.
func (b *Board) ensurePlayableSetExists() int {
	attempts := 0
	for attempts < b.repairAttempts && b.deck.Size() > 0 && !b.HasValidSet() {
		occupied := b.occupied()
		if len(occupied) == 0 {
			break
		}
		i := occupied[b.rng.Intn(len(occupied))]
		j := b.rng.Intn(b.deck.Size())
		b.slots[i].Card = b.deck.exchange(j, b.slots[i].Card)
		attempts++
	}
	if attempts == b.repairAttempts && !b.HasValidSet() {
		b.log.Debug("repair budget exhausted without a set", "tag", "board", "attempts", attempts)
	}
	return attempts
}

func (b *Board) logValidSets() {
	if !b.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	sets := b.ValidSets()
	b.log.Debug("valid sets", "tag", "board", "count", len(sets), "deck", b.deck.Size())
	for _, s := range sets {
		b.log.Debug("set", "tag", "board",
			"a", s[0], "b", s[1], "c", s[2],
			"cards", b.domains.Label(b.slots[b.index(s[0])].Card)+" + "+
				b.domains.Label(b.slots[b.index(s[1])].Card)+" + "+
				b.domains.Label(b.slots[b.index(s[2])].Card))
	}
}

// MoveCursor moves the cursor one cell, wrapping around the grid edge.
func (b *Board) MoveCursor(dir Direction) {
	switch dir {
	case DirUp:
		b.cursor.Row = wrap(b.cursor.Row-1, b.rows)
	case DirDown:
		b.cursor.Row = wrap(b.cursor.Row+1, b.rows)
	case DirLeft:
		b.cursor.Col = wrap(b.cursor.Col-1, b.cols)
	case DirRight:
		b.cursor.Col = wrap(b.cursor.Col+1, b.cols)
	}
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}

// ToggleSelect deselects the card under the cursor if it is selected,
// otherwise selects it while fewer than three are selected. The third
// selection is evaluated immediately. Empty slots cannot be selected.
func (b *Board) ToggleSelect() {
	for i, p := range b.selected {
		if p == b.cursor {
			b.selected = append(b.selected[:i], b.selected[i+1:]...)
			return
		}
	}
	if len(b.selected) >= setSize || !b.slots[b.index(b.cursor)].Filled {
		return
	}
	b.selected = append(b.selected, b.cursor)
	if len(b.selected) == setSize {
		b.evaluateSelection()
	}
}

// evaluateSelection resolves a full selection and starts the flash.
func (b *Board) evaluateSelection() {
	positions := b.selected
	b.selected = nil
	b.flashing = positions
	b.flashTimer = b.flashTicks

	c0 := b.slots[b.index(positions[0])].Card
	c1 := b.slots[b.index(positions[1])].Card
	c2 := b.slots[b.index(positions[2])].Card
	if !IsSet(c0, c1, c2) {
		b.feedback = FeedbackFailure
		b.log.Debug("not a set", "tag", "board", "positions", positions)
		return
	}

	b.feedback = FeedbackSuccess
	b.score++
	for _, p := range positions {
		b.fill(b.index(p))
	}
	b.ensurePlayableSetExists()
	b.checkGameOver()
	b.logValidSets()
	b.log.Debug("set found", "tag", "board", "score", b.score, "deck", b.deck.Size(), "gameOver", b.gameOver)
}

// checkGameOver ends the round when the deck is empty and no set remains.
func (b *Board) checkGameOver() {
	if b.deck.Size() == 0 && !b.HasValidSet() {
		b.gameOver = true
	}
}

// Tick advances the flash timer by one step.
func (b *Board) Tick() {
	if b.flashTimer <= 0 {
		return
	}
	b.flashTimer--
	if b.flashTimer == 0 {
		b.feedback = FeedbackNone
		b.flashing = nil
	}
}

// Update runs one step: the flash timer first, then the rising edges of
// up, down, left, right and A in that order. Selection stays live while a
// previous result is still flashing. A finished board only ticks.
func (b *Board) Update(in input.Snapshot) {
	b.Tick()
	pressed := b.edges.Step(in)
	if b.gameOver {
		return
	}
	if pressed.Pressed(input.Up) {
		b.MoveCursor(DirUp)
	}
	if pressed.Pressed(input.Down) {
		b.MoveCursor(DirDown)
	}
	if pressed.Pressed(input.Left) {
		b.MoveCursor(DirLeft)
	}
	if pressed.Pressed(input.Right) {
		b.MoveCursor(DirRight)
	}
	if pressed.Pressed(input.A) {
		b.ToggleSelect()
	}
}

// PrimeInput makes buttons held right now count as already pressed, so the
// press that started the round is not seen as a selection.
func (b *Board) PrimeInput(levels input.Snapshot) {
	b.edges.Prime(levels)
}

// Rows returns the grid height.
func (b *Board) Rows() int { return b.rows }

// Cols returns the grid width.
func (b *Board) Cols() int { return b.cols }

// Domains returns the attribute labels the board was built with.
func (b *Board) Domains() Domains { return b.domains }

// CardAt returns the card at p; ok is false for empty or out of range cells.
func (b *Board) CardAt(p Position) (c Card, ok bool) {
	if p.Row < 0 || p.Row >= b.rows || p.Col < 0 || p.Col >= b.cols {
		return Card{}, false
	}
	s := b.slots[b.index(p)]
	return s.Card, s.Filled
}

// Selected returns the selected positions in the order they were picked.
func (b *Board) Selected() []Position {
	return append([]Position(nil), b.selected...)
}

// IsSelected reports whether p is selected.
func (b *Board) IsSelected(p Position) bool {
	return containsPosition(b.selected, p)
}

// Cursor returns the cursor position.
func (b *Board) Cursor() Position { return b.cursor }

// Feedback returns the current flash outcome.
func (b *Board) Feedback() Feedback { return b.feedback }

// Flashing returns the positions of the last evaluated triple while its
// flash is running.
func (b *Board) Flashing() []Position {
	return append([]Position(nil), b.flashing...)
}

// IsFlashing reports whether p is part of the running flash.
func (b *Board) IsFlashing(p Position) bool {
	return containsPosition(b.flashing, p)
}

// Score returns the number of sets found.
func (b *Board) Score() int { return b.score }

// DeckSize returns the number of undealt cards.
func (b *Board) DeckSize() int { return b.deck.Size() }

// GameOver reports whether the round has ended.
func (b *Board) GameOver() bool { return b.gameOver }

func containsPosition(ps []Position, p Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}
