package game

import (
	"errors"
	"math/rand"
)

// ErrEmptyDeck is returned by Draw when no cards remain.
var ErrEmptyDeck = errors.New("deck is empty")

// BuildFullDeck returns every attribute combination exactly once, shape
// outermost and fill innermost.
func BuildFullDeck(d Domains) []Card {
	cards := make([]Card, 0, d.Size())
	for s := range d.Shape {
		for c := range d.Color {
			for n := range d.Count {
				for f := range d.Fill {
					cards = append(cards, Card{Shape: s, Color: c, Count: n, Fill: f})
				}
			}
		}
	}
	return cards
}

// Deck is the draw pile. Cards are drawn from the end.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck returns a shuffled full deck for the given domains.
func NewDeck(d Domains, rng *rand.Rand) *Deck {
	deck := &Deck{cards: BuildFullDeck(d), rng: rng}
	deck.Shuffle()
	return deck
}

// Shuffle permutes the remaining cards uniformly at random.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the last card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	last := len(d.cards) - 1
	c := d.cards[last]
	d.cards = d.cards[:last]
	return c, nil
}

// Size returns the number of cards left.
func (d *Deck) Size() int {
	return len(d.cards)
}

// exchange puts c at deck position i and returns the card that was there.
func (d *Deck) exchange(i int, c Card) Card {
	out := d.cards[i]
	d.cards[i] = c
	return out
}
