package game

import (
	"errors"
	"math/rand"
	"testing"
)

func TestBuildFullDeck(t *testing.T) {
	tests := []struct {
		name    string
		domains Domains
		want    int
	}{
		{"standard", StandardDomains(), 81},
		{"binary", Domains{
			Shape: []string{"a", "b"}, Color: []string{"a", "b"},
			Count: []string{"1", "2"}, Fill: []string{"a", "b"},
		}, 16},
		{"uneven", Domains{
			Shape: []string{"a", "b", "c", "d"}, Color: []string{"a", "b"},
			Count: []string{"1", "2", "3"}, Fill: []string{"a", "b", "c", "d", "e"},
		}, 120},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cards := BuildFullDeck(test.domains)
			if len(cards) != test.want {
				t.Fatalf("expected %d cards, got %d", test.want, len(cards))
			}
			seen := make(map[Card]bool)
			for _, c := range cards {
				if seen[c] {
					t.Fatalf("duplicate card %+v", c)
				}
				seen[c] = true
				if c.Shape >= len(test.domains.Shape) || c.Fill >= len(test.domains.Fill) {
					t.Fatalf("card %+v out of domain range", c)
				}
			}
		})
	}
}

func TestDeckDrawUntilEmpty(t *testing.T) {
	deck := NewDeck(StandardDomains(), rand.New(rand.NewSource(1)))
	seen := make(map[Card]bool)
	for deck.Size() > 0 {
		before := deck.Size()
		c, err := deck.Draw()
		if err != nil {
			t.Fatalf("unexpected error with %d cards left: %v", before, err)
		}
		if deck.Size() != before-1 {
			t.Fatalf("expected size %d after draw, got %d", before-1, deck.Size())
		}
		if seen[c] {
			t.Fatalf("drew %+v twice", c)
		}
		seen[c] = true
	}
	if len(seen) != 81 {
		t.Errorf("expected 81 distinct draws, got %d", len(seen))
	}
	if _, err := deck.Draw(); !errors.Is(err, ErrEmptyDeck) {
		t.Errorf("expected ErrEmptyDeck, got %v", err)
	}
}

func TestDeckShuffleIsSeeded(t *testing.T) {
	a := NewDeck(StandardDomains(), rand.New(rand.NewSource(42)))
	b := NewDeck(StandardDomains(), rand.New(rand.NewSource(42)))
	c := NewDeck(StandardDomains(), rand.New(rand.NewSource(43)))
	sameAsC := true
	for a.Size() > 0 {
		x, _ := a.Draw()
		y, _ := b.Draw()
		z, _ := c.Draw()
		if x != y {
			t.Fatal("same seed produced different order")
		}
		if x != z {
			sameAsC = false
		}
	}
	if sameAsC {
		t.Error("different seeds produced the same order")
	}
}

func TestDeckDrawsFromEnd(t *testing.T) {
	deck := &Deck{cards: []Card{{Shape: 0}, {Shape: 1}, {Shape: 2}}, rng: rand.New(rand.NewSource(1))}
	c, _ := deck.Draw()
	if c.Shape != 2 {
		t.Errorf("expected last card (shape 2), got shape %d", c.Shape)
	}
	out := deck.exchange(0, Card{Shape: 7})
	if out.Shape != 0 || deck.cards[0].Shape != 7 {
		t.Errorf("exchange returned %+v, deck now %+v", out, deck.cards)
	}
}
