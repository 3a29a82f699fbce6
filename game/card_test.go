package game

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, d Domains, shape, color, count, fill string) Card {
	t.Helper()
	c, ok := d.Parse(shape, color, count, fill)
	if !ok {
		t.Fatalf("unknown card %s %s %s %s", shape, color, count, fill)
	}
	return c
}

func TestIsSet(t *testing.T) {
	d := StandardDomains()
	tests := []struct {
		name  string
		cards [3][4]string
		want  bool
	}{
		{
			name: "all different",
			cards: [3][4]string{
				{"circle", "red", "1", "solid"},
				{"square", "green", "2", "striped"},
				{"triangle", "blue", "3", "open"},
			},
			want: true,
		},
		{
			name: "all same",
			cards: [3][4]string{
				{"circle", "red", "1", "solid"},
				{"circle", "red", "1", "solid"},
				{"circle", "red", "1", "solid"},
			},
			want: true,
		},
		{
			name: "mixed same and different",
			cards: [3][4]string{
				{"circle", "red", "1", "solid"},
				{"circle", "green", "2", "striped"},
				{"circle", "blue", "3", "open"},
			},
			want: true,
		},
		{
			name: "two shapes equal one different",
			cards: [3][4]string{
				{"circle", "red", "1", "solid"},
				{"circle", "red", "2", "solid"},
				{"square", "red", "3", "solid"},
			},
			want: false,
		},
		{
			name: "only fill breaks it",
			cards: [3][4]string{
				{"circle", "red", "1", "solid"},
				{"square", "green", "2", "solid"},
				{"triangle", "blue", "3", "open"},
			},
			want: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var cs [3]Card
			for i, l := range test.cards {
				cs[i] = mustParse(t, d, l[0], l[1], l[2], l[3])
			}
			perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
			for _, p := range perms {
				if got := IsSet(cs[p[0]], cs[p[1]], cs[p[2]]); got != test.want {
					t.Errorf("IsSet%v = %v, want %v", p, got, test.want)
				}
			}
		})
	}
}

func TestIsSetMatchesAttributeRuleExhaustively(t *testing.T) {
	deck := BuildFullDeck(StandardDomains())
	for i := 0; i < len(deck); i += 7 {
		for j := 0; j < len(deck); j += 5 {
			for k := 0; k < len(deck); k++ {
				a, b, c := deck[i].Attrs(), deck[j].Attrs(), deck[k].Attrs()
				want := true
				for n := range a {
					distinct := map[int]struct{}{a[n]: {}, b[n]: {}, c[n]: {}}
					if len(distinct) == 2 {
						want = false
					}
				}
				if got := IsSet(deck[i], deck[j], deck[k]); got != want {
					t.Fatalf("IsSet(%v, %v, %v) = %v, want %v", a, b, c, got, want)
				}
			}
		}
	}
}

func TestIsSetWithLargerDomains(t *testing.T) {
	// Three distinct values out of four still count as all different.
	a := Card{Shape: 0, Color: 1, Count: 0, Fill: 3}
	b := Card{Shape: 1, Color: 1, Count: 2, Fill: 3}
	c := Card{Shape: 3, Color: 1, Count: 1, Fill: 3}
	if !IsSet(a, b, c) {
		t.Error("expected set with 4-valued domains")
	}
}

func TestDomainsValidate(t *testing.T) {
	if err := StandardDomains().Validate(); err != nil {
		t.Fatalf("standard domains: %v", err)
	}
	bad := StandardDomains()
	bad.Color = []string{"red"}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidDomains) {
		t.Errorf("expected ErrInvalidDomains for single color, got %v", err)
	}
	dup := StandardDomains()
	dup.Fill = []string{"solid", "solid", "open"}
	if err := dup.Validate(); !errors.Is(err, ErrInvalidDomains) {
		t.Errorf("expected ErrInvalidDomains for duplicate fill, got %v", err)
	}
}

func TestDomainsLabel(t *testing.T) {
	d := StandardDomains()
	c := mustParse(t, d, "square", "blue", "2", "striped")
	if got := d.Label(c); got != "2 blue striped square" {
		t.Errorf("expected %q, got %q", "2 blue striped square", got)
	}
	if _, ok := d.Parse("hexagon", "blue", "2", "striped"); ok {
		t.Error("expected unknown shape to fail")
	}
	if got := d.Labels(Card{Shape: 9}); got[0] != "?" {
		t.Errorf("expected ? for out of range shape, got %q", got[0])
	}
}
