package render

import (
	"strings"
	"unicode/utf8"

	"set-game-server/game"
)

const reset = "@|"

// colorCodes are cycled through for color values.
var colorCodes = []string{"@r", "@g", "@b", "@m", "@c", "@y"}

// baseShapes[shape][fill] for the first three shapes and fills, in
// solid, striped, open order.
var baseShapes = [][]string{
	{"●", "◉", "○"},
	{"■", "▣", "□"},
	{"▲", "◬", "△"},
}

// Glyphs maps card attributes to terminal art. It is built once per
// domain set and only read afterwards.
type Glyphs struct {
	shapes   [][]string // [shape][fill]
	colors   []string
	maxCount int
}

// NewGlyphs builds the glyph table for d. Shapes or fills beyond the base
// table fall back to the first letter of the label, upper case for the
// first fill and lower case otherwise.
func NewGlyphs(d game.Domains) *Glyphs {
	g := &Glyphs{
		shapes:   make([][]string, len(d.Shape)),
		colors:   make([]string, len(d.Color)),
		maxCount: len(d.Count),
	}
	for s := range d.Shape {
		g.shapes[s] = make([]string, len(d.Fill))
		for f := range d.Fill {
			if s < len(baseShapes) && f < len(baseShapes[s]) {
				g.shapes[s][f] = baseShapes[s][f]
				continue
			}
			g.shapes[s][f] = initial(d.Shape[s], f == 0)
		}
	}
	for c := range d.Color {
		g.colors[c] = colorCodes[c%len(colorCodes)]
	}
	return g
}

func initial(label string, upper bool) string {
	r, _ := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError {
		return "?"
	}
	if upper {
		return strings.ToUpper(string(r))
	}
	return strings.ToLower(string(r))
}

// Glyph returns the symbol for a shape/fill pair.
func (g *Glyphs) Glyph(shape, fill int) string {
	if shape < 0 || shape >= len(g.shapes) || fill < 0 || fill >= len(g.shapes[shape]) {
		return "?"
	}
	return g.shapes[shape][fill]
}

// Color returns the color code for a color value.
func (g *Glyphs) Color(color int) string {
	if color < 0 || color >= len(g.colors) {
		return reset
	}
	return g.colors[color]
}

// cellWidth is the visible width of a card body: one space plus one glyph per count.
func (g *Glyphs) cellWidth() int {
	return 2 * g.maxCount
}

// card renders the body of one card, padded to cellWidth.
func (g *Glyphs) card(attrs [4]int) string {
	shape, clr, count, fill := attrs[0], attrs[1], attrs[2], attrs[3]
	n := count + 1
	if n < 1 {
		n = 1
	}
	if n > g.maxCount {
		n = g.maxCount
	}
	body := strings.Repeat(" "+g.Glyph(shape, fill), n)
	pad := g.cellWidth() - 2*n
	left := pad / 2
	return strings.Repeat(" ", left) + g.Color(clr) + body + reset + strings.Repeat(" ", pad-left)
}
