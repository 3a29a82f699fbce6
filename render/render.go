// Package render draws board and app views as terminal text using
// wsxiaoys/terminal color markup.
package render

import (
	"fmt"
	"strings"

	"github.com/wsxiaoys/terminal/color"

	"set-game-server/app"
	"set-game-server/game"
)

// Renderer turns views into text. With Plain set, color markup is
// stripped instead of converted to escape codes. Confirm names the key
// that sends A in the host's prompts.
type Renderer struct {
	Glyphs  *Glyphs
	Plain   bool
	Confirm string
}

// DefaultConfirm is used in prompts when the host does not name its key.
const DefaultConfirm = "A/Start"

// New returns a renderer for the given domains.
func New(d game.Domains, plain bool) *Renderer {
	return &Renderer{Glyphs: NewGlyphs(d), Plain: plain, Confirm: DefaultConfirm}
}

func (r *Renderer) confirmKey() string {
	if r.Confirm == "" {
		return DefaultConfirm
	}
	return r.Confirm
}

var stripper = func() *strings.Replacer {
	pairs := []string{reset, ""}
	for _, c := range colorCodes {
		pairs = append(pairs, c, "")
	}
	return strings.NewReplacer(pairs...)
}()

func (r *Renderer) finish(s string) string {
	if r.Plain {
		return stripper.Replace(s)
	}
	return color.Sprint(s)
}

func (r *Renderer) cell(cv game.CardView, feedback string) string {
	left, right := "[", "]"
	if cv.Selected {
		left, right = "{", "}"
	}
	if cv.Flashing {
		code := "@r"
		if feedback == game.FeedbackSuccess.String() {
			code = "@g"
		}
		left, right = code+left+reset, code+right+reset
	}
	cursor := " "
	if cv.Cursor {
		cursor = ">"
	}
	body := strings.Repeat(" ", r.Glyphs.cellWidth())
	if !cv.Empty && cv.Attrs != nil {
		body = r.Glyphs.card(*cv.Attrs)
	}
	return cursor + left + body + " " + right
}

// Board renders the grid and a status line.
func (r *Renderer) Board(v game.BoardView) string {
	var b strings.Builder
	for row := 0; row < v.Rows; row++ {
		for col := 0; col < v.Cols; col++ {
			if col > 0 {
				b.WriteString(" ")
			}
			b.WriteString(r.cell(v.Cards[row*v.Cols+col], v.Feedback))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n[score: %02d, deck: %02d]", v.Score, v.DeckSize)
	switch v.Feedback {
	case game.FeedbackSuccess.String():
		b.WriteString(" @g✔ set!@|")
	case game.FeedbackFailure.String():
		b.WriteString(" @r✘ not a set@|")
	}
	b.WriteString("\n")
	return r.finish(b.String())
}

// App renders whichever screen the app is on.
func (r *Renderer) App(v app.View) string {
	var b strings.Builder
	switch {
	case v.Menu != nil:
		b.WriteString("SET\n\n")
		for i, item := range v.Menu.Items {
			mark := "  "
			if i == v.Menu.Selected {
				mark = "> "
			}
			b.WriteString(mark + item + "\n")
		}
		return r.finish(b.String())
	case v.Help != nil:
		b.WriteString(strings.Join(v.Help, "\n"))
		fmt.Fprintf(&b, "\n\n(press %s to go back)\n", r.confirmKey())
		return r.finish(b.String())
	}
	var out string
	if v.Board != nil {
		out = r.Board(*v.Board)
	}
	if v.Result != nil {
		out += r.finish(fmt.Sprintf("\n@mGAME OVER@|  final score: %d\n(press %s to play again)\n", v.Result.Score, r.confirmKey()))
	}
	return out
}
