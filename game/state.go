package game

// CardView is the client-facing representation of one grid cell.
// Attrs and Labels are omitted for empty cells.
type CardView struct {
	Row      int        `json:"row"`
	Col      int        `json:"col"`
	Empty    bool       `json:"empty,omitempty"`
	Attrs    *[4]int    `json:"attrs,omitempty"`
	Labels   *[4]string `json:"labels,omitempty"`
	Selected bool       `json:"selected,omitempty"`
	Cursor   bool       `json:"cursor,omitempty"`
	Flashing bool       `json:"flashing,omitempty"`
}

// BoardView is everything a renderer reads from a Board for one step.
type BoardView struct {
	Rows      int        `json:"rows"`
	Cols      int        `json:"cols"`
	Cards     []CardView `json:"cards"`
	Selected  []Position `json:"selected"`
	Cursor    Position   `json:"cursor"`
	Feedback  string     `json:"feedback"`
	Flashing  []Position `json:"flashing"`
	Score     int        `json:"score"`
	DeckSize  int        `json:"deckSize"`
	GameOver  bool       `json:"gameOver"`
	ValidSets int        `json:"validSets"`
}

// BuildBoardView snapshots the read-only state of b.
func BuildBoardView(b *Board) BoardView {
	cards := make([]CardView, 0, b.rows*b.cols)
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			p := Position{Row: r, Col: c}
			cv := CardView{
				Row:      r,
				Col:      c,
				Selected: b.IsSelected(p),
				Cursor:   b.cursor == p,
				Flashing: b.feedback != FeedbackNone && b.IsFlashing(p),
			}
			if card, ok := b.CardAt(p); ok {
				attrs := card.Attrs()
				labels := b.domains.Labels(card)
				cv.Attrs = &attrs
				cv.Labels = &labels
			} else {
				cv.Empty = true
			}
			cards = append(cards, cv)
		}
	}

	selected := b.Selected()
	if selected == nil {
		selected = []Position{}
	}
	flashing := b.Flashing()
	if flashing == nil {
		flashing = []Position{}
	}

	return BoardView{
		Rows:      b.rows,
		Cols:      b.cols,
		Cards:     cards,
		Selected:  selected,
		Cursor:    b.cursor,
		Feedback:  b.feedback.String(),
		Flashing:  flashing,
		Score:     b.score,
		DeckSize:  b.deck.Size(),
		GameOver:  b.gameOver,
		ValidSets: len(b.ValidSets()),
	}
}
