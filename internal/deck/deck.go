// Package deck implements an owned card pile with a draw pile, a discard
// pile and a face-up revealed row.
package deck

import (
	"slices"

	"github.com/lox/publishorperish/internal/randutil"
)

// Card is anything that can live in a Deck. IDs must be unique within a
// deck's card pool.
type Card interface {
	CardID() string
}

// Deck owns three disjoint piles. The draw pile's top is its last element.
// No operation creates or destroys cards: Size()+DiscardSize()+len(Revealed())
// is constant except for cards handed out by Draw/TakeFromRow and cards
// handed back through Discard.
type Deck[T Card] struct {
	draw     []T
	discard  []T
	revealed []T
	rng      *randutil.LCG
}

// Piles is the serializable content of a Deck.
type Piles[T Card] struct {
	Draw     []T `json:"draw"`
	Discard  []T `json:"discard"`
	Revealed []T `json:"revealed"`
}

// New creates a deck whose draw pile is a copy of cards in the given order.
// The deck draws randomness from rng; several decks of one game may share
// the game's generator.
func New[T Card](cards []T, rng *randutil.LCG) *Deck[T] {
	return &Deck[T]{
		draw:     slices.Clone(cards),
		discard:  []T{},
		revealed: []T{},
		rng:      rng,
	}
}

// Restore rebuilds a deck from previously captured piles.
func Restore[T Card](p Piles[T], rng *randutil.LCG) *Deck[T] {
	return &Deck[T]{
		draw:     nonNil(slices.Clone(p.Draw)),
		discard:  nonNil(slices.Clone(p.Discard)),
		revealed: nonNil(slices.Clone(p.Revealed)),
		rng:      rng,
	}
}

// Clone returns a copy of the deck bound to rng.
func (d *Deck[T]) Clone(rng *randutil.LCG) *Deck[T] {
	return Restore(d.Piles(), rng)
}

// Piles returns copies of all three piles.
func (d *Deck[T]) Piles() Piles[T] {
	return Piles[T]{
		Draw:     nonNil(slices.Clone(d.draw)),
		Discard:  nonNil(slices.Clone(d.discard)),
		Revealed: nonNil(slices.Clone(d.revealed)),
	}
}

// Shuffle merges the discard pile into the draw pile and permutes the
// result. The discard pile is empty afterwards.
func (d *Deck[T]) Shuffle() {
	merged := make([]T, 0, len(d.draw)+len(d.discard))
	merged = append(merged, d.draw...)
	merged = append(merged, d.discard...)
	d.draw = randutil.Shuffle(d.rng, merged)
	d.discard = []T{}
}

// Draw pops the top card. An empty draw pile is refilled from the discard
// pile first. ok is false only when both piles are empty.
func (d *Deck[T]) Draw() (card T, ok bool) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return card, false
		}
		d.Shuffle()
	}
	last := len(d.draw) - 1
	card = d.draw[last]
	d.draw = d.draw[:last]
	return card, true
}

// DrawMany draws up to n cards, stopping early once the deck is exhausted.
func (d *Deck[T]) DrawMany(n int) []T {
	drawn := make([]T, 0, max(n, 0))
	for range n {
		card, ok := d.Draw()
		if !ok {
			break
		}
		drawn = append(drawn, card)
	}
	return drawn
}

// RevealRow discards the current row and reveals up to n new cards.
func (d *Deck[T]) RevealRow(n int) []T {
	d.discard = append(d.discard, d.revealed...)
	d.revealed = d.DrawMany(n)
	return d.Revealed()
}

// TakeFromRow removes the card with the given id from the revealed row.
// ok is false when no such card is showing, e.g. another player already
// took it.
func (d *Deck[T]) TakeFromRow(id string) (card T, ok bool) {
	i := slices.IndexFunc(d.revealed, func(c T) bool { return c.CardID() == id })
	if i < 0 {
		return card, false
	}
	card = d.revealed[i]
	d.revealed = slices.Delete(d.revealed, i, i+1)
	return card, true
}

// Discard puts a card onto the discard pile.
func (d *Deck[T]) Discard(card T) {
	d.discard = append(d.discard, card)
}

// Revealed returns a copy of the revealed row.
func (d *Deck[T]) Revealed() []T {
	return nonNil(slices.Clone(d.revealed))
}

// Size returns the number of cards in the draw pile.
func (d *Deck[T]) Size() int {
	return len(d.draw)
}

// DiscardSize returns the number of cards in the discard pile.
func (d *Deck[T]) DiscardSize() int {
	return len(d.discard)
}

// Total returns the number of cards across all three piles.
func (d *Deck[T]) Total() int {
	return len(d.draw) + len(d.discard) + len(d.revealed)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
