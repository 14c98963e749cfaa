package shared

import (
	"fmt"
	"iter"
	"log"
	"math/rand/v2"
)

// DeckSize is the number of cards in an Albastini deck (9 ranks x 4 suits).
const DeckSize = 36

// Construction order of a new deck: suit-major, rank-minor.
var (
	deckSuits = []Suit{Spades, Diamonds, Clubs, Hearts}
	deckRanks = []Rank{Three, Four, Five, Six, Seven, Jack, Queen, King, Ace}
)

// Deck is the fixed 36-card Albastini deck. Cards may be reordered or
// replaced in place but the deck is never resized.
type Deck struct {
	cards []Card
}

// NewDeck creates a full deck, one card per rank and suit.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range deckSuits {
		for _, rank := range deckRanks {
			cards = append(cards, Card{rank: rank, suit: suit})
		}
	}
	return &Deck{cards: cards}
}

// Len returns the number of cards in the deck.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Get returns the card at position i.
func (d *Deck) Get(i int) (Card, error) {
	if err := checkIndex(i, len(d.cards)); err != nil {
		return Card{}, err
	}
	return d.cards[i], nil
}

// Set replaces the card at position i.
func (d *Deck) Set(i int, c Card) error {
	if err := checkIndex(i, len(d.cards)); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}
	d.cards[i] = c
	return nil
}

// All iterates over the deck in its current order.
func (d *Deck) All() iter.Seq2[int, Card] {
	return func(yield func(int, Card) bool) {
		for i, c := range d.cards {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Cards returns a copy of the cards in their current order.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Slice returns a copy of the cards in [lo, hi).
func (d *Deck) Slice(lo, hi int) ([]Card, error) {
	if lo < 0 || lo > len(d.cards) {
		return nil, &IndexError{Index: lo, Len: len(d.cards)}
	}
	if hi < lo || hi > len(d.cards) {
		return nil, &IndexError{Index: hi, Len: len(d.cards)}
	}
	out := make([]Card, hi-lo)
	copy(out, d.cards[lo:hi])
	return out, nil
}

// Stride returns every step-th card starting at start, e.g. Stride(8, 9)
// on a new deck yields the four aces.
func (d *Deck) Stride(start, step int) ([]Card, error) {
	if err := checkIndex(start, len(d.cards)); err != nil {
		return nil, err
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
	var out []Card
	for i := start; i < len(d.cards); i += step {
		out = append(out, d.cards[i])
	}
	return out, nil
}

// Shuffle randomizes the order of cards in the deck. A nil rng uses the
// package-level source.
func (d *Deck) Shuffle(rng *rand.Rand) {
	swap := func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	if rng == nil {
		rand.Shuffle(len(d.cards), swap)
	} else {
		rng.Shuffle(len(d.cards), swap)
	}
	log.Println("Deck shuffled.")
}
