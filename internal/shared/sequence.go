package shared

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Sequence is an indexable, fixed-length collection of cards. *Deck
// implements it; Shuffle, Choice, Sample and SortByOrder work on any
// Sequence.
type Sequence interface {
	Len() int
	Get(i int) (Card, error)
	Set(i int, c Card) error
}

// Cards adapts a card slice to Sequence.
type Cards []Card

func (cs Cards) Len() int { return len(cs) }

func (cs Cards) Get(i int) (Card, error) {
	if err := checkIndex(i, len(cs)); err != nil {
		return Card{}, err
	}
	return cs[i], nil
}

func (cs Cards) Set(i int, c Card) error {
	if err := checkIndex(i, len(cs)); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}
	cs[i] = c
	return nil
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}

func swap(seq Sequence, i, j int) error {
	a, err := seq.Get(i)
	if err != nil {
		return err
	}
	b, err := seq.Get(j)
	if err != nil {
		return err
	}
	if err := seq.Set(i, b); err != nil {
		return err
	}
	return seq.Set(j, a)
}

// Shuffle permutes seq in place with a Fisher-Yates shuffle. A nil rng uses
// the package-level source.
func Shuffle(seq Sequence, rng *rand.Rand) error {
	for i := seq.Len() - 1; i > 0; i-- {
		if err := swap(seq, i, intN(rng, i+1)); err != nil {
			return err
		}
	}
	return nil
}

// Choice returns a uniformly random card of seq.
func Choice(seq Sequence, rng *rand.Rand) (Card, error) {
	if seq.Len() == 0 {
		return Card{}, ErrEmptySequence
	}
	return seq.Get(intN(rng, seq.Len()))
}

// Sample returns n independent random choices from seq; a card may appear
// more than once.
func Sample(seq Sequence, n int, rng *rand.Rand) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	out := make([]Card, 0, n)
	for range n {
		c, err := Choice(seq, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// SortByOrder stably sorts seq by rank strength, weakest first. Cards of the
// same rank keep their relative order.
func SortByOrder(seq Sequence) error {
	cards := make([]Card, seq.Len())
	for i := range cards {
		c, err := seq.Get(i)
		if err != nil {
			return err
		}
		cards[i] = c
	}
	slices.SortStableFunc(cards, Compare)
	for i, c := range cards {
		if err := seq.Set(i, c); err != nil {
			return err
		}
	}
	return nil
}
