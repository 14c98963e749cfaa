package shared

import (
	"fmt"
	"strings"
)

// Rank is the symbol of an Albastini card rank (e.g., "7", "Q", "A").
type Rank string

const (
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Queen Rank = "Q"
	Jack  Rank = "J"
	King  Rank = "K"
	Seven Rank = "7"
	Ace   Rank = "A"
)

// Suit is the symbol of a card suit. Suits never affect comparison.
type Suit string

const (
	Hearts   Suit = "H"
	Diamonds Suit = "D"
	Spades   Suit = "S"
	Clubs    Suit = "C"
)

type rankInfo struct {
	name  string
	order int // strength, 0 (lowest) to 8
	point int // scoring weight
}

// Order and points are specific to Albastini: the 7 and the ace outrank the
// face cards.
var rankTable = map[Rank]rankInfo{
	Three: {name: "THREE", order: 0, point: 0},
	Four:  {name: "FOUR", order: 1, point: 0},
	Five:  {name: "FIVE", order: 2, point: 0},
	Six:   {name: "SIX", order: 3, point: 0},
	Queen: {name: "QUEEN", order: 4, point: 2},
	Jack:  {name: "JACK", order: 5, point: 3},
	King:  {name: "KING", order: 6, point: 4},
	Seven: {name: "SEVEN", order: 7, point: 10},
	Ace:   {name: "ACE", order: 8, point: 11},
}

var suitNames = map[Suit]string{
	Hearts:   "HEARTS",
	Diamonds: "DIAMONDS",
	Spades:   "SPADES",
	Clubs:    "CLUBS",
}

// Ranks returns the nine ranks from weakest to strongest.
func Ranks() []Rank {
	return []Rank{Three, Four, Five, Six, Queen, Jack, King, Seven, Ace}
}

// Suits returns the four suits in enumeration order.
func Suits() []Suit {
	return []Suit{Hearts, Diamonds, Spades, Clubs}
}

// Valid reports whether r is one of the nine Albastini ranks.
func (r Rank) Valid() bool {
	_, ok := rankTable[r]
	return ok
}

// Name returns the full rank name, or "" for an unknown rank.
func (r Rank) Name() string { return rankTable[r].name }

// Order returns the rank strength used for comparison.
func (r Rank) Order() int { return rankTable[r].order }

// Point returns the scoring weight of the rank.
func (r Rank) Point() int { return rankTable[r].point }

// numeral ranks are displayed by symbol, face ranks by name.
func (r Rank) numeral() bool {
	switch r {
	case Three, Four, Five, Six, Seven:
		return true
	}
	return false
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	_, ok := suitNames[s]
	return ok
}

// Name returns the full suit name, or "" for an unknown suit.
func (s Suit) Name() string { return suitNames[s] }

// Card is a single Albastini playing card. The zero value is not a valid
// card; use NewCard.
type Card struct {
	rank Rank
	suit Suit
}

// NewCard validates rank and suit and returns the card they name.
func NewCard(rank, suit string) (Card, error) {
	c := Card{rank: Rank(rank), suit: Suit(suit)}
	if err := c.validate(); err != nil {
		return Card{}, err
	}
	return c, nil
}

// validate rejects cards that were not built by NewCard, such as the zero
// value.
func (c Card) validate() error {
	if !c.rank.Valid() {
		return &ValidationError{Field: "rank", Value: string(c.rank), Allowed: rankSymbols(), err: ErrInvalidRank}
	}
	if !c.suit.Valid() {
		return &ValidationError{Field: "suit", Value: string(c.suit), Allowed: suitSymbols(), err: ErrInvalidSuit}
	}
	return nil
}

// MustCard is like NewCard but panics on invalid input. Meant for literals.
func MustCard(rank, suit string) Card {
	c, err := NewCard(rank, suit)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCard parses a card code such as "JS" or "7H" (see Card.Code).
func ParseCard(code string) (Card, error) {
	code = strings.TrimSpace(code)
	if len(code) != 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	return NewCard(code[:1], code[1:])
}

func rankSymbols() []string {
	out := make([]string, 0, len(rankTable))
	for _, r := range Ranks() {
		out = append(out, string(r))
	}
	return out
}

func suitSymbols() []string {
	out := make([]string, 0, len(suitNames))
	for _, s := range Suits() {
		out = append(out, string(s))
	}
	return out
}

// Rank returns the rank symbol.
func (c Card) Rank() Rank { return c.rank }

// Suit returns the suit symbol.
func (c Card) Suit() Suit { return c.suit }

// RankSymbol returns the rank symbol as a string.
func (c Card) RankSymbol() string { return string(c.rank) }

// RankOrder returns the strength of the card's rank, 0 to 8.
func (c Card) RankOrder() int { return c.rank.Order() }

// RankPoint returns the scoring weight of the card's rank.
func (c Card) RankPoint() int { return c.rank.Point() }

// RankName returns the full rank name, e.g. "QUEEN".
func (c Card) RankName() string { return c.rank.Name() }

// SuitName returns the full suit name, e.g. "DIAMONDS".
func (c Card) SuitName() string { return c.suit.Name() }

// Code returns the two-character code of the card, e.g. "QD".
func (c Card) Code() string { return string(c.rank) + string(c.suit) }

// String returns the display form: "7 of SPADES", "QUEEN of DIAMONDS".
func (c Card) String() string {
	if c.rank.numeral() {
		return string(c.rank) + " of " + c.SuitName()
	}
	return c.RankName() + " of " + c.SuitName()
}

// GoString implements fmt.GoStringer for %#v.
func (c Card) GoString() string {
	return fmt.Sprintf("Card(rank='%s', suit='%s')", c.RankName(), c.SuitName())
}

// ImageName returns the file name of the card's image, e.g.
// "jack_of_spades.png". No file is read or checked.
func (c Card) ImageName() string {
	return strings.ToLower(strings.ReplaceAll(c.String(), " ", "_") + ".png")
}

// Compare orders cards by rank strength only; the suit is ignored.
// It returns -1, 0 or +1 and can be passed to slices.SortFunc.
func Compare(a, b Card) int {
	switch ao, bo := a.RankOrder(), b.RankOrder(); {
	case ao < bo:
		return -1
	case ao > bo:
		return 1
	}
	return 0
}

// Equal reports whether c and o have the same rank. Use == to compare both
// rank and suit.
func (c Card) Equal(o Card) bool { return Compare(c, o) == 0 }

// Less reports whether c ranks below o.
func (c Card) Less(o Card) bool { return Compare(c, o) < 0 }

// Greater reports whether c ranks above o.
func (c Card) Greater(o Card) bool { return Compare(c, o) > 0 }
