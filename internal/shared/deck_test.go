package shared

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countCards(cards []Card) map[Card]int {
	m := make(map[Card]int, len(cards))
	for _, c := range cards {
		m[c]++
	}
	return m
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	require.Equal(t, DeckSize, deck.Len())

	seen := countCards(deck.Cards())
	require.Len(t, seen, DeckSize, "cards must be pairwise distinct")
	for _, r := range Ranks() {
		for _, s := range Suits() {
			assert.Equal(t, 1, seen[Card{rank: r, suit: s}], "%s%s", r, s)
		}
	}
}

func TestDeckFirstSuit(t *testing.T) {
	deck := NewDeck()
	first, err := deck.Slice(0, 9)
	require.NoError(t, err)
	require.Len(t, first, 9)

	ranks := make(map[Rank]bool)
	for _, c := range first {
		assert.Equal(t, first[0].Suit(), c.Suit())
		ranks[c.Rank()] = true
	}
	assert.Len(t, ranks, 9)
}

func TestDeckStrideAces(t *testing.T) {
	aces, err := NewDeck().Stride(8, 9)
	require.NoError(t, err)
	require.Len(t, aces, 4)
	for _, c := range aces {
		assert.Equal(t, Ace, c.Rank())
	}

	_, err = NewDeck().Stride(36, 9)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)

	for _, step := range []int{0, -5} {
		cards, err := NewDeck().Stride(0, step)
		assert.ErrorIs(t, err, ErrInvalidStep, "step %d", step)
		assert.Nil(t, cards)
	}
}

func TestDeckGetSet(t *testing.T) {
	deck := NewDeck()

	c, err := deck.Get(0)
	require.NoError(t, err)
	assert.Equal(t, MustCard("3", "S"), c)

	last, err := deck.Get(DeckSize - 1)
	require.NoError(t, err)
	assert.Equal(t, MustCard("A", "H"), last)

	require.NoError(t, deck.Set(0, last))
	c, err = deck.Get(0)
	require.NoError(t, err)
	assert.Equal(t, last, c)
	assert.Equal(t, DeckSize, deck.Len())
}

func TestDeckBounds(t *testing.T) {
	deck := NewDeck()
	for _, i := range []int{-1, DeckSize, DeckSize + 10} {
		_, err := deck.Get(i)
		assert.ErrorIs(t, err, ErrIndexOutOfBounds, "get %d", i)
		assert.ErrorIs(t, deck.Set(i, aceHearts), ErrIndexOutOfBounds, "set %d", i)
	}

	_, err := deck.Get(DeckSize)
	var ierr *IndexError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, DeckSize, ierr.Index)
	assert.Equal(t, DeckSize, ierr.Len)

	tests := []struct {
		lo, hi int
		bad    int
	}{
		{-3, 5, -3},
		{DeckSize + 1, DeckSize + 2, DeckSize + 1},
		{4, 2, 2},
		{0, DeckSize + 1, DeckSize + 1},
	}
	for _, tt := range tests {
		_, err = deck.Slice(tt.lo, tt.hi)
		require.ErrorAs(t, err, &ierr, "slice %d:%d", tt.lo, tt.hi)
		assert.Equal(t, tt.bad, ierr.Index, "slice %d:%d", tt.lo, tt.hi)
	}

	empty, err := deck.Slice(DeckSize, DeckSize)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDeckSetRejectsInvalidCard(t *testing.T) {
	deck := NewDeck()
	before := deck.Cards()

	tests := []struct {
		name  string
		card  Card
		field string
		want  error
	}{
		{"zero value", Card{}, "rank", ErrInvalidRank},
		{"unknown rank", Card{rank: "2", suit: Hearts}, "rank", ErrInvalidRank},
		{"unknown suit", Card{rank: Ace, suit: "X"}, "suit", ErrInvalidSuit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := deck.Set(0, tt.card)
			require.ErrorIs(t, err, tt.want)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			assert.ErrorIs(t, Cards(deck.Cards()).Set(0, tt.card), tt.want)
		})
	}
	assert.Equal(t, before, deck.Cards())
}

func TestDeckAllRestartable(t *testing.T) {
	deck := NewDeck()
	var first, second []Card
	for i, c := range deck.All() {
		assert.Equal(t, len(first), i)
		first = append(first, c)
	}
	for _, c := range deck.All() {
		second = append(second, c)
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, DeckSize)

	n := 0
	for range deck.All() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestDeckCardsIsCopy(t *testing.T) {
	deck := NewDeck()
	cards := deck.Cards()
	cards[0] = aceHearts
	c, _ := deck.Get(0)
	assert.NotEqual(t, aceHearts, c)
}

func TestDeckShufflePreservesCards(t *testing.T) {
	deck := NewDeck()
	before := countCards(deck.Cards())

	deck.Shuffle(rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, DeckSize, deck.Len())
	assert.Equal(t, before, countCards(deck.Cards()))
	assert.NotEqual(t, NewDeck().Cards(), deck.Cards())

	deck.Shuffle(nil)
	assert.Equal(t, before, countCards(deck.Cards()))
}

func TestDeckShuffleSeeded(t *testing.T) {
	a, b := NewDeck(), NewDeck()
	a.Shuffle(rand.New(rand.NewPCG(11, 12)))
	b.Shuffle(rand.New(rand.NewPCG(11, 12)))
	assert.Equal(t, a.Cards(), b.Cards())
	assert.Equal(t, countCards(NewDeck().Cards()), countCards(a.Cards()))
}
