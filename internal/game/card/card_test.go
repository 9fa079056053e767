package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck_Sizes(t *testing.T) {
	t.Parallel()

	deck36, err := NewDeck(DeckSize36)
	require.NoError(t, err)
	assert.Len(t, deck36, 36)

	deck52, err := NewDeck(DeckSize52)
	require.NoError(t, err)
	assert.Len(t, deck52, 52)

	_, err = NewDeck(40)
	assert.Error(t, err)
}

func TestNewDeck_UniqueCards(t *testing.T) {
	t.Parallel()

	for _, size := range []int{DeckSize36, DeckSize52} {
		deck, err := NewDeck(size)
		require.NoError(t, err)

		ids := make(map[int]bool)
		faces := make(map[string]bool)
		for _, c := range deck {
			assert.False(t, ids[c.ID], "duplicate id %d", c.ID)
			assert.False(t, faces[c.String()], "duplicate card %s", c)
			ids[c.ID] = true
			faces[c.String()] = true
		}
	}
}

func TestNewDeck_RankRange(t *testing.T) {
	t.Parallel()

	deck36, _ := NewDeck(DeckSize36)
	for _, c := range deck36 {
		assert.GreaterOrEqual(t, c.Rank, Rank6)
		assert.LessOrEqual(t, c.Rank, RankA)
	}

	deck52, _ := NewDeck(DeckSize52)
	low := 0
	for _, c := range deck52 {
		if c.Rank < Rank6 {
			low++
		}
	}
	assert.Equal(t, 16, low, "52-card deck carries 2..5 in all four suits")
}

func TestShuffle_IsBijection(t *testing.T) {
	t.Parallel()

	for _, size := range []int{DeckSize36, DeckSize52} {
		deck, err := NewDeck(size)
		require.NoError(t, err)

		before := make(map[Card]int)
		for _, c := range deck {
			before[c]++
		}

		deck.Shuffle()

		assert.Len(t, deck, size)
		after := make(map[Card]int)
		for _, c := range deck {
			after[c]++
		}
		assert.Equal(t, before, after, "shuffle must preserve the multiset")
	}
}

func TestShuffle_ActuallyPermutes(t *testing.T) {
	t.Parallel()

	deck, _ := NewDeck(DeckSize36)
	original := make(Deck, len(deck))
	copy(original, deck)

	// One identical order out of ten shuffles is astronomically unlikely
	// unless Shuffle is a no-op.
	moved := false
	for range 10 {
		deck.Shuffle()
		for i := range deck {
			if deck[i] != original[i] {
				moved = true
				break
			}
		}
		if moved {
			break
		}
	}
	assert.True(t, moved)
}

func TestBeats(t *testing.T) {
	t.Parallel()

	trump := Clubs

	tests := []struct {
		name    string
		defend  Card
		attack  Card
		expects bool
	}{
		{"higher same suit", Card{Suit: Spades, Rank: RankK}, Card{Suit: Spades, Rank: Rank9}, true},
		{"lower same suit", Card{Suit: Spades, Rank: Rank7}, Card{Suit: Spades, Rank: Rank9}, false},
		{"equal rank same suit", Card{Suit: Spades, Rank: Rank9}, Card{Suit: Spades, Rank: Rank9}, false},
		{"off-suit higher rank", Card{Suit: Hearts, Rank: RankA}, Card{Suit: Spades, Rank: Rank6}, false},
		{"trump beats non-trump", Card{Suit: Clubs, Rank: Rank6}, Card{Suit: Spades, Rank: RankA}, true},
		{"non-trump cannot beat trump", Card{Suit: Spades, Rank: RankA}, Card{Suit: Clubs, Rank: Rank6}, false},
		{"higher trump beats trump", Card{Suit: Clubs, Rank: Rank10}, Card{Suit: Clubs, Rank: Rank6}, true},
		{"lower trump loses to trump", Card{Suit: Clubs, Rank: Rank6}, Card{Suit: Clubs, Rank: Rank10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expects, Beats(tt.defend, tt.attack, trump))
		})
	}
}
