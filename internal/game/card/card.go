package card

import (
	"fmt"
	"math/rand/v2"
)

// Suit defines a card suit.
type Suit int

// Rank defines a card rank. Values follow beat order, ace high.
type Rank int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// suitSymbols maps suits to their display symbols.
var suitSymbols = map[Suit]string{
	Spades:   "♠",
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return "?"
}

const (
	Rank2 Rank = iota + 2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ // Jack
	RankQ // Queen
	RankK // King
	RankA // Ace
)

// rankNames maps ranks to their display strings.
var rankNames = map[Rank]string{
	Rank2:  "2",
	Rank3:  "3",
	Rank4:  "4",
	Rank5:  "5",
	Rank6:  "6",
	Rank7:  "7",
	Rank8:  "8",
	Rank9:  "9",
	Rank10: "10",
	RankJ:  "J",
	RankQ:  "Q",
	RankK:  "K",
	RankA:  "A",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

// Card is a single physical card in a deal. ID is unique within one deck
// and is the handle clients use to reference the card on the wire.
type Card struct {
	ID   int  `json:"id"`
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Supported deck sizes.
const (
	DeckSize36 = 36
	DeckSize52 = 52
)

// Deck is an ordered pile of cards.
type Deck []Card

// NewDeck builds an unshuffled deck of the given size. The 36-card deck
// runs 6..A; the 52-card deck additionally holds 2..5.
func NewDeck(size int) (Deck, error) {
	lowest := Rank6
	if size == DeckSize52 {
		lowest = Rank2
	} else if size != DeckSize36 {
		return nil, fmt.Errorf("unsupported deck size %d", size)
	}

	deck := make(Deck, 0, size)
	id := 0
	for s := Spades; s <= Clubs; s++ {
		for r := lowest; r <= RankA; r++ {
			deck = append(deck, Card{ID: id, Suit: s, Rank: r})
			id++
		}
	}
	return deck, nil
}

// Shuffle permutes the deck in place. rand.Shuffle is a Fisher-Yates
// shuffle, so the result is a uniform permutation: no card is ever
// duplicated or dropped.
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Beats reports whether defend beats attack under trump rules: same suit
// with a higher rank, or any trump against a non-trump attack.
func Beats(defend, attack Card, trump Suit) bool {
	if defend.Suit == attack.Suit {
		return defend.Rank > attack.Rank
	}
	return defend.Suit == trump && attack.Suit != trump
}
