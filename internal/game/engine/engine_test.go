package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podkidnoy/durak-server/internal/game/card"
)

func mustGame(t *testing.T, players int) *Game {
	t.Helper()
	ids := make([]string, players)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	g, err := NewGame(DefaultSettings(), ids)
	require.NoError(t, err)
	return g
}

// fixedGame builds a two-player game with hand-picked cards and trump so
// move legality can be asserted deterministically.
func fixedGame(t *testing.T, trump card.Suit, hands ...[]card.Card) *Game {
	t.Helper()
	g := mustGame(t, len(hands))
	for i, h := range hands {
		g.players[i].Hand = append([]card.Card(nil), h...)
	}
	g.trump = trump
	g.trumpCrd = card.Card{ID: 98, Suit: trump, Rank: card.Rank6}
	g.trumpDrawn = true // dry pile unless a test arranges otherwise
	g.attacker = 0
	g.defender = 1
	g.phase = PhaseAttack
	g.lastActionAt = time.Now()
	return g
}

func cardTotal(g *Game) int {
	total := len(g.stock) + g.discard
	if !g.trumpDrawn {
		total++
	}
	for _, p := range g.players {
		total += len(p.Hand)
	}
	for _, pr := range g.table {
		total++
		if pr.Defend != nil {
			total++
		}
	}
	return total
}

func TestNewGame_PlayerBounds(t *testing.T) {
	t.Parallel()

	_, err := NewGame(DefaultSettings(), []string{"solo"})
	assert.Error(t, err)

	_, err = NewGame(DefaultSettings(), []string{"a", "b", "c", "d", "e", "f", "g"})
	assert.Error(t, err)
}

func TestDeal_Conservation(t *testing.T) {
	t.Parallel()

	g := mustGame(t, 2)
	require.NoError(t, g.Deal())

	// 36 - 2*6 - 1 exposed trump card = 23 hidden cards.
	assert.Equal(t, 23, g.DeckCount())
	assert.False(t, g.TrumpCardDrawn())
	assert.Len(t, g.Player(0).Hand, HandSize)
	assert.Len(t, g.Player(1).Hand, HandSize)
	assert.Equal(t, card.DeckSize36, cardTotal(g))
	assert.Equal(t, PhaseAttack, g.Phase())
	assert.Equal(t, g.TrumpCard().Suit, g.Trump())
}

func TestDeal_NoDuplicateOwnership(t *testing.T) {
	t.Parallel()

	g := mustGame(t, 4)
	require.NoError(t, g.Deal())

	seen := make(map[int]bool)
	check := func(c card.Card) {
		assert.False(t, seen[c.ID], "card id %d owned twice", c.ID)
		seen[c.ID] = true
	}
	for _, p := range g.Players() {
		for _, c := range p.Hand {
			check(c)
		}
	}
	for _, c := range g.stock {
		check(c)
	}
	check(g.TrumpCard())
	assert.Len(t, seen, card.DeckSize36)
}

func TestDeal_FirstAttackerHoldsLowestTrump(t *testing.T) {
	t.Parallel()

	for range 20 {
		g := mustGame(t, 3)
		require.NoError(t, g.Deal())

		lowest := card.RankA + 1
		seat := 0
		for _, p := range g.Players() {
			for _, c := range p.Hand {
				if c.Suit == g.Trump() && c.Rank < lowest {
					lowest = c.Rank
					seat = p.Seat
				}
			}
		}
		if lowest <= card.RankA {
			assert.Equal(t, seat, g.AttackerSeat())
		} else {
			assert.Equal(t, 0, g.AttackerSeat())
		}
		assert.NotEqual(t, g.AttackerSeat(), g.DefenderSeat())
	}
}

func TestAttack_WrongSeatRejected(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{{ID: 1, Suit: card.Spades, Rank: card.Rank9}},
		[]card.Card{{ID: 2, Suit: card.Spades, Rank: card.Rank10}},
	)

	err := g.Attack(1, 2)
	var moveErr *MoveError
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeNotYourTurn, moveErr.Code)
	assert.Empty(t, g.Table(), "state unchanged on rejection")
	assert.Len(t, g.Player(1).Hand, 1)
}

func TestAttack_CardNotInHand(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{{ID: 1, Suit: card.Spades, Rank: card.Rank9}},
		[]card.Card{{ID: 2, Suit: card.Spades, Rank: card.Rank10}},
	)

	err := g.Attack(0, 77)
	var moveErr *MoveError
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeIllegalMove, moveErr.Code)
}

func TestAttack_FollowUpMustMatchTableRank(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{
			{ID: 1, Suit: card.Spades, Rank: card.Rank9},
			{ID: 2, Suit: card.Hearts, Rank: card.RankK},
			{ID: 3, Suit: card.Hearts, Rank: card.Rank9},
		},
		[]card.Card{
			{ID: 4, Suit: card.Spades, Rank: card.Rank10},
			{ID: 5, Suit: card.Spades, Rank: card.RankJ},
			{ID: 6, Suit: card.Spades, Rank: card.RankQ},
		},
	)

	require.NoError(t, g.Attack(0, 1))
	assert.Equal(t, PhaseDefend, g.Phase())

	// King matches nothing on the table.
	err := g.Attack(0, 2)
	var moveErr *MoveError
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeIllegalMove, moveErr.Code)

	// The second nine does.
	require.NoError(t, g.Attack(0, 3))
	assert.Len(t, g.Table(), 2)
}

func TestDefend_Legality(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{{ID: 1, Suit: card.Spades, Rank: card.Rank9}},
		[]card.Card{
			{ID: 2, Suit: card.Spades, Rank: card.Rank7}, // lower, same suit
			{ID: 3, Suit: card.Hearts, Rank: card.RankA}, // off suit, no trump
			{ID: 4, Suit: card.Spades, Rank: card.RankJ}, // higher, same suit
			{ID: 5, Suit: card.Clubs, Rank: card.Rank7},  // trump
		},
	)
	require.NoError(t, g.Attack(0, 1))

	var moveErr *MoveError

	err := g.Defend(1, 1, 2)
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeIllegalMove, moveErr.Code)

	err = g.Defend(1, 1, 3)
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeIllegalMove, moveErr.Code)

	require.NoError(t, g.Defend(1, 1, 4))
	assert.Equal(t, PhaseAttack, g.Phase(), "all pairs covered hands turn back to attacker")
	require.True(t, g.Table()[0].Covered())
}

func TestDefend_OnlyDefenderMay(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{{ID: 1, Suit: card.Spades, Rank: card.Rank9}},
		[]card.Card{{ID: 2, Suit: card.Spades, Rank: card.RankJ}},
	)
	require.NoError(t, g.Attack(0, 1))

	err := g.Defend(0, 1, 2)
	var moveErr *MoveError
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeNotYourTurn, moveErr.Code)
}

func TestTake_MovesTableToDefenderAndSkips(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{
			{ID: 1, Suit: card.Spades, Rank: card.Rank9},
			{ID: 2, Suit: card.Hearts, Rank: card.Rank9},
			{ID: 7, Suit: card.Clubs, Rank: card.Rank7},
		},
		[]card.Card{
			{ID: 3, Suit: card.Spades, Rank: card.RankJ},
			{ID: 4, Suit: card.Hearts, Rank: card.Rank6},
		},
		[]card.Card{
			{ID: 5, Suit: card.Diamonds, Rank: card.Rank8},
		},
	)

	require.NoError(t, g.Attack(0, 1))
	require.NoError(t, g.Defend(1, 1, 3)) // one pair covered
	require.NoError(t, g.Attack(0, 2))    // second nine
	require.NoError(t, g.Take(1))

	// 1 card kept + 2 attacks + the spent cover, all picked up.
	assert.Len(t, g.Player(1).Hand, 4)
	assert.Empty(t, g.Table())

	// Defender is skipped: seat 2 attacks next, seat 0 defends.
	assert.Equal(t, 2, g.AttackerSeat())
	assert.Equal(t, 0, g.DefenderSeat())
	assert.Equal(t, PhaseAttack, g.Phase())
}

func TestDone_RequiresCoveredTable(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{{ID: 1, Suit: card.Spades, Rank: card.Rank9}, {ID: 9, Suit: card.Hearts, Rank: card.Rank7}},
		[]card.Card{{ID: 2, Suit: card.Spades, Rank: card.RankJ}, {ID: 8, Suit: card.Hearts, Rank: card.Rank8}},
	)

	var moveErr *MoveError
	err := g.Done(0)
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeIllegalMove, moveErr.Code, "empty table")

	require.NoError(t, g.Attack(0, 1))
	err = g.Done(0)
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeIllegalMove, moveErr.Code, "open pair")

	require.NoError(t, g.Defend(1, 1, 2))
	require.NoError(t, g.Done(0))

	assert.Equal(t, 2, g.DiscardCount())
	assert.Empty(t, g.Table())
	// Successful defence: defender leads the next round.
	assert.Equal(t, 1, g.AttackerSeat())
	assert.Equal(t, 0, g.DefenderSeat())
}

func TestThrowIn_RankMustBeOnTable(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{{ID: 1, Suit: card.Spades, Rank: card.Rank9}},
		[]card.Card{
			{ID: 2, Suit: card.Spades, Rank: card.RankJ},
			{ID: 6, Suit: card.Hearts, Rank: card.RankQ},
			{ID: 7, Suit: card.Diamonds, Rank: card.RankQ},
		},
		[]card.Card{
			{ID: 3, Suit: card.Diamonds, Rank: card.Rank9},
			{ID: 4, Suit: card.Diamonds, Rank: card.RankK},
		},
	)

	var moveErr *MoveError
	err := g.ThrowIn(2, 3)
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeIllegalMove, moveErr.Code, "empty table")

	require.NoError(t, g.Attack(0, 1))

	err = g.ThrowIn(2, 4)
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeIllegalMove, moveErr.Code, "king not on table")

	require.NoError(t, g.ThrowIn(2, 3))
	assert.Len(t, g.Table(), 2)
}

func TestThrowIn_DisabledBySettings(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{{ID: 1, Suit: card.Spades, Rank: card.Rank9}},
		[]card.Card{{ID: 2, Suit: card.Spades, Rank: card.RankJ}},
		[]card.Card{{ID: 3, Suit: card.Diamonds, Rank: card.Rank9}},
	)
	g.settings.ThrowInEnabled = false
	require.NoError(t, g.Attack(0, 1))

	err := g.ThrowIn(2, 3)
	var moveErr *MoveError
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeIllegalMove, moveErr.Code)
}

func TestAttack_CappedByDefenderHand(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{
			{ID: 1, Suit: card.Spades, Rank: card.Rank9},
			{ID: 2, Suit: card.Hearts, Rank: card.Rank9},
		},
		[]card.Card{
			{ID: 3, Suit: card.Diamonds, Rank: card.Rank6}, // single card
		},
	)

	require.NoError(t, g.Attack(0, 1))

	// One open pair already equals the defender's whole hand.
	err := g.Attack(0, 2)
	var moveErr *MoveError
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeIllegalMove, moveErr.Code)
}

func TestAttack_CappedByMaxAttacksPerRound(t *testing.T) {
	t.Parallel()

	hand0 := make([]card.Card, 0, 4)
	for i, s := range []card.Suit{card.Spades, card.Hearts, card.Diamonds, card.Clubs} {
		hand0 = append(hand0, card.Card{ID: i + 1, Suit: s, Rank: card.Rank9})
	}
	g := fixedGame(t, card.Clubs,
		hand0,
		[]card.Card{
			{ID: 10, Suit: card.Spades, Rank: card.Rank10},
			{ID: 11, Suit: card.Hearts, Rank: card.Rank10},
			{ID: 12, Suit: card.Diamonds, Rank: card.Rank10},
			{ID: 13, Suit: card.Clubs, Rank: card.Rank10},
		},
	)
	g.settings.MaxAttacksPerRound = 2

	require.NoError(t, g.Attack(0, 1))
	require.NoError(t, g.Attack(0, 2))

	err := g.Attack(0, 3)
	var moveErr *MoveError
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, CodeIllegalMove, moveErr.Code)
}

func TestRefill_OrderAndTrumpCardLast(t *testing.T) {
	t.Parallel()

	attackerHand := []card.Card{{ID: 1, Suit: card.Spades, Rank: card.Rank9}}
	for i := range 5 {
		attackerHand = append(attackerHand, card.Card{ID: 20 + i, Suit: card.Hearts, Rank: card.Rank(int(card.Rank10) + i)})
	}
	defenderHand := []card.Card{{ID: 2, Suit: card.Spades, Rank: card.RankJ}}
	for i := range 4 {
		defenderHand = append(defenderHand, card.Card{ID: 30 + i, Suit: card.Diamonds, Rank: card.Rank(int(card.Rank10) + i)})
	}

	g := fixedGame(t, card.Clubs, attackerHand, defenderHand)
	hidden := card.Card{ID: 50, Suit: card.Hearts, Rank: card.Rank8}
	g.stock = card.Deck{hidden}
	g.trumpDrawn = false

	require.NoError(t, g.Attack(0, 1))
	require.NoError(t, g.Defend(1, 1, 2))
	require.NoError(t, g.Done(0))

	// Attacker refills first and gets the hidden card; the defender draws
	// the exposed trump card last.
	assert.Contains(t, g.Player(0).Hand, hidden)
	assert.Contains(t, g.Player(1).Hand, g.TrumpCard())
	assert.Zero(t, g.DeckCount())
	assert.True(t, g.TrumpCardDrawn())
}

func TestGameEnd_LastHolderIsDurak(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{{ID: 1, Suit: card.Spades, Rank: card.Rank9}},
		[]card.Card{{ID: 2, Suit: card.Hearts, Rank: card.Rank6}},
	)

	require.NoError(t, g.Attack(0, 1))
	require.NoError(t, g.Take(1))

	assert.Equal(t, PhaseGameEnd, g.Phase())
	assert.Equal(t, 1, g.DurakSeat())
	assert.True(t, g.Player(0).Out)

	// Terminal: no further moves accepted.
	err := g.Attack(1, 2)
	assert.Error(t, err)
}

func TestGameEnd_SimultaneousOutIsDraw(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{{ID: 1, Suit: card.Spades, Rank: card.Rank9}},
		[]card.Card{{ID: 2, Suit: card.Spades, Rank: card.RankJ}},
	)

	require.NoError(t, g.Attack(0, 1))
	require.NoError(t, g.Defend(1, 1, 2))
	require.NoError(t, g.Done(0))

	assert.Equal(t, PhaseGameEnd, g.Phase())
	assert.Equal(t, -1, g.DurakSeat(), "both out together: draw")
}

func TestPassAttack_RotatesWithoutCards(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{{ID: 1, Suit: card.Spades, Rank: card.Rank9}},
		[]card.Card{{ID: 2, Suit: card.Spades, Rank: card.RankJ}},
		[]card.Card{{ID: 3, Suit: card.Diamonds, Rank: card.Rank8}},
	)

	require.NoError(t, g.PassAttack(0))
	assert.Equal(t, 1, g.AttackerSeat())
	assert.Equal(t, 2, g.DefenderSeat())

	require.NoError(t, g.Attack(1, 2))
	err := g.PassAttack(1)
	assert.Error(t, err, "cannot pass once the table is open")
}

func TestConservation_AcrossFullRound(t *testing.T) {
	t.Parallel()

	g := mustGame(t, 3)
	require.NoError(t, g.Deal())
	require.Equal(t, card.DeckSize36, cardTotal(g))

	// Attacker opens with any card; defender takes.
	attacker := g.Player(g.AttackerSeat())
	require.NoError(t, g.Attack(attacker.Seat, attacker.Hand[0].ID))
	require.Equal(t, card.DeckSize36, cardTotal(g))

	require.NoError(t, g.Take(g.DefenderSeat()))
	require.Equal(t, card.DeckSize36, cardTotal(g))
}

func TestLegalMoves_Advisory(t *testing.T) {
	t.Parallel()

	g := fixedGame(t, card.Clubs,
		[]card.Card{
			{ID: 1, Suit: card.Spades, Rank: card.Rank9},
			{ID: 2, Suit: card.Hearts, Rank: card.Rank9},
		},
		[]card.Card{
			{ID: 3, Suit: card.Spades, Rank: card.RankJ},
			{ID: 4, Suit: card.Hearts, Rank: card.Rank6},
		},
	)

	lm := g.LegalMovesFor(0)
	assert.ElementsMatch(t, []int{1, 2}, lm.AttackCardIDs, "empty table: anything goes")
	assert.False(t, lm.CanDone)

	require.NoError(t, g.Attack(0, 1))

	lm = g.LegalMovesFor(1)
	assert.True(t, lm.CanTake)
	require.Len(t, lm.Defends, 1)
	assert.Equal(t, 1, lm.Defends[0].AttackCardID)
	assert.Equal(t, []int{3}, lm.Defends[0].DefendCardIDs, "only the jack beats the nine")

	lm = g.LegalMovesFor(0)
	assert.Equal(t, []int{2}, lm.AttackCardIDs, "only the matching nine may follow")
}
