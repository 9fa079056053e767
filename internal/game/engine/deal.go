package engine

import (
	"fmt"

	"github.com/podkidnoy/durak-server/internal/game/card"
)

// Deal builds and shuffles a fresh deck, deals HandSize cards to every
// seat in order, exposes the trump card under the draw pile and opens the
// first attack phase. The first attacker is the seat holding the lowest
// trump, seat 0 when nobody drew one.
func (g *Game) Deal() error {
	if g.phase != PhaseLobby {
		return fmt.Errorf("deal in phase %s", g.phase)
	}

	g.phase = PhaseDealing

	deck, err := card.NewDeck(g.settings.DeckSize)
	if err != nil {
		return err
	}
	deck.Shuffle()

	// Deal from the top, seat order.
	for range HandSize {
		for _, p := range g.players {
			p.Hand = append(p.Hand, deck[0])
			deck = deck[1:]
		}
	}

	// The next undealt card fixes trump and goes face-up under the pile,
	// so it is drawn last and never counts toward DeckCount.
	g.trumpCrd = deck[0]
	g.trump = g.trumpCrd.Suit
	g.trumpDrawn = false
	g.stock = deck[1:]

	g.attacker = g.lowestTrumpSeat()
	g.defender = g.nextActive(g.attacker)
	g.phase = PhaseAttack
	g.touch()
	return nil
}

// lowestTrumpSeat finds the seat holding the lowest trump card.
func (g *Game) lowestTrumpSeat() int {
	best := -1
	bestRank := card.RankA + 1
	for _, p := range g.players {
		for _, c := range p.Hand {
			if c.Suit == g.trump && c.Rank < bestRank {
				bestRank = c.Rank
				best = p.Seat
			}
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

// refill tops hands back up to HandSize: attacker first, then the other
// seats clockwise, defender last. The face-up trump card is the final
// draw.
func (g *Game) refill() {
	order := make([]int, 0, len(g.players))
	order = append(order, g.attacker)
	for s := g.nextActive(g.attacker); s != g.attacker; s = g.nextActive(s) {
		if s != g.defender {
			order = append(order, s)
		}
	}
	if g.defender != g.attacker {
		order = append(order, g.defender)
	}

	for _, seat := range order {
		p := g.players[seat]
		for len(p.Hand) < HandSize {
			c, ok := g.drawOne()
			if !ok {
				return
			}
			p.Hand = append(p.Hand, c)
		}
	}
}

// drawOne takes the next card from the pile: hidden stock first, the
// face-up trump card last.
func (g *Game) drawOne() (card.Card, bool) {
	if len(g.stock) > 0 {
		c := g.stock[0]
		g.stock = g.stock[1:]
		return c, true
	}
	if !g.trumpDrawn {
		g.trumpDrawn = true
		return g.trumpCrd, true
	}
	return card.Card{}, false
}

// endRound clears the table, refills hands, retires emptied players and
// rotates the attacker/defender seats. defended tells whether the
// defender beat every pair (they lead next) or took the cards (they are
// skipped).
func (g *Game) endRound(defended bool) {
	g.table = nil
	g.refill()

	// A player whose hand emptied with the pile dry is out of the game.
	if g.pileEmpty() {
		for _, p := range g.players {
			if !p.Out && len(p.Hand) == 0 {
				p.Out = true
			}
		}
	}

	if g.ActiveCount() <= 1 {
		g.finish()
		return
	}

	if defended && !g.players[g.defender].Out {
		g.attacker = g.defender
	} else {
		g.attacker = g.nextActive(g.defender)
	}
	g.defender = g.nextActive(g.attacker)
	g.phase = PhaseAttack
	g.touch()
}

// finish closes the game. The single seat still holding cards is the
// durak; no remaining seat means the last players went out together and
// the game is a draw.
func (g *Game) finish() {
	g.phase = PhaseGameEnd
	g.durakSeat = -1
	for _, p := range g.players {
		if !p.Out {
			g.durakSeat = p.Seat
			break
		}
	}
	g.touch()
}
