package engine

import "github.com/podkidnoy/durak-server/internal/game/card"

// Attack plays an attack card from the attacker's hand. The first card of
// a round opens the table; further cards must match a rank already on it,
// bounded by MaxAttacksPerRound and the defender's remaining hand.
func (g *Game) Attack(seat int, cardID int) error {
	if g.phase != PhaseAttack && g.phase != PhaseDefend {
		return illegalMove("no attack allowed in phase %s", g.phase)
	}
	if seat != g.attacker {
		return notYourTurn("seat %d is not the attacker", seat)
	}
	return g.addAttackCard(seat, cardID)
}

// ThrowIn adds an attack card from a bystander seat. Legal only when the
// room rules allow it, the table already holds a matching rank, and the
// thrower is neither attacker nor defender.
func (g *Game) ThrowIn(seat int, cardID int) error {
	if !g.settings.ThrowInEnabled {
		return illegalMove("throw-in is disabled in this room")
	}
	if g.phase != PhaseAttack && g.phase != PhaseDefend {
		return illegalMove("no throw-in allowed in phase %s", g.phase)
	}
	if seat == g.defender {
		return notYourTurn("the defender cannot throw in")
	}
	if seat == g.attacker {
		return notYourTurn("the attacker attacks, not throws in")
	}
	p := g.Player(seat)
	if p == nil || p.Out {
		return notYourTurn("seat %d is not in the round", seat)
	}
	if len(g.table) == 0 {
		return illegalMove("cannot throw in onto an empty table")
	}
	return g.addAttackCard(seat, cardID)
}

// addAttackCard validates and applies one more attack card from the
// given seat.
func (g *Game) addAttackCard(seat int, cardID int) error {
	p := g.players[seat]
	c, ok := findCard(p.Hand, cardID)
	if !ok {
		return illegalMove("card %d is not in your hand", cardID)
	}

	if len(g.table) > 0 && !g.tableHasRank(c.Rank) {
		return illegalMove("%s does not match any rank on the table", c)
	}
	if len(g.table) >= g.settings.MaxAttacksPerRound {
		return illegalMove("round is capped at %d attacks", g.settings.MaxAttacksPerRound)
	}
	// The defender must be able to answer every open pair.
	if g.openPairs() >= len(g.players[g.defender].Hand) {
		return illegalMove("defender has no cards left to answer %s", c)
	}

	p.removeCard(cardID)
	g.table = append(g.table, Pair{Attack: c})
	g.phase = PhaseDefend
	g.touch()
	return nil
}

// Defend covers an open table pair with a card from the defender's hand.
func (g *Game) Defend(seat int, attackCardID, defendCardID int) error {
	if g.phase != PhaseDefend {
		return illegalMove("nothing to defend in phase %s", g.phase)
	}
	if seat != g.defender {
		return notYourTurn("seat %d is not the defender", seat)
	}

	pairIdx := -1
	for i, pr := range g.table {
		if pr.Attack.ID == attackCardID && !pr.Covered() {
			pairIdx = i
			break
		}
	}
	if pairIdx < 0 {
		return illegalMove("no open attack with card %d", attackCardID)
	}

	p := g.players[seat]
	c, ok := findCard(p.Hand, defendCardID)
	if !ok {
		return illegalMove("card %d is not in your hand", defendCardID)
	}

	attack := g.table[pairIdx].Attack
	if !card.Beats(c, attack, g.trump) {
		return illegalMove("%s does not beat %s (trump %s)", c, attack, g.trump)
	}

	p.removeCard(defendCardID)
	defend := c
	g.table[pairIdx].Defend = &defend

	// All pairs covered: back to the attacker, who may add more or close
	// the round with Done.
	if g.openPairs() == 0 {
		g.phase = PhaseAttack
	}
	g.touch()
	return nil
}

// Take concedes the round: the defender picks up every card on the table
// and is skipped for the next round.
func (g *Game) Take(seat int) error {
	if g.phase != PhaseAttack && g.phase != PhaseDefend {
		return illegalMove("nothing to take in phase %s", g.phase)
	}
	if seat != g.defender {
		return notYourTurn("seat %d is not the defender", seat)
	}
	if len(g.table) == 0 {
		return illegalMove("the table is empty")
	}

	p := g.players[seat]
	for _, pr := range g.table {
		p.Hand = append(p.Hand, pr.Attack)
		if pr.Defend != nil {
			p.Hand = append(p.Hand, *pr.Defend)
		}
	}
	g.endRound(false)
	return nil
}

// Done closes a fully beaten round: every table card goes to the discard
// pile and the defender leads the next attack.
func (g *Game) Done(seat int) error {
	if g.phase != PhaseAttack && g.phase != PhaseDefend {
		return illegalMove("nothing to finish in phase %s", g.phase)
	}
	if seat != g.attacker {
		return notYourTurn("seat %d is not the attacker", seat)
	}
	if len(g.table) == 0 {
		return illegalMove("no attack to finish")
	}
	if g.openPairs() > 0 {
		return illegalMove("%d attacks are still open", g.openPairs())
	}

	g.discard += 2 * len(g.table)
	g.endRound(true)
	return nil
}

// PassAttack skips an attacker who declines to open a round. Used by the
// turn timer when the attack phase expires with an empty table; the
// attacker role moves on without any cards changing hands.
func (g *Game) PassAttack(seat int) error {
	if g.phase != PhaseAttack {
		return illegalMove("cannot pass in phase %s", g.phase)
	}
	if seat != g.attacker {
		return notYourTurn("seat %d is not the attacker", seat)
	}
	if len(g.table) != 0 {
		return illegalMove("an attack is already on the table")
	}

	g.attacker = g.nextActive(g.attacker)
	g.defender = g.nextActive(g.attacker)
	g.touch()
	return nil
}

func findCard(hand []card.Card, id int) (card.Card, bool) {
	for _, c := range hand {
		if c.ID == id {
			return c, true
		}
	}
	return card.Card{}, false
}
