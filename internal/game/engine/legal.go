package engine

import "github.com/podkidnoy/durak-server/internal/game/card"

// DefendOption lists the hand cards able to cover one open attack.
type DefendOption struct {
	AttackCardID  int   `json:"attackCardId"`
	DefendCardIDs []int `json:"defendCardIds"`
}

// LegalMoves is the advisory move hint sent to clients. It is a UI aid:
// the server re-validates every move regardless.
type LegalMoves struct {
	AttackCardIDs []int          `json:"attackCardIds,omitempty"`
	Defends       []DefendOption `json:"defends,omitempty"`
	CanTake       bool           `json:"canTake"`
	CanDone       bool           `json:"canDone"`
}

// LegalMovesFor computes what the given seat could legally do right now.
func (g *Game) LegalMovesFor(seat int) LegalMoves {
	var lm LegalMoves
	p := g.Player(seat)
	if p == nil || p.Out || (g.phase != PhaseAttack && g.phase != PhaseDefend) {
		return lm
	}

	switch seat {
	case g.defender:
		lm.CanTake = len(g.table) > 0
		for _, pr := range g.table {
			if pr.Covered() {
				continue
			}
			opt := DefendOption{AttackCardID: pr.Attack.ID}
			for _, c := range p.Hand {
				if card.Beats(c, pr.Attack, g.trump) {
					opt.DefendCardIDs = append(opt.DefendCardIDs, c.ID)
				}
			}
			lm.Defends = append(lm.Defends, opt)
		}

	case g.attacker:
		lm.CanDone = len(g.table) > 0 && g.openPairs() == 0
		lm.AttackCardIDs = g.attackableCards(p)

	default:
		if g.settings.ThrowInEnabled && len(g.table) > 0 {
			lm.AttackCardIDs = g.attackableCards(p)
		}
	}
	return lm
}

// attackableCards lists hand cards playable as a further attack given the
// table and round caps.
func (g *Game) attackableCards(p *Player) []int {
	if len(g.table) >= g.settings.MaxAttacksPerRound {
		return nil
	}
	if g.openPairs() >= len(g.players[g.defender].Hand) {
		return nil
	}

	var ids []int
	for _, c := range p.Hand {
		if len(g.table) == 0 || g.tableHasRank(c.Rank) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
