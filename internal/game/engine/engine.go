// Package engine implements the authoritative Durak turn state machine.
// It owns card movement between hands, draw pile, table and discard, and
// validates every move before any mutation. The package does no I/O and
// no locking: callers serialize access per game.
package engine

import (
	"fmt"
	"time"

	"github.com/podkidnoy/durak-server/internal/game/card"
)

// Phase is the resting state of the turn machine. Collect, refill and
// round rotation happen atomically inside a single move and never rest.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhaseDealing Phase = "dealing"
	PhaseAttack  Phase = "attack"
	PhaseDefend  Phase = "defend"
	PhaseGameEnd Phase = "game_end"
)

// HandSize is the target hand size dealt and refilled to.
const HandSize = 6

// Move error codes surfaced to clients.
const (
	CodeNotYourTurn = "NOT_YOUR_TURN"
	CodeIllegalMove = "ILLEGAL_MOVE"
	CodeNotReady    = "NOT_READY"
)

// MoveError is a rejected move. The game state is guaranteed unchanged
// when one is returned.
type MoveError struct {
	Code    string
	Message string
}

func (e *MoveError) Error() string { return e.Message }

func notYourTurn(format string, args ...any) *MoveError {
	return &MoveError{Code: CodeNotYourTurn, Message: fmt.Sprintf(format, args...)}
}

func illegalMove(format string, args ...any) *MoveError {
	return &MoveError{Code: CodeIllegalMove, Message: fmt.Sprintf(format, args...)}
}

// Settings are the rule knobs fixed at deal time.
type Settings struct {
	DeckSize           int
	MaxAttacksPerRound int
	ThrowInEnabled     bool
}

// DefaultSettings returns the classic podkidnoy setup.
func DefaultSettings() Settings {
	return Settings{
		DeckSize:           card.DeckSize36,
		MaxAttacksPerRound: 6,
		ThrowInEnabled:     true,
	}
}

// Player is a seat in the game. Out players emptied their hand after the
// draw pile ran dry and take no further part in the round cycle.
type Player struct {
	ID   string
	Seat int
	Hand []card.Card
	Out  bool
}

// HasCard reports whether the player holds the card with the given id.
func (p *Player) HasCard(id int) bool {
	for _, c := range p.Hand {
		if c.ID == id {
			return true
		}
	}
	return false
}

// removeCard takes the card with the given id out of the hand.
func (p *Player) removeCard(id int) (card.Card, bool) {
	for i, c := range p.Hand {
		if c.ID == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return card.Card{}, false
}

// Pair is one attack card on the table with its optional cover.
type Pair struct {
	Attack card.Card
	Defend *card.Card
}

// Covered reports whether the pair has been beaten.
func (p Pair) Covered() bool { return p.Defend != nil }

// Game is one deal of Durak at a table of 2..6 seats.
type Game struct {
	settings   Settings
	players    []*Player // by seat
	stock      card.Deck // hidden draw pile; the trump card sits face-up beneath it
	trump      card.Suit
	trumpCrd   card.Card
	trumpDrawn bool

	table   []Pair
	discard int // cards gone to the discard pile

	attacker int // seat
	defender int // seat
	phase    Phase

	durakSeat    int // set at game end; -1 while running or on a draw
	lastActionAt time.Time
}

// NewGame seats the given player ids in order. Cards are dealt by Deal.
func NewGame(settings Settings, playerIDs []string) (*Game, error) {
	if len(playerIDs) < 2 || len(playerIDs) > 6 {
		return nil, fmt.Errorf("need 2-6 players, got %d", len(playerIDs))
	}
	if settings.MaxAttacksPerRound <= 0 {
		settings.MaxAttacksPerRound = HandSize
	}

	players := make([]*Player, len(playerIDs))
	for i, id := range playerIDs {
		players[i] = &Player{ID: id, Seat: i}
	}

	return &Game{
		settings:  settings,
		players:   players,
		phase:     PhaseLobby,
		durakSeat: -1,
	}, nil
}

// --- accessors ---

func (g *Game) Phase() Phase         { return g.phase }
func (g *Game) Trump() card.Suit     { return g.trump }
func (g *Game) TrumpCard() card.Card { return g.trumpCrd }

// DeckCount is the hidden draw-pile size. The face-up trump card is not
// counted: it stays visible beneath the pile until drawn last.
func (g *Game) DeckCount() int { return len(g.stock) }

// TrumpCardDrawn reports whether the face-up trump card has been drawn.
func (g *Game) TrumpCardDrawn() bool { return g.trumpDrawn }

// pileEmpty reports whether nothing is left to draw at all.
func (g *Game) pileEmpty() bool { return len(g.stock) == 0 && g.trumpDrawn }

func (g *Game) DiscardCount() int       { return g.discard }
func (g *Game) AttackerSeat() int       { return g.attacker }
func (g *Game) DefenderSeat() int       { return g.defender }
func (g *Game) LastActionAt() time.Time { return g.lastActionAt }
func (g *Game) Settings() Settings      { return g.settings }

// DurakSeat returns the losing seat after game end, or -1 while the game
// runs or when the last two players went out together (a draw).
func (g *Game) DurakSeat() int { return g.durakSeat }

// Table returns the current table pairs. The slice is a copy; pairs share
// no mutable state with the game.
func (g *Game) Table() []Pair {
	out := make([]Pair, len(g.table))
	copy(out, g.table)
	return out
}

// Player returns the player at the given seat, or nil.
func (g *Game) Player(seat int) *Player {
	if seat < 0 || seat >= len(g.players) {
		return nil
	}
	return g.players[seat]
}

// Players returns all seats in order.
func (g *Game) Players() []*Player { return g.players }

// SeatOf returns the seat of the given player id, or -1.
func (g *Game) SeatOf(playerID string) int {
	for _, p := range g.players {
		if p.ID == playerID {
			return p.Seat
		}
	}
	return -1
}

// ActiveCount counts seats still holding cards or still able to draw.
func (g *Game) ActiveCount() int {
	n := 0
	for _, p := range g.players {
		if !p.Out {
			n++
		}
	}
	return n
}

// openPairs counts table pairs not yet covered.
func (g *Game) openPairs() int {
	n := 0
	for _, pr := range g.table {
		if !pr.Covered() {
			n++
		}
	}
	return n
}

// tableHasRank reports whether the rank appears among attack or defend
// cards already on the table.
func (g *Game) tableHasRank(r card.Rank) bool {
	for _, pr := range g.table {
		if pr.Attack.Rank == r {
			return true
		}
		if pr.Defend != nil && pr.Defend.Rank == r {
			return true
		}
	}
	return false
}

// nextActive returns the next non-out seat after the given one.
func (g *Game) nextActive(seat int) int {
	for i := 1; i <= len(g.players); i++ {
		s := (seat + i) % len(g.players)
		if !g.players[s].Out {
			return s
		}
	}
	return seat
}

func (g *Game) touch() { g.lastActionAt = time.Now() }
