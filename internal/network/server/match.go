package server

import (
	"context"
	"sync"
	"time"

	"github.com/podkidnoy/durak-server/internal/game/card"
	"github.com/podkidnoy/durak-server/internal/game/engine"
	"github.com/podkidnoy/durak-server/internal/logger"
	"github.com/podkidnoy/durak-server/internal/network/protocol"
)

// Match runs one deal of Durak for a room. It owns the engine state and
// the turn timers; every move goes through its mutex, which serializes
// all transitions for the room's game.
type Match struct {
	server *Server
	roomID string

	game  *engine.Game
	names map[string]string // playerID -> display name, fixed at start

	mu sync.RWMutex // guards game

	timerMu          sync.Mutex
	turnTimer        *time.Timer
	offlineWaitTimer *time.Timer
	turnEpoch        uint64 // bumped on every arm/stop; stale callbacks bail out
	remainingTime    time.Duration
	timerStartTime   time.Time
	stopped          bool
}

// NewMatch builds a match from the room roster. Caller holds the room
// lock.
func NewMatch(room *Room) (*Match, error) {
	settings := engine.Settings{
		DeckSize:           room.Settings.DeckSize,
		MaxAttacksPerRound: room.Settings.MaxAttacksPerRound,
		ThrowInEnabled:     room.Settings.ThrowInEnabled,
	}
	if settings.DeckSize == 0 {
		settings = engine.DefaultSettings()
		settings.MaxAttacksPerRound = room.Settings.MaxAttacksPerRound
		settings.ThrowInEnabled = room.Settings.ThrowInEnabled
	}

	game, err := engine.NewGame(settings, room.PlayerOrder)
	if err != nil {
		return nil, &protocol.GameError{Code: protocol.CodeNotReady, Message: err.Error()}
	}

	names := make(map[string]string, len(room.Players))
	for id, p := range room.Players {
		names[id] = p.Client.Name
	}

	return &Match{
		server: room.server,
		roomID: room.ID,
		game:   game,
		names:  names,
	}, nil
}

// Start shuffles, deals and opens the first round.
func (m *Match) Start() {
	m.mu.Lock()
	if err := m.game.Deal(); err != nil {
		m.mu.Unlock()
		logger.Log.Errorf("room %s deal failed: %v", m.roomID, err)
		return
	}
	m.broadcastState("deal")
	m.mu.Unlock()

	m.startTurnTimer()
}

// --- move handlers ---

func (m *Match) HandleAttack(playerID string, cardID int) error {
	return m.apply("attack", func(seat int) error {
		return m.game.Attack(seat, cardID)
	}, playerID)
}

func (m *Match) HandleThrowIn(playerID string, cardID int) error {
	return m.apply("throwin", func(seat int) error {
		return m.game.ThrowIn(seat, cardID)
	}, playerID)
}

func (m *Match) HandleDefend(playerID string, attackCardID, defendCardID int) error {
	return m.apply("defend", func(seat int) error {
		return m.game.Defend(seat, attackCardID, defendCardID)
	}, playerID)
}

func (m *Match) HandleTake(playerID string) error {
	return m.apply("take", func(seat int) error {
		return m.game.Take(seat)
	}, playerID)
}

func (m *Match) HandleDone(playerID string) error {
	return m.apply("done", func(seat int) error {
		return m.game.Done(seat)
	}, playerID)
}

// apply runs one validated move and pushes the resulting state.
func (m *Match) apply(event string, move func(seat int) error, playerID string) error {
	m.mu.Lock()

	seat := m.game.SeatOf(playerID)
	if seat < 0 {
		m.mu.Unlock()
		return ErrNotInRoom
	}

	if err := move(seat); err != nil {
		m.mu.Unlock()
		return err
	}

	m.stopTimer()
	m.broadcastState(event)
	ended := m.game.Phase() == engine.PhaseGameEnd
	m.mu.Unlock()

	if ended {
		m.finish()
	} else {
		m.startTurnTimer()
	}
	return nil
}

// finish records results and hands the room back to the lobby.
func (m *Match) finish() {
	m.timerMu.Lock()
	m.stopped = true
	m.timerMu.Unlock()

	m.recordResults()

	room := m.server.roomManager.GetRoom(m.roomID)
	if room != nil {
		room.endMatch()
	}

	logger.Log.Infof("🎮 room %s: game over, durak seat %d", m.roomID, m.durakSeatSnapshot())
}

func (m *Match) durakSeatSnapshot() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.game.DurakSeat()
}

// recordResults writes every seat's outcome to the leaderboard.
func (m *Match) recordResults() {
	m.mu.RLock()
	durakSeat := m.game.DurakSeat()
	players := m.game.Players()
	type result struct {
		id, name string
		isDurak  bool
	}
	results := make([]result, 0, len(players))
	for _, p := range players {
		results = append(results, result{
			id:      p.ID,
			name:    m.names[p.ID],
			isDurak: p.Seat == durakSeat,
		})
	}
	m.mu.RUnlock()

	ctx := context.Background()
	for _, r := range results {
		if err := m.server.leaderboard.RecordGameResult(ctx, r.id, r.name, r.isDurak); err != nil {
			logger.Log.Errorf("record game result for %s: %v", r.id, err)
		}
	}
}

// GetPlayerHandCount reports the hand size for one player.
func (m *Match) GetPlayerHandCount(playerID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seat := m.game.SeatOf(playerID)
	if p := m.game.Player(seat); p != nil {
		return len(p.Hand)
	}
	return 0
}

// Stop halts the timers; used when the match is aborted.
func (m *Match) Stop() {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()

	m.stopped = true
	m.turnEpoch++
	if m.turnTimer != nil {
		m.turnTimer.Stop()
		m.turnTimer = nil
	}
	if m.offlineWaitTimer != nil {
		m.offlineWaitTimer.Stop()
		m.offlineWaitTimer = nil
	}
}

// --- state broadcast ---

// broadcastState pushes a per-viewer state delta plus move hints to
// every seat. Caller holds m.mu.
func (m *Match) broadcastState(event string) {
	for _, p := range m.game.Players() {
		client := m.server.GetClientByID(p.ID)
		if client == nil {
			continue
		}

		client.SendMessage(protocol.MustNewMessage(protocol.MsgGameState, m.statePayload(p.Seat, event)))

		lm := m.game.LegalMovesFor(p.Seat)
		client.SendMessage(protocol.MustNewMessage(protocol.MsgGameLegalMoves, protocol.LegalMovesPayload{
			AttackCardIDs: lm.AttackCardIDs,
			Defends:       defendOptions(lm.Defends),
			CanTake:       lm.CanTake,
			CanDone:       lm.CanDone,
		}))
	}
}

// StateFor returns the game view for one player, for reconnects.
func (m *Match) StateFor(playerID string) *protocol.GameStatePayload {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seat := m.game.SeatOf(playerID)
	if seat < 0 {
		return nil
	}
	payload := m.statePayload(seat, "resync")
	return &payload
}

// statePayload builds the state delta as one viewer sees it. Caller
// holds m.mu.
func (m *Match) statePayload(viewerSeat int, event string) protocol.GameStatePayload {
	g := m.game

	table := make([]protocol.TablePairInfo, 0, len(g.Table()))
	for _, pr := range g.Table() {
		info := protocol.TablePairInfo{Attack: protocol.FromCard(pr.Attack)}
		if pr.Defend != nil {
			d := protocol.FromCard(*pr.Defend)
			info.Defend = &d
		}
		table = append(table, info)
	}

	players := make([]protocol.PlayerInfo, 0, len(g.Players()))
	var hand []protocol.CardInfo
	for _, p := range g.Players() {
		status := "playing"
		if p.Out {
			status = "idle"
		}
		players = append(players, protocol.PlayerInfo{
			ID:        p.ID,
			Name:      m.names[p.ID],
			Seat:      p.Seat,
			Status:    status,
			HandCount: len(p.Hand),
		})
		if p.Seat == viewerSeat {
			hand = protocol.FromCards(p.Hand)
		}
	}

	payload := protocol.GameStatePayload{
		Event:        event,
		Phase:        string(g.Phase()),
		Trump:        g.Trump().String(),
		DeckCount:    g.DeckCount(),
		DiscardCount: g.DiscardCount(),
		AttackerSeat: g.AttackerSeat(),
		DefenderSeat: g.DefenderSeat(),
		Table:        table,
		Players:      players,
		Hand:         hand,
	}

	if !g.TrumpCardDrawn() {
		tc := protocol.FromCard(g.TrumpCard())
		payload.TrumpCard = &tc
	}
	if g.Phase() == engine.PhaseGameEnd {
		seat := g.DurakSeat()
		if seat >= 0 {
			payload.DurakSeat = &seat
		}
	}

	return payload
}

func defendOptions(opts []engine.DefendOption) []protocol.DefendOptionInfo {
	out := make([]protocol.DefendOptionInfo, len(opts))
	for i, o := range opts {
		out[i] = protocol.DefendOptionInfo{
			AttackCardID:  o.AttackCardID,
			DefendCardIDs: o.DefendCardIDs,
		}
	}
	return out
}

// --- turn timers ---

// actingSeat returns who the clock runs against, or -1 when no timer
// applies.
func (m *Match) actingSeat() int {
	switch m.game.Phase() {
	case engine.PhaseAttack:
		return m.game.AttackerSeat()
	case engine.PhaseDefend:
		return m.game.DefenderSeat()
	}
	return -1
}

func (m *Match) turnTimeout() time.Duration {
	game := m.server.config.Game
	if m.game.Phase() == engine.PhaseDefend {
		return game.DefendTimeoutDuration()
	}
	d := game.AttackTimeoutDuration()
	if len(m.game.Table()) == 0 {
		// breather between rounds, granted on the opening attack
		d += game.BetweenTimeoutDuration()
	}
	return d
}

func (m *Match) startTurnTimer() {
	m.mu.RLock()
	seat := m.actingSeat()
	timeout := m.turnTimeout()
	m.mu.RUnlock()

	if seat < 0 || timeout <= 0 {
		return
	}

	m.timerMu.Lock()
	defer m.timerMu.Unlock()

	if m.stopped {
		return
	}
	m.turnEpoch++
	epoch := m.turnEpoch
	m.timerStartTime = time.Now()
	m.remainingTime = timeout
	m.turnTimer = time.AfterFunc(timeout, func() { m.handleTurnTimeout(epoch) })
}

// handleTurnTimeout plays the default move for a stalled seat: a stalled
// defender takes, a stalled attacker closes the round, or passes the
// attack on when the table is still empty. A callback whose epoch was
// invalidated by a move that beat it to the lock does nothing.
func (m *Match) handleTurnTimeout(epoch uint64) {
	m.mu.Lock()

	m.timerMu.Lock()
	stale := m.stopped || epoch != m.turnEpoch
	m.timerMu.Unlock()
	if stale {
		m.mu.Unlock()
		return
	}

	var (
		event string
		err   error
	)
	switch m.game.Phase() {
	case engine.PhaseDefend:
		event = "take"
		err = m.game.Take(m.game.DefenderSeat())
	case engine.PhaseAttack:
		if len(m.game.Table()) == 0 {
			event = "pass"
			err = m.game.PassAttack(m.game.AttackerSeat())
		} else {
			event = "done"
			err = m.game.Done(m.game.AttackerSeat())
		}
	default:
		m.mu.Unlock()
		return
	}

	if err != nil {
		m.mu.Unlock()
		logger.Log.Warnf("room %s timeout default move failed: %v", m.roomID, err)
		return
	}

	logger.Log.Infof("⏰ room %s: turn timed out, auto %s", m.roomID, event)

	m.broadcastState(event)
	ended := m.game.Phase() == engine.PhaseGameEnd
	m.mu.Unlock()

	if ended {
		m.finish()
	} else {
		m.startTurnTimer()
	}
}

func (m *Match) stopTimer() {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()

	m.turnEpoch++
	if m.turnTimer != nil {
		m.turnTimer.Stop()
		m.turnTimer = nil
	}
	if m.offlineWaitTimer != nil {
		m.offlineWaitTimer.Stop()
		m.offlineWaitTimer = nil
	}
}

// --- offline handling ---

// PlayerOffline pauses the clock when the acting player drops, giving
// them the reconnect grace before the default move fires.
func (m *Match) PlayerOffline(playerID string) {
	m.mu.RLock()
	seat := m.game.SeatOf(playerID)
	acting := m.actingSeat()
	m.mu.RUnlock()

	if seat < 0 || seat != acting {
		return
	}

	m.timerMu.Lock()
	defer m.timerMu.Unlock()

	if m.stopped {
		return
	}

	if m.turnTimer != nil {
		m.turnTimer.Stop()
		m.remainingTime = time.Until(m.timerStartTime.Add(m.remainingTime))
		if m.remainingTime < 0 {
			m.remainingTime = 0
		}
		m.turnTimer = nil
	}

	m.turnEpoch++
	epoch := m.turnEpoch
	grace := m.server.config.Game.ReconnectGraceDuration()
	m.offlineWaitTimer = time.AfterFunc(grace, func() { m.handleTurnTimeout(epoch) })

	logger.Log.Infof("⏸️ room %s: clock paused for offline player %s (%v grace)", m.roomID, playerID, grace)
}

// PlayerOnline resumes the paused clock after a reconnect.
func (m *Match) PlayerOnline(playerID string) {
	m.mu.RLock()
	seat := m.game.SeatOf(playerID)
	acting := m.actingSeat()
	m.mu.RUnlock()

	m.timerMu.Lock()
	defer m.timerMu.Unlock()

	if m.offlineWaitTimer != nil {
		m.offlineWaitTimer.Stop()
		m.offlineWaitTimer = nil
	}
	m.turnEpoch++

	if m.stopped || seat < 0 || seat != acting {
		return
	}

	if m.remainingTime > 0 {
		epoch := m.turnEpoch
		m.timerStartTime = time.Now()
		m.turnTimer = time.AfterFunc(m.remainingTime, func() { m.handleTurnTimeout(epoch) })
		logger.Log.Infof("▶️ room %s: clock resumed for %s (%v left)", m.roomID, playerID, m.remainingTime)
	}
}

// Trump exposes the trump suit for tests and diagnostics.
func (m *Match) Trump() card.Suit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.game.Trump()
}
