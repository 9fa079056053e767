package server

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/podkidnoy/durak-server/internal/logger"
	"github.com/podkidnoy/durak-server/internal/network/protocol"
	"github.com/podkidnoy/durak-server/internal/network/server/storage"
)

const (
	roomIDLength = 6
	roomIDChars  = "0123456789"

	minPlayers = 2
	maxPlayers = 6
)

// RoomState is the coarse room lifecycle; the match tracks the fine
// per-turn phases.
type RoomState int

const (
	RoomStateWaiting RoomState = iota
	RoomStatePlaying
	RoomStateEnded
)

func (s RoomState) String() string {
	switch s {
	case RoomStateWaiting:
		return "waiting"
	case RoomStatePlaying:
		return "playing"
	case RoomStateEnded:
		return "ended"
	}
	return "unknown"
}

// RoomPlayer is one seated player.
type RoomPlayer struct {
	Client  *Client
	Seat    int
	Ready   bool
	Offline bool
}

// Room is a lobby-to-game container. All state transitions for one room
// run under its mutex, so match moves are serialized per room.
type Room struct {
	ID        string
	Name      string
	OwnerID   string
	IsPrivate bool
	Pin       string
	State     RoomState
	Settings  protocol.RoomSettings

	Players     map[string]*RoomPlayer
	PlayerOrder []string // join order; index is the seat
	CreatedAt   time.Time

	match  *Match
	server *Server
	mu     sync.RWMutex
}

// RoomManager is the room registry.
type RoomManager struct {
	server *Server
	rooms  map[string]*Room
	mu     sync.RWMutex
}

func NewRoomManager(s *Server) *RoomManager {
	rm := &RoomManager{
		server: s,
		rooms:  make(map[string]*Room),
	}

	go rm.cleanupLoop()

	return rm
}

// CreateRoom opens a room with the creator seated as owner.
func (rm *RoomManager) CreateRoom(client *Client, name string, isPrivate bool, pin string, settings protocol.RoomSettings) (*Room, error) {
	if isPrivate && pin == "" {
		return nil, ErrInvalidPin
	}
	if settings.MaxPlayers < minPlayers || settings.MaxPlayers > maxPlayers {
		return nil, ErrBadSettings
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	id := rm.generateRoomID()
	if name == "" {
		name = client.Name + "'s table"
	}

	room := &Room{
		ID:          id,
		Name:        name,
		OwnerID:     client.ID,
		IsPrivate:   isPrivate,
		Pin:         pin,
		State:       RoomStateWaiting,
		Settings:    settings,
		Players:     make(map[string]*RoomPlayer),
		PlayerOrder: make([]string, 0, settings.MaxPlayers),
		CreatedAt:   time.Now(),
		server:      rm.server,
	}

	room.Players[client.ID] = &RoomPlayer{Client: client, Seat: 0}
	room.PlayerOrder = append(room.PlayerOrder, client.ID)
	client.SetRoom(id)
	rm.server.sessionManager.SetRoom(client.ID, id)

	rm.rooms[id] = room
	rm.server.monitor.SetActiveRooms(len(rm.rooms))

	go func() { _ = rm.server.redisStore.SaveRoom(context.Background(), room.Record()) }()

	logger.Log.Infof("🏠 room %s (%s) created by %s", id, name, client.Name)

	return room, nil
}

// JoinRoom seats a player, enforcing the PIN on private rooms.
func (rm *RoomManager) JoinRoom(client *Client, id, pin string) (*Room, error) {
	rm.mu.RLock()
	room, exists := rm.rooms[id]
	rm.mu.RUnlock()
	if !exists {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.IsPrivate && room.Pin != pin {
		return nil, ErrInvalidPin
	}
	if len(room.Players) >= room.Settings.MaxPlayers {
		return nil, ErrRoomFull
	}
	if room.State != RoomStateWaiting {
		return nil, ErrGameStarted
	}

	seat := len(room.PlayerOrder)
	room.Players[client.ID] = &RoomPlayer{Client: client, Seat: seat}
	room.PlayerOrder = append(room.PlayerOrder, client.ID)
	client.SetRoom(id)
	rm.server.sessionManager.SetRoom(client.ID, id)

	logger.Log.Infof("👤 player %s joined room %s (seat %d)", client.Name, id, seat)

	room.broadcastRoomUpdate()

	go func() { _ = rm.server.redisStore.SaveRoom(context.Background(), room.Record()) }()

	return room, nil
}

// LeaveRoom unseats a player. The lowest remaining seat inherits
// ownership; an emptied room is deleted. Leaving mid-game aborts the
// match for everyone.
func (rm *RoomManager) LeaveRoom(client *Client) {
	roomID := client.GetRoom()
	if roomID == "" {
		return
	}

	rm.mu.RLock()
	room, exists := rm.rooms[roomID]
	rm.mu.RUnlock()
	if !exists {
		client.SetRoom("")
		return
	}

	room.mu.Lock()

	player, exists := room.Players[client.ID]
	if !exists {
		room.mu.Unlock()
		client.SetRoom("")
		return
	}

	aborted := room.State == RoomStatePlaying

	delete(room.Players, client.ID)
	for i, id := range room.PlayerOrder {
		if id == client.ID {
			room.PlayerOrder = append(room.PlayerOrder[:i], room.PlayerOrder[i+1:]...)
			break
		}
	}
	// seats follow join order
	for i, id := range room.PlayerOrder {
		room.Players[id].Seat = i
	}
	client.SetRoom("")
	rm.server.sessionManager.SetRoom(client.ID, "")

	logger.Log.Infof("👋 player %s left room %s (seat %d)", client.Name, roomID, player.Seat)

	if aborted {
		room.State = RoomStateWaiting
		if room.match != nil {
			room.match.Stop()
			room.match = nil
			rm.server.monitor.DecGamesInProgress()
		}
		for _, p := range room.Players {
			p.Ready = false
		}
		room.broadcastMessage(protocol.NewErrorMessageWithText(
			protocol.CodeNotReady, client.Name+" left, the game was cancelled"))
	}

	if room.OwnerID == client.ID && len(room.PlayerOrder) > 0 {
		room.OwnerID = room.PlayerOrder[0]
		logger.Log.Infof("👑 room %s ownership passed to %s", roomID, room.OwnerID)
	}

	empty := len(room.Players) == 0
	if !empty {
		room.broadcastRoomUpdate()
	}
	room.mu.Unlock()

	if empty {
		rm.mu.Lock()
		delete(rm.rooms, roomID)
		rm.server.monitor.SetActiveRooms(len(rm.rooms))
		rm.mu.Unlock()
		go func() { _ = rm.server.redisStore.DeleteRoom(context.Background(), roomID) }()
		logger.Log.Infof("🏠 room %s dissolved", roomID)
	} else {
		go func() { _ = rm.server.redisStore.SaveRoom(context.Background(), room.Record()) }()
	}
}

// SetPlayerReady flips a ready flag and reports the room for broadcast.
func (rm *RoomManager) SetPlayerReady(client *Client, ready bool) (*Room, error) {
	roomID := client.GetRoom()
	if roomID == "" {
		return nil, ErrNotInRoom
	}

	rm.mu.RLock()
	room, exists := rm.rooms[roomID]
	rm.mu.RUnlock()
	if !exists {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	player, exists := room.Players[client.ID]
	if !exists {
		return nil, ErrNotInRoom
	}
	if room.State != RoomStateWaiting {
		return nil, ErrGameStarted
	}

	player.Ready = ready
	room.broadcastRoomUpdate()

	return room, nil
}

// StartGame begins the match. Only the owner may start, and every other
// seat must be ready.
func (rm *RoomManager) StartGame(client *Client) error {
	roomID := client.GetRoom()
	if roomID == "" {
		return ErrNotInRoom
	}

	rm.mu.RLock()
	room, exists := rm.rooms[roomID]
	rm.mu.RUnlock()
	if !exists {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.State != RoomStateWaiting {
		return ErrGameStarted
	}
	if room.OwnerID != client.ID {
		return ErrNotReady
	}
	if len(room.Players) < minPlayers {
		return ErrNotReady
	}
	for id, p := range room.Players {
		if id != room.OwnerID && !p.Ready {
			return ErrNotReady
		}
	}

	match, err := NewMatch(room)
	if err != nil {
		return err
	}

	room.State = RoomStatePlaying
	room.match = match
	rm.server.monitor.IncGamesInProgress()

	room.broadcastRoomUpdate()
	match.Start()

	go func() { _ = rm.server.redisStore.SaveRoom(context.Background(), room.Record()) }()

	logger.Log.Infof("🎮 room %s started a game with %d players", roomID, len(room.Players))

	return nil
}

func (rm *RoomManager) GetRoom(id string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[id]
}

// GetRoomList returns joinable rooms for the lobby. Private rooms are
// listed with the flag set and still need the PIN to join; full or
// in-game rooms are hidden.
func (rm *RoomManager) GetRoomList() []protocol.RoomSummary {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	rooms := make([]protocol.RoomSummary, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		room.mu.RLock()
		if room.State == RoomStateWaiting && len(room.Players) < room.Settings.MaxPlayers {
			rooms = append(rooms, protocol.RoomSummary{
				ID:          room.ID,
				Name:        room.Name,
				PlayerCount: len(room.Players),
				MaxPlayers:  room.Settings.MaxPlayers,
				IsPrivate:   room.IsPrivate,
				Settings:    room.Settings,
			})
		}
		room.mu.RUnlock()
	}
	return rooms
}

// HandleDisconnect unseats a lobby player outright; a mid-game player
// keeps the seat for the reconnect grace.
func (rm *RoomManager) HandleDisconnect(client *Client) {
	roomID := client.GetRoom()
	if roomID == "" {
		return
	}

	rm.mu.RLock()
	room, exists := rm.rooms[roomID]
	rm.mu.RUnlock()
	if !exists {
		client.SetRoom("")
		return
	}

	room.mu.RLock()
	playing := room.State == RoomStatePlaying
	room.mu.RUnlock()

	if playing {
		rm.NotifyPlayerOffline(client)
	} else {
		rm.LeaveRoom(client)
	}
}

// NotifyPlayerOffline marks a dropped player and pauses their turn.
func (rm *RoomManager) NotifyPlayerOffline(client *Client) {
	roomID := client.GetRoom()
	if roomID == "" {
		return
	}

	rm.mu.RLock()
	room, exists := rm.rooms[roomID]
	rm.mu.RUnlock()
	if !exists {
		return
	}

	room.mu.Lock()

	player, ok := room.Players[client.ID]
	if !ok {
		room.mu.Unlock()
		return
	}
	player.Offline = true

	grace := int(rm.server.config.Game.ReconnectGraceDuration().Seconds())
	for id, p := range room.Players {
		if id != client.ID && p.Client != nil {
			p.Client.SendMessage(protocol.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
				PlayerID:   client.ID,
				PlayerName: client.Name,
				Timeout:    grace,
			}))
		}
	}

	match := room.match
	room.mu.Unlock()

	if match != nil {
		match.PlayerOffline(client.ID)
	}

	logger.Log.Infof("📴 player %s went offline in room %s", client.Name, roomID)
}

// ReconnectPlayer swaps the live connection behind a seat.
func (rm *RoomManager) ReconnectPlayer(client *Client) (*Room, error) {
	roomID := client.GetRoom()
	if roomID == "" {
		return nil, nil
	}

	rm.mu.RLock()
	room, exists := rm.rooms[roomID]
	rm.mu.RUnlock()
	if !exists {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()

	player, exists := room.Players[client.ID]
	if !exists {
		room.mu.Unlock()
		return nil, ErrNotInRoom
	}

	player.Client = client
	player.Offline = false

	for id, p := range room.Players {
		if id != client.ID && p.Client != nil {
			p.Client.SendMessage(protocol.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
				PlayerID:   client.ID,
				PlayerName: client.Name,
			}))
		}
	}

	match := room.match
	room.mu.Unlock()

	if match != nil {
		match.PlayerOnline(client.ID)
	}

	logger.Log.Infof("📶 player %s reconnected to room %s", client.Name, roomID)

	return room, nil
}

func (rm *RoomManager) generateRoomID() string {
	for {
		id := make([]byte, roomIDLength)
		for i := range id {
			id[i] = roomIDChars[rand.IntN(len(roomIDChars))]
		}
		idStr := string(id)
		if _, exists := rm.rooms[idStr]; !exists {
			return idStr
		}
	}
}

func (rm *RoomManager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rm.cleanup()
	}
}

// cleanup evicts lobbies that never started.
func (rm *RoomManager) cleanup() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	timeout := rm.server.config.Game.RoomTimeoutDuration()
	now := time.Now()

	for id, room := range rm.rooms {
		room.mu.Lock()
		if room.State == RoomStateWaiting && now.Sub(room.CreatedAt) > timeout {
			room.broadcastMessage(protocol.NewErrorMessageWithText(protocol.CodeNotFound, "room timed out"))
			for _, p := range room.Players {
				p.Client.SetRoom("")
			}
			delete(rm.rooms, id)
			logger.Log.Infof("🏠 idle room %s evicted", id)
		}
		room.mu.Unlock()
	}
	rm.server.monitor.SetActiveRooms(len(rm.rooms))
}

// GetActiveGamesCount counts rooms with a match in progress.
func (rm *RoomManager) GetActiveGamesCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	count := 0
	for _, room := range rm.rooms {
		room.mu.RLock()
		if room.State == RoomStatePlaying {
			count++
		}
		room.mu.RUnlock()
	}
	return count
}

// --- Room methods ---

// broadcastMessage delivers a frame to every seated player. Callers hold
// at most the read lock.
func (r *Room) broadcastMessage(msg *protocol.Message) {
	for _, player := range r.Players {
		if player.Client != nil {
			player.Client.SendMessage(msg)
		}
	}
}

// broadcastRoomUpdate pushes the member view after any roster change.
// Caller holds r.mu.
func (r *Room) broadcastRoomUpdate() {
	msg := protocol.MustNewMessage(protocol.MsgRoomUpdated, protocol.RoomUpdatedPayload{
		Room: r.infoLocked(),
	})
	r.broadcastMessage(msg)
}

// Info returns the full member view of the room.
func (r *Room) Info() protocol.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.infoLocked()
}

func (r *Room) infoLocked() protocol.RoomInfo {
	return protocol.RoomInfo{
		ID:        r.ID,
		Name:      r.Name,
		OwnerID:   r.OwnerID,
		IsPrivate: r.IsPrivate,
		Phase:     r.State.String(),
		Settings:  r.Settings,
		Players:   r.playersInfoLocked(),
	}
}

func (r *Room) playersInfoLocked() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, len(r.PlayerOrder))
	for _, id := range r.PlayerOrder {
		infos = append(infos, r.playerInfoLocked(id))
	}
	return infos
}

func (r *Room) playerInfoLocked(playerID string) protocol.PlayerInfo {
	player := r.Players[playerID]
	status := "idle"
	switch {
	case player.Offline:
		status = "disconnected"
	case r.State == RoomStatePlaying:
		status = "playing"
	case player.Ready || playerID == r.OwnerID:
		status = "ready"
	}

	handCount := 0
	if r.match != nil {
		handCount = r.match.GetPlayerHandCount(playerID)
	}

	return protocol.PlayerInfo{
		ID:        player.Client.ID,
		Name:      player.Client.Name,
		Seat:      player.Seat,
		Status:    status,
		HandCount: handCount,
	}
}

// PlayerInfoFor builds the wire view of one seat.
func (r *Room) PlayerInfoFor(playerID string) protocol.PlayerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.playerInfoLocked(playerID)
}

// Record snapshots the room for persistence.
func (r *Room) Record() storage.RoomRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]storage.PlayerRecord, 0, len(r.PlayerOrder))
	for _, id := range r.PlayerOrder {
		p := r.Players[id]
		players = append(players, storage.PlayerRecord{
			ID:    id,
			Name:  p.Client.Name,
			Seat:  p.Seat,
			Ready: p.Ready,
		})
	}

	return storage.RoomRecord{
		ID:        r.ID,
		Name:      r.Name,
		OwnerID:   r.OwnerID,
		IsPrivate: r.IsPrivate,
		State:     r.State.String(),
		DeckSize:  r.Settings.DeckSize,
		Players:   players,
		CreatedAt: r.CreatedAt.Unix(),
	}
}

// GetMatch returns the running match, if any.
func (r *Room) GetMatch() *Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.match
}

// endMatch returns the room to the lobby once a game concludes.
func (r *Room) endMatch() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != RoomStatePlaying {
		return
	}
	r.State = RoomStateWaiting
	r.match = nil
	for _, p := range r.Players {
		p.Ready = false
	}
	r.server.monitor.DecGamesInProgress()
	r.server.monitor.IncGamesFinished()
	r.broadcastRoomUpdate()
}

// --- errors ---

var (
	ErrRoomNotFound = protocol.NewGameError(protocol.CodeNotFound)
	ErrInvalidPin   = protocol.NewGameError(protocol.CodeInvalidPin)
	ErrRoomFull     = protocol.NewGameError(protocol.CodeRoomFull)
	ErrNotReady     = protocol.NewGameError(protocol.CodeNotReady)
	ErrNotInRoom    = protocol.NewGameError(protocol.CodeNotInRoom)
	ErrGameStarted  = protocol.NewGameError(protocol.CodeGameStarted)
	ErrBadSettings  = &protocol.GameError{Code: protocol.CodeInvalidMsg, Message: "unsupported room settings"}
)
