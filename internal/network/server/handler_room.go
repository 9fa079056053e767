package server

import (
	"github.com/podkidnoy/durak-server/internal/network/protocol"
)

func (h *Handler) handleRoomList(client *Client) {
	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomList, protocol.RoomListPayload{
		Rooms: h.server.roomManager.GetRoomList(),
	}))
}

// defaultRoomSettings pulls the configured table rules.
func (h *Handler) defaultRoomSettings() protocol.RoomSettings {
	game := h.server.config.Game
	return protocol.RoomSettings{
		DeckSize:           game.DeckSize,
		MaxPlayers:         game.MaxPlayers,
		MaxAttacksPerRound: game.MaxAttacksPerRound,
		ThrowInEnabled:     game.ThrowInEnabled,
		TurnTimers: protocol.TurnTimers{
			Attack:  game.AttackTimeout,
			Defend:  game.DefendTimeout,
			Between: game.BetweenTimeout,
		},
	}
}

func (h *Handler) handleCreateRoom(client *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.CodeInvalidMsg))
		return
	}

	if client.GetRoom() != "" {
		h.server.roomManager.LeaveRoom(client)
	}

	settings := h.defaultRoomSettings()
	if payload.Settings != nil {
		s := *payload.Settings
		if s.DeckSize != 0 {
			settings.DeckSize = s.DeckSize
		}
		if s.MaxPlayers != 0 {
			settings.MaxPlayers = s.MaxPlayers
		}
		if s.MaxAttacksPerRound != 0 {
			settings.MaxAttacksPerRound = s.MaxAttacksPerRound
		}
		settings.ThrowInEnabled = s.ThrowInEnabled
	}

	room, err := h.server.roomManager.CreateRoom(client, payload.Name, payload.IsPrivate, payload.Pin, settings)
	if err != nil {
		h.sendError(client, err)
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		Room: room.Info(),
		You:  room.PlayerInfoFor(client.ID),
	}))

	h.broadcastLobbyRooms()
}

func (h *Handler) handleJoinRoom(client *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.CodeInvalidMsg))
		return
	}

	if client.GetRoom() != "" {
		h.server.roomManager.LeaveRoom(client)
	}

	room, err := h.server.roomManager.JoinRoom(client, payload.RoomID, payload.Pin)
	if err != nil {
		h.sendError(client, err)
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		Room: room.Info(),
		You:  room.PlayerInfoFor(client.ID),
	}))

	h.broadcastLobbyRooms()
}

func (h *Handler) handleReady(client *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.ReadyPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.CodeInvalidMsg))
		return
	}

	if _, err := h.server.roomManager.SetPlayerReady(client, payload.Ready); err != nil {
		h.sendError(client, err)
	}
}

func (h *Handler) handleLeaveRoom(client *Client) {
	h.server.roomManager.LeaveRoom(client)
	h.broadcastLobbyRooms()
}

// broadcastLobbyRooms refreshes the room list for everyone still in the
// lobby.
func (h *Handler) broadcastLobbyRooms() {
	h.server.BroadcastToLobby(protocol.MustNewMessage(protocol.MsgRoomList, protocol.RoomListPayload{
		Rooms: h.server.roomManager.GetRoomList(),
	}))
}
