package server

import (
	"errors"
	"time"

	"github.com/podkidnoy/durak-server/internal/game/engine"
	"github.com/podkidnoy/durak-server/internal/logger"
	"github.com/podkidnoy/durak-server/internal/network/protocol"
)

// Handler routes inbound messages to the right subsystem.
type Handler struct {
	server *Server
}

func NewHandler(s *Server) *Handler {
	return &Handler{server: s}
}

// Handle dispatches one decoded message. A panic in a handler must not
// take the read pump down with it.
func (h *Handler) Handle(client *Client, msg *protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("panic handling %s from %s: %v", msg.Type, client.ID, r)
			client.SendMessage(protocol.NewErrorMessage(protocol.CodeInvalidMsg))
		}
	}()

	switch msg.Type {
	// connection
	case protocol.MsgPing:
		h.handlePing(client, msg)
	case protocol.MsgReconnect:
		h.handleReconnect(client, msg)

	// rooms
	case protocol.MsgRoomList:
		h.handleRoomList(client)
	case protocol.MsgRoomCreate:
		h.handleCreateRoom(client, msg)
	case protocol.MsgRoomJoin:
		h.handleJoinRoom(client, msg)
	case protocol.MsgRoomReady:
		h.handleReady(client, msg)
	case protocol.MsgRoomLeave:
		h.handleLeaveRoom(client)

	// game
	case protocol.MsgGameStart:
		h.handleGameStart(client)
	case protocol.MsgGameAttack:
		h.handleAttack(client, msg)
	case protocol.MsgGameDefend:
		h.handleDefend(client, msg)
	case protocol.MsgGameThrowIn:
		h.handleThrowIn(client, msg)
	case protocol.MsgGameTake:
		h.handleTake(client)
	case protocol.MsgGameDone:
		h.handleDone(client)

	// stats
	case protocol.MsgStatsGet:
		h.handleStatsGet(client)
	case protocol.MsgStatsLeaderboard:
		h.handleLeaderboard(client, msg)

	default:
		logger.Log.Warnf("unknown message type: %s", msg.Type)
		client.SendMessage(protocol.NewErrorMessage(protocol.CodeInvalidMsg))
	}
}

// sendError maps internal errors onto wire error frames.
func (h *Handler) sendError(client *Client, err error) {
	var gameErr *protocol.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(protocol.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}

	var moveErr *engine.MoveError
	if errors.As(err, &moveErr) {
		client.SendMessage(protocol.NewErrorMessageWithText(moveErr.Code, moveErr.Message))
		return
	}

	client.SendMessage(protocol.NewErrorMessageWithText(protocol.CodeInvalidMsg, err.Error()))
}

func (h *Handler) handlePing(client *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleReconnect restores a dropped player's identity, seat and game
// view from their reconnect token.
func (h *Handler) handleReconnect(client *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.ReconnectPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.CodeInvalidMsg))
		return
	}

	if !h.server.sessionManager.CanReconnect(payload.Token, payload.PlayerID) {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.CodeNotFound, "reconnect token invalid or expired"))
		return
	}

	session := h.server.sessionManager.GetSession(payload.PlayerID)
	if session == nil {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.CodeNotFound, "session not found"))
		return
	}

	// adopt the old identity on the new connection
	oldID := client.ID
	client.ID = session.PlayerID
	client.Name = session.PlayerName

	h.server.clientsMu.Lock()
	delete(h.server.clients, oldID)
	h.server.clients[client.ID] = client
	h.server.clientsMu.Unlock()

	h.server.sessionManager.SetOnline(client.ID)

	reconnected := protocol.ReconnectedPayload{
		PlayerID:   client.ID,
		PlayerName: client.Name,
	}

	if session.RoomID != "" {
		client.SetRoom(session.RoomID)
		room, err := h.server.roomManager.ReconnectPlayer(client)
		if err == nil && room != nil {
			reconnected.RoomID = room.ID
			info := room.Info()
			reconnected.Room = &info

			if match := room.GetMatch(); match != nil {
				reconnected.GameState = match.StateFor(client.ID)
			}
		} else {
			client.SetRoom("")
		}
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgReconnected, reconnected))

	logger.Log.Infof("🔄 player %s (%s) reconnected", client.Name, client.ID)
}
