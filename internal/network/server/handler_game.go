package server

import (
	"github.com/podkidnoy/durak-server/internal/network/protocol"
)

func (h *Handler) handleGameStart(client *Client) {
	if err := h.server.roomManager.StartGame(client); err != nil {
		h.sendError(client, err)
		return
	}
	h.broadcastLobbyRooms()
}

// matchFor resolves the running match for a client, reporting wire
// errors itself.
func (h *Handler) matchFor(client *Client) *Match {
	room := h.server.roomManager.GetRoom(client.GetRoom())
	if room == nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.CodeNotInRoom))
		return nil
	}

	match := room.GetMatch()
	if match == nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.CodeNotReady))
		return nil
	}
	return match
}

func (h *Handler) handleAttack(client *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.AttackPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.CodeInvalidMsg))
		return
	}

	match := h.matchFor(client)
	if match == nil {
		return
	}

	if err := match.HandleAttack(client.ID, payload.CardID); err != nil {
		h.sendError(client, err)
	}
}

func (h *Handler) handleThrowIn(client *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.AttackPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.CodeInvalidMsg))
		return
	}

	match := h.matchFor(client)
	if match == nil {
		return
	}

	if err := match.HandleThrowIn(client.ID, payload.CardID); err != nil {
		h.sendError(client, err)
	}
}

func (h *Handler) handleDefend(client *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.DefendPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.CodeInvalidMsg))
		return
	}

	match := h.matchFor(client)
	if match == nil {
		return
	}

	if err := match.HandleDefend(client.ID, payload.AttackCardID, payload.DefendCardID); err != nil {
		h.sendError(client, err)
	}
}

func (h *Handler) handleTake(client *Client) {
	match := h.matchFor(client)
	if match == nil {
		return
	}

	if err := match.HandleTake(client.ID); err != nil {
		h.sendError(client, err)
	}
}

func (h *Handler) handleDone(client *Client) {
	match := h.matchFor(client)
	if match == nil {
		return
	}

	if err := match.HandleDone(client.ID); err != nil {
		h.sendError(client, err)
	}
}
