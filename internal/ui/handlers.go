package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/podkidnoy/durak-server/internal/network/protocol"
)

// handleServerMessage applies a wire frame to the model state.
func (m *OnlineModel) handleServerMessage(msg *protocol.Message) tea.Cmd {
	switch msg.Type {
	case protocol.MsgRoomList:
		payload, err := protocol.ParsePayload[protocol.RoomListPayload](msg)
		if err != nil {
			return nil
		}
		m.rooms = payload.Rooms
		if m.roomIndex >= len(m.rooms) {
			m.roomIndex = 0
		}

	case protocol.MsgRoomJoined:
		payload, err := protocol.ParsePayload[protocol.RoomJoinedPayload](msg)
		if err != nil {
			return nil
		}
		m.room = &payload.Room
		m.ready = payload.You.Status == "ready"
		m.phase = PhaseWaiting
		m.input.Blur()

	case protocol.MsgRoomUpdated:
		payload, err := protocol.ParsePayload[protocol.RoomUpdatedPayload](msg)
		if err != nil {
			return nil
		}
		m.room = &payload.Room
		// the server resets everyone to not-ready when a match ends
		if payload.Room.Phase == "waiting" {
			m.resyncReady()
		}

	case protocol.MsgGameState:
		payload, err := protocol.ParsePayload[protocol.GameStatePayload](msg)
		if err != nil {
			return nil
		}
		m.applyGameState(payload)

	case protocol.MsgGameLegalMoves:
		payload, err := protocol.ParsePayload[protocol.LegalMovesPayload](msg)
		if err != nil {
			return nil
		}
		m.legal = payload

	case protocol.MsgRoomError:
		payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			return nil
		}
		m.error = payload.Message
		return clearErrorAfter(4 * time.Second)

	case protocol.MsgPlayerOffline:
		payload, err := protocol.ParsePayload[protocol.PlayerOfflinePayload](msg)
		if err != nil {
			return nil
		}
		m.notice = fmt.Sprintf("📴 %s disconnected (%ds to reconnect)", payload.PlayerName, payload.Timeout)
		return clearNoticeAfter(5 * time.Second)

	case protocol.MsgPlayerOnline:
		payload, err := protocol.ParsePayload[protocol.PlayerOnlinePayload](msg)
		if err != nil {
			return nil
		}
		m.notice = fmt.Sprintf("🔌 %s is back", payload.PlayerName)
		return clearNoticeAfter(3 * time.Second)

	case protocol.MsgReconnected:
		payload, err := protocol.ParsePayload[protocol.ReconnectedPayload](msg)
		if err != nil {
			return nil
		}
		m.playerID = payload.PlayerID
		m.playerName = payload.PlayerName
		m.room = payload.Room
		if payload.GameState != nil {
			m.applyGameState(payload.GameState)
		} else if payload.Room != nil {
			m.phase = PhaseWaiting
		} else {
			m.phase = PhaseLobby
		}

	case protocol.MsgStatsGet:
		payload, err := protocol.ParsePayload[protocol.PlayerStatsPayload](msg)
		if err != nil {
			return nil
		}
		m.myStats = payload

	case protocol.MsgStatsLeaderboard:
		payload, err := protocol.ParsePayload[protocol.LeaderboardPayload](msg)
		if err != nil {
			return nil
		}
		m.leaderboard = payload.Entries
	}
	return nil
}

func (m *OnlineModel) applyGameState(st *protocol.GameStatePayload) {
	m.state = st
	if m.handCursor >= len(st.Hand) {
		m.handCursor = max(0, len(st.Hand)-1)
	}
	m.tableCur = 0
	if st.Phase == "game_end" {
		m.phase = PhaseGameOver
		m.legal = nil
	} else {
		m.phase = PhasePlaying
	}
}

// resyncReady pulls our ready flag back out of the roster after the
// server resets it.
func (m *OnlineModel) resyncReady() {
	m.ready = false
	for _, p := range m.room.Players {
		if p.ID == m.playerID && p.Status == "ready" {
			m.ready = true
		}
	}
}
