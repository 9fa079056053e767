package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress routes a key to the active screen. The bool result says
// whether the key was consumed.
func (m *OnlineModel) handleKeyPress(msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.client.Close()
		return true, tea.Quit
	}

	switch m.phase {
	case PhaseConnecting:
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			m.client.Close()
			return true, tea.Quit
		}

	case PhaseLobby:
		return m.handleLobbyKeys(msg)

	case PhaseRoomList:
		return m.handleRoomListKeys(msg)

	case PhaseJoinInput:
		switch msg.Type {
		case tea.KeyEsc:
			m.phase = PhaseLobby
			m.pendingRoomID = ""
			m.input.Reset()
			return true, nil
		case tea.KeyEnter:
			value := m.input.Value()
			m.input.Reset()
			if m.pendingRoomID != "" {
				m.send(m.client.JoinRoom(m.pendingRoomID, value))
				m.pendingRoomID = ""
			} else if value != "" {
				m.send(m.client.JoinRoom(value, ""))
			}
			return true, nil
		}
		return false, nil // let the textinput eat it

	case PhaseWaiting:
		return m.handleWaitingKeys(msg)

	case PhasePlaying:
		return m.handleGameKeys(msg)

	case PhaseGameOver:
		switch msg.String() {
		case "enter", "esc":
			m.phase = PhaseWaiting
			m.state = nil
			m.legal = nil
			return true, nil
		}

	case PhaseLeaderboard, PhaseStats:
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			m.phase = PhaseLobby
			return true, nil
		}
	}
	return true, nil
}

func (m *OnlineModel) handleLobbyKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.client.Close()
		return true, tea.Quit
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < 4 {
			m.menuIndex++
		}
	case "1", "2", "3", "4", "5":
		m.menuIndex = int(msg.String()[0] - '1')
		return m.runMenuItem()
	case "enter":
		return m.runMenuItem()
	}
	return true, nil
}

func (m *OnlineModel) runMenuItem() (bool, tea.Cmd) {
	switch m.menuIndex {
	case 0: // create room
		m.send(m.client.CreateRoom(m.playerName+"'s table", false, "", nil))
	case 1: // browse rooms
		m.send(m.client.ListRooms())
		m.phase = PhaseRoomList
	case 2: // join by id
		m.phase = PhaseJoinInput
		m.input.Placeholder = "room id"
		m.input.Focus()
	case 3: // leaderboard
		m.send(m.client.GetLeaderboard(10))
		m.phase = PhaseLeaderboard
	case 4: // my stats
		m.send(m.client.GetStats())
		m.phase = PhaseStats
	}
	return true, nil
}

func (m *OnlineModel) handleRoomListKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.phase = PhaseLobby
	case "up", "k":
		if m.roomIndex > 0 {
			m.roomIndex--
		}
	case "down", "j":
		if m.roomIndex < len(m.rooms)-1 {
			m.roomIndex++
		}
	case "r":
		m.send(m.client.ListRooms())
	case "enter":
		if m.roomIndex < len(m.rooms) {
			r := m.rooms[m.roomIndex]
			if r.IsPrivate {
				m.pendingRoomID = r.ID
				m.phase = PhaseJoinInput
				m.input.Placeholder = "pin"
				m.input.Focus()
			} else {
				m.send(m.client.JoinRoom(r.ID, ""))
			}
		}
	}
	return true, nil
}

func (m *OnlineModel) handleWaitingKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.room == nil {
		return true, nil
	}
	switch msg.String() {
	case "r":
		m.ready = !m.ready
		m.send(m.client.Ready(m.room.ID, m.ready))
	case "s":
		m.send(m.client.StartGame(m.room.ID))
	case "esc", "q":
		m.send(m.client.LeaveRoom(m.room.ID))
		m.leaveRoomLocally()
	}
	return true, nil
}

func (m *OnlineModel) handleGameKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.room == nil || m.state == nil {
		return true, nil
	}
	switch msg.String() {
	case "left", "h":
		if m.handCursor > 0 {
			m.handCursor--
		}
	case "right", "l":
		if m.handCursor < len(m.state.Hand)-1 {
			m.handCursor++
		}
	case "tab":
		m.tableCur = m.nextOpenAttack(m.tableCur + 1)
	case "enter", " ":
		m.playCursorCard()
	case "t":
		m.send(m.client.Take(m.room.ID))
	case "d":
		m.send(m.client.Done(m.room.ID))
	case "esc":
		m.send(m.client.LeaveRoom(m.room.ID))
		m.leaveRoomLocally()
	}
	return true, nil
}

// playCursorCard sends the move that fits the viewer's role: defenders
// cover the selected open attack, everyone else attacks or throws in.
func (m *OnlineModel) playCursorCard() {
	if m.handCursor >= len(m.state.Hand) {
		return
	}
	cardID := m.state.Hand[m.handCursor].ID
	if m.mySeat() == m.state.DefenderSeat {
		idx := m.nextOpenAttack(m.tableCur)
		if idx < 0 {
			return
		}
		m.send(m.client.Defend(m.room.ID, m.state.Table[idx].Attack.ID, cardID))
		return
	}
	if len(m.state.Table) == 0 || m.mySeat() == m.state.AttackerSeat {
		m.send(m.client.Attack(m.room.ID, cardID))
	} else {
		m.send(m.client.ThrowIn(m.room.ID, cardID))
	}
}

// nextOpenAttack finds the first uncovered attack at or after from,
// wrapping around. Returns -1 when everything is covered.
func (m *OnlineModel) nextOpenAttack(from int) int {
	n := len(m.state.Table)
	if n == 0 {
		return -1
	}
	for i := range n {
		idx := (from + i) % n
		if m.state.Table[idx].Defend == nil {
			return idx
		}
	}
	return -1
}

func (m *OnlineModel) mySeat() int {
	if m.room == nil {
		return -1
	}
	for _, p := range m.room.Players {
		if p.ID == m.playerID {
			return p.Seat
		}
	}
	return -1
}

func (m *OnlineModel) leaveRoomLocally() {
	m.phase = PhaseLobby
	m.room = nil
	m.state = nil
	m.legal = nil
	m.ready = false
}

// send surfaces a local send failure on the error line.
func (m *OnlineModel) send(err error) {
	if err != nil {
		m.error = err.Error()
	}
}
