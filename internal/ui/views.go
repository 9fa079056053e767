package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *OnlineModel) View() string {
	var body string
	switch m.phase {
	case PhaseConnecting:
		body = m.connectingView()
	case PhaseLobby:
		body = m.lobbyView()
	case PhaseRoomList:
		body = m.roomListView()
	case PhaseJoinInput:
		body = m.joinInputView()
	case PhaseWaiting:
		body = m.waitingView()
	case PhasePlaying, PhaseGameOver:
		body = m.gameView()
	case PhaseLeaderboard:
		body = m.leaderboardView()
	case PhaseStats:
		body = m.statsView()
	}
	return body + m.statusLine()
}

func (m *OnlineModel) statusLine() string {
	var parts []string
	if m.error != "" {
		parts = append(parts, errorStyle.Render(m.error))
	}
	if m.notice != "" {
		parts = append(parts, okStyle.Render(m.notice))
	}
	if m.latency > 0 {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("ping %dms", m.latency)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "\n\n" + strings.Join(parts, "  ")
}

func (m *OnlineModel) connectingView() string {
	if m.error != "" {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, errorStyle.Render(m.error))
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, "🔌 connecting to server...")
}

var menuItems = []string{
	"Create a table",
	"Browse tables",
	"Join by room id",
	"Leaderboard",
	"My record",
}

func (m *OnlineModel) lobbyView() string {
	var sb strings.Builder

	title := titleStyle("🃏 Durak")
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	sb.WriteString("\n\n")

	if m.playerName != "" {
		sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, "Welcome, "+m.playerName+"!"))
		sb.WriteString("\n\n")
	}

	var menu strings.Builder
	for i, item := range menuItems {
		line := fmt.Sprintf("  %d. %s", i+1, item)
		if i == m.menuIndex {
			line = selectedStyle.Render("▸ " + line[2:])
		}
		menu.WriteString(line + "\n")
	}
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(strings.TrimRight(menu.String(), "\n"))))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center,
		helpStyle.Render("↑/↓ select · enter confirm · q quit")))
	return sb.String()
}

func (m *OnlineModel) roomListView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("🏠 Open tables") + "\n\n")

	if len(m.rooms) == 0 {
		sb.WriteString(dimStyle.Render("Nobody is playing yet. Press r to refresh or esc to go back."))
		return sb.String()
	}
	for i, r := range m.rooms {
		lock := " "
		if r.IsPrivate {
			lock = "🔒"
		}
		line := fmt.Sprintf("%s %-8s %-20s %d/%d  deck %d", lock, r.ID, r.Name, r.PlayerCount, r.MaxPlayers, r.Settings.DeckSize)
		if i == m.roomIndex {
			line = selectedStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString(helpStyle.Render("↑/↓ select · enter join · r refresh · esc back"))
	return sb.String()
}

func (m *OnlineModel) joinInputView() string {
	title := "🔑 Join a table"
	if m.pendingRoomID != "" {
		title = "🔒 Enter the PIN for #" + m.pendingRoomID
	}
	return titleStyle(title) + "\n\n" +
		m.input.View() + "\n" +
		helpStyle.Render("enter join · esc back")
}

func (m *OnlineModel) waitingView() string {
	if m.room == nil {
		return dimStyle.Render("loading room...")
	}
	var sb strings.Builder
	sb.WriteString(titleStyle("🏠 "+m.room.Name) + dimStyle.Render("  #"+m.room.ID) + "\n\n")

	for _, p := range m.room.Players {
		marker := "  "
		if p.ID == m.playerID {
			marker = selectedStyle.Render("▸ ")
		}
		tag := ""
		if p.ID == m.room.OwnerID {
			tag = " 👑"
		}
		status := p.Status
		if status == "ready" {
			status = okStyle.Render("ready")
		}
		sb.WriteString(fmt.Sprintf("%sseat %d  %-16s %s%s\n", marker, p.Seat, p.Name, status, tag))
	}
	sb.WriteString("\n")
	st := m.room.Settings
	sb.WriteString(dimStyle.Render(fmt.Sprintf("deck %d · up to %d players · throw-in %v",
		st.DeckSize, st.MaxPlayers, st.ThrowInEnabled)))
	sb.WriteString("\n")

	help := "r ready · esc leave"
	if m.room.OwnerID == m.playerID {
		help = "s start · " + help
	}
	sb.WriteString(helpStyle.Render(help))
	return sb.String()
}

func (m *OnlineModel) gameView() string {
	if m.state == nil {
		return dimStyle.Render("waiting for the deal...")
	}
	st := m.state
	var sb strings.Builder

	// header: trump, deck, discard
	trump := st.Trump
	if st.TrumpCard != nil {
		trump = cardStyle(st.TrumpCard.Suit).Render(st.TrumpCard.Rank + st.TrumpCard.Suit)
	}
	sb.WriteString(fmt.Sprintf("%s trump %s   deck %d   beaten %d\n\n",
		TrumpIcon, trump, st.DeckCount, st.DiscardCount))

	// opponents
	for _, p := range st.Players {
		if p.ID == m.playerID {
			continue
		}
		role := "  "
		switch p.Seat {
		case st.AttackerSeat:
			role = AttackerIcon
		case st.DefenderSeat:
			role = DefenderIcon
		}
		name := p.Name
		if p.Status == "disconnected" {
			name = dimStyle.Render(name + " (offline)")
		}
		sb.WriteString(fmt.Sprintf("%s %-16s %d cards\n", role, name, p.HandCount))
	}
	sb.WriteString("\n")

	defending := m.mySeat() == st.DefenderSeat
	sb.WriteString(renderTable(st.Table, m.nextOpenAttack(m.tableCur), m.phase == PhasePlaying && defending))
	sb.WriteString("\n\n")

	if m.phase == PhaseGameOver {
		sb.WriteString(m.gameOverLine())
		sb.WriteString("\n\n")
	}

	// own hand
	role := AttackerIcon
	if defending {
		role = DefenderIcon
	}
	sb.WriteString(fmt.Sprintf("%s your hand:\n", role))
	sb.WriteString(renderHand(st.Hand, m.handCursor, m.phase == PhasePlaying))
	sb.WriteString("\n")

	if m.phase == PhaseGameOver {
		sb.WriteString(helpStyle.Render("enter back to room"))
	} else {
		sb.WriteString(helpStyle.Render(m.gameHelp(defending)))
	}
	return sb.String()
}

func (m *OnlineModel) gameHelp(defending bool) string {
	parts := []string{"←/→ pick card", "enter play"}
	if defending {
		parts = append(parts, "tab switch attack")
		if m.legal == nil || m.legal.CanTake {
			parts = append(parts, "t take")
		}
	} else if m.legal != nil && m.legal.CanDone {
		parts = append(parts, "d done")
	}
	parts = append(parts, "esc leave")
	return strings.Join(parts, " · ")
}

func (m *OnlineModel) gameOverLine() string {
	st := m.state
	if st.DurakSeat == nil {
		return okStyle.Render("🤝 Draw: the last cards left together.")
	}
	for _, p := range st.Players {
		if p.Seat == *st.DurakSeat {
			if p.ID == m.playerID {
				return errorStyle.Render(DurakIcon + " You are the durak!")
			}
			return okStyle.Render(fmt.Sprintf("%s %s is the durak. You escaped!", DurakIcon, p.Name))
		}
	}
	return ""
}

func (m *OnlineModel) leaderboardView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("🏆 Leaderboard") + "\n\n")
	if len(m.leaderboard) == 0 {
		sb.WriteString(dimStyle.Render("No games recorded yet."))
	} else {
		sb.WriteString(fmt.Sprintf("%-4s %-16s %6s %8s %8s\n", "#", "player", "score", "escapes", "rate"))
		for _, e := range m.leaderboard {
			sb.WriteString(fmt.Sprintf("%-4d %-16s %6d %8d %7.1f%%\n",
				e.Rank, e.PlayerName, e.Score, e.Escapes, e.EscapeRate))
		}
	}
	sb.WriteString(helpStyle.Render("esc back"))
	return sb.String()
}

func (m *OnlineModel) statsView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("📊 My record") + "\n\n")
	if m.myStats == nil || m.myStats.TotalGames == 0 {
		sb.WriteString(dimStyle.Render("No games played yet."))
	} else {
		s := m.myStats
		rate := float64(s.Escapes) / float64(s.TotalGames) * 100
		sb.WriteString(fmt.Sprintf("games   %d\nescapes %d\ndurak   %d\nscore   %d\nrate    %.1f%%\n",
			s.TotalGames, s.Escapes, s.DurakCount, s.Score, rate))
	}
	sb.WriteString(helpStyle.Render("esc back"))
	return sb.String()
}
