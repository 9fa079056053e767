// Package ui is the terminal client: a Bubble Tea program that speaks
// the wire protocol through the network client and renders the lobby,
// the room roster and the table.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/podkidnoy/durak-server/internal/network/client"
	"github.com/podkidnoy/durak-server/internal/network/protocol"
)

// Phase is the screen the model is currently showing.
type Phase int

const (
	PhaseConnecting Phase = iota
	PhaseLobby
	PhaseRoomList
	PhaseJoinInput
	PhaseWaiting
	PhasePlaying
	PhaseGameOver
	PhaseLeaderboard
	PhaseStats
)

// ServerMessage wraps a wire frame as a tea.Msg.
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg signals the initial connect finished.
type ConnectedMsg struct{}

// ConnectionErrorMsg carries a dial or read failure.
type ConnectionErrorMsg struct {
	Err error
}

// ReconnectSuccessMsg signals the client re-established the session.
type ReconnectSuccessMsg struct{}

// ClearErrorMsg clears the transient error line.
type ClearErrorMsg struct{}

// ClearNoticeMsg clears the transient notice line.
type ClearNoticeMsg struct{}

// OnlineModel is the root Bubble Tea model.
type OnlineModel struct {
	client *client.Client
	phase  Phase

	playerID   string
	playerName string
	latency    int64

	error  string
	notice string

	// lobby
	menuIndex     int
	rooms         []protocol.RoomSummary
	roomIndex     int
	pendingRoomID string // private room awaiting its PIN

	// room + game
	room       *protocol.RoomInfo
	state      *protocol.GameStatePayload
	legal      *protocol.LegalMovesPayload
	handCursor int
	tableCur   int // open attack selected while defending
	ready      bool

	// stats
	leaderboard []protocol.LeaderboardEntryPayload
	myStats     *protocol.PlayerStatsPayload

	reconnectChan chan tea.Msg

	input  textinput.Model
	width  int
	height int
}

// NewOnlineModel builds the model around a fresh client for serverURL.
func NewOnlineModel(serverURL string) *OnlineModel {
	ti := textinput.New()
	ti.Placeholder = "room id"
	ti.CharLimit = 12
	ti.Width = 20

	c := client.NewClient(serverURL)
	reconnectChan := make(chan tea.Msg, 10)
	c.OnReconnect = func() {
		select {
		case reconnectChan <- ReconnectSuccessMsg{}:
		default:
		}
	}

	return &OnlineModel{
		client:        c,
		phase:         PhaseConnecting,
		input:         ti,
		reconnectChan: reconnectChan,
	}
}

func (m *OnlineModel) Init() tea.Cmd {
	return tea.Batch(
		m.connectToServer(),
		textinput.Blink,
		m.listenForReconnect(),
	)
}

func (m *OnlineModel) connectToServer() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

func (m *OnlineModel) listenForMessages() tea.Cmd {
	return func() tea.Msg {
		msg, err := m.client.Receive()
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

func (m *OnlineModel) listenForReconnect() tea.Cmd {
	return func() tea.Msg {
		return <-m.reconnectChan
	}
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return ClearErrorMsg{} })
}

func clearNoticeAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return ClearNoticeMsg{} })
}

func (m *OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		handled, cmd := m.handleKeyPress(msg)
		if handled {
			return m, cmd
		}

	case ConnectedMsg:
		m.phase = PhaseLobby
		m.playerID = m.client.PlayerID
		m.playerName = m.client.PlayerName
		m.client.StartHeartbeat()
		cmds = append(cmds, m.listenForMessages())

	case ConnectionErrorMsg:
		m.error = fmt.Sprintf("connection lost: %v (esc to quit)", msg.Err)
		if m.phase != PhaseConnecting {
			// the client reconnects on its own; keep the screen
			cmds = append(cmds, m.listenForReconnect())
		}

	case ReconnectSuccessMsg:
		m.error = ""
		m.notice = "✅ reconnected"
		m.latency = m.client.Latency
		cmds = append(cmds,
			clearNoticeAfter(3*time.Second),
			m.listenForReconnect(),
		)
		if m.client.IsConnected() {
			cmds = append(cmds, m.listenForMessages())
		}

	case ClearErrorMsg:
		m.error = ""

	case ClearNoticeMsg:
		m.notice = ""

	case ServerMessage:
		if cmd := m.handleServerMessage(msg.Msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.client.IsConnected() {
			cmds = append(cmds, m.listenForMessages())
		}
	}

	if m.phase == PhaseJoinInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.latency = m.client.Latency
	return m, tea.Batch(cmds...)
}
