package protocol

import "github.com/podkidnoy/durak-server/internal/game/card"

// --- shared DTOs ---

// CardInfo is a card on the wire: the id drives moves, rank and suit are
// display strings (clients key card images by rank_suit).
type CardInfo struct {
	ID   int    `json:"id"`
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// FromCard converts an engine card to its wire form.
func FromCard(c card.Card) CardInfo {
	return CardInfo{ID: c.ID, Rank: c.Rank.String(), Suit: c.Suit.String()}
}

// FromCards converts a hand to wire form.
func FromCards(cards []card.Card) []CardInfo {
	out := make([]CardInfo, len(cards))
	for i, c := range cards {
		out[i] = FromCard(c)
	}
	return out
}

// TurnTimers bounds how long each acting seat may take, in seconds.
// Zero disables the timer for that phase.
type TurnTimers struct {
	Attack  int `json:"attack"`
	Defend  int `json:"defend"`
	Between int `json:"between"`
}

// RoomSettings are the rule knobs, immutable once the room leaves lobby.
type RoomSettings struct {
	DeckSize           int        `json:"deckSize"`
	MaxPlayers         int        `json:"maxPlayers"`
	MaxAttacksPerRound int        `json:"maxAttacksPerRound"`
	ThrowInEnabled     bool       `json:"throwInEnabled"`
	TurnTimers         TurnTimers `json:"turnTimers"`
}

// PlayerInfo is a seat as other clients see it: hand size, never cards.
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Status    string `json:"status"` // idle/ready/playing/disconnected
	IsBot     bool   `json:"isBot"`
	HandCount int    `json:"handCount"`
}

// RoomSummary is one row of the lobby room list.
type RoomSummary struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	PlayerCount int          `json:"playerCount"`
	MaxPlayers  int          `json:"maxPlayers"`
	IsPrivate   bool         `json:"isPrivate"`
	Settings    RoomSettings `json:"settings"`
}

// RoomInfo is the full member view of a room.
type RoomInfo struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	OwnerID   string       `json:"ownerId"`
	IsPrivate bool         `json:"isPrivate"`
	Phase     string       `json:"phase"`
	Settings  RoomSettings `json:"settings"`
	Players   []PlayerInfo `json:"players"`
}

// TablePairInfo is one attack on the table with its optional cover.
type TablePairInfo struct {
	Attack CardInfo  `json:"attack"`
	Defend *CardInfo `json:"defend,omitempty"`
}

// --- client → server payloads ---

type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // client clock, milliseconds
}

type ReconnectPayload struct {
	Token    string `json:"token"`
	PlayerID string `json:"playerId"`
}

type CreateRoomPayload struct {
	Name      string        `json:"name"`
	IsPrivate bool          `json:"isPrivate"`
	Pin       string        `json:"pin,omitempty"`
	Settings  *RoomSettings `json:"settings,omitempty"`
}

type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
	Pin    string `json:"pin,omitempty"`
}

type ReadyPayload struct {
	RoomID string `json:"roomId"`
	Ready  bool   `json:"ready"`
}

// RoomActionPayload serves game:start, game:take, game:done, room:leave.
type RoomActionPayload struct {
	RoomID string `json:"roomId"`
}

// AttackPayload serves game:attack and game:throwin.
type AttackPayload struct {
	RoomID string `json:"roomId"`
	CardID int    `json:"cardId"`
}

type DefendPayload struct {
	RoomID       string `json:"roomId"`
	AttackCardID int    `json:"attackCardId"`
	DefendCardID int    `json:"defendCardId"`
}

type LeaderboardRequestPayload struct {
	Limit int `json:"limit,omitempty"`
}

// --- server → client payloads ---

type ConnectedPayload struct {
	PlayerID       string `json:"playerId"`
	PlayerName     string `json:"playerName"`
	ReconnectToken string `json:"reconnectToken"`
}

type PongPayload struct {
	ClientTimestamp int64 `json:"clientTimestamp"`
	ServerTimestamp int64 `json:"serverTimestamp"`
}

type ReconnectedPayload struct {
	PlayerID   string            `json:"playerId"`
	PlayerName string            `json:"playerName"`
	RoomID     string            `json:"roomId,omitempty"`
	Room       *RoomInfo         `json:"room,omitempty"`
	GameState  *GameStatePayload `json:"gameState,omitempty"`
}

type PlayerOfflinePayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Timeout    int    `json:"timeout"` // reconnect grace, seconds
}

type PlayerOnlinePayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type RoomListPayload struct {
	Rooms []RoomSummary `json:"rooms"`
}

type RoomJoinedPayload struct {
	Room RoomInfo   `json:"room"`
	You  PlayerInfo `json:"you"`
}

type RoomUpdatedPayload struct {
	Room RoomInfo `json:"room"`
}

// GameStatePayload is the per-viewer state delta broadcast after every
// transition. Hand carries only the receiving player's cards; everyone
// else appears as a hand count in Players.
type GameStatePayload struct {
	Event        string          `json:"event,omitempty"` // transition that produced this delta
	Phase        string          `json:"phase"`
	Trump        string          `json:"trump,omitempty"`
	TrumpCard    *CardInfo       `json:"trumpCard,omitempty"`
	DeckCount    int             `json:"deckCount"`
	DiscardCount int             `json:"discardCount"`
	AttackerSeat int             `json:"attackerSeat"`
	DefenderSeat int             `json:"defenderSeat"`
	Table        []TablePairInfo `json:"table"`
	Players      []PlayerInfo    `json:"players"`
	Hand         []CardInfo      `json:"hand"`
	DurakSeat    *int            `json:"durakSeat,omitempty"` // set at game end; nil on a draw
}

// DefendOptionInfo lists hand cards able to cover one open attack.
type DefendOptionInfo struct {
	AttackCardID  int   `json:"attackCardId"`
	DefendCardIDs []int `json:"defendCardIds"`
}

// LegalMovesPayload is the advisory hint for the UI; the server still
// validates every move.
type LegalMovesPayload struct {
	AttackCardIDs []int              `json:"attackCardIds,omitempty"`
	Defends       []DefendOptionInfo `json:"defends,omitempty"`
	CanTake       bool               `json:"canTake"`
	CanDone       bool               `json:"canDone"`
}

// PlayerStatsPayload is the stats:get response.
type PlayerStatsPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	TotalGames int    `json:"totalGames"`
	Escapes    int    `json:"escapes"` // games survived without becoming the durak
	DurakCount int    `json:"durakCount"`
	Score      int    `json:"score"`
}

// LeaderboardEntryPayload is one leaderboard row.
type LeaderboardEntryPayload struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Score      int     `json:"score"`
	Escapes    int     `json:"escapes"`
	EscapeRate float64 `json:"escapeRate"`
}

type LeaderboardPayload struct {
	Entries []LeaderboardEntryPayload `json:"entries"`
}
