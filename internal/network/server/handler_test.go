package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podkidnoy/durak-server/internal/network/protocol"
)

// nextFrame pops one queued frame off a test client.
func nextFrame(t *testing.T, c *Client) *protocol.Message {
	t.Helper()
	select {
	case data := <-c.send:
		msg, err := protocol.Decode(data)
		require.NoError(t, err)
		return msg
	case <-time.After(time.Second):
		t.Fatal("no frame queued")
		return nil
	}
}

// nextFrameOfType discards frames until one of the wanted type arrives.
func nextFrameOfType(t *testing.T, c *Client, want protocol.MessageType) *protocol.Message {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := nextFrame(t, c)
		if msg.Type == want {
			return msg
		}
	}
	t.Fatalf("no %s frame queued", want)
	return nil
}

func drainFrames(c *Client) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

func TestHandler_Ping(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(s, "p1", "Alice")

	s.handler.Handle(c, protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: 42}))

	msg := nextFrame(t, c)
	require.Equal(t, protocol.MsgPong, msg.Type)
	pong, err := protocol.ParsePayload[protocol.PongPayload](msg)
	require.NoError(t, err)
	assert.EqualValues(t, 42, pong.ClientTimestamp)
	assert.NotZero(t, pong.ServerTimestamp)
}

func TestHandler_UnknownType(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(s, "p1", "Alice")

	s.handler.Handle(c, &protocol.Message{Type: "bogus"})

	msg := nextFrame(t, c)
	require.Equal(t, protocol.MsgRoomError, msg.Type)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.CodeInvalidMsg, payload.Code)
}

func TestHandler_CreateAndJoinFlow(t *testing.T) {
	s := newTestServer(t)
	alice := newTestClient(s, "p1", "Alice")
	bob := newTestClient(s, "p2", "Bob")

	s.handler.Handle(alice, protocol.MustNewMessage(protocol.MsgRoomCreate, protocol.CreateRoomPayload{Name: "test table"}))

	joined := nextFrameOfType(t, alice, protocol.MsgRoomJoined)
	payload, err := protocol.ParsePayload[protocol.RoomJoinedPayload](joined)
	require.NoError(t, err)
	assert.Equal(t, "test table", payload.Room.Name)
	assert.Equal(t, "p1", payload.Room.OwnerID)
	assert.Equal(t, 0, payload.You.Seat)
	// settings fall back to the server defaults
	assert.Equal(t, s.config.Game.DeckSize, payload.Room.Settings.DeckSize)

	s.handler.Handle(bob, protocol.MustNewMessage(protocol.MsgRoomJoin, protocol.JoinRoomPayload{RoomID: payload.Room.ID}))

	joined = nextFrameOfType(t, bob, protocol.MsgRoomJoined)
	payload, err = protocol.ParsePayload[protocol.RoomJoinedPayload](joined)
	require.NoError(t, err)
	assert.Equal(t, 1, payload.You.Seat)

	// alice saw the roster change
	updated := nextFrameOfType(t, alice, protocol.MsgRoomUpdated)
	up, err := protocol.ParsePayload[protocol.RoomUpdatedPayload](updated)
	require.NoError(t, err)
	assert.Len(t, up.Room.Players, 2)
}

func TestHandler_JoinMissingRoom(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(s, "p1", "Alice")

	s.handler.Handle(c, protocol.MustNewMessage(protocol.MsgRoomJoin, protocol.JoinRoomPayload{RoomID: "000000"}))

	msg := nextFrame(t, c)
	require.Equal(t, protocol.MsgRoomError, msg.Type)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.CodeNotFound, payload.Code)
}

func TestHandler_GameFlowOverWire(t *testing.T) {
	s := newTestServer(t)
	alice := newTestClient(s, "p1", "Alice")
	bob := newTestClient(s, "p2", "Bob")

	s.handler.Handle(alice, protocol.MustNewMessage(protocol.MsgRoomCreate, protocol.CreateRoomPayload{}))
	joined := nextFrameOfType(t, alice, protocol.MsgRoomJoined)
	payload, err := protocol.ParsePayload[protocol.RoomJoinedPayload](joined)
	require.NoError(t, err)
	roomID := payload.Room.ID

	s.handler.Handle(bob, protocol.MustNewMessage(protocol.MsgRoomJoin, protocol.JoinRoomPayload{RoomID: roomID}))
	s.handler.Handle(bob, protocol.MustNewMessage(protocol.MsgRoomReady, protocol.ReadyPayload{RoomID: roomID, Ready: true}))

	// a non-owner cannot start
	drainFrames(bob)
	s.handler.Handle(bob, protocol.MustNewMessage(protocol.MsgGameStart, protocol.RoomActionPayload{RoomID: roomID}))
	errFrame := nextFrameOfType(t, bob, protocol.MsgRoomError)
	errPayload, err := protocol.ParsePayload[protocol.ErrorPayload](errFrame)
	require.NoError(t, err)
	assert.Equal(t, protocol.CodeNotReady, errPayload.Code)

	drainFrames(alice)
	drainFrames(bob)
	s.handler.Handle(alice, protocol.MustNewMessage(protocol.MsgGameStart, protocol.RoomActionPayload{RoomID: roomID}))

	room := s.roomManager.GetRoom(roomID)
	require.NotNil(t, room)
	match := room.GetMatch()
	require.NotNil(t, match)
	defer match.Stop()

	// both players got the deal with their own six cards
	for _, c := range []*Client{alice, bob} {
		state := nextFrameOfType(t, c, protocol.MsgGameState)
		sp, err := protocol.ParsePayload[protocol.GameStatePayload](state)
		require.NoError(t, err)
		assert.Equal(t, "deal", sp.Event)
		assert.Equal(t, "attack", sp.Phase)
		assert.Len(t, sp.Hand, 6)
	}

	// a move with a card the attacker does not hold is rejected
	_, attackerID, _, _, _ := snapshot(match)
	attacker := alice
	if attackerID == "p2" {
		attacker = bob
	}
	drainFrames(attacker)
	s.handler.Handle(attacker, protocol.MustNewMessage(protocol.MsgGameAttack, protocol.AttackPayload{RoomID: roomID, CardID: -1}))
	errFrame = nextFrameOfType(t, attacker, protocol.MsgRoomError)
	errPayload, err = protocol.ParsePayload[protocol.ErrorPayload](errFrame)
	require.NoError(t, err)
	assert.Equal(t, protocol.CodeIllegalMove, errPayload.Code)

	// a legal attack moves the game into the defend phase
	_, _, _, legalAtt, _ := snapshot(match)
	require.NotEmpty(t, legalAtt.AttackCardIDs)
	drainFrames(attacker)
	s.handler.Handle(attacker, protocol.MustNewMessage(protocol.MsgGameAttack, protocol.AttackPayload{RoomID: roomID, CardID: legalAtt.AttackCardIDs[0]}))

	state := nextFrameOfType(t, attacker, protocol.MsgGameState)
	sp, err := protocol.ParsePayload[protocol.GameStatePayload](state)
	require.NoError(t, err)
	assert.Equal(t, "attack", sp.Event)
	assert.Equal(t, "defend", sp.Phase)
	require.Len(t, sp.Table, 1)
	assert.Nil(t, sp.Table[0].Defend)
}

func TestHandler_Reconnect(t *testing.T) {
	s := newTestServer(t)
	alice := newTestClient(s, "p1", "Alice")
	token := s.sessionManager.GetSession("p1").ReconnectToken

	// the connection drops
	alice.handleDisconnect()

	// a new connection reclaims the identity
	fresh := newTestClient(s, "tmp", "TmpName")
	s.handler.Handle(fresh, protocol.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    token,
		PlayerID: "p1",
	}))

	msg := nextFrameOfType(t, fresh, protocol.MsgReconnected)
	payload, err := protocol.ParsePayload[protocol.ReconnectedPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, "p1", payload.PlayerID)
	assert.Equal(t, "Alice", payload.PlayerName)
	assert.Equal(t, "p1", fresh.ID)
	assert.Same(t, fresh, s.GetClientByID("p1"))

	// a bad token is refused
	stranger := newTestClient(s, "p9", "Nobody")
	s.handler.Handle(stranger, protocol.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    "bogus",
		PlayerID: "p1",
	}))
	errFrame := nextFrameOfType(t, stranger, protocol.MsgRoomError)
	errPayload, err := protocol.ParsePayload[protocol.ErrorPayload](errFrame)
	require.NoError(t, err)
	assert.Equal(t, protocol.CodeNotFound, errPayload.Code)
}

func TestHandler_Stats(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(s, "p1", "Alice")

	// no games yet: empty stats, not an error
	s.handler.Handle(c, protocol.MustNewMessage(protocol.MsgStatsGet, nil))
	msg := nextFrame(t, c)
	require.Equal(t, protocol.MsgStatsGet, msg.Type)
	stats, err := protocol.ParsePayload[protocol.PlayerStatsPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalGames)

	s.handler.Handle(c, protocol.MustNewMessage(protocol.MsgStatsLeaderboard, protocol.LeaderboardRequestPayload{Limit: 5}))
	msg = nextFrame(t, c)
	require.Equal(t, protocol.MsgStatsLeaderboard, msg.Type)
	lb, err := protocol.ParsePayload[protocol.LeaderboardPayload](msg)
	require.NoError(t, err)
	assert.Empty(t, lb.Entries)
}
