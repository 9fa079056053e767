package client

import (
	"errors"
	"time"

	"github.com/podkidnoy/durak-server/internal/network/protocol"
)

// Convenience senders for every wire operation.

func (c *Client) ListRooms() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgRoomList, nil))
}

func (c *Client) CreateRoom(name string, isPrivate bool, pin string, settings *protocol.RoomSettings) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgRoomCreate, protocol.CreateRoomPayload{
		Name:      name,
		IsPrivate: isPrivate,
		Pin:       pin,
		Settings:  settings,
	}))
}

func (c *Client) JoinRoom(roomID, pin string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgRoomJoin, protocol.JoinRoomPayload{
		RoomID: roomID,
		Pin:    pin,
	}))
}

func (c *Client) LeaveRoom(roomID string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgRoomLeave, protocol.RoomActionPayload{
		RoomID: roomID,
	}))
}

func (c *Client) Ready(roomID string, ready bool) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgRoomReady, protocol.ReadyPayload{
		RoomID: roomID,
		Ready:  ready,
	}))
}

func (c *Client) StartGame(roomID string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGameStart, protocol.RoomActionPayload{
		RoomID: roomID,
	}))
}

func (c *Client) Attack(roomID string, cardID int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGameAttack, protocol.AttackPayload{
		RoomID: roomID,
		CardID: cardID,
	}))
}

func (c *Client) ThrowIn(roomID string, cardID int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGameThrowIn, protocol.AttackPayload{
		RoomID: roomID,
		CardID: cardID,
	}))
}

func (c *Client) Defend(roomID string, attackCardID, defendCardID int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGameDefend, protocol.DefendPayload{
		RoomID:       roomID,
		AttackCardID: attackCardID,
		DefendCardID: defendCardID,
	}))
}

func (c *Client) Take(roomID string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGameTake, protocol.RoomActionPayload{
		RoomID: roomID,
	}))
}

func (c *Client) Done(roomID string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGameDone, protocol.RoomActionPayload{
		RoomID: roomID,
	}))
}

func (c *Client) GetStats() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgStatsGet, nil))
}

func (c *Client) GetLeaderboard(limit int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgStatsLeaderboard, protocol.LeaderboardRequestPayload{
		Limit: limit,
	}))
}

func (c *Client) Ping() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}

// Reconnect replays the stored session token.
func (c *Client) Reconnect() error {
	if c.ReconnectToken == "" || c.PlayerID == "" {
		return errors.New("no reconnect token")
	}
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    c.ReconnectToken,
		PlayerID: c.PlayerID,
	}))
}
