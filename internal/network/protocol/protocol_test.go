package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podkidnoy/durak-server/internal/game/card"
)

func TestMessageRoundTrip(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MsgGameAttack, AttackPayload{RoomID: "r1", CardID: 17})
	require.NoError(t, err)

	data, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, MsgGameAttack, decoded.Type)

	payload, err := ParsePayload[AttackPayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, "r1", payload.RoomID)
	assert.Equal(t, 17, payload.CardID)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestParsePayloadRejectsWrongShape(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(MsgRoomJoin, JoinRoomPayload{RoomID: "r1"})
	_, err := ParsePayload[[]int](msg)
	assert.Error(t, err)
}

func TestNewMessageNilPayload(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MsgPong, nil)
	require.NoError(t, err)
	assert.Nil(t, msg.Payload)

	data, err := msg.Encode()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "payload")
}

func TestFromCard(t *testing.T) {
	t.Parallel()

	info := FromCard(card.Card{ID: 3, Suit: card.Hearts, Rank: card.RankQ})
	assert.Equal(t, CardInfo{ID: 3, Rank: "Q", Suit: "♥"}, info)

	hand := FromCards([]card.Card{
		{ID: 0, Suit: card.Spades, Rank: card.Rank6},
		{ID: 1, Suit: card.Clubs, Rank: card.RankA},
	})
	require.Len(t, hand, 2)
	assert.Equal(t, "6", hand[0].Rank)
	assert.Equal(t, "♣", hand[1].Suit)
}

func TestNewErrorMessage(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessage(CodeRoomFull)
	assert.Equal(t, MsgRoomError, msg.Type)

	payload, err := ParsePayload[ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, CodeRoomFull, payload.Code)
	assert.Equal(t, ErrorMessages[CodeRoomFull], payload.Message)

	custom := NewErrorMessageWithText(CodeInvalidPin, "pin must be 4 digits")
	payload, err = ParsePayload[ErrorPayload](custom)
	require.NoError(t, err)
	assert.Equal(t, "pin must be 4 digits", payload.Message)
}

func TestGameErrorDefaults(t *testing.T) {
	t.Parallel()

	err := NewGameError(CodeNotYourTurn)
	assert.Equal(t, CodeNotYourTurn, err.Code)
	assert.EqualError(t, err, "not your turn")
}
