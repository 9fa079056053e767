package protocol

// Error codes carried by room:error payloads.
const (
	CodeNotFound    = "NOT_FOUND"
	CodeInvalidPin  = "INVALID_PIN"
	CodeRoomFull    = "ROOM_FULL"
	CodeNotReady    = "NOT_READY"
	CodeIllegalMove = "ILLEGAL_MOVE"
	CodeNotYourTurn = "NOT_YOUR_TURN"
	CodeNotInRoom   = "NOT_IN_ROOM"
	CodeGameStarted = "GAME_STARTED"
	CodeInvalidMsg  = "INVALID_MSG"
	CodeRateLimit   = "RATE_LIMIT"
)

// ErrorMessages are the default texts per code, used when the rejecting
// operation has nothing more specific to say.
var ErrorMessages = map[string]string{
	CodeNotFound:    "room not found",
	CodeInvalidPin:  "wrong PIN for this room",
	CodeRoomFull:    "room is full",
	CodeNotReady:    "room is not ready to start",
	CodeIllegalMove: "illegal move",
	CodeNotYourTurn: "not your turn",
	CodeNotInRoom:   "you are not in a room",
	CodeGameStarted: "game already started",
	CodeInvalidMsg:  "invalid message",
	CodeRateLimit:   "too many requests",
}

// GameError is a typed rejection surfaced to the requesting client only.
type GameError struct {
	Code    string
	Message string
}

func (e *GameError) Error() string { return e.Message }

// NewGameError builds a rejection with the default text for the code.
func NewGameError(code string) *GameError {
	return &GameError{Code: code, Message: ErrorMessages[code]}
}

// ErrorPayload is the room:error body.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorMessage builds a room:error frame with the default text.
func NewErrorMessage(code string) *Message {
	return MustNewMessage(MsgRoomError, ErrorPayload{
		Code:    code,
		Message: ErrorMessages[code],
	})
}

// NewErrorMessageWithText builds a room:error frame with a specific text.
func NewErrorMessageWithText(code, text string) *Message {
	return MustNewMessage(MsgRoomError, ErrorPayload{
		Code:    code,
		Message: text,
	})
}
