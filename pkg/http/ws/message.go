package ws

import "encoding/json"

// MessageType constants for the WebSocket protocol.
const (
	// Client -> Server
	TypeCreateRoom   = "createRoom"
	TypeJoinRoom     = "joinRoom"
	TypeStartGame    = "startGame"
	TypeSubmitAnswer = "submitAnswer"
	TypeRevealAnswer = "revealAnswer"
	TypeNextQuestion = "nextQuestion"
	TypeEndGame      = "endGame"

	// Server -> Client (direct)
	TypeAck   = "ack"
	TypeError = "error"
)

// Message wraps all WebSocket payloads with type and optional request ID.
// Acks mirror the request_id of the message they answer.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client messages (incoming)

type CreateRoomPayload struct {
	Name string `json:"name"`
}

type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type StartGamePayload struct {
	RoomID       string `json:"roomId"`
	NumQuestions int    `json:"numQuestions,omitempty"`
}

type SubmitAnswerPayload struct {
	RoomID string `json:"roomId"`
	// SelectedIndex may be any JSON value; only a number resolves to a
	// choice. Anything else is recorded as a null selection but still
	// consumes the player's one attempt.
	SelectedIndex any `json:"selectedIndex"`
}

// RoomPayload covers revealAnswer, nextQuestion and endGame.
type RoomPayload struct {
	RoomID string `json:"roomId"`
}

// Server messages (direct responses; broadcast payloads live in internal/game)

// AckPayload is the structured result returned to the direct caller only.
type AckPayload struct {
	OK     bool   `json:"ok"`
	RoomID string `json:"roomId,omitempty"`
	IsHost *bool  `json:"isHost,omitempty"`
	Error  string `json:"error,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
