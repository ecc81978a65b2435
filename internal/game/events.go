package game

import "github.com/google/uuid"

// Event type constants for server -> client broadcasts.
const (
	EventLobbyUpdate     = "lobbyUpdate"
	EventGameStarted     = "gameStarted"
	EventQuestion        = "question"
	EventAnswersProgress = "answersProgress"
	EventReveal          = "reveal"
	EventGameOver        = "gameOver"
)

// Event is an outbound notification addressed to a snapshot of a room's
// participant handles. The snapshot is taken after the mutation is fully
// applied, so recipients never observe a partial view.
type Event struct {
	Recipients []uuid.UUID
	Type       string
	Payload    any
}

// PlayerInfo is a roster line in lobby updates.
type PlayerInfo struct {
	SocketID string `json:"socketId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

type LobbyUpdatePayload struct {
	RoomID       string       `json:"roomId"`
	HostSocketID string       `json:"hostSocketId"`
	Players      []PlayerInfo `json:"players"`
}

type GameStartedPayload struct {
	RoomID string `json:"roomId"`
	Total  int    `json:"total"`
}

// QuestionPayload never carries the correct index.
type QuestionPayload struct {
	RoomID  string   `json:"roomId"`
	Index   int      `json:"index"` // 1-based for display
	Total   int      `json:"total"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
}

// AnswersProgressPayload is an aggregate count only; no individual choices.
type AnswersProgressPayload struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

type ScoreboardEntry struct {
	SocketID      string `json:"socketId"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
	SelectedIndex *int   `json:"selectedIndex"`
}

type RevealPayload struct {
	RoomID       string            `json:"roomId"`
	Index        int               `json:"index"`
	Total        int               `json:"total"`
	CorrectIndex int               `json:"correctIndex"`
	Scoreboard   []ScoreboardEntry `json:"scoreboard"`
}

type FinalScoreEntry struct {
	SocketID string `json:"socketId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

type GameOverPayload struct {
	RoomID     string            `json:"roomId"`
	Scoreboard []FinalScoreEntry `json:"scoreboard"`
}
