package game

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trivialive/trivia-server/internal/question"
)

// State tags for the room lifecycle.
const (
	StateLobby    = "lobby"
	StateQuestion = "question"
	StateReveal   = "reveal"
	StateFinished = "finished"
)

// Player is one connected participant in a room. The handle is the
// process-lifetime-unique connection identity, not a stable user identity.
type Player struct {
	Handle uuid.UUID
	Name   string
	Score  int

	// Per-question answer state; reset at the start of every question.
	HasAnswered   bool
	SelectedIndex *int
}

// Room is one trivia session. All fields are guarded by mu; every session
// operation runs validate -> mutate -> snapshot under the lock, so at most one
// logical operation per room is in flight at the application level.
type Room struct {
	mu sync.Mutex

	Code         string
	Host         uuid.UUID
	Players      []*Player // join order; host succession uses this order
	State        string
	Questions    []question.Question
	CurrentIndex int
}

// player returns the participant for a handle, or nil. Caller holds mu.
func (r *Room) player(handle uuid.UUID) *Player {
	for _, p := range r.Players {
		if p.Handle == handle {
			return p
		}
	}
	return nil
}

// resetAnswers clears per-question answer state. Caller holds mu.
func (r *Room) resetAnswers() {
	for _, p := range r.Players {
		p.HasAnswered = false
		p.SelectedIndex = nil
	}
}

// handles snapshots the current participant handles. Caller holds mu.
func (r *Room) handles() []uuid.UUID {
	out := make([]uuid.UUID, len(r.Players))
	for i, p := range r.Players {
		out[i] = p.Handle
	}
	return out
}
