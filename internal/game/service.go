package game

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trivialive/trivia-server/internal/metrics"
	"github.com/trivialive/trivia-server/internal/question"
)

const (
	defaultHostName   = "Host"
	defaultPlayerName = "Player"
	correctAward      = 1000
)

// Options tunes session behavior.
type Options struct {
	// DefaultQuestionCount is used when startGame omits a count.
	DefaultQuestionCount int
	// Rand, when set, drives question sampling (tests seed it for
	// determinism). Nil uses the shared source.
	Rand *rand.Rand
}

// Service is the room session machine. It owns every state transition of
// every room: roster mutations, question sequencing, answer intake, scoring,
// host-authority checks, and host migration. Each operation validates and
// mutates under the room's lock and returns the caller's ack data plus the
// broadcasts to deliver, computed from a post-mutation snapshot.
type Service struct {
	registry *Registry
	bank     []question.Question
	opts     Options
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewService wires the session machine. bank is the read-only question
// collection loaded once at startup.
func NewService(registry *Registry, bank []question.Question, opts Options, m *metrics.Metrics, logger zerolog.Logger) *Service {
	if opts.DefaultQuestionCount <= 0 {
		opts.DefaultQuestionCount = 10
	}
	return &Service{
		registry: registry,
		bank:     bank,
		opts:     opts,
		metrics:  m,
		logger:   logger,
	}
}

// CreateRoom allocates a room, seats the caller as host and first
// participant, and returns the new code. Always succeeds; a blank name
// defaults.
func (s *Service) CreateRoom(handle uuid.UUID, name string) (string, []Event) {
	// A connection can be in at most one room; creating while joined
	// elsewhere first leaves the old room.
	events := s.leaveCurrentRoom(handle)

	code, room := s.registry.Create()

	room.mu.Lock()
	room.Host = handle
	room.Players = append(room.Players, &Player{
		Handle: handle,
		Name:   displayName(name, defaultHostName),
	})
	lobby := s.lobbyEvent(room)
	room.mu.Unlock()

	s.registry.Bind(handle, code)
	s.metrics.RoomsCreated.Inc()
	s.metrics.ActiveRooms.Set(float64(s.registry.Len()))

	s.logger.Info().
		Str("room_code", code).
		Str("handle", handle.String()).
		Msg("room created")

	return code, append(events, lobby)
}

// JoinRoom adds the caller to a live room. Joining is permitted in any room
// state; late joiners observe but cannot answer past questions.
func (s *Service) JoinRoom(handle uuid.UUID, code, name string) (bool, []Event, error) {
	room, ok := s.registry.Get(code)
	if !ok {
		return false, nil, ErrRoomNotFound
	}

	// Leaving first only applies when switching rooms; re-joining the same
	// room must not tear it down.
	var events []Event
	if current, ok := s.registry.RoomFor(handle); !ok || current != room {
		events = s.leaveCurrentRoom(handle)
	}

	room.mu.Lock()
	if room.player(handle) == nil {
		room.Players = append(room.Players, &Player{
			Handle: handle,
			Name:   displayName(name, defaultPlayerName),
		})
	}
	isHost := room.Host == handle
	lobby := s.lobbyEvent(room)
	room.mu.Unlock()

	s.registry.Bind(handle, room.Code)

	s.logger.Info().
		Str("room_code", room.Code).
		Str("handle", handle.String()).
		Msg("player joined room")

	return isHost, append(events, lobby), nil
}

// StartGame draws the session's question sequence (unbiased shuffle of the
// full bank, prefix of clamp(n, 1, bankSize)) and publishes the first
// question. Host only; lobby only.
func (s *Service) StartGame(handle uuid.UUID, code string, numQuestions int) ([]Event, error) {
	room, ok := s.registry.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Host != handle {
		return nil, ErrNotAuthorized
	}
	if room.State != StateLobby {
		return nil, ErrInvalidState
	}

	if numQuestions <= 0 {
		numQuestions = s.opts.DefaultQuestionCount
	}
	room.Questions = question.Sample(s.opts.Rand, s.bank, numQuestions)
	room.CurrentIndex = 0
	room.resetAnswers()
	room.State = StateQuestion

	recipients := room.handles()
	events := []Event{
		{Recipients: recipients, Type: EventGameStarted, Payload: GameStartedPayload{
			RoomID: room.Code,
			Total:  len(room.Questions),
		}},
		s.questionEvent(room),
	}

	s.metrics.GamesStarted.Inc()
	s.logger.Info().
		Str("room_code", room.Code).
		Int("questions", len(room.Questions)).
		Msg("game started")

	return events, nil
}

// SubmitAnswer records the caller's one answer for the current question. The
// first submission wins; later ones are rejected without overwriting. A
// selection that does not resolve to an index still consumes the attempt.
func (s *Service) SubmitAnswer(handle uuid.UUID, code string, selectedIndex *int) ([]Event, error) {
	room, ok := s.registry.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.State != StateQuestion {
		return nil, ErrNotAcceptingAnswers
	}
	p := room.player(handle)
	if p == nil {
		return nil, ErrNotInRoom
	}
	if p.HasAnswered {
		return nil, ErrAlreadyAnswered
	}

	p.HasAnswered = true
	p.SelectedIndex = selectedIndex

	answered := 0
	for _, rp := range room.Players {
		if rp.HasAnswered {
			answered++
		}
	}

	s.metrics.AnswersAccepted.Inc()

	return []Event{{
		Recipients: room.handles(),
		Type:       EventAnswersProgress,
		Payload: AnswersProgressPayload{
			Answered: answered,
			Total:    len(room.Players),
		},
	}}, nil
}

// RevealAnswer freezes the answer window, awards 1000 points per correct
// selection, and publishes the correct index with a score-sorted leaderboard.
// Host only; question state only.
func (s *Service) RevealAnswer(handle uuid.UUID, code string) ([]Event, error) {
	room, ok := s.registry.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Host != handle {
		return nil, ErrNotAuthorized
	}
	if room.State != StateQuestion {
		return nil, ErrInvalidState
	}

	q := room.Questions[room.CurrentIndex]
	for _, p := range room.Players {
		if p.SelectedIndex != nil && *p.SelectedIndex == q.CorrectIndex {
			p.Score += correctAward
		}
	}

	scoreboard := make([]ScoreboardEntry, len(room.Players))
	for i, p := range room.Players {
		scoreboard[i] = ScoreboardEntry{
			SocketID:      p.Handle.String(),
			Name:          p.Name,
			Score:         p.Score,
			SelectedIndex: p.SelectedIndex,
		}
	}
	// Stable: equal scores keep roster join order.
	sort.SliceStable(scoreboard, func(i, j int) bool {
		return scoreboard[i].Score > scoreboard[j].Score
	})

	room.State = StateReveal

	return []Event{{
		Recipients: room.handles(),
		Type:       EventReveal,
		Payload: RevealPayload{
			RoomID:       room.Code,
			Index:        room.CurrentIndex + 1,
			Total:        len(room.Questions),
			CorrectIndex: q.CorrectIndex,
			Scoreboard:   scoreboard,
		},
	}}, nil
}

// NextQuestion advances past a reveal: either the next question, or the final
// leaderboard when the sequence is exhausted. Host only; reveal state only.
func (s *Service) NextQuestion(handle uuid.UUID, code string) ([]Event, error) {
	room, ok := s.registry.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Host != handle {
		return nil, ErrNotAuthorized
	}
	if room.State != StateReveal {
		return nil, ErrInvalidState
	}

	if room.CurrentIndex+1 >= len(room.Questions) {
		room.State = StateFinished
		return []Event{s.gameOverEvent(room)}, nil
	}

	room.CurrentIndex++
	room.resetAnswers()
	room.State = StateQuestion

	return []Event{s.questionEvent(room)}, nil
}

// EndGame forces the terminal state and publishes the final leaderboard.
// Host only. Calling it on an already finished room succeeds again with an
// unchanged leaderboard.
func (s *Service) EndGame(handle uuid.UUID, code string) ([]Event, error) {
	room, ok := s.registry.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Host != handle {
		return nil, ErrNotAuthorized
	}

	room.State = StateFinished

	s.logger.Info().Str("room_code", room.Code).Msg("game ended")

	return []Event{s.gameOverEvent(room)}, nil
}

// Disconnect removes the participant from its room, promoting a new host or
// reclaiming the room as needed. Safe to call for handles that belong to no
// room.
func (s *Service) Disconnect(handle uuid.UUID) []Event {
	return s.leaveCurrentRoom(handle)
}

// leaveCurrentRoom detaches a handle from whichever room holds it. The first
// remaining participant in join order inherits the host role; an emptied room
// is removed from the registry with no further broadcast.
func (s *Service) leaveCurrentRoom(handle uuid.UUID) []Event {
	room, ok := s.registry.RoomFor(handle)
	if !ok {
		return nil
	}

	room.mu.Lock()
	idx := -1
	for i, p := range room.Players {
		if p.Handle == handle {
			idx = i
			break
		}
	}
	if idx < 0 {
		room.mu.Unlock()
		s.registry.Unbind(handle)
		return nil
	}

	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)

	if len(room.Players) == 0 {
		room.mu.Unlock()
		s.registry.Unbind(handle)
		s.registry.Remove(room.Code)
		s.metrics.RoomsReclaimed.Inc()
		s.metrics.ActiveRooms.Set(float64(s.registry.Len()))
		s.logger.Info().Str("room_code", room.Code).Msg("empty room reclaimed")
		return nil
	}

	if room.Host == handle {
		room.Host = room.Players[0].Handle
		s.logger.Info().
			Str("room_code", room.Code).
			Str("new_host", room.Host.String()).
			Msg("host migrated")
	}

	lobby := s.lobbyEvent(room)
	room.mu.Unlock()

	s.registry.Unbind(handle)
	return []Event{lobby}
}

// lobbyEvent snapshots the roster. Caller holds the room lock.
func (s *Service) lobbyEvent(room *Room) Event {
	players := make([]PlayerInfo, len(room.Players))
	for i, p := range room.Players {
		players[i] = PlayerInfo{
			SocketID: p.Handle.String(),
			Name:     p.Name,
			Score:    p.Score,
		}
	}
	return Event{
		Recipients: room.handles(),
		Type:       EventLobbyUpdate,
		Payload: LobbyUpdatePayload{
			RoomID:       room.Code,
			HostSocketID: room.Host.String(),
			Players:      players,
		},
	}
}

// questionEvent publishes the current question, correct index withheld.
// Caller holds the room lock.
func (s *Service) questionEvent(room *Room) Event {
	q := room.Questions[room.CurrentIndex]
	return Event{
		Recipients: room.handles(),
		Type:       EventQuestion,
		Payload: QuestionPayload{
			RoomID:  room.Code,
			Index:   room.CurrentIndex + 1,
			Total:   len(room.Questions),
			Prompt:  q.Prompt,
			Choices: q.Choices,
		},
	}
}

// gameOverEvent builds the final leaderboard. Caller holds the room lock.
func (s *Service) gameOverEvent(room *Room) Event {
	scoreboard := make([]FinalScoreEntry, len(room.Players))
	for i, p := range room.Players {
		scoreboard[i] = FinalScoreEntry{
			SocketID: p.Handle.String(),
			Name:     p.Name,
			Score:    p.Score,
		}
	}
	sort.SliceStable(scoreboard, func(i, j int) bool {
		return scoreboard[i].Score > scoreboard[j].Score
	})
	return Event{
		Recipients: room.handles(),
		Type:       EventGameOver,
		Payload: GameOverPayload{
			RoomID:     room.Code,
			Scoreboard: scoreboard,
		},
	}
}

func displayName(name, fallback string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return fallback
}
