package game

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/trivialive/trivia-server/internal/metrics"
	httperrors "github.com/trivialive/trivia-server/pkg/http/errors"
	ws "github.com/trivialive/trivia-server/pkg/http/ws"
)

// Handler manages WebSocket connections and routes room messages to the
// session machine. Every request gets a direct ack; successful mutations
// additionally fan events out to the room's current participants.
type Handler struct {
	service *Service
	hub     *ws.Hub
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewHandler creates the room WebSocket handler.
func NewHandler(service *Service, hub *ws.Hub, m *metrics.Metrics, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		metrics: m,
		logger:  logger,
	}
}

// HandleConnection processes a WebSocket connection for its whole lifetime.
// The handle is this connection's identity in every room operation.
func (h *Handler) HandleConnection(conn *websocket.Conn, handle uuid.UUID) {
	wsConn := ws.NewConnection(conn, h.logger)
	h.hub.Register(handle, wsConn)
	h.metrics.ConnectedClients.Set(float64(h.hub.Len()))

	go wsConn.WritePump()

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(handle, msg)
	})

	// Peer went away: detach from its room before dropping the connection.
	h.deliver(h.service.Disconnect(handle))
	h.hub.Unregister(handle)
	h.metrics.ConnectedClients.Set(float64(h.hub.Len()))
}

// handleMessage routes incoming WebSocket messages.
func (h *Handler) handleMessage(handle uuid.UUID, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeCreateRoom:
		return h.handleCreateRoom(handle, msg)
	case ws.TypeJoinRoom:
		return h.handleJoinRoom(handle, msg)
	case ws.TypeStartGame:
		return h.handleStartGame(handle, msg)
	case ws.TypeSubmitAnswer:
		return h.handleSubmitAnswer(handle, msg)
	case ws.TypeRevealAnswer:
		return h.handleHostAction(handle, msg, h.service.RevealAnswer)
	case ws.TypeNextQuestion:
		return h.handleHostAction(handle, msg, h.service.NextQuestion)
	case ws.TypeEndGame:
		return h.handleHostAction(handle, msg, h.service.EndGame)
	default:
		return h.sendError(handle, httperrors.ErrCodeInvalidRequest, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *Handler) handleCreateRoom(handle uuid.UUID, msg ws.Message) error {
	var req ws.CreateRoomPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(handle, httperrors.ErrCodeInvalidRequest, "Invalid createRoom payload")
		}
	}

	code, events := h.service.CreateRoom(handle, req.Name)

	isHost := true
	err := h.ack(handle, msg.RequestID, ws.AckPayload{OK: true, RoomID: code, IsHost: &isHost})
	h.deliver(events)
	return err
}

func (h *Handler) handleJoinRoom(handle uuid.UUID, msg ws.Message) error {
	var req ws.JoinRoomPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return h.sendError(handle, httperrors.ErrCodeInvalidRequest, "Invalid joinRoom payload")
	}

	isHost, events, err := h.service.JoinRoom(handle, req.RoomID, req.Name)
	if err != nil {
		return h.nack(handle, msg.RequestID, err)
	}

	ackErr := h.ack(handle, msg.RequestID, ws.AckPayload{OK: true, RoomID: NormalizeCode(req.RoomID), IsHost: &isHost})
	h.deliver(events)
	return ackErr
}

func (h *Handler) handleStartGame(handle uuid.UUID, msg ws.Message) error {
	var req ws.StartGamePayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return h.sendError(handle, httperrors.ErrCodeInvalidRequest, "Invalid startGame payload")
	}

	events, err := h.service.StartGame(handle, req.RoomID, req.NumQuestions)
	if err != nil {
		return h.nack(handle, msg.RequestID, err)
	}

	ackErr := h.ack(handle, msg.RequestID, ws.AckPayload{OK: true})
	h.deliver(events)
	return ackErr
}

func (h *Handler) handleSubmitAnswer(handle uuid.UUID, msg ws.Message) error {
	var req ws.SubmitAnswerPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return h.sendError(handle, httperrors.ErrCodeInvalidRequest, "Invalid submitAnswer payload")
	}

	events, err := h.service.SubmitAnswer(handle, req.RoomID, resolveSelectedIndex(req.SelectedIndex))
	if err != nil {
		return h.nack(handle, msg.RequestID, err)
	}

	ackErr := h.ack(handle, msg.RequestID, ws.AckPayload{OK: true})
	h.deliver(events)
	return ackErr
}

// resolveSelectedIndex extracts an answer index from an arbitrary JSON
// value. Only a number resolves; everything else (missing, string, bool,
// object) becomes a null selection, which still spends the one attempt.
func resolveSelectedIndex(v any) *int {
	if f, ok := v.(float64); ok {
		idx := int(f)
		return &idx
	}
	return nil
}

// handleHostAction covers revealAnswer, nextQuestion and endGame, which all
// carry just a room code.
func (h *Handler) handleHostAction(handle uuid.UUID, msg ws.Message, op func(uuid.UUID, string) ([]Event, error)) error {
	var req ws.RoomPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return h.sendError(handle, httperrors.ErrCodeInvalidRequest, "Invalid payload")
	}

	events, err := op(handle, req.RoomID)
	if err != nil {
		return h.nack(handle, msg.RequestID, err)
	}

	ackErr := h.ack(handle, msg.RequestID, ws.AckPayload{OK: true})
	h.deliver(events)
	return ackErr
}

// deliver fans events out to their recipient handles. Connections that have
// gone away are skipped; their disconnect path cleans up the roster.
func (h *Handler) deliver(events []Event) {
	for _, ev := range events {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			h.logger.Error().Err(err).Str("event", ev.Type).Msg("marshal broadcast payload")
			continue
		}
		msg := ws.Message{Type: ev.Type, Payload: payload}
		for _, handle := range ev.Recipients {
			if err := h.hub.Send(handle, msg); err != nil {
				h.logger.Warn().Err(err).
					Str("event", ev.Type).
					Str("handle", handle.String()).
					Msg("broadcast send failed")
			}
		}
	}
}

func (h *Handler) ack(handle uuid.UUID, requestID string, payload ws.AckPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return h.hub.Send(handle, ws.Message{Type: ws.TypeAck, Payload: data, RequestID: requestID})
}

// nack turns a session-machine error into a failure ack for the caller only.
func (h *Handler) nack(handle uuid.UUID, requestID string, err error) error {
	message := err.Error()
	if gerr, ok := err.(*Error); ok {
		message = gerr.Message
	}
	return h.ack(handle, requestID, ws.AckPayload{OK: false, Error: message})
}

func (h *Handler) sendError(handle uuid.UUID, code, message string) error {
	data, err := json.Marshal(ws.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return err
	}
	return h.hub.Send(handle, ws.Message{Type: ws.TypeError, Payload: data})
}
