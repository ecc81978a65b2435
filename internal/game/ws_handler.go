package game

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/trivialive/trivia-server/internal/server"
	httperrors "github.com/trivialive/trivia-server/pkg/http/errors"
)

// HandleWebSocket upgrades the HTTP connection and assigns it a
// process-lifetime-unique handle. There is no authentication: the handle is
// the connection's whole identity.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUpgradeFailed, "WebSocket upgrade required")
		return
	}

	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written its error response.
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.HandleConnection(conn, uuid.New())
}
