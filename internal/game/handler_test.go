package game

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSelectedIndex(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *int
	}{
		{name: "number", value: float64(2), want: intPtr(2)},
		{name: "zero", value: float64(0), want: intPtr(0)},
		{name: "missing", value: nil, want: nil},
		{name: "string", value: "2", want: nil},
		{name: "bool", value: true, want: nil},
		{name: "object", value: map[string]any{"index": 2.0}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveSelectedIndex(tt.value))
		})
	}
}

// A malformed selection is not a protocol error: it submits as a null answer
// and consumes the player's single attempt.
func TestSubmitAnswerWithMalformedSelectionConsumesAttempt(t *testing.T) {
	svc := newTestService(t, 3)
	host := uuid.New()
	player := uuid.New()

	code, _ := svc.CreateRoom(host, "Alice")
	_, _, err := svc.JoinRoom(player, code, "Bob")
	require.NoError(t, err)
	_, err = svc.StartGame(host, code, 1)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(player, code, resolveSelectedIndex("not a number"))
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(player, code, resolveSelectedIndex(float64(0)))
	assert.Equal(t, ErrAlreadyAnswered, err)
}

func TestHandleWebSocketRejectsPlainHTTPRequests(t *testing.T) {
	h := NewHandler(nil, nil, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	h.HandleWebSocket(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "upgrade_failed")
}
