package feed

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bottleEnvelope struct {
	Type    string      `json:"type"`
	Payload BottleEvent `json:"payload"`
}

func TestHub_AnnounceBottle(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	playerID := uuid.New()
	hub.AnnounceBottle(playerID, 50000)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var got bottleEnvelope
	require.NoError(t, conn.ReadJSON(&got))

	assert.Equal(t, "bottle", got.Type)
	assert.Equal(t, playerID.String(), got.Payload.PlayerID)
	assert.Equal(t, int32(50000), got.Payload.Amount)
}

func TestHub_RemovesClosedClients(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
