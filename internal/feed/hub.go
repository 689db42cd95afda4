package feed

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type BottleEvent struct {
	PlayerID string    `json:"playerId"`
	Amount   int32     `json:"amount"`
	Time     time.Time `json:"time"`
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

// Hub streams taken bottles to every connected websocket client.
type Hub struct {
	logger *zap.SugaredLogger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debugw("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}
	h.addClient(c)
	defer func() {
		h.removeClient(c)
		_ = conn.Close()
	}()

	// the feed is one way, reading only detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) AnnounceBottle(playerID uuid.UUID, amount int32) {
	h.broadcast(envelope{
		Type: "bottle",
		Payload: BottleEvent{
			PlayerID: playerID.String(),
			Amount:   amount,
			Time:     time.Now(),
		},
	})
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) addClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

func (h *Hub) broadcast(e envelope) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.writeJSON(e); err != nil {
			h.logger.Debugw("dropping feed client", "error", err)
			_ = c.conn.Close()
			h.removeClient(c)
		}
	}
}
