// Package gateway pushes rendered scene snapshots to browser clients over
// WebSocket and feeds their chart commands back to the engine loop through
// an event bus. The gateway never touches chart state itself; it only
// carries bytes out and commands in.
package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/gorilla/websocket"

	"chartkit/internal/indicator"
	"chartkit/internal/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

// Hub manages WebSocket clients and snapshot fan-out.
type Hub struct {
	bus  EventBus.Bus
	log  *slog.Logger
	prom *metrics.Metrics // optional

	mu      sync.RWMutex
	clients map[*Client]bool
	seq     int64
	latest  []byte // last broadcast envelope, replayed to new clients
}

// NewHub creates a hub publishing client commands on bus. prom may be nil.
func NewHub(bus EventBus.Bus, log *slog.Logger, prom *metrics.Metrics) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		bus:     bus,
		log:     log,
		prom:    prom,
		clients: make(map[*Client]bool),
	}
}

// HandleWS upgrades an HTTP connection and registers the client.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", slog.Any("error", err))
		return
	}
	conn.EnableWriteCompression(true)

	client := newClient(h, conn)

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	latest := h.latest
	h.mu.Unlock()

	if h.prom != nil {
		h.prom.WSClients.Set(float64(count))
	}
	h.log.Info("ws client connected",
		slog.String("client_id", client.id),
		slog.Int("total", count),
	)

	hello, _ := json.Marshal(helloMsg{
		Type:       "hello",
		ClientID:   client.id,
		Indicators: indicator.Names(),
	})
	client.enqueue(hello)
	if latest != nil {
		client.enqueue(latest)
	}

	go client.writePump()
	go client.readPump()
}

// BroadcastSnapshot wraps a scene snapshot in an envelope and fans it out.
// The envelope is also retained so late-joining clients get the current
// scene immediately.
func (h *Hub) BroadcastSnapshot(scene []byte) {
	h.mu.Lock()
	h.seq++
	envelope, err := json.Marshal(snapshotEnvelope{
		Type:  "snapshot",
		Seq:   h.seq,
		Scene: json.RawMessage(scene),
	})
	if err != nil {
		h.mu.Unlock()
		h.log.Error("snapshot encode failed", slog.Any("error", err))
		return
	}
	h.latest = envelope

	for client := range h.clients {
		client.enqueue(envelope)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if h.prom != nil {
		h.prom.SnapshotBytes.Observe(float64(len(envelope)))
		if n > 0 {
			h.prom.SnapshotsSent.Add(float64(n))
		}
	}
}

// removeClient unregisters a client and closes its send queue.
func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	close(c.send)
	if h.prom != nil {
		h.prom.WSClients.Set(float64(count))
	}
	h.log.Info("ws client disconnected",
		slog.String("client_id", c.id),
		slog.Int("total", count),
	)
}

// ClientCount returns the number of connected WS clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
