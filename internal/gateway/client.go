package gateway

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 4096
)

// Client represents a single WebSocket peer.
type Client struct {
	id   string
	conn *websocket.Conn
	hub  *Hub
	send chan []byte
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		hub:  h,
		send: make(chan []byte, 256),
	}
}

// enqueue queues a message without blocking; a client that cannot keep up
// loses intermediate snapshots, which is fine since each one is complete.
func (c *Client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// Write coalescing: batch queued messages into a single
			// WebSocket frame with newline separators
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(msg)

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var cmd CommandMsg
		if err := json.Unmarshal(msg, &cmd); err != nil {
			c.enqueue(encodeError("invalid message: " + err.Error()))
			continue
		}
		c.dispatch(cmd)
	}
}

// dispatch publishes one parsed command on the bus.
func (c *Client) dispatch(cmd CommandMsg) {
	switch cmd.Type {
	case "select":
		if cmd.Indicator == "" {
			c.enqueue(encodeError("select requires an indicator"))
			return
		}
		c.hub.bus.Publish(TopicSelect, SelectCmd{ClientID: c.id, Indicator: cmd.Indicator})

	case "input":
		if cmd.Name == "" {
			c.enqueue(encodeError("input requires a name"))
			return
		}
		var value any
		if err := json.Unmarshal(cmd.Value, &value); err != nil {
			c.enqueue(encodeError("input value: " + err.Error()))
			return
		}
		c.hub.bus.Publish(TopicInput, InputCmd{ClientID: c.id, Name: cmd.Name, Value: value})

	case "clear":
		c.hub.bus.Publish(TopicClear)

	case "resize":
		if cmd.Width <= 0 || cmd.Height <= 0 {
			c.enqueue(encodeError("resize requires positive width and height"))
			return
		}
		c.hub.bus.Publish(TopicResize, ResizeCmd{Width: cmd.Width, Height: cmd.Height})

	case "range":
		c.hub.bus.Publish(TopicVisibleRange, RangeCmd{From: cmd.From, To: cmd.To})

	case "":
		// Latency probe
		if cmd.Ping > 0 {
			pong, _ := json.Marshal(map[string]interface{}{
				"type":      "pong",
				"ping":      cmd.Ping,
				"server_ts": time.Now().UnixMilli(),
			})
			c.enqueue(pong)
		}

	default:
		c.enqueue(encodeError("unknown command " + cmd.Type))
	}
}
