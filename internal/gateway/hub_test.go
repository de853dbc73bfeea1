package gateway

import (
	"encoding/json"
	"testing"

	"github.com/asaskevich/EventBus"
)

func newTestClient(h *Hub) *Client {
	return &Client{id: "test-client", hub: h, send: make(chan []byte, 16)}
}

func TestBroadcastSnapshotSequencesAndRetains(t *testing.T) {
	h := NewHub(EventBus.New(), nil, nil)
	c := newTestClient(h)
	h.clients[c] = true

	h.BroadcastSnapshot([]byte(`{"panes":[]}`))
	h.BroadcastSnapshot([]byte(`{"panes":[{"index":0}]}`))

	for want := int64(1); want <= 2; want++ {
		var env snapshotEnvelope
		if err := json.Unmarshal(<-c.send, &env); err != nil {
			t.Fatal(err)
		}
		if env.Type != "snapshot" || env.Seq != want {
			t.Errorf("envelope %d: type=%s seq=%d", want, env.Type, env.Seq)
		}
	}

	// The latest envelope is retained for late joiners.
	var env snapshotEnvelope
	if err := json.Unmarshal(h.latest, &env); err != nil {
		t.Fatal(err)
	}
	if env.Seq != 2 || string(env.Scene) != `{"panes":[{"index":0}]}` {
		t.Errorf("latest = seq %d scene %s", env.Seq, env.Scene)
	}
}

func TestSlowClientDropsNotBlocks(t *testing.T) {
	h := NewHub(EventBus.New(), nil, nil)
	c := &Client{id: "slow", hub: h, send: make(chan []byte, 1)}
	h.clients[c] = true

	// Second broadcast overflows the queue; it must not block the hub.
	h.BroadcastSnapshot([]byte(`{}`))
	h.BroadcastSnapshot([]byte(`{}`))

	if len(c.send) != 1 {
		t.Errorf("queued = %d, want 1", len(c.send))
	}
}

func TestRemoveClientIdempotent(t *testing.T) {
	h := NewHub(EventBus.New(), nil, nil)
	c := newTestClient(h)
	h.clients[c] = true

	h.removeClient(c)
	if h.ClientCount() != 0 {
		t.Fatalf("count = %d, want 0", h.ClientCount())
	}
	// Second removal must not close the send channel twice.
	h.removeClient(c)
}

func TestDispatchPublishesCommands(t *testing.T) {
	bus := EventBus.New()
	h := NewHub(bus, nil, nil)
	c := newTestClient(h)

	var sel SelectCmd
	var input InputCmd
	var rng RangeCmd
	cleared := false
	bus.Subscribe(TopicSelect, func(cmd SelectCmd) { sel = cmd })
	bus.Subscribe(TopicInput, func(cmd InputCmd) { input = cmd })
	bus.Subscribe(TopicClear, func() { cleared = true })
	bus.Subscribe(TopicVisibleRange, func(cmd RangeCmd) { rng = cmd })

	c.dispatch(CommandMsg{Type: "select", Indicator: "RSI"})
	if sel.Indicator != "RSI" || sel.ClientID != c.id {
		t.Errorf("select = %+v", sel)
	}

	c.dispatch(CommandMsg{Type: "input", Name: "length", Value: json.RawMessage(`21`)})
	if input.Name != "length" || input.Value != float64(21) {
		t.Errorf("input = %+v", input)
	}

	c.dispatch(CommandMsg{Type: "clear"})
	if !cleared {
		t.Error("clear not published")
	}

	c.dispatch(CommandMsg{Type: "range", From: 10, To: 50})
	if rng.From != 10 || rng.To != 50 {
		t.Errorf("range = %+v", rng)
	}
}

func TestDispatchRejectsMalformedCommands(t *testing.T) {
	h := NewHub(EventBus.New(), nil, nil)
	c := newTestClient(h)

	cases := []CommandMsg{
		{Type: "select"},                            // missing indicator
		{Type: "input"},                             // missing name
		{Type: "resize", Width: 0, Height: 100},     // non-positive size
		{Type: "warp"},                              // unknown type
	}
	for _, cmd := range cases {
		c.dispatch(cmd)
		select {
		case raw := <-c.send:
			var e errorMsg
			if err := json.Unmarshal(raw, &e); err != nil || e.Type != "error" || e.Error == "" {
				t.Errorf("%s: bad error reply %s", cmd.Type, raw)
			}
		default:
			t.Errorf("%s: no error reply", cmd.Type)
		}
	}
}

func TestPingProbeAnswered(t *testing.T) {
	h := NewHub(EventBus.New(), nil, nil)
	c := newTestClient(h)

	c.dispatch(CommandMsg{Ping: 12345})
	var reply struct {
		Type     string `json:"type"`
		Ping     int64  `json:"ping"`
		ServerTS int64  `json:"server_ts"`
	}
	if err := json.Unmarshal(<-c.send, &reply); err != nil {
		t.Fatal(err)
	}
	if reply.Type != "pong" || reply.Ping != 12345 || reply.ServerTS == 0 {
		t.Errorf("pong = %+v", reply)
	}
}
