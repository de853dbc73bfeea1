package gateway

import "encoding/json"

// Event bus topics published by the gateway when clients send commands.
// The engine loop subscribes and applies them on its own goroutine.
const (
	TopicSelect       = "chart.select"
	TopicInput        = "chart.input"
	TopicClear        = "chart.clear"
	TopicResize       = "chart.resize"
	TopicVisibleRange = "chart.range"
)

// CommandMsg is the envelope for all inbound client messages.
type CommandMsg struct {
	Type string `json:"type"`

	// SELECT
	Indicator string `json:"indicator,omitempty"`

	// INPUT
	Name  string          `json:"name,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`

	// RESIZE
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// RANGE
	From int `json:"from,omitempty"`
	To   int `json:"to,omitempty"`

	// Latency probe
	Ping int64 `json:"ping,omitempty"`
}

// SelectCmd asks the engine to switch the selected indicator.
type SelectCmd struct {
	ClientID  string
	Indicator string
}

// InputCmd edits one input of the current selection. Value keeps the raw
// JSON so the engine can hand numbers and booleans to the indicator as-is.
type InputCmd struct {
	ClientID string
	Name     string
	Value    any
}

// ResizeCmd resizes the scene.
type ResizeCmd struct {
	Width  int
	Height int
}

// RangeCmd sets the visible logical range.
type RangeCmd struct {
	From int
	To   int
}

// errorMsg is sent back to a client on a malformed or rejected command.
type errorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func encodeError(msg string) []byte {
	b, _ := json.Marshal(errorMsg{Type: "error", Error: msg})
	return b
}

// snapshotEnvelope wraps one scene snapshot for broadcast.
type snapshotEnvelope struct {
	Type  string          `json:"type"`
	Seq   int64           `json:"seq"`
	Scene json.RawMessage `json:"scene"`
}

// helloMsg is the first message a client receives: its session ID plus the
// indicator catalog so the UI can build its selection menu.
type helloMsg struct {
	Type       string   `json:"type"`
	ClientID   string   `json:"client_id"`
	Indicators []string `json:"indicators"`
}
