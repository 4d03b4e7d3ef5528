package live

// Frame types exchanged over the WebSocket.
const (
	// frameSubscribe declares the client's view set. Re-subscribing
	// replaces the previous set (the old observer is detached and a new
	// one attached).
	frameSubscribe = "subscribe"

	// frameUnsubscribe detaches the client's observer without closing
	// the connection.
	frameUnsubscribe = "unsubscribe"

	// frameUpdate carries the current values of the client's subscribed
	// views. Sent once on subscribe and once per wake.
	frameUpdate = "update"

	// frameError reports a protocol problem, e.g. an unknown view name.
	frameError = "error"
)

// clientFrame is a message from the client.
type clientFrame struct {
	Type  string   `json:"type"`
	Views []string `json:"views,omitempty"`
}

// serverFrame is a message to the client.
type serverFrame struct {
	Type   string         `json:"type"`
	Values map[string]any `json:"values,omitempty"`
	Error  string         `json:"error,omitempty"`
}
