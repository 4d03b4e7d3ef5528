package live

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/purview-dev/purview/pkg/purview"
)

// sendBuffer caps per-connection outbound frames. A slow reader drops
// frames rather than stalling the loop; every frame carries full view
// values, so a dropped frame is made whole by the next one.
const sendBuffer = 32

// conn is one WebSocket client acting as a purview observer.
//
// Fields below the mutex-free line are confined to the server's loop
// goroutine: the handle, view names, and pending flag are only ever touched
// from dispatched functions.
type conn[T any] struct {
	srv *Server[T]
	ws  *websocket.Conn

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// Loop-confined state.
	handle  *purview.Handle[T]
	names   []string
	pending bool
	closed  bool
}

func newConn[T any](srv *Server[T], ws *websocket.Conn) *conn[T] {
	c := &conn[T]{
		srv:  srv,
		ws:   ws,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c
}

// readPump processes client frames until the connection drops.
// Runs on the HTTP handler goroutine; all observer work is dispatched.
func (c *conn[T]) readPump() {
	defer c.shutdown()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.dispatchError("malformed frame")
			continue
		}

		switch frame.Type {
		case frameSubscribe:
			c.handleSubscribe(frame.Views)
		case frameUnsubscribe:
			c.srv.loop.Dispatch(c.detachViews)
		default:
			c.dispatchError(fmt.Sprintf("unknown frame type %q", frame.Type))
		}
	}
}

// handleSubscribe validates the requested views and swaps the observer.
// The view map is immutable once the server is serving, so validation is
// safe off the loop.
func (c *conn[T]) handleSubscribe(requested []string) {
	if len(requested) == 0 {
		c.dispatchError("subscribe requires at least one view")
		return
	}

	var unknown []string
	for _, name := range requested {
		if _, ok := c.srv.views[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		c.dispatchError(fmt.Sprintf("unknown views: %v", unknown))
		return
	}

	// Sorted, deduplicated declaration order keeps the selector sequence
	// stable across every evaluation pass of this observer.
	names := append([]string(nil), requested...)
	sort.Strings(names)
	names = dedupe(names)

	c.srv.loop.Dispatch(func() {
		c.resubscribe(names)
	})
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}

// resubscribe replaces this connection's observer. Runs on the loop.
func (c *conn[T]) resubscribe(names []string) {
	if c.closed {
		return
	}

	if c.handle != nil {
		c.handle.Detach()
	}
	c.names = names
	c.pending = false
	c.handle = purview.Attach(c.srv.store, c.wake)

	// Initial values for the new view set.
	c.evaluate()
}

// wake is the observer wake callback: it schedules an evaluation pass on
// the loop rather than evaluating synchronously, since it fires from inside
// a notification pass. Multiple transitions before the pass runs coalesce
// into one evaluation.
func (c *conn[T]) wake() {
	if c.pending {
		return
	}
	c.pending = true
	if !c.srv.loop.Dispatch(c.evaluate) {
		// A refused dispatch means no evaluation pass is queued; leaving
		// pending set would make every later wake a no-op and freeze the
		// connection for good.
		c.pending = false
	}
}

// evaluate runs one evaluation pass and pushes the resulting values.
// Runs on the loop.
func (c *conn[T]) evaluate() {
	c.pending = false
	if c.closed || c.handle == nil {
		return
	}

	c.handle.BeginPass()
	values := make(map[string]any, len(c.names))
	for _, name := range c.names {
		sel := c.srv.views[name]
		values[name] = purview.Map(c.handle, func(s *T) any {
			return sel(s)
		})
	}

	c.push(serverFrame{Type: frameUpdate, Values: values})
}

// detachViews tears down the observer but keeps the connection. Runs on
// the loop.
func (c *conn[T]) detachViews() {
	if c.handle != nil {
		c.handle.Detach()
		c.handle = nil
		c.names = nil
	}
}

// teardown marks the connection closed and detaches. Runs on the loop.
func (c *conn[T]) teardown() {
	c.closed = true
	c.detachViews()
}

// push marshals and queues a frame. Runs on the loop.
func (c *conn[T]) push(frame serverFrame) {
	if c.closed {
		return
	}
	data, err := json.Marshal(frame)
	if err != nil {
		c.srv.log.Error("failed to marshal frame", "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.srv.log.Warn("slow live client, dropping frame", "remote", c.ws.RemoteAddr())
	}
}

func (c *conn[T]) dispatchError(msg string) {
	c.srv.loop.Dispatch(func() {
		c.push(serverFrame{Type: frameError, Error: msg})
	})
}

// shutdown ends the connection exactly once: the write pump stops, the
// socket closes, and the observer detaches on the loop. The store prunes
// the dead subscription on its next transition.
func (c *conn[T]) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
		c.srv.loop.Dispatch(c.teardown)
	})
}

// writePump drains outbound frames onto the socket.
func (c *conn[T]) writePump() {
	for {
		select {
		case data := <-c.send:
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
