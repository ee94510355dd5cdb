package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/api"
	"github.com/launchdash/launchdash/server/internal/dataset"
	"github.com/launchdash/launchdash/server/internal/metrics"
	"github.com/launchdash/launchdash/server/internal/view"
)

const (
	// DefaultPingPeriod controls how often the server sends WebSocket ping
	// frames when Options leaves it unset.
	DefaultPingPeriod = 54 * time.Second

	// DefaultWriteTimeout is the deadline for a single write to a client.
	DefaultWriteTimeout = 10 * time.Second

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16

	// maxInputSize bounds one input event frame.
	maxInputSize = 1024
)

// Event names.
const (
	EventViews        = "views"
	EventError        = "error"
	EventSiteChanged  = "site_changed"
	EventRangeChanged = "range_changed"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; callers should apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event string       `json:"event"`
	Data  *types.Views `json:"data,omitempty"`
	Error string       `json:"error,omitempty"`
}

// Input is an input event sent by a client. Site is read for site_changed,
// Low and High for range_changed.
type Input struct {
	Event string   `json:"event"`
	Site  *string  `json:"site,omitempty"`
	Low   *float64 `json:"low,omitempty"`
	High  *float64 `json:"high,omitempty"`
}

// Options tunes the session keepalive. Zero values pick the defaults.
type Options struct {
	PingPeriod   time.Duration
	WriteTimeout time.Duration
}

// Hub manages WebSocket sessions. Each session owns its selection and is
// answered with freshly computed views after every input event.
type Hub struct {
	ds           *dataset.Dataset
	metrics      *metrics.Metrics
	pingPeriod   time.Duration
	pongWait     time.Duration
	writeTimeout time.Duration

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket session.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub serving views over ds. m may be nil.
func New(ds *dataset.Dataset, m *metrics.Metrics, opts Options) *Hub {
	if opts.PingPeriod <= 0 {
		opts.PingPeriod = DefaultPingPeriod
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	return &Hub{
		ds:           ds,
		metrics:      m,
		pingPeriod:   opts.PingPeriod,
		pongWait:     opts.PingPeriod * 10 / 9,
		writeTimeout: opts.WriteTimeout,
		clients:      make(map[*client]struct{}),
	}
}

// Run blocks until ctx is cancelled, then closes all active sessions.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves one session.
// The views for the default selection are sent immediately on connect.
// Blocks until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	h.register(c)
	defer h.unregister(c)

	sel := view.DefaultSelection(h.ds)
	h.enqueue(c, h.viewsMessage(sel))

	go h.writePump(c)
	h.readPump(c, sel) // blocks until connection closes
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Apply returns the selection that results from in. The current selection
// is returned unchanged together with an error when in is not valid.
func Apply(sel types.Selection, in Input) (types.Selection, error) {
	next := sel
	switch in.Event {
	case EventSiteChanged:
		if in.Site == nil {
			return sel, fmt.Errorf("%s: site is required", in.Event)
		}
		next.Site = *in.Site
	case EventRangeChanged:
		if in.Low == nil || in.High == nil {
			return sel, fmt.Errorf("%s: low and high are required", in.Event)
		}
		next.Range = types.Range{Low: *in.Low, High: *in.High}
	default:
		return sel, fmt.Errorf("unknown event %q", in.Event)
	}
	if err := view.Validate(next); err != nil {
		return sel, err
	}
	return next, nil
}

// --- internal ---------------------------------------------------------------

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.SessionOpened()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		h.metrics.SessionClosed()
	}
}

// enqueue hands msg to the client's writer. A client whose buffer is full is
// disconnected. The read lock keeps send open for the duration.
func (h *Hub) enqueue(c *client, msg []byte) {
	if msg == nil {
		return
	}
	h.mu.RLock()
	_, ok := h.clients[c]
	full := false
	if ok {
		select {
		case c.send <- msg:
		default:
			full = true
		}
	}
	h.mu.RUnlock()
	if full {
		slog.Warn("ws: client send buffer full, disconnecting", "remote", c.conn.RemoteAddr().String())
		h.unregister(c)
	}
}

func (h *Hub) viewsMessage(sel types.Selection) []byte {
	v := api.BuildViews(h.ds, h.metrics, sel)
	return h.marshal(Message{Event: EventViews, Data: &v})
}

func (h *Hub) errorMessage(err error) []byte {
	return h.marshal(Message{Event: EventError, Error: err.Error()})
}

func (h *Hub) marshal(msg Message) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("ws: marshal message", "event", msg.Event, "err", err)
		return nil
	}
	return data
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	n := len(h.clients)
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.mu.Unlock()
	for i := 0; i < n; i++ {
		h.metrics.SessionClosed()
	}
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads input events and answers each with a views or error
// message. The session's selection lives here. Blocks until the
// connection closes.
func (h *Hub) readPump(c *client, sel types.Selection) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxInputSize)
	c.conn.SetReadDeadline(time.Now().Add(h.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(h.pongWait))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var in Input
		if err := json.Unmarshal(data, &in); err != nil {
			h.enqueue(c, h.errorMessage(fmt.Errorf("malformed input: %w", err)))
			continue
		}
		next, err := Apply(sel, in)
		if err != nil {
			slog.Debug("ws: rejected input", "event", in.Event, "err", err)
			h.enqueue(c, h.errorMessage(err))
			continue
		}
		sel = next
		h.enqueue(c, h.viewsMessage(sel))
	}
}
