package events

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fieldscope/fieldscope/pkg/lifecycle"
)

const (
	// Buffered so Publish never blocks a request path; events beyond the
	// buffer are dropped rather than queued unboundedly.
	broadcastBuffer = 256
	clientBuffer    = 32

	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub is a Broadcaster backed by a WebSocket fan-out loop. Slow consumers
// are disconnected instead of backpressuring the pipeline.
type Hub struct {
	logger     *slog.Logger
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan Event
	done       chan struct{}
}

// NewHub creates a Hub. Call Start to begin the fan-out loop.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger.With("system", "events"),
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Event, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Start launches the fan-out loop and registers shutdown with the coordinator.
func (h *Hub) Start(lc *lifecycle.Coordinator) error {
	go h.run()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		h.logger.Info("closing event hub")
		close(h.done)
	})

	return nil
}

// Publish implements Broadcaster. Events are dropped when the broadcast
// buffer is full so callers are never blocked by the transport.
func (h *Hub) Publish(e Event) {
	select {
	case h.broadcast <- e:
	default:
		h.logger.Warn("event dropped, broadcast buffer full", "type", e.Type)
	}
}

// Handler returns the WebSocket upgrade endpoint for subscribers.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Error("websocket upgrade failed", "error", err)
			return
		}

		c := &client{
			conn: conn,
			send: make(chan []byte, clientBuffer),
		}

		h.register <- c

		go c.writePump()
		go h.readPump(c)
	}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Info("client connected", "total", len(h.clients))
			h.fanout(New(ClientCount, map[string]int{"connected": len(h.clients)}))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Info("client disconnected", "total", len(h.clients))
				h.fanout(New(ClientCount, map[string]int{"connected": len(h.clients)}))
			}

		case e := <-h.broadcast:
			h.fanout(e)

		case <-h.done:
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		}
	}
}

func (h *Hub) fanout(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("marshal event failed", "type", e.Type, "error", err)
		return
	}

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			close(c.send)
			h.logger.Warn("slow consumer dropped", "type", e.Type)
		}
	}
}

// readPump discards inbound messages; subscribers are read-only. Its job is
// to detect disconnects and trigger unregistration.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker((pongWait * 9) / 10)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
