package server

import (
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	sendChSize = 64
	writeWait  = 10 * time.Second
	maxMessage = 4096
)

// client owns one websocket connection with a single write goroutine.
type client struct {
	conn    *ws.Conn
	limiter *rate.Limiter
	log     zerolog.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(conn *ws.Conn, limiter *rate.Limiter, log zerolog.Logger) *client {
	return &client{
		conn:    conn,
		limiter: limiter,
		log:     log,
		send:    make(chan []byte, sendChSize),
	}
}

// enqueue hands data to the write loop without blocking. It reports false
// when the client is closed or its buffer is full.
func (c *client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			c.log.Debug().Err(err).Msg("set write deadline")
			return
		}
		if err := c.conn.WriteMessage(ws.TextMessage, data); err != nil {
			c.log.Debug().Err(err).Msg("write failed")
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
}

type hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*client]struct{})}
}

func (h *hub) add(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	return len(h.clients)
}

func (h *hub) remove(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	return len(h.clients)
}

func (h *hub) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast returns the number of clients that could not take data.
func (h *hub) broadcast(data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for c := range h.clients {
		if !c.enqueue(data) {
			dropped++
		}
	}
	return dropped
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}
