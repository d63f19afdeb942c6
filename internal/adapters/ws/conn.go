package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"studyhall/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// wsConn is the transport endpoint behind core.SignalConnection. Writes go
// through a buffered channel drained by the write pump; TrySend never blocks.
type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWSConn(conn *websocket.Conn, buffer int) *wsConn {
	return &wsConn{
		conn: conn,
		send: make(chan core.Frame, buffer),
	}
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}
