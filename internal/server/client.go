package server

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// writeTimeout bounds how long one send may hold the write lock. A consumer
// slower than this gets its frame dropped by the deadline instead of
// stalling the engine.
const writeTimeout = 5 * time.Second

// wsClient adapts one websocket connection to the watch.Client contract.
// Ready flips false when the connection closes; a failed Send never
// triggers cleanup here — detachment happens only through unsubscribe or
// connection teardown.
type wsClient struct {
	conn    *websocket.Conn
	log     *slog.Logger
	writeMu sync.Mutex
	open    atomic.Bool
}

func newWSClient(conn *websocket.Conn, log *slog.Logger) *wsClient {
	c := &wsClient{conn: conn, log: log}
	c.open.Store(true)
	return c
}

// Ready reports whether the connection is still open.
func (c *wsClient) Ready() bool {
	return c.open.Load()
}

// Send writes one text frame. Concurrent sends are serialized; gorilla
// connections support one writer at a time.
func (c *wsClient) Send(payload string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(payload))
}

// shutdown marks the client not ready and closes the socket.
func (c *wsClient) shutdown() {
	c.open.Store(false)
	if err := c.conn.Close(); err != nil {
		c.log.Debug("close connection", "error", err)
	}
}
