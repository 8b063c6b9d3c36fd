// Package transport provides the concrete room channel used by the
// marketplace surfaces. Connection lifecycle stays with the routing layer:
// it dials, registers the handle with the presence broadcaster, and closes it
// on navigation away.
package transport

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocket adapts a gorilla connection to the narrow Transport contract the
// core reads and writes through.
type WebSocket struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// RoomURL builds the backend room endpoint, token carried as a query
// parameter the way the chat backend authenticates socket upgrades.
func RoomURL(wsBase, roomID, token string) string {
	return fmt.Sprintf("%s/ws/chat/%s/?token=%s", wsBase, roomID, url.QueryEscape(token))
}

// Dial opens the room connection.
func Dial(ctx context.Context, rawURL string) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", rawURL, err)
	}
	return &WebSocket{conn: conn}, nil
}

// Ready reports whether the connection can take a payload.
func (w *WebSocket) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn != nil && !w.closed
}

// Send writes one text payload. Writes are serialized; a failed write marks
// the transport closed so followers skip it instead of erroring again.
func (w *WebSocket) Send(payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil || w.closed {
		return fmt.Errorf("transport: connection closed")
	}
	if err := w.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		w.closed = true
		return err
	}
	return nil
}

// Close shuts the connection down and marks the handle closed.
func (w *WebSocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil || w.closed {
		return nil
	}
	w.closed = true
	return w.conn.Close()
}
