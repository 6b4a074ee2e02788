package channel

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Transport is the framed byte stream a Channel runs on. Implementations must
// deliver whole frames, in order, and fail reads once the stream is gone.
// WriteMessage may be called from multiple goroutines.
type Transport interface {
	WriteMessage(data []byte) error
	ReadMessage() ([]byte, error)
	Close() error
	RemoteAddr() string
}

// wsTransport adapts a websocket connection to Transport. Each protocol
// message travels as one text frame. gorilla/websocket allows at most one
// concurrent writer, hence the mutex.
type wsTransport struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewWebsocketTransport wraps an established websocket connection.
func NewWebsocketTransport(conn *websocket.Conn) Transport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) WriteMessage(data []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

func (t *wsTransport) ReadMessage() ([]byte, error) {
	_, data, err := t.conn.ReadMessage()
	return data, err
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}

func (t *wsTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}
