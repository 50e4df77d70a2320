package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"realtime-service/internal/models"
)

const (
	sendBufferSize = 64
	writeWait      = 10 * time.Second
)

// Conn is one physical bidirectional channel owned by exactly one verified
// user. Outbound frames go through a buffered channel drained by a single
// writer goroutine, so sends from concurrent handlers stay serialized and
// preserve enqueue order per connection.
type Conn struct {
	ID          string
	User        models.UserIdentity
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time

	socket *websocket.Conn
	send   chan []byte
	done   chan struct{}

	closeOnce sync.Once
	logger    *zap.Logger
}

// ConnMeta carries transport metadata captured at handshake time.
type ConnMeta struct {
	IP        string
	RequestID string
	TraceID   string
}

// NewConn wraps an upgraded websocket connection.
func NewConn(socket *websocket.Conn, user models.UserIdentity, meta ConnMeta, logger *zap.Logger) *Conn {
	id := uuid.NewString()
	return &Conn{
		ID:          id,
		User:        user,
		IP:          meta.IP,
		RequestID:   meta.RequestID,
		TraceID:     meta.TraceID,
		ConnectedAt: time.Now(),
		socket:      socket,
		send:        make(chan []byte, sendBufferSize),
		done:        make(chan struct{}),
		logger:      logger.With(zap.String("conn_id", id), zap.Int("user_id", user.ID)),
	}
}

// Send enqueues a server event. Delivery is fire-and-forget: when the buffer
// is full or the connection is closing the frame is dropped.
func (c *Conn) Send(event string, payload any) {
	frame, err := json.Marshal(models.ServerEvent{Event: event, Payload: payload})
	if err != nil {
		c.logger.Error("marshal outbound event", zap.String("event", event), zap.Error(err))
		return
	}

	select {
	case <-c.done:
	case c.send <- frame:
	default:
		c.logger.Warn("send buffer full, dropping event", zap.String("event", event))
	}
}

// WritePump drains the send channel onto the socket. It runs in its own
// goroutine and exits when the connection closes.
func (c *Conn) WritePump() {
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("websocket write failed", zap.Error(err))
				c.Close()
				return
			}
		}
	}
}

// ReadFrame blocks until the next inbound frame or a transport error.
func (c *Conn) ReadFrame() ([]byte, error) {
	_, payload, err := c.socket.ReadMessage()
	return payload, err
}

// Close tears down the transport. Safe to call from any goroutine and any
// number of times; only the first call has an effect.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.socket != nil {
			_ = c.socket.Close()
		}
	})
}

// Closed reports whether teardown has started.
func (c *Conn) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
