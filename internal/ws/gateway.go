package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"realtime-service/internal/auth"
	"realtime-service/internal/models"
	"realtime-service/internal/observability"
	"realtime-service/internal/presence"
	"realtime-service/internal/repositories"
)

// Notifier is the slice of the fan-out engine the socket handlers trigger.
type Notifier interface {
	MessageSent(ctx context.Context, sender models.UserIdentity, recipientID int) (models.Notification, error)
	PostLiked(ctx context.Context, liker models.UserIdentity, authorID, postID int) error
	CommentAdded(ctx context.Context, commenter models.UserIdentity, authorID, postID int) error
	FriendRequestSent(ctx context.Context, sender models.UserIdentity, recipientID int) error
	FriendRequestAccepted(ctx context.Context, accepter models.UserIdentity, requesterID int) error
}

// handlerFunc processes one inbound client event on an active connection.
type handlerFunc func(ctx context.Context, conn *Conn, data json.RawMessage) error

// Gateway accepts websocket connections, authenticates them before the
// upgrade, registers presence, and dispatches inbound events by name.
type Gateway struct {
	verifier    auth.Verifier
	hub         *Hub
	registry    *presence.Registry
	friendships repositories.FriendshipRepository
	notifier    Notifier
	logger      *zap.Logger

	handlers map[string]handlerFunc
	upgrader websocket.Upgrader
}

// NewGateway constructs the gateway and registers the inbound event handlers.
func NewGateway(
	verifier auth.Verifier,
	hub *Hub,
	registry *presence.Registry,
	friendships repositories.FriendshipRepository,
	notifier Notifier,
	logger *zap.Logger,
) *Gateway {
	g := &Gateway{
		verifier:    verifier,
		hub:         hub,
		registry:    registry,
		friendships: friendships,
		notifier:    notifier,
		logger:      logger.With(zap.String("component", "gateway")),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	g.handlers = map[string]handlerFunc{
		models.EventSendMessage:           g.handleSendMessage,
		models.EventTypingStart:           g.handleTypingStart,
		models.EventTypingStop:            g.handleTypingStop,
		models.EventJoinChat:              g.handleJoinChat,
		models.EventLeaveChat:             g.handleLeaveChat,
		models.EventPostLiked:             g.handlePostLiked,
		models.EventCommentAdded:          g.handleCommentAdded,
		models.EventFriendRequestSent:     g.handleFriendRequestSent,
		models.EventFriendRequestAccepted: g.handleFriendRequestAccepted,
	}
	return g
}

// Handle upgrades the connection after verifying the bearer credential.
// Authentication failure is a rejected handshake, never an in-band event:
// the connection goes straight to closed without presence side effects.
func (g *Gateway) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("realtime-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	identity, err := g.verifier.Verify(ctx, bearerToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	socket, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	meta := ConnMeta{
		IP:        observability.IPFromRequest(c.Request),
		RequestID: observability.RequestIDFromRequest(c.Request),
		TraceID:   span.SpanContext().TraceID().String(),
	}
	conn := NewConn(socket, identity, meta, g.logger)
	go conn.WritePump()

	g.activate(conn)
	go g.readLoop(conn)
}

// activate moves the connection into the active state: presence, personal
// room, online broadcast on the 0→1 transition only.
func (g *Gateway) activate(conn *Conn) {
	becameOnline := g.registry.Register(conn.User, conn.ID)
	g.hub.Join(conn, PersonalRoom(conn.User.ID))

	if becameOnline {
		g.hub.BroadcastAll(models.EventUserOnline, models.PresenceEvent{
			UserID:   conn.User.ID,
			Username: conn.User.Username,
		}, conn)
	}

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	g.publishLifecycleEvent(conn, "ws_connect", "")
	g.logger.Info("connection active",
		zap.String("conn_id", conn.ID),
		zap.Int("user_id", conn.User.ID),
		zap.Bool("became_online", becameOnline))
}

// readLoop processes inbound frames in arrival order for this connection.
// Other connections dispatch concurrently; only shared state synchronizes.
func (g *Gateway) readLoop(conn *Conn) {
	var once sync.Once
	teardown := func(reason string) {
		once.Do(func() { g.deactivate(conn, reason) })
	}
	defer teardown("")

	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
			}
			teardown(err.Error())
			return
		}
		g.dispatch(conn, frame)
	}
}

// dispatch routes one frame to its handler. Handler failures are converted
// to an in-band error event; only transport failures close the connection.
func (g *Gateway) dispatch(conn *Conn, frame []byte) {
	var event models.ClientEvent
	if err := json.Unmarshal(frame, &event); err != nil {
		conn.Send(models.EventError, models.ErrorEvent{Message: "malformed event"})
		return
	}

	handler, ok := g.handlers[event.Event]
	if !ok {
		conn.Send(models.EventError, models.ErrorEvent{Message: "unknown event: " + event.Event})
		return
	}

	observability.IncWSEvent(event.Event)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := handler(ctx, conn, event.Data); err != nil {
		if evErr, ok := err.(*EventError); ok {
			conn.Send(models.EventError, models.ErrorEvent{Message: evErr.Message})
			return
		}
		g.logger.Error("event handler failed",
			zap.String("event", event.Event),
			zap.String("conn_id", conn.ID),
			zap.Error(err))
		conn.Send(models.EventError, models.ErrorEvent{Message: "failed to process " + event.Event})
	}
}

// deactivate runs the closed-state cleanup exactly once per connection, no
// matter how many signals detected the disconnect.
func (g *Gateway) deactivate(conn *Conn, reason string) {
	g.hub.RemoveConn(conn)
	wentOffline := g.registry.Deregister(conn.User.ID, conn.ID)
	conn.Close()

	if wentOffline {
		g.hub.BroadcastAll(models.EventUserOffline, models.PresenceEvent{
			UserID:   conn.User.ID,
			Username: conn.User.Username,
		}, conn)
	}

	observability.DecWSActive()
	observability.IncWSEvent("ws_disconnect")
	g.publishLifecycleEvent(conn, "ws_disconnect", reason)
	g.logger.Info("connection closed",
		zap.String("conn_id", conn.ID),
		zap.Int("user_id", conn.User.ID),
		zap.Bool("went_offline", wentOffline),
		zap.String("reason", reason))
}

func (g *Gateway) publishLifecycleEvent(conn *Conn, name, reason string) {
	_ = observability.PublishEvent(context.Background(), observability.RoutingKeyWSEvents,
		observability.EventEnvelope{
			EventType: "ws_events",
			EventName: name,
			Payload: observability.WSEventPayload{
				Event:      name,
				ConnID:     conn.ID,
				UserID:     conn.User.ID,
				IP:         conn.IP,
				DurationMS: time.Since(conn.ConnectedAt).Milliseconds(),
				Reason:     reason,
			},
		}, observability.BuildHeaders(conn.RequestID, conn.TraceID))
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}
