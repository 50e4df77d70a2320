package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"realtime-service/internal/models"
)

const defaultMessageType = "text"

// confirmToOriginOnly pins the sent-confirmation policy: message_sent goes to
// the originating connection only, not to the sender's other devices. This
// preserves the per-device confirmation behavior of the platform's clients;
// flipping it would echo "sent" onto devices that never sent anything.
const confirmToOriginOnly = true

// handleSendMessage relays a direct message between two users. The accepted
// friendship edge is re-read on every message, so a block or removal takes
// effect on the next attempt.
func (g *Gateway) handleSendMessage(ctx context.Context, conn *Conn, data json.RawMessage) error {
	var req models.SendMessageData
	if err := json.Unmarshal(data, &req); err != nil {
		return invalidRequest("malformed send_message payload")
	}
	if req.Message == "" || req.RecipientID == 0 {
		return invalidRequest("message and recipient required")
	}

	friends, err := g.friendships.AreFriends(ctx, conn.User.ID, req.RecipientID)
	if err != nil {
		g.logger.Error("friendship lookup failed",
			zap.Int("sender_id", conn.User.ID),
			zap.Int("recipient_id", req.RecipientID),
			zap.Error(err))
		return persistenceFailure("failed to send message")
	}
	if !friends {
		return unauthorized("can only message connections")
	}

	messageType := req.Type
	if messageType == "" {
		messageType = defaultMessageType
	}
	envelope := models.ChatMessage{
		ID:          uuid.NewString(),
		SenderID:    conn.User.ID,
		RecipientID: req.RecipientID,
		Message:     req.Message,
		Type:        messageType,
		Timestamp:   time.Now(),
		Sender:      conn.User,
	}

	// One delivery per live recipient device; zero devices is fine, the
	// notification record below covers the offline case.
	g.hub.Broadcast(PersonalRoom(req.RecipientID), models.EventReceiveMessage, envelope, nil)

	if confirmToOriginOnly {
		conn.Send(models.EventMessageSent, envelope)
	} else {
		g.hub.Broadcast(PersonalRoom(conn.User.ID), models.EventMessageSent, envelope, nil)
	}

	if _, err := g.notifier.MessageSent(ctx, conn.User, req.RecipientID); err != nil {
		g.logger.Error("message notification failed",
			zap.Int("sender_id", conn.User.ID),
			zap.Int("recipient_id", req.RecipientID),
			zap.Error(err))
		return persistenceFailure("failed to record message notification")
	}
	return nil
}
