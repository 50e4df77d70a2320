package ws

import (
	"context"
	"encoding/json"

	"realtime-service/internal/models"
)

// Typing signals are ephemeral relays: no persistence, no friendship check.
// A stale or unauthorized typing signal has no durable consequence, so the
// only precondition is a present recipient.

func (g *Gateway) handleTypingStart(ctx context.Context, conn *Conn, data json.RawMessage) error {
	var req models.TypingData
	if err := json.Unmarshal(data, &req); err != nil || req.RecipientID == 0 {
		return invalidRequest("recipient required")
	}

	g.hub.Broadcast(PersonalRoom(req.RecipientID), models.EventUserTyping, models.TypingEvent{
		UserID:   conn.User.ID,
		Username: conn.User.Username,
	}, nil)
	return nil
}

func (g *Gateway) handleTypingStop(ctx context.Context, conn *Conn, data json.RawMessage) error {
	var req models.TypingData
	if err := json.Unmarshal(data, &req); err != nil || req.RecipientID == 0 {
		return invalidRequest("recipient required")
	}

	g.hub.Broadcast(PersonalRoom(req.RecipientID), models.EventUserStoppedTyping, models.TypingEvent{
		UserID: conn.User.ID,
	}, nil)
	return nil
}

func (g *Gateway) handleJoinChat(ctx context.Context, conn *Conn, data json.RawMessage) error {
	var req models.ChatRoomData
	if err := json.Unmarshal(data, &req); err != nil || req.ChatID == "" {
		return invalidRequest("chat id required")
	}

	g.hub.Join(conn, ChatRoom(req.ChatID))
	conn.Send(models.EventJoinedChat, models.ChatRoomData{ChatID: req.ChatID})
	return nil
}

func (g *Gateway) handleLeaveChat(ctx context.Context, conn *Conn, data json.RawMessage) error {
	var req models.ChatRoomData
	if err := json.Unmarshal(data, &req); err != nil || req.ChatID == "" {
		return invalidRequest("chat id required")
	}

	g.hub.Leave(conn, ChatRoom(req.ChatID))
	conn.Send(models.EventLeftChat, models.ChatRoomData{ChatID: req.ChatID})
	return nil
}
