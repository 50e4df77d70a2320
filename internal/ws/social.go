package ws

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"realtime-service/internal/models"
)

// Social events arrive over the socket when the client performed the action
// through the REST layer and reports it for live fan-out. Each handler emits
// the immediate UI event to the subject's personal room and runs the fan-out
// engine, which owns the actor-is-subject guard for the durable record.

type postLikeEvent struct {
	PostID    int    `json:"postId"`
	LikerID   int    `json:"likerId"`
	LikerName string `json:"likerName"`
}

type newCommentEvent struct {
	PostID    int                 `json:"postId"`
	Comment   string              `json:"comment"`
	Commenter models.UserIdentity `json:"commenter"`
}

type friendRequestEvent struct {
	SenderID int                 `json:"senderId"`
	Sender   models.UserIdentity `json:"sender"`
}

type friendAcceptedEvent struct {
	AccepterID int                 `json:"accepterId"`
	Accepter   models.UserIdentity `json:"accepter"`
}

func (g *Gateway) handlePostLiked(ctx context.Context, conn *Conn, data json.RawMessage) error {
	var req models.PostLikedData
	if err := json.Unmarshal(data, &req); err != nil || req.AuthorID == 0 {
		return invalidRequest("post author required")
	}

	g.hub.Broadcast(PersonalRoom(req.AuthorID), models.EventPostLikeNotification, postLikeEvent{
		PostID:    req.PostID,
		LikerID:   conn.User.ID,
		LikerName: conn.User.Label(),
	}, nil)

	if err := g.notifier.PostLiked(ctx, conn.User, req.AuthorID, req.PostID); err != nil {
		g.logger.Error("post like notification failed", zap.Int("post_id", req.PostID), zap.Error(err))
		return persistenceFailure("failed to record like notification")
	}
	return nil
}

func (g *Gateway) handleCommentAdded(ctx context.Context, conn *Conn, data json.RawMessage) error {
	var req models.CommentAddedData
	if err := json.Unmarshal(data, &req); err != nil || req.AuthorID == 0 {
		return invalidRequest("post author required")
	}

	g.hub.Broadcast(PersonalRoom(req.AuthorID), models.EventNewCommentNotify, newCommentEvent{
		PostID:    req.PostID,
		Comment:   req.Comment,
		Commenter: conn.User,
	}, nil)

	if err := g.notifier.CommentAdded(ctx, conn.User, req.AuthorID, req.PostID); err != nil {
		g.logger.Error("comment notification failed", zap.Int("post_id", req.PostID), zap.Error(err))
		return persistenceFailure("failed to record comment notification")
	}
	return nil
}

func (g *Gateway) handleFriendRequestSent(ctx context.Context, conn *Conn, data json.RawMessage) error {
	var req models.FriendRequestData
	if err := json.Unmarshal(data, &req); err != nil || req.RecipientID == 0 {
		return invalidRequest("recipient required")
	}

	g.hub.Broadcast(PersonalRoom(req.RecipientID), models.EventFriendRequestReceived, friendRequestEvent{
		SenderID: conn.User.ID,
		Sender:   conn.User,
	}, nil)

	if err := g.notifier.FriendRequestSent(ctx, conn.User, req.RecipientID); err != nil {
		g.logger.Error("friend request notification failed", zap.Int("recipient_id", req.RecipientID), zap.Error(err))
		return persistenceFailure("failed to record friend request notification")
	}
	return nil
}

func (g *Gateway) handleFriendRequestAccepted(ctx context.Context, conn *Conn, data json.RawMessage) error {
	var req models.FriendAcceptedData
	if err := json.Unmarshal(data, &req); err != nil || req.SenderID == 0 {
		return invalidRequest("request sender required")
	}

	g.hub.Broadcast(PersonalRoom(req.SenderID), models.EventFriendAcceptedNotify, friendAcceptedEvent{
		AccepterID: conn.User.ID,
		Accepter:   conn.User,
	}, nil)

	if err := g.notifier.FriendRequestAccepted(ctx, conn.User, req.SenderID); err != nil {
		g.logger.Error("friend accepted notification failed", zap.Int("sender_id", req.SenderID), zap.Error(err))
		return persistenceFailure("failed to record friend accepted notification")
	}
	return nil
}
