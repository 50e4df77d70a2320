package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"realtime-service/internal/models"
	"realtime-service/internal/observability"
	"realtime-service/internal/repositories"
)

// Pusher delivers an event to all live connections of a user. Implemented by
// the websocket hub; reports whether any connection was addressed.
type Pusher interface {
	PushToUser(userID int, event string, payload any) bool
}

// Input describes a qualifying social event to fan out.
type Input struct {
	Type       models.NotificationType
	Title      string
	Body       string
	Sender     models.UserIdentity
	ReceiverID int
	RelatedID  *int
}

// Engine converts social events into a durable notification record plus a
// best-effort live push. The record is persisted first: if persistence fails
// no push is attempted, since an undurable notification would vanish on the
// receiver's next reconnect with no trace. Push failure is never escalated.
type Engine struct {
	notifications repositories.NotificationRepository
	pusher        Pusher
	logger        *zap.Logger
}

// NewEngine constructs the fan-out engine.
func NewEngine(notifications repositories.NotificationRepository, pusher Pusher, logger *zap.Logger) *Engine {
	return &Engine{
		notifications: notifications,
		pusher:        pusher,
		logger:        logger.With(zap.String("component", "notify")),
	}
}

// Notify persists the record, then attempts the live push.
func (e *Engine) Notify(ctx context.Context, input Input) (models.Notification, error) {
	record, err := e.notifications.Create(ctx, models.Notification{
		Type:       input.Type,
		Title:      input.Title,
		Body:       input.Body,
		SenderID:   input.Sender.ID,
		ReceiverID: input.ReceiverID,
		RelatedID:  input.RelatedID,
	})
	if err != nil {
		return models.Notification{}, fmt.Errorf("persist notification: %w", err)
	}
	observability.IncNotificationPersisted(string(input.Type))

	sender := input.Sender
	record.Sender = &sender
	if e.pusher.PushToUser(input.ReceiverID, models.EventNotification, record) {
		observability.IncNotificationPush("delivered")
	} else {
		observability.IncNotificationPush("offline")
	}

	_ = observability.PublishEvent(ctx, observability.RoutingKeyNotifications,
		observability.EventEnvelope{
			EventType: "notifications",
			EventName: string(input.Type),
			Payload:   record,
		}, nil)

	e.logger.Debug("notification fanned out",
		zap.Int("id", record.ID),
		zap.String("type", string(record.Type)),
		zap.Int("receiver_id", record.ReceiverID))
	return record, nil
}

// MessageSent records a new-message notification for the recipient.
func (e *Engine) MessageSent(ctx context.Context, sender models.UserIdentity, recipientID int) (models.Notification, error) {
	return e.Notify(ctx, Input{
		Type:       models.NotificationNewMessage,
		Title:      "New Message",
		Body:       fmt.Sprintf("%s sent you a message", sender.Label()),
		Sender:     sender,
		ReceiverID: recipientID,
	})
}

// PostLiked records a post-liked notification unless the liker is the author.
// A user's own actions on their own content never generate a notification.
func (e *Engine) PostLiked(ctx context.Context, liker models.UserIdentity, authorID, postID int) error {
	if liker.ID == authorID {
		return nil
	}
	_, err := e.Notify(ctx, Input{
		Type:       models.NotificationPostLiked,
		Title:      "Post Liked",
		Body:       fmt.Sprintf("%s liked your post", liker.Label()),
		Sender:     liker,
		ReceiverID: authorID,
		RelatedID:  &postID,
	})
	return err
}

// CommentAdded records a post-comment notification unless the commenter is
// the author.
func (e *Engine) CommentAdded(ctx context.Context, commenter models.UserIdentity, authorID, postID int) error {
	if commenter.ID == authorID {
		return nil
	}
	_, err := e.Notify(ctx, Input{
		Type:       models.NotificationPostComment,
		Title:      "New Comment",
		Body:       fmt.Sprintf("%s commented on your post", commenter.Label()),
		Sender:     commenter,
		ReceiverID: authorID,
		RelatedID:  &postID,
	})
	return err
}

// FriendRequestSent records a friend-request notification for the recipient.
func (e *Engine) FriendRequestSent(ctx context.Context, sender models.UserIdentity, recipientID int) error {
	_, err := e.Notify(ctx, Input{
		Type:       models.NotificationFriendRequest,
		Title:      "Friend Request",
		Body:       fmt.Sprintf("%s sent you a friend request", sender.Label()),
		Sender:     sender,
		ReceiverID: recipientID,
	})
	return err
}

// FriendRequestAccepted records a friend-accepted notification for the user
// who originally sent the request.
func (e *Engine) FriendRequestAccepted(ctx context.Context, accepter models.UserIdentity, requesterID int) error {
	_, err := e.Notify(ctx, Input{
		Type:       models.NotificationFriendAccepted,
		Title:      "Friend Request Accepted",
		Body:       fmt.Sprintf("%s accepted your friend request", accepter.Label()),
		Sender:     accepter,
		ReceiverID: requesterID,
	})
	return err
}
