package models

import "time"

// NotificationType tags the social action that produced a notification.
type NotificationType string

const (
	NotificationNewMessage     NotificationType = "new-message"
	NotificationPostLiked      NotificationType = "post-liked"
	NotificationPostComment    NotificationType = "post-comment"
	NotificationFriendRequest  NotificationType = "friend-request"
	NotificationFriendAccepted NotificationType = "friend-accepted"
	NotificationSystem         NotificationType = "system"
)

// Notification is the durable record created for every qualifying social
// event. The live push is best-effort; this record is the guarantee.
type Notification struct {
	ID         int              `db:"id" json:"id"`
	Type       NotificationType `db:"type" json:"type"`
	Title      string           `db:"title" json:"title"`
	Body       string           `db:"body" json:"body"`
	SenderID   int              `db:"sender_id" json:"sender_id"`
	ReceiverID int              `db:"receiver_id" json:"receiver_id"`
	RelatedID  *int             `db:"related_id" json:"related_id,omitempty"`
	Read       bool             `db:"read" json:"read"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`

	// Sender display info resolved at read/push time, not stored.
	Sender *UserIdentity `db:"-" json:"sender,omitempty"`
}
