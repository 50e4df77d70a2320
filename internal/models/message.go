package models

import "time"

// ChatMessage is the transient envelope relayed between two users. It is not
// persisted here; durable chat history is an external concern.
type ChatMessage struct {
	ID          string       `json:"id"`
	SenderID    int          `json:"sender_id"`
	RecipientID int          `json:"recipient_id"`
	Message     string       `json:"message"`
	Type        string       `json:"type"`
	Timestamp   time.Time    `json:"timestamp"`
	Sender      UserIdentity `json:"sender"`
}
