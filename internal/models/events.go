package models

import "encoding/json"

// Inbound event names (client → server).
const (
	EventSendMessage           = "send_message"
	EventTypingStart           = "typing_start"
	EventTypingStop            = "typing_stop"
	EventJoinChat              = "join_chat"
	EventLeaveChat             = "leave_chat"
	EventPostLiked             = "post_liked"
	EventCommentAdded          = "comment_added"
	EventFriendRequestSent     = "friend_request_sent"
	EventFriendRequestAccepted = "friend_request_accepted"
)

// Outbound event names (server → client).
const (
	EventReceiveMessage        = "receive_message"
	EventMessageSent           = "message_sent"
	EventUserTyping            = "user_typing"
	EventUserStoppedTyping     = "user_stopped_typing"
	EventUserOnline            = "user_online"
	EventUserOffline           = "user_offline"
	EventJoinedChat            = "joined_chat"
	EventLeftChat              = "left_chat"
	EventNotification          = "notification"
	EventError                 = "error"
	EventPostLikeNotification  = "post_like_notification"
	EventNewCommentNotify      = "new_comment_notification"
	EventFriendRequestReceived = "friend_request_received"
	EventFriendAcceptedNotify  = "friend_request_accepted_notification"
)

// ClientEvent is the frame read from a websocket connection.
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEvent is the frame written to a websocket connection.
type ServerEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// SendMessageData is the payload of a send_message event.
type SendMessageData struct {
	RecipientID int    `json:"recipientId"`
	Message     string `json:"message"`
	Type        string `json:"type,omitempty"`
}

// TypingData is the payload of typing_start / typing_stop.
type TypingData struct {
	RecipientID int `json:"recipientId"`
}

// ChatRoomData is the payload of join_chat / leave_chat.
type ChatRoomData struct {
	ChatID string `json:"chatId"`
}

// PostLikedData is the payload of post_liked.
type PostLikedData struct {
	PostID   int `json:"postId"`
	AuthorID int `json:"authorId"`
}

// CommentAddedData is the payload of comment_added.
type CommentAddedData struct {
	PostID   int    `json:"postId"`
	AuthorID int    `json:"authorId"`
	Comment  string `json:"comment"`
}

// FriendRequestData is the payload of friend_request_sent.
type FriendRequestData struct {
	RecipientID int `json:"recipientId"`
}

// FriendAcceptedData is the payload of friend_request_accepted. SenderID is
// the user who originally sent the request and now gets notified.
type FriendAcceptedData struct {
	SenderID int `json:"senderId"`
}

// PresenceEvent is broadcast when a user transitions online or offline.
type PresenceEvent struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
}

// TypingEvent is relayed to the recipient of a typing signal.
type TypingEvent struct {
	UserID   int    `json:"userId"`
	Username string `json:"username,omitempty"`
}

// ErrorEvent is delivered in-band; the connection stays open.
type ErrorEvent struct {
	Message string `json:"message"`
}
