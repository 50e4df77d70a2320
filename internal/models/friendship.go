package models

// FriendshipStatus enumerates the states of a friendship edge.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipRejected FriendshipStatus = "rejected"
	FriendshipBlocked  FriendshipStatus = "blocked"
)

// Friendship is the relationship edge between two users. Only the accepted
// state authorizes direct messaging.
type Friendship struct {
	ID         int              `db:"id" json:"id"`
	SenderID   int              `db:"sender_id" json:"sender_id"`
	ReceiverID int              `db:"receiver_id" json:"receiver_id"`
	Status     FriendshipStatus `db:"status" json:"status"`
}
