package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"realtime-service/internal/models"
)

// FriendshipRepository reads relationship edges. Edges are mutated by the
// friend-request routes outside this service; here the status is re-read on
// every message so a block or removal takes effect on the next attempt.
type FriendshipRepository interface {
	Status(ctx context.Context, userID, otherID int) (models.FriendshipStatus, error)
	AreFriends(ctx context.Context, userID, otherID int) (bool, error)
}

// FriendshipRepo is a sqlx-backed repository.
type FriendshipRepo struct {
	db *sqlx.DB
}

// NewFriendshipRepo constructs FriendshipRepo.
func NewFriendshipRepo(db *sqlx.DB) *FriendshipRepo {
	return &FriendshipRepo{db: db}
}

// Status returns the edge status in either direction, or the empty status
// when no edge exists.
func (r *FriendshipRepo) Status(ctx context.Context, userID, otherID int) (models.FriendshipStatus, error) {
	var status models.FriendshipStatus
	err := r.db.GetContext(ctx, &status,
		`SELECT status FROM friendships
         WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
         ORDER BY created_at DESC LIMIT 1`,
		userID, otherID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return status, err
}

// AreFriends reports whether an accepted edge exists between the two users.
func (r *FriendshipRepo) AreFriends(ctx context.Context, userID, otherID int) (bool, error) {
	status, err := r.Status(ctx, userID, otherID)
	if err != nil {
		return false, err
	}
	return status == models.FriendshipAccepted, nil
}
