package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"realtime-service/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository resolves user display attributes.
type UserRepository interface {
	Get(ctx context.Context, userID int) (models.UserIdentity, error)
	BulkGet(ctx context.Context, userIDs []int) ([]models.UserIdentity, error)
}

// UserRepo is a sqlx-backed repository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Get retrieves one user.
func (r *UserRepo) Get(ctx context.Context, userID int) (models.UserIdentity, error) {
	var user models.UserIdentity
	err := r.db.GetContext(ctx, &user,
		`SELECT id, username, display_name, avatar, verified FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserIdentity{}, ErrUserNotFound
	}
	return user, err
}

// BulkGet fetches multiple users in one query.
func (r *UserRepo) BulkGet(ctx context.Context, userIDs []int) ([]models.UserIdentity, error) {
	if len(userIDs) == 0 {
		return []models.UserIdentity{}, nil
	}
	users := []models.UserIdentity{}
	err := r.db.SelectContext(ctx, &users,
		`SELECT id, username, display_name, avatar, verified FROM users WHERE id = ANY($1)`,
		pq.Array(userIDs))
	return users, err
}
