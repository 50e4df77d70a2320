package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"realtime-service/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository persists and queries notification records.
type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	ListForReceiver(ctx context.Context, receiverID int, unreadOnly bool, limit, offset int) ([]models.Notification, error)
	CountForReceiver(ctx context.Context, receiverID int, unreadOnly bool) (int, error)
	Get(ctx context.Context, notificationID int) (models.Notification, error)
	MarkRead(ctx context.Context, notificationID int) error
	MarkManyRead(ctx context.Context, receiverID int, notificationIDs []int) (int, error)
	MarkAllRead(ctx context.Context, receiverID int) (int, error)
	Delete(ctx context.Context, notificationID int, receiverID int) error
}

// NotificationRepo is a sqlx-backed repository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create stores a notification record and returns it with id and timestamp.
func (r *NotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO notifications (type, title, body, sender_id, receiver_id, related_id)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, read, created_at`,
		n.Type, n.Title, n.Body, n.SenderID, n.ReceiverID, n.RelatedID).
		Scan(&n.ID, &n.Read, &n.CreatedAt)
	return n, err
}

// ListForReceiver returns notifications newest first.
func (r *NotificationRepo) ListForReceiver(ctx context.Context, receiverID int, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	query := `SELECT id, type, title, body, sender_id, receiver_id, related_id, read, created_at
        FROM notifications
        WHERE receiver_id=$1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	notifications := []models.Notification{}
	err := r.db.SelectContext(ctx, &notifications, query, receiverID, limit, offset)
	return notifications, err
}

// CountForReceiver counts notifications for pagination and unread badges.
func (r *NotificationRepo) CountForReceiver(ctx context.Context, receiverID int, unreadOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE receiver_id=$1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	var count int
	err := r.db.GetContext(ctx, &count, query, receiverID)
	return count, err
}

// Get retrieves a single notification.
func (r *NotificationRepo) Get(ctx context.Context, notificationID int) (models.Notification, error) {
	var n models.Notification
	err := r.db.GetContext(ctx, &n,
		`SELECT id, type, title, body, sender_id, receiver_id, related_id, read, created_at
         FROM notifications WHERE id=$1`, notificationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notification{}, ErrNotificationNotFound
	}
	return n, err
}

// MarkRead flips the read flag on one notification.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id=$1`, notificationID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkManyRead marks the given ids read, scoped to the receiver.
func (r *NotificationRepo) MarkManyRead(ctx context.Context, receiverID int, notificationIDs []int) (int, error) {
	if len(notificationIDs) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE receiver_id=$1 AND id = ANY($2)`,
		receiverID, pq.Array(notificationIDs))
	if err != nil {
		return 0, err
	}
	count, err := res.RowsAffected()
	return int(count), err
}

// MarkAllRead marks every unread notification of the receiver as read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, receiverID int) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE receiver_id=$1 AND read = FALSE`, receiverID)
	if err != nil {
		return 0, err
	}
	count, err := res.RowsAffected()
	return int(count), err
}

// Delete removes a notification owned by the receiver.
func (r *NotificationRepo) Delete(ctx context.Context, notificationID int, receiverID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id=$1 AND receiver_id=$2`, notificationID, receiverID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
