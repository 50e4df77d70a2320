package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realtime-service/internal/models"
	"realtime-service/internal/repositories"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// NotificationHandler serves the durable notification log to its receiver.
type NotificationHandler struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
}

// NewNotificationHandler builds a NotificationHandler.
func NewNotificationHandler(notifications repositories.NotificationRepository, users repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users}
}

// ListNotifications returns the caller's notifications, newest first, with
// sender display info resolved and the unread badge count.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := c.GetInt("userID")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 || limit > maxPageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.notifications.ListForReceiver(c.Request.Context(), userID, unreadOnly, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	total, err := h.notifications.CountForReceiver(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}
	unreadCount, err := h.notifications.CountForReceiver(c.Request.Context(), userID, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}

	if err := h.resolveSenders(c, notifications); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load senders"})
		return
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unreadCount,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}

// MarkRead flips the read flag on one notification owned by the caller.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	userID := c.GetInt("userID")

	notification, err := h.notifications.Get(c.Request.Context(), notificationID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "notification not found"})
		return
	}
	if notification.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to modify this notification"})
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), notificationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification as read"})
		return
	}

	notification.Read = true
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read", "notification": notification})
}

// MarkManyRead marks a list of the caller's notifications as read.
func (h *NotificationHandler) MarkManyRead(c *gin.Context) {
	var req struct {
		NotificationIDs []int `json:"notification_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.NotificationIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notification_ids required"})
		return
	}

	userID := c.GetInt("userID")
	updated, err := h.notifications.MarkManyRead(c.Request.Context(), userID, req.NotificationIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notifications marked as read", "updated": updated})
}

// MarkAllRead marks every unread notification of the caller as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetInt("userID")

	updated, err := h.notifications.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read", "updated": updated})
}

// DeleteNotification removes a notification owned by the caller.
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	userID := c.GetInt("userID")

	if err := h.notifications.Delete(c.Request.Context(), notificationID, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "notification not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) resolveSenders(c *gin.Context, notifications []models.Notification) error {
	senderIDs := make([]int, 0, len(notifications))
	seen := map[int]struct{}{}
	for _, n := range notifications {
		if _, ok := seen[n.SenderID]; !ok {
			seen[n.SenderID] = struct{}{}
			senderIDs = append(senderIDs, n.SenderID)
		}
	}

	senders, err := h.users.BulkGet(c.Request.Context(), senderIDs)
	if err != nil {
		return err
	}
	byID := map[int]models.UserIdentity{}
	for _, sender := range senders {
		byID[sender.ID] = sender
	}
	for i := range notifications {
		if sender, ok := byID[notifications[i].SenderID]; ok {
			s := sender
			notifications[i].Sender = &s
		}
	}
	return nil
}
