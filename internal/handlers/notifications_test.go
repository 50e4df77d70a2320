package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realtime-service/internal/mocks"
	"realtime-service/internal/models"
	"realtime-service/internal/repositories"
)

func notificationRouter(userID int, notifications *mocks.NotificationRepositoryMock, users *mocks.UserRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})

	h := NewNotificationHandler(notifications, users)
	router.GET("/notifications", h.ListNotifications)
	router.PUT("/notifications/:id/read", h.MarkRead)
	router.POST("/notifications/read", h.MarkManyRead)
	router.POST("/notifications/read-all", h.MarkAllRead)
	router.DELETE("/notifications/:id", h.DeleteNotification)
	return router
}

func TestListNotifications(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	router := notificationRouter(3, notifications, users)

	records := []models.Notification{
		{ID: 2, Type: models.NotificationPostLiked, SenderID: 1, ReceiverID: 3},
		{ID: 1, Type: models.NotificationNewMessage, SenderID: 1, ReceiverID: 3, Read: true},
	}
	notifications.On("ListForReceiver", mock.Anything, 3, false, 20, 0).Return(records, nil).Once()
	notifications.On("CountForReceiver", mock.Anything, 3, false).Return(2, nil).Once()
	notifications.On("CountForReceiver", mock.Anything, 3, true).Return(1, nil).Once()
	users.On("BulkGet", mock.Anything, []int{1}).
		Return([]models.UserIdentity{{ID: 1, Username: "alice"}}, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unread_count"`
		Pagination    struct {
			Page  int `json:"page"`
			Total int `json:"total"`
			Pages int `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Notifications, 2)
	assert.Equal(t, 1, body.UnreadCount)
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Equal(t, 2, body.Pagination.Total)
	assert.Equal(t, 1, body.Pagination.Pages)
	require.NotNil(t, body.Notifications[0].Sender)
	assert.Equal(t, "alice", body.Notifications[0].Sender.Username)

	notifications.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestListNotificationsUnreadFilterAndPaging(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	router := notificationRouter(3, notifications, users)

	notifications.On("ListForReceiver", mock.Anything, 3, true, 10, 10).
		Return([]models.Notification{}, nil).Once()
	notifications.On("CountForReceiver", mock.Anything, 3, true).Return(0, nil).Twice()
	users.On("BulkGet", mock.Anything, []int{}).Return([]models.UserIdentity{}, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications?page=2&limit=10&unread=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	notifications.AssertExpectations(t)
}

func TestListNotificationsRejectsBadPaging(t *testing.T) {
	router := notificationRouter(3, new(mocks.NotificationRepositoryMock), new(mocks.UserRepositoryMock))

	for _, query := range []string{"?page=0", "?page=x", "?limit=0", "?limit=99"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications"+query, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestMarkRead(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	router := notificationRouter(3, notifications, new(mocks.UserRepositoryMock))

	notifications.On("Get", mock.Anything, 5).
		Return(models.Notification{ID: 5, ReceiverID: 3}, nil).Once()
	notifications.On("MarkRead", mock.Anything, 5).Return(nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/notifications/5/read", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"read":true`)
	notifications.AssertExpectations(t)
}

func TestMarkReadForeignNotificationForbidden(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	router := notificationRouter(3, notifications, new(mocks.UserRepositoryMock))

	notifications.On("Get", mock.Anything, 5).
		Return(models.Notification{ID: 5, ReceiverID: 9}, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/notifications/5/read", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	notifications.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestMarkReadUnknownNotification(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	router := notificationRouter(3, notifications, new(mocks.UserRepositoryMock))

	notifications.On("Get", mock.Anything, 404).
		Return(models.Notification{}, repositories.ErrNotificationNotFound).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/notifications/404/read", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkManyRead(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	router := notificationRouter(3, notifications, new(mocks.UserRepositoryMock))

	notifications.On("MarkManyRead", mock.Anything, 3, []int{1, 2, 3}).Return(2, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notifications/read",
		strings.NewReader(`{"notification_ids":[1,2,3]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"updated":2`)
	notifications.AssertExpectations(t)
}

func TestMarkManyReadRequiresIDs(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	router := notificationRouter(3, notifications, new(mocks.UserRepositoryMock))

	for _, body := range []string{``, `{}`, `{"notification_ids":[]}`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/notifications/read", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	notifications.AssertNotCalled(t, "MarkManyRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkAllRead(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	router := notificationRouter(3, notifications, new(mocks.UserRepositoryMock))

	notifications.On("MarkAllRead", mock.Anything, 3).Return(4, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notifications/read-all", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"updated":4`)
	notifications.AssertExpectations(t)
}

func TestDeleteNotification(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	router := notificationRouter(3, notifications, new(mocks.UserRepositoryMock))

	notifications.On("Delete", mock.Anything, 5, 3).Return(nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/notifications/5", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	notifications.AssertExpectations(t)
}

func TestDeleteNotificationNotFound(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	router := notificationRouter(3, notifications, new(mocks.UserRepositoryMock))

	notifications.On("Delete", mock.Anything, 5, 3).
		Return(repositories.ErrNotificationNotFound).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/notifications/5", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
