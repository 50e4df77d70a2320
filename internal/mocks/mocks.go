package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"realtime-service/internal/models"
	"realtime-service/internal/repositories"
)

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	args := m.Called(ctx, n)
	var record models.Notification
	if val := args.Get(0); val != nil {
		record = val.(models.Notification)
	}
	return record, args.Error(1)
}

func (m *NotificationRepositoryMock) ListForReceiver(ctx context.Context, receiverID int, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	args := m.Called(ctx, receiverID, unreadOnly, limit, offset)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) CountForReceiver(ctx context.Context, receiverID int, unreadOnly bool) (int, error) {
	args := m.Called(ctx, receiverID, unreadOnly)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) Get(ctx context.Context, notificationID int) (models.Notification, error) {
	args := m.Called(ctx, notificationID)
	var record models.Notification
	if val := args.Get(0); val != nil {
		record = val.(models.Notification)
	}
	return record, args.Error(1)
}

func (m *NotificationRepositoryMock) MarkRead(ctx context.Context, notificationID int) error {
	args := m.Called(ctx, notificationID)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) MarkManyRead(ctx context.Context, receiverID int, notificationIDs []int) (int, error) {
	args := m.Called(ctx, receiverID, notificationIDs)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) MarkAllRead(ctx context.Context, receiverID int) (int, error) {
	args := m.Called(ctx, receiverID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) Delete(ctx context.Context, notificationID int, receiverID int) error {
	args := m.Called(ctx, notificationID, receiverID)
	return args.Error(0)
}

type FriendshipRepositoryMock struct {
	mock.Mock
}

func (m *FriendshipRepositoryMock) Status(ctx context.Context, userID, otherID int) (models.FriendshipStatus, error) {
	args := m.Called(ctx, userID, otherID)
	var status models.FriendshipStatus
	if val := args.Get(0); val != nil {
		status = val.(models.FriendshipStatus)
	}
	return status, args.Error(1)
}

func (m *FriendshipRepositoryMock) AreFriends(ctx context.Context, userID, otherID int) (bool, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Bool(0), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Get(ctx context.Context, userID int) (models.UserIdentity, error) {
	args := m.Called(ctx, userID)
	var user models.UserIdentity
	if val := args.Get(0); val != nil {
		user = val.(models.UserIdentity)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) BulkGet(ctx context.Context, userIDs []int) ([]models.UserIdentity, error) {
	args := m.Called(ctx, userIDs)
	var users []models.UserIdentity
	if val := args.Get(0); val != nil {
		users = val.([]models.UserIdentity)
	}
	return users, args.Error(1)
}

type VerifierMock struct {
	mock.Mock
}

func (m *VerifierMock) Verify(ctx context.Context, token string) (models.UserIdentity, error) {
	args := m.Called(ctx, token)
	var user models.UserIdentity
	if val := args.Get(0); val != nil {
		user = val.(models.UserIdentity)
	}
	return user, args.Error(1)
}

type PusherMock struct {
	mock.Mock
}

func (m *PusherMock) PushToUser(userID int, event string, payload any) bool {
	args := m.Called(userID, event, payload)
	return args.Bool(0)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) MessageSent(ctx context.Context, sender models.UserIdentity, recipientID int) (models.Notification, error) {
	args := m.Called(ctx, sender, recipientID)
	var record models.Notification
	if val := args.Get(0); val != nil {
		record = val.(models.Notification)
	}
	return record, args.Error(1)
}

func (m *NotifierMock) PostLiked(ctx context.Context, liker models.UserIdentity, authorID, postID int) error {
	args := m.Called(ctx, liker, authorID, postID)
	return args.Error(0)
}

func (m *NotifierMock) CommentAdded(ctx context.Context, commenter models.UserIdentity, authorID, postID int) error {
	args := m.Called(ctx, commenter, authorID, postID)
	return args.Error(0)
}

func (m *NotifierMock) FriendRequestSent(ctx context.Context, sender models.UserIdentity, recipientID int) error {
	args := m.Called(ctx, sender, recipientID)
	return args.Error(0)
}

func (m *NotifierMock) FriendRequestAccepted(ctx context.Context, accepter models.UserIdentity, requesterID int) error {
	args := m.Called(ctx, accepter, requesterID)
	return args.Error(0)
}

var _ repositories.NotificationRepository = (*NotificationRepositoryMock)(nil)
var _ repositories.FriendshipRepository = (*FriendshipRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
