package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"realtime-service/internal/mocks"
	"realtime-service/internal/models"
)

func newEngineFixture() (*Engine, *mocks.NotificationRepositoryMock, *mocks.PusherMock) {
	repo := new(mocks.NotificationRepositoryMock)
	pusher := new(mocks.PusherMock)
	return NewEngine(repo, pusher, zap.NewNop()), repo, pusher
}

func TestNotifyPersistsBeforePushing(t *testing.T) {
	engine, repo, pusher := newEngineFixture()
	sender := models.UserIdentity{ID: 1, Username: "alice"}

	persisted := false
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Type == models.NotificationNewMessage && n.ReceiverID == 2 && n.SenderID == 1
	})).Run(func(mock.Arguments) {
		persisted = true
	}).Return(models.Notification{ID: 7, Type: models.NotificationNewMessage, SenderID: 1, ReceiverID: 2}, nil).Once()

	pusher.On("PushToUser", 2, models.EventNotification, mock.MatchedBy(func(any) bool {
		return persisted
	})).Return(true).Once()

	record, err := engine.MessageSent(context.Background(), sender, 2)
	require.NoError(t, err)
	assert.Equal(t, 7, record.ID)
	require.NotNil(t, record.Sender)
	assert.Equal(t, "alice", record.Sender.Username)

	repo.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestNotifyPersistenceFailureSkipsPush(t *testing.T) {
	engine, repo, pusher := newEngineFixture()

	repo.On("Create", mock.Anything, mock.Anything).
		Return(models.Notification{}, errors.New("connection refused")).Once()

	_, err := engine.MessageSent(context.Background(), models.UserIdentity{ID: 1}, 2)
	require.Error(t, err)
	assert.ErrorContains(t, err, "persist notification")

	pusher.AssertNotCalled(t, "PushToUser", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestNotifySucceedsWhenReceiverOffline(t *testing.T) {
	engine, repo, pusher := newEngineFixture()
	accepter := models.UserIdentity{ID: 2, Username: "bob"}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Type == models.NotificationFriendAccepted && n.ReceiverID == 3
	})).Return(models.Notification{ID: 9, Type: models.NotificationFriendAccepted, SenderID: 2, ReceiverID: 3}, nil).Once()
	pusher.On("PushToUser", 3, models.EventNotification, mock.Anything).Return(false).Once()

	err := engine.FriendRequestAccepted(context.Background(), accepter, 3)
	require.NoError(t, err)

	repo.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestPostLikedSkipsOwnPost(t *testing.T) {
	engine, repo, pusher := newEngineFixture()
	author := models.UserIdentity{ID: 5, Username: "carol"}

	err := engine.PostLiked(context.Background(), author, 5, 42)
	require.NoError(t, err)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	pusher.AssertNotCalled(t, "PushToUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommentAddedSkipsOwnPost(t *testing.T) {
	engine, repo, pusher := newEngineFixture()
	author := models.UserIdentity{ID: 5, Username: "carol"}

	err := engine.CommentAdded(context.Background(), author, 5, 42)
	require.NoError(t, err)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	pusher.AssertNotCalled(t, "PushToUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestTriggerBodiesNameTheActor(t *testing.T) {
	engine, repo, pusher := newEngineFixture()
	liker := models.UserIdentity{ID: 1, Username: "alice", DisplayName: "Alice A"}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Title == "Post Liked" && n.Body == "Alice A liked your post" &&
			n.RelatedID != nil && *n.RelatedID == 42
	})).Return(models.Notification{ID: 1}, nil).Once()
	pusher.On("PushToUser", mock.Anything, mock.Anything, mock.Anything).Return(true).Once()

	require.NoError(t, engine.PostLiked(context.Background(), liker, 2, 42))
	repo.AssertExpectations(t)
}
