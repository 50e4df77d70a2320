package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realtime-service/internal/models"
)

func TestTypingStartRelaysToRecipient(t *testing.T) {
	f := newGatewayFixture()
	alice := f.connect(1, "alice")
	bob := f.connect(2, "bob")

	err := f.gateway.handleTypingStart(context.Background(), alice,
		rawJSON(t, models.TypingData{RecipientID: 2}))
	require.NoError(t, err)

	event, payload := receivedEvent(t, bob)
	assert.Equal(t, models.EventUserTyping, event)
	var typing models.TypingEvent
	require.NoError(t, json.Unmarshal(payload, &typing))
	assert.Equal(t, 1, typing.UserID)
	assert.Equal(t, "alice", typing.Username)
}

func TestTypingStopRelaysToRecipient(t *testing.T) {
	f := newGatewayFixture()
	alice := f.connect(1, "alice")
	bob := f.connect(2, "bob")

	err := f.gateway.handleTypingStop(context.Background(), alice,
		rawJSON(t, models.TypingData{RecipientID: 2}))
	require.NoError(t, err)

	event, _ := receivedEvent(t, bob)
	assert.Equal(t, models.EventUserStoppedTyping, event)
}

func TestTypingRequiresRecipient(t *testing.T) {
	f := newGatewayFixture()
	alice := f.connect(1, "alice")

	err := f.gateway.handleTypingStart(context.Background(), alice, rawJSON(t, models.TypingData{}))
	var evErr *EventError
	require.ErrorAs(t, err, &evErr)
	assert.Equal(t, errKindInvalidRequest, evErr.Kind)
}

func TestJoinAndLeaveChatAcknowledge(t *testing.T) {
	f := newGatewayFixture()
	alice := f.connect(1, "alice")

	err := f.gateway.handleJoinChat(context.Background(), alice,
		rawJSON(t, models.ChatRoomData{ChatID: "7"}))
	require.NoError(t, err)
	require.Equal(t, 1, f.hub.RoomSize(ChatRoom("7")))

	event, _ := receivedEvent(t, alice)
	assert.Equal(t, models.EventJoinedChat, event)

	err = f.gateway.handleLeaveChat(context.Background(), alice,
		rawJSON(t, models.ChatRoomData{ChatID: "7"}))
	require.NoError(t, err)
	require.Equal(t, 0, f.hub.RoomSize(ChatRoom("7")))

	event, _ = receivedEvent(t, alice)
	assert.Equal(t, models.EventLeftChat, event)
}

func TestPostLikedNotifiesAuthor(t *testing.T) {
	f := newGatewayFixture()
	liker := f.connect(1, "alice")
	author := f.connect(2, "bob")

	f.notifier.On("PostLiked", mock.Anything, liker.User, 2, 10).Return(nil).Once()

	err := f.gateway.handlePostLiked(context.Background(), liker,
		rawJSON(t, models.PostLikedData{PostID: 10, AuthorID: 2}))
	require.NoError(t, err)

	event, payload := receivedEvent(t, author)
	assert.Equal(t, models.EventPostLikeNotification, event)
	var like postLikeEvent
	require.NoError(t, json.Unmarshal(payload, &like))
	assert.Equal(t, 10, like.PostID)
	assert.Equal(t, 1, like.LikerID)

	f.notifier.AssertExpectations(t)
}

func TestCommentAddedNotifiesAuthor(t *testing.T) {
	f := newGatewayFixture()
	commenter := f.connect(1, "alice")
	author := f.connect(2, "bob")

	f.notifier.On("CommentAdded", mock.Anything, commenter.User, 2, 10).Return(nil).Once()

	err := f.gateway.handleCommentAdded(context.Background(), commenter,
		rawJSON(t, models.CommentAddedData{PostID: 10, AuthorID: 2, Comment: "nice"}))
	require.NoError(t, err)

	event, payload := receivedEvent(t, author)
	assert.Equal(t, models.EventNewCommentNotify, event)
	var comment newCommentEvent
	require.NoError(t, json.Unmarshal(payload, &comment))
	assert.Equal(t, "nice", comment.Comment)

	f.notifier.AssertExpectations(t)
}

func TestFriendRequestSentNotifiesRecipient(t *testing.T) {
	f := newGatewayFixture()
	sender := f.connect(1, "alice")
	recipient := f.connect(2, "bob")

	f.notifier.On("FriendRequestSent", mock.Anything, sender.User, 2).Return(nil).Once()

	err := f.gateway.handleFriendRequestSent(context.Background(), sender,
		rawJSON(t, models.FriendRequestData{RecipientID: 2}))
	require.NoError(t, err)

	event, _ := receivedEvent(t, recipient)
	assert.Equal(t, models.EventFriendRequestReceived, event)
	f.notifier.AssertExpectations(t)
}

func TestFriendRequestAcceptedNotifiesRequester(t *testing.T) {
	f := newGatewayFixture()
	accepter := f.connect(2, "bob")
	requester := f.connect(1, "alice")

	f.notifier.On("FriendRequestAccepted", mock.Anything, accepter.User, 1).Return(nil).Once()

	err := f.gateway.handleFriendRequestAccepted(context.Background(), accepter,
		rawJSON(t, models.FriendAcceptedData{SenderID: 1}))
	require.NoError(t, err)

	event, _ := receivedEvent(t, requester)
	assert.Equal(t, models.EventFriendAcceptedNotify, event)
	f.notifier.AssertExpectations(t)
}
