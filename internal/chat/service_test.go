package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/user"
)

func TestCanonical(t *testing.T) {
	low, high := Canonical(9, 4)
	assert.Equal(t, uint(4), low)
	assert.Equal(t, uint(9), high)

	low, high = Canonical(4, 9)
	assert.Equal(t, uint(4), low)
	assert.Equal(t, uint(9), high)
}

func TestStartChat_Validation(t *testing.T) {
	repo := &MockChatRepository{}
	users := &MockUserFinder{}
	service := NewChatService(repo, users, &MockFriendshipChecker{}, false)
	ctx := context.Background()

	_, err := service.StartChat(ctx, 1, StartChatRequest{})
	assert.True(t, apperrors.HasCode(err, http.StatusUnprocessableEntity))

	_, err = service.StartChat(ctx, 1, StartChatRequest{OtherUserID: 1})
	assert.True(t, apperrors.HasCode(err, http.StatusBadRequest))

	users.On("GetUser", ctx, uint(2)).Return(nil, nil)
	_, err = service.StartChat(ctx, 1, StartChatRequest{OtherUserID: 2})
	assert.True(t, apperrors.HasCode(err, http.StatusNotFound))
	repo.AssertNotCalled(t, "CreateCanonical", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartChat_RequireFriendship(t *testing.T) {
	repo := &MockChatRepository{}
	users := &MockUserFinder{}
	friends := &MockFriendshipChecker{}
	ctx := context.Background()

	users.On("GetUser", ctx, uint(2)).Return(&user.User{ID: 2, Username: "bob"}, nil)
	friends.On("AreFriends", ctx, uint(1), uint(2)).Return(false, nil)

	service := NewChatService(repo, users, friends, true)
	_, err := service.StartChat(ctx, 1, StartChatRequest{OtherUserID: 2})
	assert.True(t, apperrors.HasCode(err, http.StatusForbidden))

	// With the policy off the friendship is never consulted.
	repo.On("FindBetween", ctx, uint(1), uint(2)).Return(&Chat{ID: 5, UserAID: 1, UserBID: 2}, nil)
	relaxed := NewChatService(repo, users, friends, false)
	started, err := relaxed.StartChat(ctx, 1, StartChatRequest{OtherUserID: 2})
	require.NoError(t, err)
	assert.Equal(t, uint(5), started.ID)
	assert.Equal(t, "bob", started.OtherUser.Username)
	friends.AssertNumberOfCalls(t, "AreFriends", 1)
}

func TestSendMessage_Validation(t *testing.T) {
	repo := &MockChatRepository{}
	service := NewChatService(repo, &MockUserFinder{}, &MockFriendshipChecker{}, false)
	ctx := context.Background()

	_, err := service.SendMessage(ctx, 1, SendMessageRequest{ChatID: 3, Message: "   "})
	assert.True(t, apperrors.HasCode(err, http.StatusUnprocessableEntity))

	_, err = service.SendMessage(ctx, 1, SendMessageRequest{ChatID: 3, Message: strings.Repeat("ñ", MaxMessageLength+1)})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.Contains(t, appErr.Fields, "message")

	_, err = service.SendMessage(ctx, 1, SendMessageRequest{Message: "hi"})
	assert.True(t, apperrors.HasCode(err, http.StatusUnprocessableEntity))
	repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestSendMessage_SenderLookupFails(t *testing.T) {
	repo := &MockChatRepository{}
	users := &MockUserFinder{}
	service := NewChatService(repo, users, &MockFriendshipChecker{}, false)
	ctx := context.Background()

	repo.On("FindChat", ctx, uint(5)).Return(&Chat{ID: 5, UserAID: 1, UserBID: 2}, nil)
	users.On("GetUser", ctx, uint(1)).Return(nil, errors.New("connection reset"))

	_, err := service.SendMessage(ctx, 1, SendMessageRequest{ChatID: 5, Message: "hi"})
	assert.True(t, apperrors.HasCode(err, http.StatusInternalServerError))
	repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestParticipantChecks(t *testing.T) {
	repo := &MockChatRepository{}
	service := NewChatService(repo, &MockUserFinder{}, &MockFriendshipChecker{}, false)
	ctx := context.Background()

	repo.On("FindChat", ctx, uint(10)).Return(nil, nil)
	repo.On("FindChat", ctx, uint(11)).Return(&Chat{ID: 11, UserAID: 2, UserBID: 3}, nil)

	_, err := service.MarkAsRead(ctx, 1, 10)
	assert.True(t, apperrors.HasCode(err, http.StatusNotFound))

	_, err = service.MarkAsRead(ctx, 1, 11)
	assert.True(t, apperrors.HasCode(err, http.StatusForbidden))

	err = service.DeleteChat(ctx, 1, 11)
	assert.True(t, apperrors.HasCode(err, http.StatusForbidden))

	_, err = service.Messages(ctx, 1, 11, 1, 50)
	assert.True(t, apperrors.HasCode(err, http.StatusForbidden))

	_, err = service.SendMessage(ctx, 1, SendMessageRequest{ChatID: 11, Message: "hi"})
	assert.True(t, apperrors.HasCode(err, http.StatusForbidden))
	repo.AssertNotCalled(t, "DeleteChat", mock.Anything, mock.Anything)
}

func TestUnreadCount_InternalError(t *testing.T) {
	repo := &MockChatRepository{}
	service := NewChatService(repo, &MockUserFinder{}, &MockFriendshipChecker{}, false)
	ctx := context.Background()
	repo.On("UnreadCount", ctx, uint(1)).Return(int64(0), errors.New("connection reset"))

	_, err := service.UnreadCount(ctx, 1)
	assert.True(t, apperrors.HasCode(err, http.StatusInternalServerError))
}

func TestNormalizePage(t *testing.T) {
	page, per := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPerPage, per)

	_, per = normalizePage(2, 500)
	assert.Equal(t, MaxPerPage, per)
}
