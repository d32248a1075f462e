package chat

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/thesrcielos/gamehub/internal/user"
)

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) FindChat(ctx context.Context, id uint) (*Chat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Chat), args.Error(1)
}

func (m *MockChatRepository) FindBetween(ctx context.Context, a, b uint) (*Chat, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Chat), args.Error(1)
}

func (m *MockChatRepository) CreateCanonical(ctx context.Context, a, b uint) (*Chat, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Chat), args.Error(1)
}

func (m *MockChatRepository) ListForUser(ctx context.Context, userID uint) ([]Chat, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Chat), args.Error(1)
}

func (m *MockChatRepository) LatestMessage(ctx context.Context, chatID uint) (*ChatMessage, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ChatMessage), args.Error(1)
}

func (m *MockChatRepository) CountUnreadInChat(ctx context.Context, chatID, readerID uint) (int64, error) {
	args := m.Called(ctx, chatID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) Messages(ctx context.Context, chatID uint, offset, limit int) ([]ChatMessage, int64, error) {
	args := m.Called(ctx, chatID, offset, limit)
	return args.Get(0).([]ChatMessage), args.Get(1).(int64), args.Error(2)
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, msg *ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepository) MarkAsRead(ctx context.Context, chatID, readerID uint, at time.Time) (int64, error) {
	args := m.Called(ctx, chatID, readerID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) DeleteChat(ctx context.Context, chatID uint) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) GetUser(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockFriendshipChecker struct {
	mock.Mock
}

func (m *MockFriendshipChecker) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}
