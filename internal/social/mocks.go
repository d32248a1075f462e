package social

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thesrcielos/gamehub/internal/user"
)

type MockSocialRepository struct {
	mock.Mock
}

func (m *MockSocialRepository) Friends(ctx context.Context, userID uint) ([]user.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockSocialRepository) PendingRequests(ctx context.Context, userID uint) ([]user.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockSocialRepository) FindFriendship(ctx context.Context, a, b uint) (*Friendship, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Friendship), args.Error(1)
}

func (m *MockSocialRepository) FindPendingRequest(ctx context.Context, requesterID, recipientID uint) (*Friendship, error) {
	args := m.Called(ctx, requesterID, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Friendship), args.Error(1)
}

func (m *MockSocialRepository) CreateFriendship(ctx context.Context, f *Friendship) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockSocialRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSocialRepository) DeleteFriendship(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSocialRepository) DeleteBetween(ctx context.Context, a, b uint) (int64, error) {
	args := m.Called(ctx, a, b)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSocialRepository) IsBlocked(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSocialRepository) IsBlockedEither(ctx context.Context, a, b uint) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockSocialRepository) Block(ctx context.Context, blockerID, blockedID uint) (*BlockedUser, error) {
	args := m.Called(ctx, blockerID, blockedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BlockedUser), args.Error(1)
}

func (m *MockSocialRepository) Unblock(ctx context.Context, blockerID, blockedID uint) (int64, error) {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSocialRepository) BlockedUsers(ctx context.Context, userID uint) ([]user.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]user.User), args.Error(1)
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
