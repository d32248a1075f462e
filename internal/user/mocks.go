package user

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) CreateUserWithToken(ctx context.Context, user *User, token *AccessToken) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id uint) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockUserRepository) UpdateImage(ctx context.Context, id uint, imageURL *string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteAccount(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) CreateToken(ctx context.Context, token *AccessToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockUserRepository) GetToken(ctx context.Context, tokenID string) (*AccessToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AccessToken), args.Error(1)
}

func (m *MockUserRepository) TouchToken(ctx context.Context, tokenID string, at time.Time) error {
	args := m.Called(ctx, tokenID, at)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUserTokens(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockFileStore records saved files in memory.
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(dir string, data []byte) (string, error) {
	args := m.Called(dir, data)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) URL(storedPath string) string {
	return "http://localhost:8080/storage/" + storedPath
}

func (m *MockFileStore) PathFromURL(url string) (string, bool) {
	const prefix = "http://localhost:8080/storage/"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return "", false
	}
	return url[len(prefix):], true
}

func (m *MockFileStore) Delete(storedPath string) error {
	args := m.Called(storedPath)
	return args.Error(0)
}
