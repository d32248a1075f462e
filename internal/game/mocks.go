package game

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thesrcielos/gamehub/internal/user"
)

type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) ListGames(ctx context.Context) ([]Game, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Game), args.Error(1)
}

func (m *MockGameRepository) GetGame(ctx context.Context, id uint) (*Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Game), args.Error(1)
}

func (m *MockGameRepository) CreateGame(ctx context.Context, game *Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) SaveGame(ctx context.Context, game *Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) DeleteGame(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGameRepository) RecordResult(ctx context.Context, entry *GameHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockGameRepository) Statistics(ctx context.Context, userID uint, mode string) ([]GameStatistic, error) {
	args := m.Called(ctx, userID, mode)
	return args.Get(0).([]GameStatistic), args.Error(1)
}

func (m *MockGameRepository) GameStatistics(ctx context.Context, userID, gameID uint) ([]GameStatistic, error) {
	args := m.Called(ctx, userID, gameID)
	return args.Get(0).([]GameStatistic), args.Error(1)
}

func (m *MockGameRepository) History(ctx context.Context, userID uint, filter HistoryFilter, withGame bool) ([]GameHistory, int64, error) {
	args := m.Called(ctx, userID, filter, withGame)
	return args.Get(0).([]GameHistory), args.Get(1).(int64), args.Error(2)
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
	return "", false
}

func (m *MockFileStore) Delete(storedPath string) error {
	args := m.Called(storedPath)
	return args.Error(0)
}
