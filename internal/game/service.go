package game

import (
	"context"
	"strings"

	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/metrics"
	"github.com/thesrcielos/gamehub/internal/user"
	"github.com/thesrcielos/gamehub/internal/validation"
	"github.com/thesrcielos/gamehub/pkg/filestore"
	"go.uber.org/zap"
)

const iconDir = "icons"

type UserFinder interface {
	GetUser(ctx context.Context, id uint) (*user.User, error)
}

type GameService struct {
	repo   GameRepository
	users  UserFinder
	files  filestore.Store
	logger *zap.Logger
}

func NewGameService(repo GameRepository, users UserFinder, files filestore.Store, logger *zap.Logger) *GameService {
	return &GameService{repo: repo, users: users, files: files, logger: logger}
}

func (s *GameService) withIconURL(g *Game) {
	if g.IconPath != nil && *g.IconPath != "" {
		url := s.files.URL(*g.IconPath)
		g.IconURL = &url
	}
}

func (s *GameService) ListGames(ctx context.Context) ([]Game, error) {
	games, err := s.repo.ListGames(ctx)
	if err != nil {
		return nil, apperrors.Internal("error loading games", err)
	}
	for i := range games {
		s.withIconURL(&games[i])
	}
	return games, nil
}

func (s *GameService) GetGame(ctx context.Context, id uint) (*Game, error) {
	g, err := s.repo.GetGame(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("error loading game", err)
	}
	if g == nil {
		return nil, apperrors.NotFound("game not found")
	}
	s.withIconURL(g)
	return g, nil
}

func (s *GameService) validateInput(in *GameInput, creating bool) error {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}

	fields := validation.Struct(in)
	if fields == nil {
		fields = map[string]string{}
	}
	if (in.Name != nil && *in.Name == "") || (creating && in.Name == nil) {
		fields["name"] = "name is required"
	}
	if creating && in.Mode == nil {
		fields["mode"] = "mode is required"
	}
	if creating && in.IsMultiplayer == nil {
		fields["is_multiplayer"] = "is_multiplayer is required"
	}
	if len(in.Icon) > 0 {
		if _, err := filestore.DetectImage(in.Icon); err != nil {
			fields["icon"] = err.Error()
		}
	}
	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	return nil
}

func (s *GameService) saveIcon(data []byte) (*string, error) {
	stored, err := s.files.Save(iconDir, data)
	if err != nil {
		return nil, apperrors.Internal("error storing icon", err)
	}
	return &stored, nil
}

func (s *GameService) discardIcon(path *string) {
	if path == nil || *path == "" {
		return
	}
	if err := s.files.Delete(*path); err != nil {
		s.logger.Warn("could not delete icon", zap.String("path", *path), zap.Error(err))
	}
}

func (s *GameService) CreateGame(ctx context.Context, in GameInput) (*Game, error) {
	if err := s.validateInput(&in, true); err != nil {
		return nil, err
	}

	g := &Game{
		Name:          *in.Name,
		Mode:          *in.Mode,
		Description:   in.Description,
		IsMultiplayer: *in.IsMultiplayer,
	}
	if len(in.Icon) > 0 {
		icon, err := s.saveIcon(in.Icon)
		if err != nil {
			return nil, err
		}
		g.IconPath = icon
	}

	if err := s.repo.CreateGame(ctx, g); err != nil {
		s.discardIcon(g.IconPath)
		return nil, apperrors.Internal("error creating game", err)
	}
	s.withIconURL(g)
	return g, nil
}

// UpdateGame applies only the fields present in in.
func (s *GameService) UpdateGame(ctx context.Context, id uint, in GameInput) (*Game, error) {
	g, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(&in, false); err != nil {
		return nil, err
	}

	if in.Name != nil {
		g.Name = *in.Name
	}
	if in.Mode != nil {
		g.Mode = *in.Mode
	}
	if in.Description != nil {
		g.Description = in.Description
	}
	if in.IsMultiplayer != nil {
		g.IsMultiplayer = *in.IsMultiplayer
	}

	oldIcon := g.IconPath
	if len(in.Icon) > 0 {
		icon, err := s.saveIcon(in.Icon)
		if err != nil {
			return nil, err
		}
		g.IconPath = icon
	}

	g.IconURL = nil
	if err := s.repo.SaveGame(ctx, g); err != nil {
		if g.IconPath != oldIcon {
			s.discardIcon(g.IconPath)
		}
		return nil, apperrors.Internal("error updating game", err)
	}
	if g.IconPath != oldIcon {
		s.discardIcon(oldIcon)
	}
	s.withIconURL(g)
	return g, nil
}

func (s *GameService) DeleteGame(ctx context.Context, id uint) error {
	g, err := s.GetGame(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteGame(ctx, id); err != nil {
		return apperrors.Internal("error deleting game", err)
	}
	s.discardIcon(g.IconPath)
	return nil
}

// RecordResult stores a finished match. Matches against a local opponent are
// kept in the history but never counted in the statistics.
func (s *GameService) RecordResult(ctx context.Context, userID, gameID uint, req ResultRequest) (*GameHistory, error) {
	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := validation.Check(&req); err != nil {
		return nil, err
	}
	if req.OpponentID != nil {
		opponent, err := s.users.GetUser(ctx, *req.OpponentID)
		if err != nil {
			return nil, apperrors.Internal("error loading opponent", err)
		}
		if opponent == nil {
			return nil, apperrors.Validation(map[string]string{"opponent_id": "opponent_id does not exist"})
		}
	}

	opponentType := req.OpponentType
	if opponentType == "" {
		opponentType = OpponentAI
	}

	entry := &GameHistory{
		UserID:         userID,
		GameID:         g.ID,
		Mode:           req.Mode,
		OpponentID:     req.OpponentID,
		OpponentType:   opponentType,
		CountsForStats: opponentType != OpponentLocal,
		Result:         req.Result,
		Score:          *req.Score,
	}
	if req.PointsEarned != nil {
		entry.PointsEarned = *req.PointsEarned
	}
	if req.PointsLost != nil {
		entry.PointsLost = *req.PointsLost
	}

	if err := s.repo.RecordResult(ctx, entry); err != nil {
		return nil, apperrors.Internal("error recording result", err)
	}
	metrics.ObserveGameResult(entry.Mode, entry.Result, entry.CountsForStats)
	return entry, nil
}

// Statistics lists the user's folded statistics, optionally for one mode.
func (s *GameService) Statistics(ctx context.Context, userID uint, mode string) ([]GameStatistic, error) {
	stats, err := s.repo.Statistics(ctx, userID, mode)
	if err != nil {
		return nil, apperrors.Internal("error loading statistics", err)
	}
	for i := range stats {
		if stats[i].Game != nil {
			s.withIconURL(stats[i].Game)
		}
	}
	return stats, nil
}

func (s *GameService) GameStatistics(ctx context.Context, userID, gameID uint) (*Game, []GameStatistic, error) {
	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.repo.GameStatistics(ctx, userID, gameID)
	if err != nil {
		return nil, nil, apperrors.Internal("error loading statistics", err)
	}
	return g, stats, nil
}

func normalizeFilter(f HistoryFilter) HistoryFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultHistoryLimit
	}
	if f.Limit > MaxHistoryLimit {
		f.Limit = MaxHistoryLimit
	}
	if f.Page < 0 {
		f.Page = 0
	}
	return f
}

func (s *GameService) history(ctx context.Context, userID uint, f HistoryFilter, withGame bool) (*HistoryPage, error) {
	f = normalizeFilter(f)
	rows, total, err := s.repo.History(ctx, userID, f, withGame)
	if err != nil {
		return nil, apperrors.Internal("error loading history", err)
	}
	if rows == nil {
		rows = []GameHistory{}
	}

	page := &HistoryPage{Data: rows}
	if f.Page > 0 {
		lastPage := int((total + int64(f.Limit) - 1) / int64(f.Limit))
		if lastPage < 1 {
			lastPage = 1
		}
		page.Meta = &HistoryMeta{
			CurrentPage: f.Page,
			LastPage:    lastPage,
			PerPage:     f.Limit,
			Total:       total,
		}
	}
	return page, nil
}

// History lists the user's matches newest first. A zero Page returns up to
// Limit rows without pagination metadata.
func (s *GameService) History(ctx context.Context, userID uint, f HistoryFilter) (*HistoryPage, error) {
	return s.history(ctx, userID, f, true)
}

func (s *GameService) GameHistory(ctx context.Context, userID, gameID uint, f HistoryFilter) (*Game, *HistoryPage, error) {
	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	f.GameID = &gameID
	page, err := s.history(ctx, userID, f, false)
	if err != nil {
		return nil, nil, err
	}
	return g, page, nil
}
