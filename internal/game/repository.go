package game

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GameRepository interface {
	ListGames(ctx context.Context) ([]Game, error)
	GetGame(ctx context.Context, id uint) (*Game, error)
	CreateGame(ctx context.Context, game *Game) error
	SaveGame(ctx context.Context, game *Game) error
	DeleteGame(ctx context.Context, id uint) error

	RecordResult(ctx context.Context, entry *GameHistory) error
	Statistics(ctx context.Context, userID uint, mode string) ([]GameStatistic, error)
	GameStatistics(ctx context.Context, userID, gameID uint) ([]GameStatistic, error)
	History(ctx context.Context, userID uint, filter HistoryFilter, withGame bool) ([]GameHistory, int64, error)
}

type GormGameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GormGameRepository {
	return &GormGameRepository{db: db}
}

func (r *GormGameRepository) ListGames(ctx context.Context) ([]Game, error) {
	var games []Game
	err := r.db.WithContext(ctx).Order("id asc").Find(&games).Error
	return games, err
}

func (r *GormGameRepository) GetGame(ctx context.Context, id uint) (*Game, error) {
	var g Game
	err := r.db.WithContext(ctx).First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GormGameRepository) CreateGame(ctx context.Context, game *Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

func (r *GormGameRepository) SaveGame(ctx context.Context, game *Game) error {
	return r.db.WithContext(ctx).Save(game).Error
}

// DeleteGame removes the game together with the history and statistics
// recorded for it.
func (r *GormGameRepository) DeleteGame(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&GameStatistic{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&GameHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Game{}, id).Error
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RecordResult appends entry to the history and, when it counts, folds it
// into the (user, game, mode) statistics row in the same transaction. The
// fold is a single upsert so concurrent results never lose an increment.
func (r *GormGameRepository) RecordResult(ctx context.Context, entry *GameHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(entry).Error; err != nil {
			return err
		}
		if !entry.CountsForStats {
			return nil
		}

		increment := GameStatistic{
			UserID:      entry.UserID,
			GameID:      entry.GameID,
			Mode:        entry.Mode,
			GamesPlayed: 1,
			GamesWon:    boolToInt(entry.Result == ResultWon),
			GamesLost:   boolToInt(entry.Result == ResultLost),
			GamesDraw:   boolToInt(entry.Result == ResultDraw),
			HighScore:   entry.Score,
		}
		return tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "game_id"}, {Name: "mode"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"games_played": gorm.Expr("game_statistics.games_played + excluded.games_played"),
				"games_won":    gorm.Expr("game_statistics.games_won + excluded.games_won"),
				"games_lost":   gorm.Expr("game_statistics.games_lost + excluded.games_lost"),
				"games_draw":   gorm.Expr("game_statistics.games_draw + excluded.games_draw"),
				"high_score":   gorm.Expr("CASE WHEN excluded.high_score > game_statistics.high_score THEN excluded.high_score ELSE game_statistics.high_score END"),
				"updated_at":   gorm.Expr("excluded.updated_at"),
			}),
		}).Create(&increment).Error
	})
}

func (r *GormGameRepository) Statistics(ctx context.Context, userID uint, mode string) ([]GameStatistic, error) {
	q := r.db.WithContext(ctx).Preload("Game").Where("user_id = ?", userID)
	if mode != "" {
		q = q.Where("mode = ?", mode)
	}
	var stats []GameStatistic
	err := q.Order("game_id asc, mode asc").Find(&stats).Error
	return stats, err
}

func (r *GormGameRepository) GameStatistics(ctx context.Context, userID, gameID uint) ([]GameStatistic, error) {
	var stats []GameStatistic
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Order("mode asc").
		Find(&stats).Error
	return stats, err
}

// History returns the user's matches newest first. The total is only counted
// for paginated requests.
func (r *GormGameRepository) History(ctx context.Context, userID uint, filter HistoryFilter, withGame bool) ([]GameHistory, int64, error) {
	q := r.db.WithContext(ctx).Model(&GameHistory{}).Where("user_id = ?", userID)
	if filter.GameID != nil {
		q = q.Where("game_id = ?", *filter.GameID)
	}
	if filter.Mode != "" {
		q = q.Where("mode = ?", filter.Mode)
	}
	if filter.Result != "" {
		q = q.Where("result = ?", filter.Result)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	offset := 0
	if filter.Page > 0 {
		if err := q.Count(&total).Error; err != nil {
			return nil, 0, err
		}
		offset = (filter.Page - 1) * filter.Limit
	}

	if withGame {
		q = q.Preload("Game")
	}
	var rows []GameHistory
	err := q.Order("created_at desc, id desc").Offset(offset).Limit(filter.Limit).Find(&rows).Error
	return rows, total, err
}
