package game

import "time"

const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeBoth    = "both"

	ResultWon       = "won"
	ResultLost      = "lost"
	ResultDraw      = "draw"
	ResultAbandoned = "abandoned"

	OpponentAI    = "ai"
	OpponentHuman = "human"
	OpponentLocal = "local"

	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

type Game struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Mode          string    `gorm:"size:16;not null" json:"mode"`
	Description   *string   `gorm:"type:text" json:"description"`
	IconPath      *string   `gorm:"size:512" json:"icon_path"`
	IconURL       *string   `gorm:"-" json:"icon_url"`
	IsMultiplayer bool      `gorm:"not null" json:"is_multiplayer"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GameHistory is one finished match. Rows are never updated.
type GameHistory struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index:idx_history_user_created,priority:1" json:"user_id"`
	GameID         uint      `gorm:"not null;index" json:"game_id"`
	Game           *Game     `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Mode           string    `gorm:"size:16;not null" json:"mode"`
	OpponentID     *uint     `gorm:"index" json:"opponent_id"`
	OpponentType   string    `gorm:"size:16;not null" json:"opponent_type"`
	CountsForStats bool      `gorm:"not null" json:"counts_for_stats"`
	Result         string    `gorm:"size:16;not null" json:"result"`
	Score          int       `gorm:"not null" json:"score"`
	PointsEarned   int       `gorm:"not null" json:"points_earned"`
	PointsLost     int       `gorm:"not null" json:"points_lost"`
	CreatedAt      time.Time `gorm:"index:idx_history_user_created,priority:2" json:"created_at"`
}

func (GameHistory) TableName() string {
	return "game_history"
}

// GameStatistic aggregates the counted matches of one user, game and mode.
type GameStatistic struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_stats_user_game_mode,priority:1" json:"user_id"`
	GameID      uint      `gorm:"not null;uniqueIndex:idx_stats_user_game_mode,priority:2;index" json:"game_id"`
	Mode        string    `gorm:"size:16;not null;uniqueIndex:idx_stats_user_game_mode,priority:3" json:"mode"`
	Game        *Game     `gorm:"foreignKey:GameID" json:"game,omitempty"`
	GamesPlayed int       `gorm:"not null" json:"games_played"`
	GamesWon    int       `gorm:"not null" json:"games_won"`
	GamesLost   int       `gorm:"not null" json:"games_lost"`
	GamesDraw   int       `gorm:"not null" json:"games_draw"`
	HighScore   int       `gorm:"not null" json:"high_score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ResultRequest struct {
	Mode         string `json:"mode" form:"mode" validate:"required,oneof=online offline"`
	Result       string `json:"result" form:"result" validate:"required,oneof=won lost draw abandoned"`
	Score        *int   `json:"score" form:"score" validate:"required,min=0"`
	OpponentID   *uint  `json:"opponent_id" form:"opponent_id" validate:"omitempty,gt=0"`
	OpponentType string `json:"opponent_type" form:"opponent_type" validate:"omitempty,oneof=ai human local"`
	PointsEarned *int   `json:"points_earned" form:"points_earned" validate:"omitempty,min=0"`
	PointsLost   *int   `json:"points_lost" form:"points_lost" validate:"omitempty,min=0"`
}

// GameInput carries the admin fields of a game; nil fields are left untouched
// on update.
type GameInput struct {
	Name          *string `json:"name" validate:"omitempty,max=255"`
	Mode          *string `json:"mode" validate:"omitempty,oneof=online offline both"`
	Description   *string `json:"description"`
	IsMultiplayer *bool   `json:"is_multiplayer"`
	Icon          []byte  `json:"-"`
}

type HistoryFilter struct {
	GameID *uint
	Mode   string
	Result string
	// Page > 0 switches to paginated output.
	Page  int
	Limit int
}

type HistoryMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

type HistoryPage struct {
	Data []GameHistory `json:"data"`
	Meta *HistoryMeta  `json:"meta,omitempty"`
}
