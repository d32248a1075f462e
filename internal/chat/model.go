package chat

import (
	"time"

	"github.com/thesrcielos/gamehub/internal/user"
)

const (
	MaxMessageLength = 1000
	DefaultPerPage   = 50
	MaxPerPage       = 100
)

// Chat is the single conversation between two users, stored with the lower
// user id in UserAID.
type Chat struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserAID       uint       `gorm:"column:user_a_id;not null;uniqueIndex:idx_chat_pair" json:"user_a_id"`
	UserBID       uint       `gorm:"column:user_b_id;not null;uniqueIndex:idx_chat_pair;index" json:"user_b_id"`
	LastMessageAt *time.Time `json:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `gorm:"index" json:"updated_at"`
}

func (c *Chat) HasParticipant(userID uint) bool {
	return c.UserAID == userID || c.UserBID == userID
}

func (c *Chat) OtherParticipant(userID uint) uint {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

type ChatMessage struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ChatID    uint       `gorm:"not null;index:idx_chat_created,priority:1;index:idx_read_chat,priority:2" json:"chat_id"`
	SenderID  uint       `gorm:"not null;index" json:"sender_id"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	IsRead    bool       `gorm:"not null;index:idx_read_chat,priority:1" json:"is_read"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `gorm:"index:idx_chat_created,priority:2" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Canonical orders a user pair so the lower id comes first.
func Canonical(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

type LatestMessage struct {
	Message   string    `json:"message"`
	SenderID  uint      `json:"sender_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Summary struct {
	ID            uint           `json:"id"`
	OtherUser     user.Summary   `json:"other_user"`
	LatestMessage *LatestMessage `json:"latest_message"`
	UnreadCount   int64          `json:"unread_count"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type Started struct {
	ID        uint         `json:"id"`
	OtherUser user.Summary `json:"other_user"`
	CreatedAt time.Time    `json:"created_at"`
}

type Sender struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type MessageView struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	Sender    Sender    `json:"sender"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	LastPage     int   `json:"last_page"`
	PerPage      int   `json:"per_page"`
	Total        int64 `json:"total"`
	HasMorePages bool  `json:"has_more_pages"`
}

type MessagePage struct {
	Messages   []MessageView `json:"messages"`
	Pagination Pagination    `json:"pagination"`
}

type StartChatRequest struct {
	OtherUserID uint `json:"other_user_id" form:"other_user_id" validate:"required"`
}

type SendMessageRequest struct {
	ChatID  uint   `json:"chat_id" form:"chat_id" validate:"required"`
	Message string `json:"message" form:"message" validate:"required"`
}
