package social

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

// Friendship is a directed edge from the requester (UserID) to the recipient
// (FriendID). PairLow/PairHigh hold the unordered pair so only one row can
// exist per pair.
type Friendship struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	FriendID  uint      `gorm:"not null;index" json:"friend_id"`
	Status    string    `gorm:"size:16;not null;index" json:"status"`
	PairLow   uint      `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"-"`
	PairHigh  uint      `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	f.PairLow, f.PairHigh = f.UserID, f.FriendID
	if f.PairLow > f.PairHigh {
		f.PairLow, f.PairHigh = f.PairHigh, f.PairLow
	}
	return nil
}

// BlockedUser is one-directional: UserID has blocked BlockedUserID.
type BlockedUser struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_block_pair" json:"user_id"`
	BlockedUserID uint      `gorm:"not null;uniqueIndex:idx_block_pair;index" json:"blocked_user_id"`
	CreatedAt     time.Time `json:"created_at"`
}
