package social

import (
	"context"
	"errors"

	"github.com/thesrcielos/gamehub/internal/user"
	"gorm.io/gorm"
)

var (
	ErrPairExists     = errors.New("a relationship between these users already exists")
	ErrAlreadyBlocked = errors.New("user is already blocked")
)

type SocialRepository interface {
	Friends(ctx context.Context, userID uint) ([]user.User, error)
	PendingRequests(ctx context.Context, userID uint) ([]user.User, error)
	FindFriendship(ctx context.Context, a, b uint) (*Friendship, error)
	FindPendingRequest(ctx context.Context, requesterID, recipientID uint) (*Friendship, error)
	CreateFriendship(ctx context.Context, f *Friendship) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	DeleteFriendship(ctx context.Context, id uint) error
	DeleteBetween(ctx context.Context, a, b uint) (int64, error)

	IsBlocked(ctx context.Context, blockerID, blockedID uint) (bool, error)
	IsBlockedEither(ctx context.Context, a, b uint) (bool, error)
	Block(ctx context.Context, blockerID, blockedID uint) (*BlockedUser, error)
	Unblock(ctx context.Context, blockerID, blockedID uint) (int64, error)
	BlockedUsers(ctx context.Context, userID uint) ([]user.User, error)
}

type GormSocialRepository struct {
	db *gorm.DB
}

func NewSocialRepository(db *gorm.DB) *GormSocialRepository {
	return &GormSocialRepository{db: db}
}

func betweenPair(db *gorm.DB, a, b uint) *gorm.DB {
	return db.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a)
}

func (r *GormSocialRepository) Friends(ctx context.Context, userID uint) ([]user.User, error) {
	var users []user.User
	err := r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN friendships ON (friendships.user_id = ? AND friendships.friend_id = users.id) OR (friendships.friend_id = ? AND friendships.user_id = users.id)", userID, userID).
		Where("friendships.status = ?", StatusAccepted).
		Order("users.username asc").
		Find(&users).Error
	return users, err
}

func (r *GormSocialRepository) PendingRequests(ctx context.Context, userID uint) ([]user.User, error) {
	var users []user.User
	err := r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN friendships ON friendships.user_id = users.id").
		Where("friendships.friend_id = ? AND friendships.status = ?", userID, StatusPending).
		Order("friendships.created_at desc").
		Find(&users).Error
	return users, err
}

func (r *GormSocialRepository) FindFriendship(ctx context.Context, a, b uint) (*Friendship, error) {
	var f Friendship
	err := betweenPair(r.db.WithContext(ctx), a, b).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *GormSocialRepository) FindPendingRequest(ctx context.Context, requesterID, recipientID uint) (*Friendship, error) {
	var f Friendship
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ? AND status = ?", requesterID, recipientID, StatusPending).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *GormSocialRepository) CreateFriendship(ctx context.Context, f *Friendship) error {
	err := r.db.WithContext(ctx).Create(f).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrPairExists
	}
	return err
}

func (r *GormSocialRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&Friendship{}).Where("id = ?", id).Update("status", status).Error
}

func (r *GormSocialRepository) DeleteFriendship(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Friendship{}, id).Error
}

func (r *GormSocialRepository) DeleteBetween(ctx context.Context, a, b uint) (int64, error) {
	res := betweenPair(r.db.WithContext(ctx), a, b).Delete(&Friendship{})
	return res.RowsAffected, res.Error
}

func (r *GormSocialRepository) IsBlocked(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BlockedUser{}).
		Where("user_id = ? AND blocked_user_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormSocialRepository) IsBlockedEither(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BlockedUser{}).
		Where("(user_id = ? AND blocked_user_id = ?) OR (user_id = ? AND blocked_user_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// Block drops any friendship between the pair and records the block atomically.
func (r *GormSocialRepository) Block(ctx context.Context, blockerID, blockedID uint) (*BlockedUser, error) {
	block := &BlockedUser{UserID: blockerID, BlockedUserID: blockedID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := betweenPair(tx, blockerID, blockedID).Delete(&Friendship{}).Error; err != nil {
			return err
		}
		return tx.Create(block).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAlreadyBlocked
	}
	if err != nil {
		return nil, err
	}
	return block, nil
}

func (r *GormSocialRepository) Unblock(ctx context.Context, blockerID, blockedID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND blocked_user_id = ?", blockerID, blockedID).
		Delete(&BlockedUser{})
	return res.RowsAffected, res.Error
}

func (r *GormSocialRepository) BlockedUsers(ctx context.Context, userID uint) ([]user.User, error) {
	var users []user.User
	err := r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN blocked_users ON blocked_users.blocked_user_id = users.id").
		Where("blocked_users.user_id = ?", userID).
		Order("blocked_users.created_at desc").
		Find(&users).Error
	return users, err
}
