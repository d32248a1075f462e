package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("email already registered")

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	CreateUserWithToken(ctx context.Context, user *User, token *AccessToken) error
	GetUser(ctx context.Context, id uint) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateImage(ctx context.Context, id uint, imageURL *string) error
	DeleteAccount(ctx context.Context, id uint) error

	CreateToken(ctx context.Context, token *AccessToken) error
	GetToken(ctx context.Context, tokenID string) (*AccessToken, error)
	TouchToken(ctx context.Context, tokenID string, at time.Time) error
	DeleteUserTokens(ctx context.Context, userID uint) (int64, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) CreateUser(ctx context.Context, user *User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

// CreateUserWithToken inserts the user and its first access token in one
// transaction; token.UserID is set from the new row.
func (r *GormUserRepository) CreateUserWithToken(ctx context.Context, user *User, token *AccessToken) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		token.UserID = user.ID
		return tx.Create(token).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (r *GormUserRepository) GetUser(ctx context.Context, id uint) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).Order("id asc").Find(&users).Error
	return users, err
}

func (r *GormUserRepository) UpdateImage(ctx context.Context, id uint, imageURL *string) error {
	return r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("image_url", imageURL).Error
}

// DeleteAccount removes the user and every row that references them.
// Tables owned by other packages are addressed by name.
func (r *GormUserRepository) DeleteAccount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		statements := []struct {
			sql  string
			args []interface{}
		}{
			{"DELETE FROM access_tokens WHERE user_id = ?", []interface{}{id}},
			{"DELETE FROM game_statistics WHERE user_id = ?", []interface{}{id}},
			{"DELETE FROM game_history WHERE user_id = ?", []interface{}{id}},
			{"UPDATE game_history SET opponent_id = NULL WHERE opponent_id = ?", []interface{}{id}},
			{"DELETE FROM friendships WHERE user_id = ? OR friend_id = ?", []interface{}{id, id}},
			{"DELETE FROM blocked_users WHERE user_id = ? OR blocked_user_id = ?", []interface{}{id, id}},
			{"DELETE FROM chat_messages WHERE chat_id IN (SELECT id FROM chats WHERE user_a_id = ? OR user_b_id = ?)", []interface{}{id, id}},
			{"DELETE FROM chats WHERE user_a_id = ? OR user_b_id = ?", []interface{}{id, id}},
			{"DELETE FROM users WHERE id = ?", []interface{}{id}},
		}
		for _, st := range statements {
			if err := tx.Exec(st.sql, st.args...).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormUserRepository) CreateToken(ctx context.Context, token *AccessToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *GormUserRepository) GetToken(ctx context.Context, tokenID string) (*AccessToken, error) {
	var t AccessToken
	err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormUserRepository) TouchToken(ctx context.Context, tokenID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&AccessToken{}).Where("token_id = ?", tokenID).Update("last_used_at", at).Error
}

func (r *GormUserRepository) DeleteUserTokens(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&AccessToken{})
	return res.RowsAffected, res.Error
}
