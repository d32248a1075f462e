package chat

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository interface {
	FindChat(ctx context.Context, id uint) (*Chat, error)
	FindBetween(ctx context.Context, a, b uint) (*Chat, error)
	CreateCanonical(ctx context.Context, a, b uint) (*Chat, error)
	ListForUser(ctx context.Context, userID uint) ([]Chat, error)
	LatestMessage(ctx context.Context, chatID uint) (*ChatMessage, error)
	CountUnreadInChat(ctx context.Context, chatID, readerID uint) (int64, error)
	Messages(ctx context.Context, chatID uint, offset, limit int) ([]ChatMessage, int64, error)
	CreateMessage(ctx context.Context, msg *ChatMessage) error
	MarkAsRead(ctx context.Context, chatID, readerID uint, at time.Time) (int64, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	DeleteChat(ctx context.Context, chatID uint) error
}

type GormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

func first[T any](q *gorm.DB) (*T, error) {
	var out T
	err := q.First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *GormChatRepository) FindChat(ctx context.Context, id uint) (*Chat, error) {
	return first[Chat](r.db.WithContext(ctx).Where("id = ?", id))
}

// FindBetween matches the pair in either column order.
func (r *GormChatRepository) FindBetween(ctx context.Context, a, b uint) (*Chat, error) {
	return first[Chat](r.db.WithContext(ctx).
		Where("(user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)", a, b, b, a))
}

// CreateCanonical inserts the chat for the pair; when a concurrent insert won
// the unique pair index the existing row is returned instead.
func (r *GormChatRepository) CreateCanonical(ctx context.Context, a, b uint) (*Chat, error) {
	low, high := Canonical(a, b)
	c := &Chat{UserAID: low, UserBID: high}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_a_id"}, {Name: "user_b_id"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		existing, err := r.FindBetween(ctx, low, high)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, errors.New("chat vanished after conflicting insert")
		}
		return existing, nil
	}
	return c, nil
}

func (r *GormChatRepository) ListForUser(ctx context.Context, userID uint) ([]Chat, error) {
	var chats []Chat
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at desc, id desc").
		Find(&chats).Error
	return chats, err
}

func (r *GormChatRepository) LatestMessage(ctx context.Context, chatID uint) (*ChatMessage, error) {
	return first[ChatMessage](r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at desc, id desc"))
}

func (r *GormChatRepository) CountUnreadInChat(ctx context.Context, chatID, readerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ChatMessage{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, readerID, false).
		Count(&count).Error
	return count, err
}

// Messages returns one page newest first together with the chat's total.
func (r *GormChatRepository) Messages(ctx context.Context, chatID uint, offset, limit int) ([]ChatMessage, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ChatMessage{}).Where("chat_id = ?", chatID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgs []ChatMessage
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&msgs).Error
	return msgs, total, err
}

func (r *GormChatRepository) CreateMessage(ctx context.Context, msg *ChatMessage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		msg.IsRead = false
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&Chat{}).Where("id = ?", msg.ChatID).Updates(map[string]interface{}{
			"updated_at":      now,
			"last_message_at": msg.CreatedAt,
		}).Error
	})
}

// MarkAsRead flips the unread messages of chatID that readerID did not send.
func (r *GormChatRepository) MarkAsRead(ctx context.Context, chatID, readerID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&ChatMessage{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, readerID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (r *GormChatRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ChatMessage{}).
		Joins("JOIN chats ON chats.id = chat_messages.chat_id").
		Where("(chats.user_a_id = ? OR chats.user_b_id = ?) AND chat_messages.sender_id <> ? AND chat_messages.is_read = ?", userID, userID, userID, false).
		Count(&count).Error
	return count, err
}

func (r *GormChatRepository) DeleteChat(ctx context.Context, chatID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chatID).Delete(&ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Chat{}, chatID).Error
	})
}
