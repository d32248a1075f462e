package chat

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/metrics"
	"github.com/thesrcielos/gamehub/internal/user"
	"github.com/thesrcielos/gamehub/internal/validation"
)

type UserFinder interface {
	GetUser(ctx context.Context, id uint) (*user.User, error)
}

type FriendshipChecker interface {
	AreFriends(ctx context.Context, a, b uint) (bool, error)
}

type ChatService struct {
	repo    ChatRepository
	users   UserFinder
	friends FriendshipChecker

	// RequireFriendship restricts new chats to accepted friends.
	RequireFriendship bool
}

func NewChatService(repo ChatRepository, users UserFinder, friends FriendshipChecker, requireFriendship bool) *ChatService {
	return &ChatService{
		repo:              repo,
		users:             users,
		friends:           friends,
		RequireFriendship: requireFriendship,
	}
}

func (s *ChatService) loadUser(ctx context.Context, id uint) (*user.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("error loading user", err)
	}
	if u == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}

// participantChat loads a chat the caller takes part in.
func (s *ChatService) participantChat(ctx context.Context, userID, chatID uint) (*Chat, error) {
	c, err := s.repo.FindChat(ctx, chatID)
	if err != nil {
		return nil, apperrors.Internal("error loading chat", err)
	}
	if c == nil {
		return nil, apperrors.NotFound("chat not found")
	}
	if !c.HasParticipant(userID) {
		return nil, apperrors.Forbidden("you are not a participant of this chat")
	}
	return c, nil
}

func (s *ChatService) ListChats(ctx context.Context, userID uint) ([]Summary, error) {
	chats, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("error loading chats", err)
	}

	out := make([]Summary, 0, len(chats))
	for _, c := range chats {
		other, err := s.users.GetUser(ctx, c.OtherParticipant(userID))
		if err != nil {
			return nil, apperrors.Internal("error loading user", err)
		}
		if other == nil {
			continue
		}

		summary := Summary{ID: c.ID, OtherUser: other.Summary(), UpdatedAt: c.UpdatedAt}

		latest, err := s.repo.LatestMessage(ctx, c.ID)
		if err != nil {
			return nil, apperrors.Internal("error loading latest message", err)
		}
		if latest != nil {
			summary.LatestMessage = &LatestMessage{
				Message:   latest.Message,
				SenderID:  latest.SenderID,
				CreatedAt: latest.CreatedAt,
			}
		}

		summary.UnreadCount, err = s.repo.CountUnreadInChat(ctx, c.ID, userID)
		if err != nil {
			return nil, apperrors.Internal("error counting unread messages", err)
		}
		out = append(out, summary)
	}
	return out, nil
}

// StartChat returns the conversation between the two users, creating it on
// first use. Both sides resolve to the same chat.
func (s *ChatService) StartChat(ctx context.Context, userID uint, req StartChatRequest) (*Started, error) {
	if err := validation.Check(&req); err != nil {
		return nil, err
	}
	if req.OtherUserID == userID {
		return nil, apperrors.BadRequest("you cannot chat with yourself")
	}
	other, err := s.loadUser(ctx, req.OtherUserID)
	if err != nil {
		return nil, err
	}

	if s.RequireFriendship {
		ok, err := s.friends.AreFriends(ctx, userID, other.ID)
		if err != nil {
			return nil, apperrors.Internal("error checking friendship", err)
		}
		if !ok {
			return nil, apperrors.Forbidden("you can only chat with your friends")
		}
	}

	c, err := s.repo.FindBetween(ctx, userID, other.ID)
	if err != nil {
		return nil, apperrors.Internal("error loading chat", err)
	}
	if c == nil {
		c, err = s.repo.CreateCanonical(ctx, userID, other.ID)
		if err != nil {
			return nil, apperrors.Internal("error creating chat", err)
		}
	}

	return &Started{ID: c.ID, OtherUser: other.Summary(), CreatedAt: c.CreatedAt}, nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Messages returns one page of the chat. Pages go back in time; messages
// inside a page are in reading order.
func (s *ChatService) Messages(ctx context.Context, userID, chatID uint, page, perPage int) (*MessagePage, error) {
	c, err := s.participantChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	page, perPage = normalizePage(page, perPage)

	msgs, total, err := s.repo.Messages(ctx, chatID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, apperrors.Internal("error loading messages", err)
	}

	senders, err := s.senders(ctx, c)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, len(msgs))
	for i, m := range msgs {
		views[len(msgs)-1-i] = toView(m, senders[m.SenderID])
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return &MessagePage{
		Messages: views,
		Pagination: Pagination{
			CurrentPage:  page,
			LastPage:     lastPage,
			PerPage:      perPage,
			Total:        total,
			HasMorePages: page < lastPage,
		},
	}, nil
}

func (s *ChatService) senders(ctx context.Context, c *Chat) (map[uint]Sender, error) {
	out := make(map[uint]Sender, 2)
	for _, id := range []uint{c.UserAID, c.UserBID} {
		u, err := s.users.GetUser(ctx, id)
		if err != nil {
			return nil, apperrors.Internal("error loading user", err)
		}
		if u != nil {
			out[id] = Sender{ID: u.ID, Username: u.Username, Name: u.Username}
		} else {
			out[id] = Sender{ID: id}
		}
	}
	return out, nil
}

func toView(m ChatMessage, sender Sender) MessageView {
	return MessageView{
		ID:        m.ID,
		Message:   m.Message,
		Sender:    sender,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (s *ChatService) SendMessage(ctx context.Context, userID uint, req SendMessageRequest) (*MessageView, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := validation.Check(&req); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.Message) > MaxMessageLength {
		return nil, apperrors.Validation(map[string]string{"message": "message must be at most 1000 characters"})
	}

	c, err := s.participantChat(ctx, userID, req.ChatID)
	if err != nil {
		return nil, err
	}

	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	msg := &ChatMessage{ChatID: c.ID, SenderID: userID, Message: req.Message}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, apperrors.Internal("error sending message", err)
	}
	metrics.ChatMessagesTotal.Inc()

	view := toView(*msg, Sender{ID: u.ID, Username: u.Username, Name: u.Username})
	return &view, nil
}

// MarkAsRead marks the other participant's unread messages as read and
// returns how many changed.
func (s *ChatService) MarkAsRead(ctx context.Context, userID, chatID uint) (int64, error) {
	if _, err := s.participantChat(ctx, userID, chatID); err != nil {
		return 0, err
	}
	n, err := s.repo.MarkAsRead(ctx, chatID, userID, time.Now())
	if err != nil {
		return 0, apperrors.Internal("error marking messages as read", err)
	}
	return n, nil
}

func (s *ChatService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	n, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal("error counting unread messages", err)
	}
	return n, nil
}

func (s *ChatService) DeleteChat(ctx context.Context, userID, chatID uint) error {
	if _, err := s.participantChat(ctx, userID, chatID); err != nil {
		return err
	}
	if err := s.repo.DeleteChat(ctx, chatID); err != nil {
		return apperrors.Internal("error deleting chat", err)
	}
	return nil
}
