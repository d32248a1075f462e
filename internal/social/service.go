package social

import (
	"context"
	"errors"

	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/user"
)

// UserFinder looks users up by id; nil means no such user.
type UserFinder interface {
	GetUser(ctx context.Context, id uint) (*user.User, error)
}

type SocialService struct {
	repo  SocialRepository
	users UserFinder
}

func NewSocialService(repo SocialRepository, users UserFinder) *SocialService {
	return &SocialService{repo: repo, users: users}
}

func (s *SocialService) Friends(ctx context.Context, userID uint) ([]user.User, error) {
	friends, err := s.repo.Friends(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("error loading friends", err)
	}
	return friends, nil
}

func (s *SocialService) PendingRequests(ctx context.Context, userID uint) ([]user.User, error) {
	pending, err := s.repo.PendingRequests(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("error loading friend requests", err)
	}
	return pending, nil
}

func (s *SocialService) requireUser(ctx context.Context, id uint) error {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return apperrors.Internal("error loading user", err)
	}
	if u == nil {
		return apperrors.NotFound("user not found")
	}
	return nil
}

// SendRequest creates a pending request from userID to targetID. The first
// failing check decides the error.
func (s *SocialService) SendRequest(ctx context.Context, userID, targetID uint) (*Friendship, error) {
	if userID == targetID {
		return nil, apperrors.BadRequest("you cannot send a friend request to yourself")
	}
	if err := s.requireUser(ctx, targetID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindFriendship(ctx, userID, targetID)
	if err != nil {
		return nil, apperrors.Internal("error loading friendship", err)
	}
	if existing != nil {
		if existing.Status == StatusAccepted {
			return nil, apperrors.BadRequest("you are already friends with this user")
		}
		return nil, apperrors.BadRequest("a pending friend request already exists")
	}

	blocked, err := s.repo.IsBlockedEither(ctx, userID, targetID)
	if err != nil {
		return nil, apperrors.Internal("error loading blocks", err)
	}
	if blocked {
		return nil, apperrors.BadRequest("cannot send a friend request to this user")
	}

	f := &Friendship{UserID: userID, FriendID: targetID, Status: StatusPending}
	if err := s.repo.CreateFriendship(ctx, f); err != nil {
		if errors.Is(err, ErrPairExists) {
			return nil, apperrors.BadRequest("a pending friend request already exists")
		}
		return nil, apperrors.Internal("error creating friend request", err)
	}
	return f, nil
}

// Accept only acts on a pending request sent by requesterID to userID.
func (s *SocialService) Accept(ctx context.Context, userID, requesterID uint) (*Friendship, error) {
	f, err := s.pendingTo(ctx, userID, requesterID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, f.ID, StatusAccepted); err != nil {
		return nil, apperrors.Internal("error accepting friend request", err)
	}
	f.Status = StatusAccepted
	return f, nil
}

func (s *SocialService) Reject(ctx context.Context, userID, requesterID uint) error {
	f, err := s.pendingTo(ctx, userID, requesterID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteFriendship(ctx, f.ID); err != nil {
		return apperrors.Internal("error rejecting friend request", err)
	}
	return nil
}

func (s *SocialService) pendingTo(ctx context.Context, userID, requesterID uint) (*Friendship, error) {
	f, err := s.repo.FindPendingRequest(ctx, requesterID, userID)
	if err != nil {
		return nil, apperrors.Internal("error loading friend request", err)
	}
	if f == nil {
		return nil, apperrors.NotFound("no pending friend request found")
	}
	return f, nil
}

func (s *SocialService) RemoveFriend(ctx context.Context, userID, otherID uint) error {
	deleted, err := s.repo.DeleteBetween(ctx, userID, otherID)
	if err != nil {
		return apperrors.Internal("error removing friend", err)
	}
	if deleted == 0 {
		return apperrors.NotFound("no friendship found to remove")
	}
	return nil
}

func (s *SocialService) Block(ctx context.Context, userID, targetID uint) (*BlockedUser, error) {
	if userID == targetID {
		return nil, apperrors.BadRequest("you cannot block yourself")
	}
	if err := s.requireUser(ctx, targetID); err != nil {
		return nil, err
	}

	already, err := s.repo.IsBlocked(ctx, userID, targetID)
	if err != nil {
		return nil, apperrors.Internal("error loading blocks", err)
	}
	if already {
		return nil, apperrors.BadRequest(ErrAlreadyBlocked.Error())
	}

	block, err := s.repo.Block(ctx, userID, targetID)
	if err != nil {
		if errors.Is(err, ErrAlreadyBlocked) {
			return nil, apperrors.BadRequest(ErrAlreadyBlocked.Error())
		}
		return nil, apperrors.Internal("error blocking user", err)
	}
	return block, nil
}

func (s *SocialService) Unblock(ctx context.Context, userID, targetID uint) error {
	deleted, err := s.repo.Unblock(ctx, userID, targetID)
	if err != nil {
		return apperrors.Internal("error unblocking user", err)
	}
	if deleted == 0 {
		return apperrors.NotFound("no block found for this user")
	}
	return nil
}

func (s *SocialService) BlockedUsers(ctx context.Context, userID uint) ([]user.User, error) {
	users, err := s.repo.BlockedUsers(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("error loading blocked users", err)
	}
	return users, nil
}

// AreFriends reports whether a and b share an accepted friendship.
func (s *SocialService) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	f, err := s.repo.FindFriendship(ctx, a, b)
	if err != nil {
		return false, err
	}
	return f != nil && f.Status == StatusAccepted, nil
}
