package social

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/testutil"
	"github.com/thesrcielos/gamehub/internal/user"
)

func setupSocial(t *testing.T, n int) (*SocialService, *GormSocialRepository, []user.User) {
	t.Helper()
	db := testutil.NewDB(t, &user.User{}, &Friendship{}, &BlockedUser{})
	users := make([]user.User, n)
	for i := range users {
		users[i] = user.User{Email: fmt.Sprintf("u%d@example.com", i), Username: fmt.Sprintf("player%d", i), Password: "x"}
		require.NoError(t, db.Create(&users[i]).Error)
	}
	repo := NewSocialRepository(db)
	return NewSocialService(repo, user.NewUserRepository(db)), repo, users
}

func TestFriendshipLifecycle(t *testing.T) {
	service, _, users := setupSocial(t, 3)
	ctx := context.Background()
	a, b, c := users[0].ID, users[1].ID, users[2].ID

	_, err := service.SendRequest(ctx, a, b)
	require.NoError(t, err)
	_, err = service.SendRequest(ctx, c, b)
	require.NoError(t, err)

	// Reverse direction is still the same pair.
	_, err = service.SendRequest(ctx, b, a)
	assert.True(t, apperrors.HasCode(err, http.StatusBadRequest))

	pending, err := service.PendingRequests(ctx, b)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	// The sender cannot accept their own request.
	_, err = service.Accept(ctx, a, b)
	assert.True(t, apperrors.HasCode(err, http.StatusNotFound))

	_, err = service.Accept(ctx, b, a)
	require.NoError(t, err)
	require.NoError(t, service.Reject(ctx, b, c))

	friendsOfA, err := service.Friends(ctx, a)
	require.NoError(t, err)
	require.Len(t, friendsOfA, 1)
	assert.Equal(t, b, friendsOfA[0].ID)

	friendsOfB, err := service.Friends(ctx, b)
	require.NoError(t, err)
	require.Len(t, friendsOfB, 1)
	assert.Equal(t, a, friendsOfB[0].ID)

	ok, err := service.AreFriends(ctx, b, a)
	require.NoError(t, err)
	assert.True(t, ok)

	// Removal from the recipient side finds the requester's row.
	require.NoError(t, service.RemoveFriend(ctx, b, a))
	err = service.RemoveFriend(ctx, a, b)
	assert.True(t, apperrors.HasCode(err, http.StatusNotFound))
}

func TestBlockRemovesFriendshipAndPreventsRequests(t *testing.T) {
	service, repo, users := setupSocial(t, 2)
	ctx := context.Background()
	a, b := users[0].ID, users[1].ID

	_, err := service.SendRequest(ctx, a, b)
	require.NoError(t, err)

	block, err := service.Block(ctx, b, a)
	require.NoError(t, err)
	assert.Equal(t, b, block.UserID)
	assert.Equal(t, a, block.BlockedUserID)

	f, err := repo.FindFriendship(ctx, a, b)
	require.NoError(t, err)
	assert.Nil(t, f)

	blocked, err := repo.IsBlocked(ctx, b, a)
	require.NoError(t, err)
	assert.True(t, blocked)

	_, err = service.SendRequest(ctx, a, b)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "cannot send a friend request to this user", appErr.Message)

	list, err := service.BlockedUsers(ctx, b)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a, list[0].ID)

	require.NoError(t, service.Unblock(ctx, b, a))
	assert.True(t, apperrors.HasCode(service.Unblock(ctx, b, a), http.StatusNotFound))

	_, err = service.SendRequest(ctx, a, b)
	assert.NoError(t, err)
}

func TestBlock_DuplicateRowMapsToAlreadyBlocked(t *testing.T) {
	_, repo, users := setupSocial(t, 2)
	ctx := context.Background()

	_, err := repo.Block(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	_, err = repo.Block(ctx, users[0].ID, users[1].ID)
	assert.ErrorIs(t, err, ErrAlreadyBlocked)
}
