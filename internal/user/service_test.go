package user

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// mockGenerateJWT is a helper to override GenerateJWT in tests
var mockGenerateJWT func(id uint, tokenID string, expiresAt time.Time) (string, error)

func TestMain(m *testing.M) {
	orig := GenerateJWT
	GenerateJWT = func(id uint, tokenID string, expiresAt time.Time) (string, error) {
		if mockGenerateJWT != nil {
			return mockGenerateJWT(id, tokenID, expiresAt)
		}
		return orig(id, tokenID, expiresAt)
	}
	hashCost = bcrypt.MinCost
	code := m.Run()
	GenerateJWT = orig
	os.Exit(code)
}

func newTestService() (*UserService, *MockUserRepository, *MockFileStore) {
	repo := &MockUserRepository{}
	files := &MockFileStore{}
	return NewUserService(repo, files, time.Hour, zap.NewNop()), repo, files
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	return appErr.Fields
}

func TestUserService_Register(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("GetUserByEmail", ctx, "alice@example.com").Return(nil, nil)
	repo.On("CreateUserWithToken", ctx, mock.AnythingOfType("*user.User"), mock.MatchedBy(func(tok *AccessToken) bool {
		return tok.TokenID != "" && tok.Name == tokenName
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*User).ID = 1
		args.Get(2).(*AccessToken).UserID = 1
	}).Return(nil)
	mockGenerateJWT = func(id uint, tokenID string, expiresAt time.Time) (string, error) {
		if id != 1 {
			return "", errors.New("unexpected user id")
		}
		return "token123", nil
	}
	defer func() { mockGenerateJWT = nil }()

	res, err := service.Register(ctx, RegisterRequest{
		Email:    "  Alice@Example.com ",
		Password: "secret123",
		Username: "Alice",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "token123", res.Token)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.NotEqual(t, "secret123", res.User.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.Password), []byte("secret123")))
	repo.AssertExpectations(t)
}

func TestUserService_Register_SanitizesUsername(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("GetUserByEmail", ctx, "bob@example.com").Return(nil, nil)
	repo.On("CreateUserWithToken", ctx, mock.AnythingOfType("*user.User"), mock.Anything).Return(nil)

	res, err := service.Register(ctx, RegisterRequest{
		Email:    "bob@example.com",
		Password: "secret123",
		Username: "<script>alert(1)</script>Bob",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Bob", res.User.Username)
}

func TestUserService_Register_RejectsInvalidFields(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("GetUserByEmail", ctx, "carol@example.com").Return(nil, nil)

	_, err := service.Register(ctx, RegisterRequest{
		Email:    "carol@example.com",
		Password: "pass-word!",
		Username: "admin",
	}, nil)

	fields := validationFields(t, err)
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "username")
	repo.AssertNotCalled(t, "CreateUserWithToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Register_UsernameRules(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()
	repo.On("GetUserByEmail", ctx, mock.Anything).Return(nil, nil)

	for _, name := range []string{"two  spaces", "bad$name", "Guest", "x"} {
		_, err := service.Register(ctx, RegisterRequest{
			Email:    "dave@example.com",
			Password: "secret123",
			Username: name,
		}, nil)
		fields := validationFields(t, err)
		assert.Contains(t, fields, "username", name)
	}
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("GetUserByEmail", ctx, "erin@example.com").Return(&User{ID: 9}, nil)

	_, err := service.Register(ctx, RegisterRequest{
		Email:    "erin@example.com",
		Password: "secret123",
		Username: "Erin",
	}, nil)

	fields := validationFields(t, err)
	assert.Equal(t, ErrEmailTaken.Error(), fields["email"])
}

func TestUserService_Register_DuplicateRaceRemovesImage(t *testing.T) {
	service, repo, files := newTestService()
	ctx := context.Background()
	img := pngBytes(t)

	repo.On("GetUserByEmail", ctx, "frank@example.com").Return(nil, nil)
	files.On("Save", avatarDir, img).Return("avatars/a.png", nil)
	repo.On("CreateUserWithToken", ctx, mock.Anything, mock.Anything).Return(ErrEmailTaken)
	files.On("Delete", "avatars/a.png").Return(nil)

	_, err := service.Register(ctx, RegisterRequest{
		Email:    "frank@example.com",
		Password: "secret123",
		Username: "Frank",
	}, img)

	fields := validationFields(t, err)
	assert.Contains(t, fields, "email")
	files.AssertExpectations(t)
}

func TestUserService_Register_StoreFailure(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("GetUserByEmail", ctx, "gina@example.com").Return(nil, nil)
	repo.On("CreateUserWithToken", ctx, mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	_, err := service.Register(ctx, RegisterRequest{
		Email:    "gina@example.com",
		Password: "secret123",
		Username: "Gina",
	}, nil)

	assert.True(t, apperrors.HasCode(err, http.StatusInternalServerError))
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateToken", mock.Anything, mock.Anything)
}

func TestUserService_Login(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	u := &User{ID: 2, Email: "foo@example.com", Password: hashed(t, "bar123")}
	repo.On("GetUserByEmail", ctx, "foo@example.com").Return(u, nil)
	repo.On("CreateToken", ctx, mock.Anything).Return(nil)
	mockGenerateJWT = func(id uint, tokenID string, expiresAt time.Time) (string, error) { return "tok456", nil }
	defer func() { mockGenerateJWT = nil }()

	res, err := service.Login(ctx, LoginRequest{Email: "FOO@example.com", Password: "bar123"})
	require.NoError(t, err)
	assert.Equal(t, "tok456", res.Token)
	assert.Equal(t, uint(2), res.User.ID)
	repo.AssertExpectations(t)
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	u := &User{ID: 2, Email: "foo@example.com", Password: hashed(t, "bar123")}
	repo.On("GetUserByEmail", ctx, "foo@example.com").Return(u, nil)
	repo.On("GetUserByEmail", ctx, "nobody@example.com").Return(nil, nil)

	_, err := service.Login(ctx, LoginRequest{Email: "foo@example.com", Password: "wrong"})
	assert.True(t, apperrors.HasCode(err, http.StatusUnauthorized))

	_, err = service.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "bar123"})
	assert.True(t, apperrors.HasCode(err, http.StatusUnauthorized))
	repo.AssertNotCalled(t, "CreateToken", mock.Anything, mock.Anything)
}

func TestUserService_Login_ValidationError(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Login(context.Background(), LoginRequest{Email: "not-an-email"})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestUserService_Authenticate(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("GetToken", ctx, "live").Return(&AccessToken{UserID: 3, TokenID: "live", ExpiresAt: time.Now().Add(time.Hour)}, nil)
	repo.On("GetUser", ctx, uint(3)).Return(&User{ID: 3, Username: "alice"}, nil)
	repo.On("TouchToken", ctx, "live", mock.AnythingOfType("time.Time")).Return(errors.New("db down"))

	u, err := service.Authenticate(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	repo.AssertExpectations(t)
}

func TestUserService_Authenticate_Rejects(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("GetToken", ctx, "revoked").Return(nil, nil)
	repo.On("GetToken", ctx, "expired").Return(&AccessToken{UserID: 3, ExpiresAt: time.Now().Add(-time.Minute)}, nil)

	_, err := service.Authenticate(ctx, "revoked")
	assert.True(t, apperrors.HasCode(err, http.StatusUnauthorized))

	_, err = service.Authenticate(ctx, "expired")
	assert.True(t, apperrors.HasCode(err, http.StatusUnauthorized))
	repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestUserService_Logout(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("DeleteUserTokens", ctx, uint(4)).Return(int64(2), nil)

	assert.NoError(t, service.Logout(ctx, 4))
	repo.AssertExpectations(t)
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("GetUser", ctx, uint(99)).Return(nil, nil)

	_, err := service.GetUser(ctx, 99)
	assert.True(t, apperrors.HasCode(err, http.StatusNotFound))
}

func TestUserService_UpdateProfileImage(t *testing.T) {
	service, repo, files := newTestService()
	ctx := context.Background()
	img := pngBytes(t)
	old := "http://localhost:8080/storage/avatars/old.png"

	repo.On("GetUser", ctx, uint(5)).Return(&User{ID: 5, ImageURL: &old}, nil)
	files.On("Save", avatarDir, img).Return("avatars/new.png", nil)
	repo.On("UpdateImage", ctx, uint(5), mock.AnythingOfType("*string")).Return(nil)
	files.On("Delete", "avatars/old.png").Return(nil)

	u, err := service.UpdateProfileImage(ctx, 5, img)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/storage/avatars/new.png", *u.ImageURL)
	files.AssertExpectations(t)
}

func TestUserService_UpdateProfileImage_RejectsNonImage(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.UpdateProfileImage(context.Background(), 5, []byte("plain text"))
	fields := validationFields(t, err)
	assert.Contains(t, fields, "imagen")

	_, err = service.UpdateProfileImage(context.Background(), 5, nil)
	fields = validationFields(t, err)
	assert.Equal(t, "imagen is required", fields["imagen"])
}

func TestUserService_DeleteAccount(t *testing.T) {
	service, repo, files := newTestService()
	ctx := context.Background()
	avatar := "http://localhost:8080/storage/avatars/me.png"

	repo.On("GetUser", ctx, uint(6)).Return(&User{ID: 6, ImageURL: &avatar}, nil)
	repo.On("DeleteAccount", ctx, uint(6)).Return(nil)
	files.On("Delete", "avatars/me.png").Return(nil)

	assert.NoError(t, service.DeleteAccount(ctx, 6))
	repo.AssertExpectations(t)
	files.AssertExpectations(t)
}

func TestUserService_DeleteAccount_FailureKeepsAvatar(t *testing.T) {
	service, repo, files := newTestService()
	ctx := context.Background()
	avatar := "http://localhost:8080/storage/avatars/me.png"

	repo.On("GetUser", ctx, uint(6)).Return(&User{ID: 6, ImageURL: &avatar}, nil)
	repo.On("DeleteAccount", ctx, uint(6)).Return(errors.New("constraint"))

	err := service.DeleteAccount(ctx, 6)
	assert.True(t, apperrors.HasCode(err, http.StatusInternalServerError))
	files.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("GetUserByEmail", ctx, "root@example.com").Return(nil, nil)
	repo.On("CreateUser", ctx, mock.MatchedBy(func(u *User) bool {
		return u.IsAdmin && u.Username == "Administrador"
	})).Return(nil)

	assert.NoError(t, service.EnsureAdmin(ctx, "Root@example.com", "Administrador", "changeme"))
	assert.NoError(t, service.EnsureAdmin(ctx, "", "Administrador", "changeme"))
	repo.AssertNumberOfCalls(t, "CreateUser", 1)
}
