package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/metrics"
	"github.com/thesrcielos/gamehub/internal/validation"
	"github.com/thesrcielos/gamehub/pkg/filestore"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	avatarDir = "avatars"
	tokenName = "auth_token"
)

var hashCost = bcrypt.DefaultCost

type UserService struct {
	repo     UserRepository
	files    filestore.Store
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewUserService(repo UserRepository, files filestore.Store, tokenTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		repo:     repo,
		files:    files,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest, image []byte) (*AuthResult, error) {
	req.Email = normalizeEmail(sanitize(req.Email))
	req.Username = sanitize(req.Username)

	fields := validation.Struct(&req)
	if fields == nil {
		fields = map[string]string{}
	}
	if _, bad := fields["email"]; !bad {
		if !emailPattern.MatchString(req.Email) || containsDangerousPatterns(req.Email) {
			fields["email"] = "email must be a valid email address"
		}
	}
	if _, bad := fields["password"]; !bad && !passwordPattern.MatchString(req.Password) {
		fields["password"] = "password may only contain letters and numbers"
	}
	if _, bad := fields["username"]; !bad {
		if msg := usernameError(req.Username); msg != "" {
			fields["username"] = msg
		}
	}
	if len(image) > 0 {
		if _, err := filestore.DetectImage(image); err != nil {
			fields["imagen"] = err.Error()
		}
	}
	if _, bad := fields["email"]; !bad {
		existing, err := s.repo.GetUserByEmail(ctx, req.Email)
		if err != nil {
			return nil, apperrors.Internal("error looking up email", err)
		}
		if existing != nil {
			fields["email"] = ErrEmailTaken.Error()
		}
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), hashCost)
	if err != nil {
		return nil, apperrors.Internal("error hashing password", err)
	}

	u := &User{
		Email:    req.Email,
		Password: string(hashed),
		Username: req.Username,
	}

	var storedImage string
	if len(image) > 0 {
		storedImage, err = s.files.Save(avatarDir, image)
		if err != nil {
			return nil, apperrors.Internal("error storing image", err)
		}
		url := s.files.URL(storedImage)
		u.ImageURL = &url
	}

	// The account and its first token commit together.
	access := s.newToken()
	if err := s.repo.CreateUserWithToken(ctx, u, access); err != nil {
		s.discardFile(storedImage)
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperrors.Validation(map[string]string{"email": ErrEmailTaken.Error()})
		}
		return nil, apperrors.Internal("error creating user", err)
	}
	metrics.RegistrationsTotal.Inc()

	token, err := signToken(access)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *UserService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Check(&req); err != nil {
		return nil, err
	}

	u, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Internal("error looking up user", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.issueToken(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *UserService) newToken() *AccessToken {
	return &AccessToken{
		TokenID:   uuid.New().String(),
		Name:      tokenName,
		ExpiresAt: time.Now().Add(s.tokenTTL),
	}
}

func signToken(t *AccessToken) (string, error) {
	token, err := GenerateJWT(t.UserID, t.TokenID, t.ExpiresAt)
	if err != nil {
		return "", apperrors.NewAppError(http.StatusInternalServerError, "error creating jwt token", err)
	}
	return token, nil
}

func (s *UserService) issueToken(ctx context.Context, userID uint) (string, error) {
	access := s.newToken()
	access.UserID = userID
	if err := s.repo.CreateToken(ctx, access); err != nil {
		return "", apperrors.Internal("error saving token", err)
	}
	return signToken(access)
}

// Logout revokes every token the user holds.
func (s *UserService) Logout(ctx context.Context, userID uint) error {
	if _, err := s.repo.DeleteUserTokens(ctx, userID); err != nil {
		return apperrors.Internal("error revoking tokens", err)
	}
	return nil
}

// Authenticate resolves a token id to its owner while the token is live.
func (s *UserService) Authenticate(ctx context.Context, tokenID string) (*User, error) {
	token, err := s.repo.GetToken(ctx, tokenID)
	if err != nil {
		return nil, apperrors.Internal("error loading token", err)
	}
	now := time.Now()
	if token == nil || !token.ExpiresAt.After(now) {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	u, err := s.repo.GetUser(ctx, token.UserID)
	if err != nil {
		return nil, apperrors.Internal("error loading user", err)
	}
	if u == nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	if err := s.repo.TouchToken(ctx, tokenID, now); err != nil {
		s.logger.Warn("could not update token usage", zap.Uint("user_id", u.ID), zap.Error(err))
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("error loading user", err)
	}
	if u == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, apperrors.Internal("error listing users", err)
	}
	return users, nil
}

// UpdateProfileImage stores a new avatar and removes the previous file.
func (s *UserService) UpdateProfileImage(ctx context.Context, userID uint, image []byte) (*User, error) {
	if len(image) == 0 {
		return nil, apperrors.Validation(map[string]string{"imagen": "imagen is required"})
	}
	if _, err := filestore.DetectImage(image); err != nil {
		return nil, apperrors.Validation(map[string]string{"imagen": err.Error()})
	}

	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stored, err := s.files.Save(avatarDir, image)
	if err != nil {
		return nil, apperrors.Internal("error storing image", err)
	}
	url := s.files.URL(stored)
	if err := s.repo.UpdateImage(ctx, userID, &url); err != nil {
		s.discardFile(stored)
		return nil, apperrors.Internal("error updating profile image", err)
	}

	s.discardURL(u.ImageURL)
	u.ImageURL = &url
	return u, nil
}

// DeleteAccount removes the user with everything they own in one transaction.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAccount(ctx, userID); err != nil {
		return apperrors.Internal("error deleting account", err)
	}
	s.discardURL(u.ImageURL)
	s.logger.Info("account deleted", zap.Uint("user_id", userID))
	return nil
}

// EnsureAdmin creates the administrator account when it does not exist yet.
func (s *UserService) EnsureAdmin(ctx context.Context, email, username, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return err
	}
	err = s.repo.CreateUser(ctx, &User{
		Email:    email,
		Password: string(hashed),
		Username: username,
		IsAdmin:  true,
	})
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	if err == nil {
		s.logger.Info("admin account created", zap.String("email", email))
	}
	return err
}

func (s *UserService) discardFile(stored string) {
	if stored == "" {
		return
	}
	if err := s.files.Delete(stored); err != nil {
		s.logger.Warn("could not delete file", zap.String("path", stored), zap.Error(err))
	}
}

func (s *UserService) discardURL(url *string) {
	if url == nil {
		return
	}
	if stored, ok := s.files.PathFromURL(*url); ok {
		s.discardFile(stored)
	}
}
