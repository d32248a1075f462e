package middleware

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/user"
)

const (
	currentUserKey = "currentUser"
	userIDKey      = "userID"
)

type Authenticator interface {
	Authenticate(ctx context.Context, tokenID string) (*user.User, error)
}

// SessionMiddleware resolves the verified token to a live session and puts the
// caller on the request context. It must run after SetupJWTMiddleware.
func SessionMiddleware(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return apperrors.Unauthorized("unauthenticated")
			}
			claims, ok := token.Claims.(*user.JwtCustomClaims)
			if !ok || claims.ID == "" {
				return apperrors.Unauthorized("unauthenticated")
			}

			u, err := auth.Authenticate(c.Request().Context(), claims.ID)
			if err != nil {
				return err
			}
			if u.ID != claims.Id {
				return apperrors.Unauthorized("unauthenticated")
			}

			c.Set(currentUserKey, u)
			c.Set(userIDKey, u.ID)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated caller, or nil outside SessionMiddleware.
func CurrentUser(c echo.Context) *user.User {
	u, _ := c.Get(currentUserKey).(*user.User)
	return u
}

func CurrentUserID(c echo.Context) uint {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

// SetCurrentUser replaces the caller on the request context, for example after
// the profile changes.
func SetCurrentUser(c echo.Context, u *user.User) {
	c.Set(currentUserKey, u)
	c.Set(userIDKey, u.ID)
}
