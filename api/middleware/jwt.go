package middleware

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/user"
)

// SetupJWTMiddleware verifies the bearer token signature and expiry and stores
// the parsed token under "user".
func SetupJWTMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(user.JwtCustomClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.NewAppError(401, "unauthenticated", err)
		},
	})
}
