package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/gamehub/internal/apperrors"
)

func AdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil {
				return apperrors.Unauthorized("unauthenticated")
			}
			if !u.IsAdmin {
				return apperrors.Forbidden("administrator access required")
			}
			return next(c)
		}
	}
}
