package middleware

import (
	"fmt"
	"math"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimit rejects callers whose IP is locked by limiter. Counting attempts
// is left to the handler, which knows which outcomes count.
func RateLimit(limiter *ratelimit.Limiter, action string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, retryAfter, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.String("action", action), zap.Error(err))
				return next(c)
			}
			if !allowed {
				minutes := int(math.Ceil(retryAfter.Minutes()))
				if minutes < 1 {
					minutes = 1
				}
				return apperrors.TooManyRequests(
					fmt.Sprintf("too many %s attempts, try again in %d minutes", action, minutes),
					retryAfter,
				)
			}
			return next(c)
		}
	}
}
