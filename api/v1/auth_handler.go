package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/gamehub/api/middleware"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/ratelimit"
	"github.com/thesrcielos/gamehub/internal/user"
	"go.uber.org/zap"
)

func RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", RegisterHandler, middleware.RateLimit(RegisterLimiter, "registration", Logger))
	g.POST("/login", LoginHandler, middleware.RateLimit(LoginLimiter, "login", Logger))
}

func RegisterSessionRoutes(g *echo.Group) {
	g.POST("/logout", LogoutHandler)
	g.GET("/user", CurrentUserHandler)
}

func recordAttempt(c echo.Context, limiter *ratelimit.Limiter) {
	if err := limiter.Hit(c.Request().Context(), c.RealIP()); err != nil {
		Logger.Warn("could not record attempt", zap.Error(err))
	}
}

func clearAttempts(c echo.Context, limiter *ratelimit.Limiter) {
	if err := limiter.Clear(c.Request().Context(), c.RealIP()); err != nil {
		Logger.Warn("could not clear attempts", zap.Error(err))
	}
}

// RegisterHandler counts every attempt against the caller's IP and resets
// the count once an account is created.
func RegisterHandler(c echo.Context) error {
	recordAttempt(c, RegisterLimiter)

	var req user.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest(INVALID_REQUEST)
	}
	image, err := readUpload(c, "imagen")
	if err != nil {
		return err
	}

	res, err := UserService.Register(c.Request().Context(), req, image)
	if err != nil {
		return err
	}
	clearAttempts(c, RegisterLimiter)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user registered successfully",
		"user":    res.User,
		"token":   res.Token,
	})
}

// LoginHandler counts only rejected credentials and invalid input.
func LoginHandler(c echo.Context) error {
	var req user.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest(INVALID_REQUEST)
	}

	res, err := UserService.Login(c.Request().Context(), req)
	if err != nil {
		if apperrors.HasCode(err, http.StatusUnauthorized) || apperrors.HasCode(err, http.StatusUnprocessableEntity) {
			recordAttempt(c, LoginLimiter)
		}
		return err
	}
	clearAttempts(c, LoginLimiter)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login successful",
		"user":    res.User,
		"token":   res.Token,
	})
}

func LogoutHandler(c echo.Context) error {
	if err := UserService.Logout(c.Request().Context(), middleware.CurrentUserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out successfully"})
}

func CurrentUserHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
