package apperrors

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const internalMessage = "internal server error"

// Handler renders every error returned by a handler or middleware. Internal
// details are logged and never sent to the client.
func Handler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := render(err)
		if code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("uri", c.Request().RequestURI),
				zap.Any("user_id", c.Get("userID")),
				zap.Error(err),
			)
		}

		if appErr, ok := As(err); ok && appErr.RetryAfter > 0 {
			seconds := int(math.Ceil(appErr.RetryAfter.Seconds()))
			c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, body)
		}
		if writeErr != nil {
			logger.Warn("error response not written", zap.Error(writeErr))
		}
	}
}

func render(err error) (int, echo.Map) {
	if appErr, ok := As(err); ok {
		if appErr.Code >= http.StatusInternalServerError {
			return appErr.Code, echo.Map{"message": internalMessage}
		}
		body := echo.Map{"message": appErr.Message}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		return appErr.Code, body
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, echo.Map{"message": internalMessage}
		}
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return he.Code, echo.Map{"message": msg}
	}

	return http.StatusInternalServerError, echo.Map{"message": internalMessage}
}
