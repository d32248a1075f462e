package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/chat"
	"github.com/thesrcielos/gamehub/internal/game"
	"github.com/thesrcielos/gamehub/internal/ratelimit"
	"github.com/thesrcielos/gamehub/internal/social"
	"github.com/thesrcielos/gamehub/internal/user"
	"github.com/thesrcielos/gamehub/pkg/filestore"
	"go.uber.org/zap"
)

const INVALID_REQUEST = "invalid request"

var (
	UserService   *user.UserService
	SocialService *social.SocialService
	ChatService   *chat.ChatService
	GameService   *game.GameService

	RegisterLimiter *ratelimit.Limiter
	LoginLimiter    *ratelimit.Limiter

	Logger = zap.NewNop()
)

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NotFound("resource not found")
	}
	return uint(id), nil
}

func queryInt(c echo.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return fallback
	}
	return v
}

// readUpload returns the bytes of an optional multipart file, or nil when the
// request carries none.
func readUpload(c echo.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.BadRequest(INVALID_REQUEST)
	}
	if fh.Size > filestore.MaxImageSize {
		return nil, apperrors.Validation(map[string]string{field: filestore.ErrImageTooLarge.Error()})
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.Internal("error reading upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, filestore.MaxImageSize+1))
	if err != nil {
		return nil, apperrors.Internal("error reading upload", err)
	}
	if len(data) > filestore.MaxImageSize {
		return nil, apperrors.Validation(map[string]string{field: filestore.ErrImageTooLarge.Error()})
	}
	return data, nil
}
