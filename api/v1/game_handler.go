package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/gamehub/api/middleware"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/game"
)

func RegisterGameRoutes(g *echo.Group) {
	g.GET("/games", ListGamesHandler)
	g.POST("/games/:id/record-result", RecordResultHandler)
}

func ListGamesHandler(c echo.Context) error {
	games, err := GameService.ListGames(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, games)
}

func RecordResultHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req game.ResultRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest(INVALID_REQUEST)
	}

	entry, err := GameService.RecordResult(c.Request().Context(), middleware.CurrentUserID(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "result recorded",
		"game_history": entry,
	})
}
