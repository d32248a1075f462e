package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/game"
)

func RegisterAdminRoutes(g *echo.Group) {
	g.GET("/games", AdminListGamesHandler)
	g.POST("/games", CreateGameHandler)
	g.PUT("/games/:id", UpdateGameHandler)
	g.DELETE("/games/:id", DeleteGameHandler)
}

func isForm(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEMultipartForm) || strings.HasPrefix(ct, echo.MIMEApplicationForm)
}

// gameInput reads a partial game from either a form or a JSON body. Only the
// fields present in the request are set.
func gameInput(c echo.Context) (game.GameInput, error) {
	var in game.GameInput
	if !isForm(c) {
		if err := c.Bind(&in); err != nil {
			return in, apperrors.BadRequest(INVALID_REQUEST)
		}
		return in, nil
	}

	form, err := c.FormParams()
	if err != nil {
		return in, apperrors.BadRequest(INVALID_REQUEST)
	}
	if form.Has("name") {
		v := form.Get("name")
		in.Name = &v
	}
	if form.Has("mode") {
		v := form.Get("mode")
		in.Mode = &v
	}
	if form.Has("description") {
		v := form.Get("description")
		in.Description = &v
	}
	if form.Has("is_multiplayer") {
		v, err := strconv.ParseBool(form.Get("is_multiplayer"))
		if err != nil {
			return in, apperrors.Validation(map[string]string{"is_multiplayer": "is_multiplayer must be true or false"})
		}
		in.IsMultiplayer = &v
	}

	icon, err := readUpload(c, "icon")
	if err != nil {
		return in, err
	}
	in.Icon = icon
	return in, nil
}

func AdminListGamesHandler(c echo.Context) error {
	games, err := GameService.ListGames(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"games": games})
}

func CreateGameHandler(c echo.Context) error {
	in, err := gameInput(c)
	if err != nil {
		return err
	}
	g, err := GameService.CreateGame(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "game created", "game": g})
}

func UpdateGameHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	in, err := gameInput(c)
	if err != nil {
		return err
	}
	g, err := GameService.UpdateGame(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "game updated", "game": g})
}

func DeleteGameHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := GameService.DeleteGame(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "game deleted"})
}
