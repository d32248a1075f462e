package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/gamehub/api/middleware"
	"github.com/thesrcielos/gamehub/internal/game"
)

func RegisterStatsRoutes(g *echo.Group) {
	g.GET("/statistics", StatisticsHandler)
	g.GET("/statistics/offline", modeStatistics(game.ModeOffline))
	g.GET("/statistics/online", modeStatistics(game.ModeOnline))
	g.GET("/statistics/game/:id", GameStatisticsHandler)

	g.GET("/game-history", HistoryHandler)
	g.GET("/game-history/:id", GameHistoryHandler)
}

func StatisticsHandler(c echo.Context) error {
	return statistics(c, "")
}

func modeStatistics(mode string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return statistics(c, mode)
	}
}

func statistics(c echo.Context, mode string) error {
	stats, err := GameService.Statistics(c.Request().Context(), middleware.CurrentUserID(c), mode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func GameStatisticsHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	g, stats, err := GameService.GameStatistics(c.Request().Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"game": g, "statistics": stats})
}

// historyFilter reads the history query; a page parameter switches the
// response to paginated form.
func historyFilter(c echo.Context) game.HistoryFilter {
	f := game.HistoryFilter{
		Mode:   c.QueryParam("mode"),
		Result: c.QueryParam("result"),
		Limit:  queryInt(c, "limit", game.DefaultHistoryLimit),
	}
	if raw := c.QueryParam("game_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			gameID := uint(id)
			f.GameID = &gameID
		}
	}
	if c.QueryParams().Has("page") {
		f.Page = queryInt(c, "page", 1)
		if f.Page < 1 {
			f.Page = 1
		}
	}
	return f
}

func HistoryHandler(c echo.Context) error {
	page, err := GameService.History(c.Request().Context(), middleware.CurrentUserID(c), historyFilter(c))
	if err != nil {
		return err
	}
	if page.Meta == nil {
		return c.JSON(http.StatusOK, page.Data)
	}
	return c.JSON(http.StatusOK, page)
}

func GameHistoryHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	g, page, err := GameService.GameHistory(c.Request().Context(), middleware.CurrentUserID(c), id, historyFilter(c))
	if err != nil {
		return err
	}
	res := echo.Map{"game": g, "data": page.Data}
	if page.Meta != nil {
		res["meta"] = page.Meta
	}
	return c.JSON(http.StatusOK, res)
}
