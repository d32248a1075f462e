package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/gamehub/api/middleware"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/chat"
)

func RegisterChatRoutes(g *echo.Group) {
	g.GET("", ListChatsHandler)
	g.POST("/start", StartChatHandler)
	g.GET("/unread-count", UnreadCountHandler)
	g.POST("/message", SendMessageHandler)
	g.GET("/:id/messages", ChatMessagesHandler)
	g.PATCH("/:id/read", MarkChatAsReadHandler)
	g.DELETE("/:id", DeleteChatHandler)
}

func ListChatsHandler(c echo.Context) error {
	chats, err := ChatService.ListChats(c.Request().Context(), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "chats": chats})
}

func StartChatHandler(c echo.Context) error {
	var req chat.StartChatRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest(INVALID_REQUEST)
	}
	started, err := ChatService.StartChat(c.Request().Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "chat": started})
}

func ChatMessagesHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", chat.DefaultPerPage)

	res, err := ChatService.Messages(c.Request().Context(), middleware.CurrentUserID(c), id, page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"messages":   res.Messages,
		"pagination": res.Pagination,
	})
}

func SendMessageHandler(c echo.Context) error {
	var req chat.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest(INVALID_REQUEST)
	}
	msg, err := ChatService.SendMessage(c.Request().Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": msg})
}

func MarkChatAsReadHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	updated, err := ChatService.MarkAsRead(c.Request().Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"message":       "messages marked as read",
		"updated_count": updated,
	})
}

func UnreadCountHandler(c echo.Context) error {
	count, err := ChatService.UnreadCount(c.Request().Context(), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "unread_count": count})
}

func DeleteChatHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := ChatService.DeleteChat(c.Request().Context(), middleware.CurrentUserID(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "chat deleted"})
}
