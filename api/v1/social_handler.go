package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/gamehub/api/middleware"
)

func RegisterSocialRoutes(g *echo.Group) {
	g.GET("/friends", FriendsHandler)
	g.GET("/friends/pending", PendingRequestsHandler)
	g.POST("/friends/request/:id", SendFriendRequestHandler)
	g.POST("/friends/accept/:id", AcceptFriendRequestHandler)
	g.POST("/friends/reject/:id", RejectFriendRequestHandler)
	g.DELETE("/friends/:id", RemoveFriendHandler)

	g.GET("/users/blocked", BlockedUsersHandler)
	g.POST("/users/block/:id", BlockUserHandler)
	g.POST("/users/unblock/:id", UnblockUserHandler)
}

func FriendsHandler(c echo.Context) error {
	friends, err := SocialService.Friends(c.Request().Context(), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, friends)
}

func PendingRequestsHandler(c echo.Context) error {
	pending, err := SocialService.PendingRequests(c.Request().Context(), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pending)
}

func SendFriendRequestHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	f, err := SocialService.SendRequest(c.Request().Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "friend request sent",
		"friendship": f,
	})
}

func AcceptFriendRequestHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	f, err := SocialService.Accept(c.Request().Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "friend request accepted",
		"friendship": f,
	})
}

func RejectFriendRequestHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := SocialService.Reject(c.Request().Context(), middleware.CurrentUserID(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "friend request rejected"})
}

func RemoveFriendHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := SocialService.RemoveFriend(c.Request().Context(), middleware.CurrentUserID(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "friend removed"})
}

func BlockedUsersHandler(c echo.Context) error {
	users, err := SocialService.BlockedUsers(c.Request().Context(), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func BlockUserHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	block, err := SocialService.Block(c.Request().Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user blocked",
		"block":   block,
	})
}

func UnblockUserHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := SocialService.Unblock(c.Request().Context(), middleware.CurrentUserID(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user unblocked"})
}
