package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/gamehub/api/middleware"
)

func RegisterUserRoutes(g *echo.Group) {
	g.GET("/user/profile", ProfileHandler)
	g.POST("/user/profile-image", UpdateProfileImageHandler)
	g.DELETE("/user/delete-account", DeleteAccountHandler)
	g.GET("/users", ListUsersHandler)
}

func ProfileHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile loaded",
		"user":    middleware.CurrentUser(c),
	})
}

func UpdateProfileImageHandler(c echo.Context) error {
	image, err := readUpload(c, "imagen")
	if err != nil {
		return err
	}
	u, err := UserService.UpdateProfileImage(c.Request().Context(), middleware.CurrentUserID(c), image)
	if err != nil {
		return err
	}
	middleware.SetCurrentUser(c, u)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile image updated",
		"user":    u,
	})
}

func DeleteAccountHandler(c echo.Context) error {
	if err := UserService.DeleteAccount(c.Request().Context(), middleware.CurrentUserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted successfully"})
}

func ListUsersHandler(c echo.Context) error {
	users, err := UserService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
