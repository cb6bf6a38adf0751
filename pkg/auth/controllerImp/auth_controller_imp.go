package controllerImp

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storyhub/pkg/auth"
	"storyhub/pkg/auth/controller"
	"storyhub/pkg/middleware"
	userRepo "storyhub/pkg/user/repository"
)

type authCtrl struct {
	users   userRepo.UserRepository
	enabled bool
}

func NewAuthController(users userRepo.UserRepository, devLogin bool) controller.AuthController {
	return &authCtrl{users: users, enabled: devLogin}
}

type whoami struct {
	auth.Actor
	IsAdmin      bool `json:"is_admin"`
	IsTranslator bool `json:"is_translator"`
}

func view(a auth.Actor) whoami {
	return whoami{Actor: a, IsAdmin: a.IsAdmin(), IsTranslator: a.IsTranslator()}
}

// DevLogin sets the dev cookie for ?username=; 404 unless dev login is enabled.
func (h *authCtrl) DevLogin(c echo.Context) error {
	if !h.enabled {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "dev login disabled"})
	}
	username := strings.TrimSpace(c.QueryParam("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username is required"})
	}
	u, err := h.users.FindByUsername(c.Request().Context(), username)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.DevCookie,
		Value:    fmt.Sprint(u.UserID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, view(auth.FromUser(u)))
}

// DevLogout expires the dev cookie.
func (h *authCtrl) DevLogout(c echo.Context) error {
	if !h.enabled {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "dev login disabled"})
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.DevCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, view(middleware.ActorFrom(c)))
}
