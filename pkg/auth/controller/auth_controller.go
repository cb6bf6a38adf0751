package controller

import "github.com/labstack/echo/v4"

// AuthController exposes the caller identity. DevLogin and DevLogout only
// work when DEV_LOGIN is enabled.
type AuthController interface {
	DevLogin(c echo.Context) error
	DevLogout(c echo.Context) error
	WhoAmI(c echo.Context) error
}
