package controller

import "github.com/labstack/echo/v4"

type WorkflowController interface {
	Claim(c echo.Context) error
	Complete(c echo.Context) error
	Publish(c echo.Context) error
}
