package controller

import "github.com/labstack/echo/v4"

type StoryController interface {
	Create(c echo.Context) error
	Import(c echo.Context) error
	Parse(c echo.Context) error
	List(c echo.Context) error
	Get(c echo.Context) error
	GetBySlug(c echo.Context) error
	Preview(c echo.Context) error
	Paragraphs(c echo.Context) error
	Export(c echo.Context) error
}
