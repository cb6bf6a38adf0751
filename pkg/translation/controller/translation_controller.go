package controller

import "github.com/labstack/echo/v4"

type TranslationController interface {
	Get(c echo.Context) error
	Put(c echo.Context) error
	Delete(c echo.Context) error
	SelectIllustration(c echo.Context) error

	AddNote(c echo.Context) error
	ListNotes(c echo.Context) error
	UpdateNote(c echo.Context) error
}
