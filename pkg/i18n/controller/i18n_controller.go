package controller

import "github.com/labstack/echo/v4"

type I18nController interface {
	Languages(c echo.Context) error
	Table(c echo.Context) error
}
