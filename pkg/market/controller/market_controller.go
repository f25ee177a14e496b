package controller

import "github.com/labstack/echo/v4"

type MarketController interface {
	Prices(c echo.Context) error
	Summary(c echo.Context) error
	Export(c echo.Context) error
}
