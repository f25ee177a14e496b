package controller

import "github.com/labstack/echo/v4"

type CalendarController interface {
	Seasonal(c echo.Context) error
	Plan(c echo.Context) error
}
