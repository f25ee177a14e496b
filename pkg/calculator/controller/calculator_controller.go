package controller

import "github.com/labstack/echo/v4"

type CalculatorController interface {
	Crop(c echo.Context) error
	Fertilizer(c echo.Context) error
	Irrigation(c echo.Context) error
	Crops(c echo.Context) error
}
