package controller

import "github.com/labstack/echo/v4"

type EquipmentController interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Book(c echo.Context) error
	Bookings(c echo.Context) error
	PatchBooking(c echo.Context) error
}
