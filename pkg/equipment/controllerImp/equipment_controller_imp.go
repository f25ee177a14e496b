package controllerImp

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kisansetu/pkg/equipment"
	svc "kisansetu/pkg/equipment/service"
	"kisansetu/pkg/httperr"
	"kisansetu/pkg/i18n"
	"kisansetu/pkg/middleware"
)

type EquipmentCtrl struct {
	catalog *equipment.Catalog
	s       svc.BookingService
	tr      *i18n.Bundle
}

func New(catalog *equipment.Catalog, s svc.BookingService, tr *i18n.Bundle) *EquipmentCtrl {
	return &EquipmentCtrl{catalog: catalog, s: s, tr: tr}
}

func (h *EquipmentCtrl) List(c echo.Context) error {
	var q equipment.Query
	if err := c.Bind(&q); err != nil {
		return httperr.BadRequest(err)
	}
	items := h.catalog.List(q)
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

func (h *EquipmentCtrl) Get(c echo.Context) error {
	e, ok := h.catalog.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": h.tr.T(middleware.Lang(c), "error.not_found")})
	}
	return c.JSON(http.StatusOK, e)
}

func (h *EquipmentCtrl) Book(c echo.Context) error {
	var in svc.BookingRequest
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if err := c.Validate(&in); err != nil {
		return err
	}
	b, err := h.s.Create(c.Param("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *EquipmentCtrl) Bookings(c echo.Context) error {
	phone := strings.TrimSpace(c.QueryParam("phone"))
	if phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone required"})
	}
	list, err := h.s.ListByPhone(phone)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *EquipmentCtrl) PatchBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var in svc.BookingPatch
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if err := c.Validate(&in); err != nil {
		return err
	}
	out, err := h.s.UpdatePartial(uint(id), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EquipmentCtrl) fail(c echo.Context, err error) error {
	switch errors.Cause(err) {
	case svc.ErrUnknownEquipment, gorm.ErrRecordNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": h.tr.T(middleware.Lang(c), "error.not_found")})
	case svc.ErrNotAvailable, svc.ErrDateConflict, svc.ErrBadStatus:
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return err
}
