package controllerImp

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"kisansetu/pkg/calculator"
	"kisansetu/pkg/calendar"
	"kisansetu/pkg/httperr"
	"kisansetu/pkg/i18n"
	"kisansetu/pkg/middleware"
)

type CalendarCtrl struct {
	cal *calendar.Calendar
	tr  *i18n.Bundle
}

func New(cal *calendar.Calendar, tr *i18n.Bundle) *CalendarCtrl {
	return &CalendarCtrl{cal: cal, tr: tr}
}

type seasonalQuery struct {
	Season string `query:"season" validate:"omitempty,oneof=all rabi kharif zaid annual"`
	Crop   string `query:"crop"`
	Month  int    `query:"month" validate:"gte=0,lte=12"`
}

func (h *CalendarCtrl) Seasonal(c echo.Context) error {
	var q seasonalQuery
	if err := c.Bind(&q); err != nil {
		return httperr.BadRequest(err)
	}
	if err := c.Validate(&q); err != nil {
		return err
	}
	lang := middleware.Lang(c)
	entries := h.cal.Seasonal(q.Season, q.Crop, q.Month)
	for i := range entries {
		entries[i].Label = h.tr.T(lang, "calendar."+entries[i].Activity)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries, "count": len(entries)})
}

type planReq struct {
	Crop       string  `json:"crop" validate:"required,crop"`
	SowingDate string  `json:"sowing_date" validate:"required,datetime=2006-01-02"`
	Area       float64 `json:"area" validate:"gt=0"`
	Unit       string  `json:"unit" validate:"omitempty,oneof=acre hectare"`
	Soil       string  `json:"soil" validate:"omitempty,soil"`
	Method     string  `json:"method" validate:"omitempty,irrigation_method"`
}

func (h *CalendarCtrl) Plan(c echo.Context) error {
	var req planReq
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	sowing, _ := time.Parse("2006-01-02", req.SowingDate)
	acres, err := calculator.ToAcres(req.Area, calculator.AreaUnit(req.Unit))
	if err != nil {
		return httperr.BadRequest(err)
	}

	plan, err := h.cal.Plan(req.Crop, sowing, acres, calculator.Soil(req.Soil), calculator.Method(req.Method))
	if err != nil {
		if errors.Cause(err) == calculator.ErrUnknownCrop {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": h.tr.T(middleware.Lang(c), "error.unknown_crop")})
		}
		return httperr.BadRequest(err)
	}

	lang := middleware.Lang(c)
	for i := range plan.Stages {
		key := "stage." + plan.Stages[i].Name
		if plan.Stages[i].Label = h.tr.T(lang, key); plan.Stages[i].Label == key {
			plan.Stages[i].Label = plan.Stages[i].Name
		}
	}
	for i := range plan.Tasks {
		plan.Tasks[i].Title = h.tr.T(lang, plan.Tasks[i].Key)
	}
	for i := range plan.Fertilizer.Requirements {
		r := &plan.Fertilizer.Requirements[i]
		r.Label = h.tr.T(lang, "req."+r.Key)
	}
	return c.JSON(http.StatusOK, plan)
}
