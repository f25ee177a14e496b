package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"kisansetu/pkg/calculator"
	"kisansetu/pkg/calendar"
	"kisansetu/pkg/cropdata"
	"kisansetu/pkg/i18n"
	"kisansetu/pkg/listing"
	"kisansetu/pkg/middleware"
)

type CalculatorCtrl struct {
	calc   *calculator.Calculator
	stages []calendar.StageRow
	tr     *i18n.Bundle
}

func New(calc *calculator.Calculator, stages []calendar.StageRow, tr *i18n.Bundle) *CalculatorCtrl {
	return &CalculatorCtrl{calc: calc, stages: stages, tr: tr}
}

type areaReq struct {
	Crop string  `json:"crop" validate:"required,crop"`
	Area float64 `json:"area" validate:"gt=0"`
	Unit string  `json:"unit" validate:"omitempty,oneof=acre hectare"`
}

func (r areaReq) acres() (float64, error) {
	return calculator.ToAcres(r.Area, calculator.AreaUnit(r.Unit))
}

type cropReq struct {
	areaReq
	YieldFactor float64 `json:"yield_factor" validate:"gte=0"`
	MarketPrice float64 `json:"market_price" validate:"gte=0"`
	CostPerAcre float64 `json:"cost_per_acre" validate:"gte=0"`
}

type fertilizerReq struct {
	areaReq
	SoilTest *calculator.SoilTest `json:"soil_test" validate:"omitempty"`
}

type irrigationReq struct {
	areaReq
	Method  string  `json:"method" validate:"required,irrigation_method"`
	Soil    string  `json:"soil" validate:"omitempty,soil"`
	PumpLPH float64 `json:"pump_lph" validate:"gte=0"`
	Stage   string  `json:"stage"`
}

func (h *CalculatorCtrl) bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, h.tr.T(middleware.Lang(c), "error.bad_request")).SetInternal(err)
	}
	return c.Validate(req)
}

func (h *CalculatorCtrl) Crop(c echo.Context) error {
	var req cropReq
	if err := h.bind(c, &req); err != nil {
		return err
	}
	acres, err := req.acres()
	if err != nil {
		return h.fail(c, err)
	}
	out, err := h.calc.CropEconomics(req.Crop, acres, calculator.EconomicsOptions{
		YieldFactor: req.YieldFactor,
		MarketPrice: req.MarketPrice,
		CostPerAcre: req.CostPerAcre,
	})
	if err != nil {
		return h.fail(c, err)
	}
	h.label(c, out.Requirements)
	return c.JSON(http.StatusOK, out)
}

func (h *CalculatorCtrl) Fertilizer(c echo.Context) error {
	var req fertilizerReq
	if err := h.bind(c, &req); err != nil {
		return err
	}
	acres, err := req.acres()
	if err != nil {
		return h.fail(c, err)
	}
	out, err := h.calc.Fertilizer(req.Crop, acres, req.SoilTest)
	if err != nil {
		return h.fail(c, err)
	}
	h.label(c, out.Requirements)
	return c.JSON(http.StatusOK, out)
}

func (h *CalculatorCtrl) Irrigation(c echo.Context) error {
	var req irrigationReq
	if err := h.bind(c, &req); err != nil {
		return err
	}
	acres, err := req.acres()
	if err != nil {
		return h.fail(c, err)
	}
	opts := calculator.IrrigationOptions{Soil: calculator.Soil(req.Soil), PumpLPH: req.PumpLPH}
	if req.Stage != "" {
		kc, ok := h.stageKc(req.Stage)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"stage": "stage must be one of " + h.stageNames()})
		}
		opts.CropCoefficient = kc
	}
	out, err := h.calc.Irrigation(req.Crop, acres, calculator.Method(req.Method), opts)
	if err != nil {
		return h.fail(c, err)
	}
	h.label(c, out.Requirements)
	return c.JSON(http.StatusOK, out)
}

type cropView struct {
	cropdata.Crop
	SeasonLabel string `json:"season_label"`
}

// Crops lists the crop table, filtered by season and a bilingual search.
func (h *CalculatorCtrl) Crops(c echo.Context) error {
	lang := middleware.Lang(c)
	crops := listing.Filter(h.calc.Crops().All(),
		listing.Field(c.QueryParam("season"), func(cr cropdata.Crop) string { return string(cr.Season) }),
		listing.Text(c.QueryParam("search"), func(cr cropdata.Crop) []string { return []string{cr.ID, cr.Name, cr.NameHi} }),
	)
	out := make([]cropView, 0, len(crops))
	for _, cr := range crops {
		out = append(out, cropView{Crop: cr, SeasonLabel: h.tr.T(lang, "season."+string(cr.Season))})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CalculatorCtrl) label(c echo.Context, reqs []calculator.Requirement) {
	lang := middleware.Lang(c)
	for i := range reqs {
		reqs[i].Label = h.tr.T(lang, "req."+reqs[i].Key)
		reqs[i].Display = h.tr.FormatNumber(lang, reqs[i].Quantity, 2) + " " + reqs[i].Unit
	}
}

func (h *CalculatorCtrl) stageKc(name string) (float64, bool) {
	for _, s := range h.stages {
		if strings.EqualFold(s.Name, name) {
			return s.Kc, true
		}
	}
	return 0, false
}

func (h *CalculatorCtrl) stageNames() string {
	names := make([]string, 0, len(h.stages))
	for _, s := range h.stages {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

func (h *CalculatorCtrl) fail(c echo.Context, err error) error {
	lang := middleware.Lang(c)
	switch errors.Cause(err) {
	case calculator.ErrUnknownCrop:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": h.tr.T(lang, "error.unknown_crop")})
	case calculator.ErrInvalidArea:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": h.tr.T(lang, "error.invalid_area")})
	case calculator.ErrUnknownUnit, calculator.ErrUnknownMethod, calculator.ErrUnknownSoil:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return err
}
