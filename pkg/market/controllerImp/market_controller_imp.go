package controllerImp

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"kisansetu/pkg/httperr"
	"kisansetu/pkg/i18n"
	"kisansetu/pkg/market"
	"kisansetu/pkg/middleware"
)

type MarketCtrl struct {
	report *market.Report
	tr     *i18n.Bundle
	now    func() time.Time
}

func New(report *market.Report, tr *i18n.Bundle) *MarketCtrl {
	return &MarketCtrl{report: report, tr: tr, now: time.Now}
}

type priceView struct {
	market.Price
	ModalDisplay string `json:"modal_display"`
}

func (h *MarketCtrl) query(c echo.Context) (market.Query, error) {
	var q market.Query
	if err := c.Bind(&q); err != nil {
		return q, httperr.BadRequest(err)
	}
	return q, nil
}

func (h *MarketCtrl) Prices(c echo.Context) error {
	q, err := h.query(c)
	if err != nil {
		return err
	}
	lang := middleware.Lang(c)
	prices := h.report.List(q)
	out := make([]priceView, 0, len(prices))
	for _, p := range prices {
		out = append(out, priceView{Price: p, ModalDisplay: h.tr.FormatINR(lang, p.ModalPrice)})
	}
	return c.JSON(http.StatusOK, echo.Map{"prices": out, "count": len(out), "unit": "quintal"})
}

func (h *MarketCtrl) Summary(c echo.Context) error {
	q, err := h.query(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, market.Summarize(h.report.List(q)))
}

// Export downloads the filtered report as csv (default) or xlsx.
func (h *MarketCtrl) Export(c echo.Context) error {
	q, err := h.query(c)
	if err != nil {
		return err
	}
	f, err := market.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var buf bytes.Buffer
	if err := market.Write(&buf, f, h.report.List(q)); err != nil {
		return err
	}
	name := fmt.Sprintf("market-prices-%s.%s", h.now().Format("2006-01-02"), f)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, f.ContentType(), buf.Bytes())
}
