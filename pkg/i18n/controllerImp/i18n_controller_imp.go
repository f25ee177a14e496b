package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kisansetu/pkg/i18n"
	"kisansetu/pkg/middleware"
)

type I18nCtrl struct {
	tr *i18n.Bundle
}

func New(tr *i18n.Bundle) *I18nCtrl { return &I18nCtrl{tr: tr} }

// Languages lists the supported languages and the one resolved for this
// request.
func (h *I18nCtrl) Languages(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"items":   i18n.Languages,
		"default": h.tr.Default(),
		"current": middleware.Lang(c),
	})
}

// Table returns every UI string for :lang, English filling the gaps, and
// lists the keys that still need a translation.
func (h *I18nCtrl) Table(c echo.Context) error {
	lang := c.Param("lang")
	if !h.tr.Supported(lang) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": h.tr.T(middleware.Lang(c), "error.not_found")})
	}
	missing := []string{}
	for _, k := range h.tr.Keys() {
		if !h.tr.Has(lang, k) {
			missing = append(missing, k)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"language": i18n.Base(lang),
		"strings":  h.tr.Table(lang),
		"missing":  missing,
	})
}
