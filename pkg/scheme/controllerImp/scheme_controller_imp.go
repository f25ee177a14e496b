package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"kisansetu/pkg/httperr"
	"kisansetu/pkg/i18n"
	"kisansetu/pkg/listing"
	"kisansetu/pkg/middleware"
	"kisansetu/pkg/scheme"
)

type SchemeCtrl struct {
	dir *scheme.Directory
	tr  *i18n.Bundle
}

func New(dir *scheme.Directory, tr *i18n.Bundle) *SchemeCtrl {
	return &SchemeCtrl{dir: dir, tr: tr}
}

type schemeView struct {
	scheme.Scheme
	DisplayName string `json:"display_name"`
	National    bool   `json:"national"`
}

func (h *SchemeCtrl) view(lang string, s scheme.Scheme) schemeView {
	name := s.Name
	if lang == "hi" && s.NameHi != "" {
		name = s.NameHi
	}
	return schemeView{Scheme: s, DisplayName: name, National: s.National()}
}

// TotalCountHeader carries the number of items in a bare array response.
const TotalCountHeader = "X-Total-Count"

// List answers with a bare array of schemes.
func (h *SchemeCtrl) List(c echo.Context) error {
	var q listing.Query
	if err := c.Bind(&q); err != nil {
		return httperr.BadRequest(err)
	}
	lang := middleware.Lang(c)
	list := h.dir.List(q)
	items := make([]schemeView, 0, len(list))
	for _, s := range list {
		items = append(items, h.view(lang, s))
	}
	c.Response().Header().Set(TotalCountHeader, strconv.Itoa(len(items)))
	return c.JSON(http.StatusOK, items)
}

func (h *SchemeCtrl) Get(c echo.Context) error {
	s, ok := h.dir.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": h.tr.T(middleware.Lang(c), "error.not_found")})
	}
	return c.JSON(http.StatusOK, h.view(middleware.Lang(c), s))
}
