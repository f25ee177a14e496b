package controllerImp

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	svc "kisansetu/pkg/chat/service"
	"kisansetu/pkg/middleware"
)

type ChatCtrl struct {
	s svc.ChatService
}

func New(s svc.ChatService) *ChatCtrl { return &ChatCtrl{s: s} }

func (h *ChatCtrl) Ask(c echo.Context) error {
	var in svc.Request
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if err := c.Validate(&in); err != nil {
		return err
	}
	if in.Language == "" {
		in.Language = middleware.Lang(c)
	}
	out, err := h.s.Ask(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatCtrl) History(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid conversation id"})
	}
	list, err := h.s.History(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list, "count": len(list)})
}
