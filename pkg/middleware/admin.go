package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AdminToken guards write endpoints that feed shared content (knowledge
// ingest, news refresh). With an empty token it passes everything through,
// which is how local development runs.
func AdminToken(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return next(c)
			}
			got := c.Request().Header.Get("X-Admin-Token")
			if got == "" {
				got = strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "admin token required"})
			}
			return next(c)
		}
	}
}
