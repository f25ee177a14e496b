package middleware

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"kisansetu/pkg/i18n"
)

// PerIP allows perMin requests a minute per client IP, with a burst of the
// same size. perMin <= 0 disables the limit. Denials are answered in the
// request language.
func PerIP(perMin float64, tr *i18n.Bundle) echo.MiddlewareFunc {
	if perMin <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perMin / 60),
		Burst:     int(math.Ceil(perMin)),
		ExpiresIn: 3 * time.Minute,
	})
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "unidentified client"})
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": tr.T(Lang(c), "chat.rate_limited")})
		},
	})
}
