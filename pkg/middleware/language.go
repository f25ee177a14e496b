package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"kisansetu/pkg/i18n"
)

const LangKey = "lang"

// Language resolves the request language and stores it under "lang".
// Order: ?lang= (also persisted to the cookie), X-Language header, the
// kisansetu-language cookie, Accept-Language, bundle default.
func Language(b *i18n.Bundle) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := ""
			if q := c.QueryParam("lang"); q != "" && b.Supported(q) {
				lang = b.Normalize(q)
				c.SetCookie(&http.Cookie{
					Name:     i18n.CookieName,
					Value:    lang,
					Path:     "/",
					Expires:  time.Now().AddDate(1, 0, 0),
					SameSite: http.SameSiteLaxMode,
				})
			}
			if lang == "" {
				if h := c.Request().Header.Get("X-Language"); h != "" && b.Supported(h) {
					lang = b.Normalize(h)
				}
			}
			if lang == "" {
				if ck, err := c.Cookie(i18n.CookieName); err == nil && b.Supported(ck.Value) {
					lang = b.Normalize(ck.Value)
				}
			}
			if lang == "" {
				lang = fromAcceptLanguage(b, c.Request().Header.Get("Accept-Language"))
			}
			if lang == "" {
				lang = b.Default()
			}
			c.Set(LangKey, lang)
			return next(c)
		}
	}
}

// fromAcceptLanguage picks the first supported tag in header order; q
// weights are ignored since browsers already send tags by preference.
func fromAcceptLanguage(b *i18n.Bundle, header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag != "" && tag != "*" && b.Supported(tag) {
			return b.Normalize(tag)
		}
	}
	return ""
}

// Lang returns the language resolved by Language, or "" outside it.
func Lang(c echo.Context) string {
	s, _ := c.Get(LangKey).(string)
	return s
}
