// Package httperr holds the echo error handler and the small set of error
// shapes controllers return.
package httperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"kisansetu/pkg/validation"
)

var ErrForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")

// FieldError is an error with a specific request field.
type FieldError struct {
	Field string
	Error string
}

type badRequestError struct {
	err    error
	fields []FieldError
}

// BadRequest wraps err with a 400 status and optional field messages.
func BadRequest(err error, flds ...FieldError) error {
	return &badRequestError{err: err, fields: flds}
}

func (e *badRequestError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *badRequestError) Cause() error { return e.err }

// Handler renders every error as JSON. Validation failures become a
// field -> message map; anything unrecognised is a 500 and gets logged.
func Handler(log *zap.Logger, v *validation.Validator) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var code int
		var message interface{}

		var herr *echo.HTTPError
		var berr *badRequestError
		switch {
		case errors.As(err, &herr):
			if inner, ok := herr.Internal.(*echo.HTTPError); ok {
				herr = inner
			}
			code = herr.Code
			message = herr.Message
		case v != nil && v.Fields(err) != nil:
			code = http.StatusBadRequest
			message = v.Fields(err)
		case errors.As(err, &berr):
			code = http.StatusBadRequest
			if len(berr.fields) > 0 {
				flds := make(map[string]string, len(berr.fields))
				for _, f := range berr.fields {
					flds[f.Field] = f.Error
				}
				message = flds
			} else {
				message = berr.Error()
			}
		default:
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
		}

		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(errors.Cause(err)),
			)
			if c.Echo().Debug {
				message = err.Error()
			}
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, message)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}
