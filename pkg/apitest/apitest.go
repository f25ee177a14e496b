// Package apitest builds an echo app wired like the server (validator,
// error handler, language middleware) for handler tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"kisansetu/pkg/cropdata"
	"kisansetu/pkg/httperr"
	"kisansetu/pkg/i18n"
	"kisansetu/pkg/middleware"
	"kisansetu/pkg/validation"
)

// App is an echo instance plus the shared tables it was wired with.
type App struct {
	*echo.Echo
	Crops *cropdata.Table
	I18n  *i18n.Bundle
}

func New() *App {
	crops := cropdata.Default()
	tr := i18n.MustNew(i18n.English)
	v := validation.New(crops)

	e := echo.New()
	e.Validator = v
	e.HTTPErrorHandler = httperr.Handler(zap.NewNop(), v)
	e.Use(middleware.Language(tr))
	return &App{Echo: e, Crops: crops, I18n: tr}
}

// Do serves one request. body is JSON-encoded unless it is already []byte.
func (a *App) Do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case []byte:
		buf.Write(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	return rec
}

// Decode unmarshals the recorded body into out.
func Decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}
