package httperr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kisansetu/pkg/cropdata"
	"kisansetu/pkg/validation"
)

type cropReq struct {
	Crop string  `json:"crop" validate:"required,crop"`
	Area float64 `json:"area" validate:"gt=0"`
}

func handle(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/calculator/crop", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	Handler(zap.NewNop(), validation.New(cropdata.Default()))(err, c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHandler_Validation(t *testing.T) {
	v := validation.New(cropdata.Default())
	err := v.Validate(&cropReq{Crop: "banana", Area: -1})
	require.Error(t, err)

	code, body := handle(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "crop is not a known crop", body["crop"])
	assert.Contains(t, body, "area")
}

func TestHandler_HTTPError(t *testing.T) {
	code, body := handle(t, ErrForbidden)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "permission denied", body["error"])
}

func TestHandler_BadRequest(t *testing.T) {
	code, body := handle(t, BadRequest(errors.New("bad date"), FieldError{Field: "start_date", Error: "use YYYY-MM-DD"}))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "use YYYY-MM-DD", body["start_date"])

	code, body = handle(t, errors.Wrap(BadRequest(errors.New("bad date")), "booking"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "bad date", body["error"])
}

func TestHandler_Unexpected(t *testing.T) {
	code, body := handle(t, errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal Server Error", body["error"])
}
