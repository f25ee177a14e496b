package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kisansetu/database"
	"kisansetu/pkg/news"
)

type stubFeed struct{ updated time.Time }

func (f stubFeed) Snapshot() ([]news.Article, time.Time, bool) {
	if f.updated.IsZero() {
		return news.Fallback(), time.Time{}, true
	}
	return []news.Article{{ID: "a"}}, f.updated, false
}

func health(t *testing.T, h *HealthCtrl) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, h.Health(c))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestHealth_OK(t *testing.T) {
	code, out := health(t, NewHealthCtrl(database.MustOpenMemory(), stubFeed{}, "mock"))
	assert.Equal(t, http.StatusOK, code)
	checks := out["checks"].(map[string]any)
	assert.Equal(t, true, checks["database"].(map[string]any)["ok"])
	n := checks["news"].(map[string]any)
	assert.Equal(t, true, n["fallback"])
	assert.NotContains(t, n, "updated_at")
	assert.Equal(t, "mock", checks["llm"].(map[string]any)["provider"])

	_, out = health(t, NewHealthCtrl(database.MustOpenMemory(), stubFeed{updated: time.Date(2025, 10, 15, 6, 0, 0, 0, time.UTC)}, ""))
	checks = out["checks"].(map[string]any)
	assert.Equal(t, "2025-10-15T06:00:00Z", checks["news"].(map[string]any)["updated_at"])
	assert.NotContains(t, checks, "llm")
}

func TestHealth_NoDB(t *testing.T) {
	code, out := health(t, NewHealthCtrl(nil, nil, ""))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, false, out["status"].(map[string]any)["ok"])
	db := out["checks"].(map[string]any)["database"].(map[string]any)
	assert.Equal(t, "gorm db is nil", db["err"])
}
