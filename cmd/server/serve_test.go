package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"kisansetu/config"
	"kisansetu/pkg/calculator"
)

func testConfig() config.AppConfig {
	return config.AppConfig{
		DBPath:            ":memory:",
		DefaultLanguage:   "en",
		CORSOrigins:       []string{"*"},
		LLMProvider:       "mock",
		KBMaxBytesPerPage: 1 << 20,
		ChatRatePerMin:    60,
		AdminToken:        "s3cret",
	}
}

func call(t *testing.T, a *app, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func TestBuild(t *testing.T) {
	a, err := build(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)

	rec := call(t, a, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"provider":"mock"`)

	// seeded on startup
	rec = call(t, a, http.MethodGet, "/api/community/posts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Harjit Kaur")

	rec = call(t, a, http.MethodGet, "/api/knowledge/search?q=drip+irrigation", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Drip irrigation")

	rec = call(t, a, http.MethodPost, "/api/chat?lang=hi", map[string]string{"message": "urea kitna dalein?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"fallback":false`)

	rec = call(t, a, http.MethodGet, "/api/agriculture-news", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-News-Fallback"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "["))

	// admin routes need the token
	rec = call(t, a, http.MethodPost, "/api/knowledge/ingest", map[string]string{"title": "x", "text": "y"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, a, http.MethodGet, "/api/schemes/pm-kisan", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuild_BadStageConfig(t *testing.T) {
	cfg := testConfig()
	cfg.StageConfigCSV = filepath.Join(t.TempDir(), "missing.csv")
	_, err := build(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestBuild_FertilizerPrices(t *testing.T) {
	cfg := testConfig()
	cfg.FertilizerBagPrices = "mop=3400"
	a, err := build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	rec := call(t, a, http.MethodPost, "/api/calculator/fertilizer", map[string]interface{}{"crop": "wheat", "area": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var plan calculator.FertilizerPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Equal(t, "mop", plan.Products[2].Name)
	assert.InDelta(t, plan.Products[2].Kg/50*3400, plan.Products[2].Cost, 0.01)

	cfg.FertilizerBagPrices = "mop=free"
	_, err = build(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestExportMarket(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prices.xlsx")
	rootCmd.SetArgs([]string{"export-market", "--format", "xlsx", "--out", out})
	require.NoError(t, rootCmd.Execute())

	x, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer x.Close()
	rows, err := x.GetRows("Prices")
	require.NoError(t, err)
	assert.Len(t, rows, 15)
}
