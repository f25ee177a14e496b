package controllerImp

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kisansetu/database"
	"kisansetu/entities"
	"kisansetu/pkg/apitest"
	"kisansetu/pkg/equipment"
	"kisansetu/pkg/equipment/repositoryImp"
	"kisansetu/pkg/equipment/serviceImp"
)

func newApp(t *testing.T) *apitest.App {
	t.Helper()
	app := apitest.New()
	catalog := equipment.DefaultCatalog()
	s := serviceImp.New(repositoryImp.New(database.MustOpenMemory()), catalog)
	h := New(catalog, s, app.I18n)

	app.GET("/api/equipment", h.List)
	app.GET("/api/equipment/bookings", h.Bookings)
	app.PATCH("/api/equipment/bookings/:id", h.PatchBooking)
	app.GET("/api/equipment/:id", h.Get)
	app.POST("/api/equipment/:id/bookings", h.Book)
	return app
}

func booking(start string, days int) map[string]interface{} {
	return map[string]interface{}{
		"renter_name": "Ramesh Yadav",
		"phone":       "+919415044556",
		"start_date":  start,
		"days":        days,
	}
}

func TestList(t *testing.T) {
	app := newApp(t)
	rec := app.Do(t, http.MethodGet, "/api/equipment?category=tractor&sort=price", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Items []equipment.Equipment `json:"items"`
		Count int                   `json:"count"`
	}
	apitest.Decode(t, rec, &out)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "eq-001", out.Items[0].ID)

	rec = app.Do(t, http.MethodGet, "/api/equipment?available_only=true", nil)
	apitest.Decode(t, rec, &out)
	assert.Equal(t, 8, out.Count)
}

func TestGet(t *testing.T) {
	app := newApp(t)
	assert.Equal(t, http.StatusOK, app.Do(t, http.MethodGet, "/api/equipment/eq-001", nil).Code)

	rec := app.Do(t, http.MethodGet, "/api/equipment/eq-404?lang=hi", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "नहीं मिला")
}

func TestBookingLifecycle(t *testing.T) {
	app := newApp(t)

	rec := app.Do(t, http.MethodPost, "/api/equipment/eq-004/bookings", booking("2025-11-01", 3))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var b entities.EquipmentBooking
	apitest.Decode(t, rec, &b)
	assert.Equal(t, "requested", b.Status)
	assert.Equal(t, 2700.0, b.Total)
	assert.Equal(t, "2025-11-03", b.EndDate())

	// overlaps the last day
	rec = app.Do(t, http.MethodPost, "/api/equipment/eq-004/bookings", booking("2025-11-03", 2))
	assert.Equal(t, http.StatusConflict, rec.Code)
	// starts the day after
	rec = app.Do(t, http.MethodPost, "/api/equipment/eq-004/bookings", booking("2025-11-04", 2))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.Do(t, http.MethodGet, "/api/equipment/bookings?phone=%2B919415044556", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []entities.EquipmentBooking
	apitest.Decode(t, rec, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-11-01", list[0].StartDate)

	path := fmt.Sprintf("/api/equipment/bookings/%d", b.ID)
	rec = app.Do(t, http.MethodPatch, path, map[string]interface{}{"status": "confirmed", "days": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	apitest.Decode(t, rec, &b)
	assert.Equal(t, "confirmed", b.Status)
	assert.Equal(t, 1800.0, b.Total)

	rec = app.Do(t, http.MethodPatch, path, map[string]interface{}{"status": "requested"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.Do(t, http.MethodPatch, path, map[string]interface{}{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.Do(t, http.MethodPatch, path, map[string]interface{}{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.Do(t, http.MethodPatch, path, map[string]interface{}{"notes": "back on"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.Do(t, http.MethodPatch, "/api/equipment/bookings/999", map[string]interface{}{"notes": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBook_Rejects(t *testing.T) {
	app := newApp(t)

	// harvester is listed as unavailable
	rec := app.Do(t, http.MethodPost, "/api/equipment/eq-003/bookings", booking("2025-10-20", 1))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.Do(t, http.MethodPost, "/api/equipment/eq-404/bookings", booking("2025-10-20", 1))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.Do(t, http.MethodPost, "/api/equipment/eq-001/bookings", booking("20-10-2025", 0))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	apitest.Decode(t, rec, &body)
	assert.Contains(t, body, "start_date")
	assert.Contains(t, body, "days")

	rec = app.Do(t, http.MethodGet, "/api/equipment/bookings", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
