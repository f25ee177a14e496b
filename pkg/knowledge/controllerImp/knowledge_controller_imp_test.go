package controllerImp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kisansetu/database"
	"kisansetu/pkg/apitest"
	"kisansetu/pkg/knowledge"
	"kisansetu/pkg/knowledge/repositoryImp"
	"kisansetu/pkg/knowledge/serviceImp"
)

const guidePage = `<html><head><title>Zero Budget Natural Farming</title></head><body>
<nav><p>Menu</p></nav>
<article><h1>Jeevamrutha</h1><p>Mix cow dung, cow urine, jaggery and pulse flour in water.</p><p>Ferment for 48 hours.</p></article>
</body></html>`

func newApp(t *testing.T) (*apitest.App, *httptest.Server) {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/moved":
			// same server under a host name outside the allow list
			http.Redirect(w, r, "http://localhost:"+srv.URL[strings.LastIndex(srv.URL, ":")+1:]+"/zbnf", http.StatusFound)
		case "/moved-inside":
			http.Redirect(w, r, "/zbnf", http.StatusFound)
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, guidePage)
		}
	}))
	t.Cleanup(srv.Close)

	s := serviceImp.New(repositoryImp.New(database.MustOpenMemory()), nil, nil)
	_, err := s.Seed(context.Background())
	require.NoError(t, err)

	app := apitest.New()
	h := New(s, knowledge.DefaultVideos(), app.I18n, []string{"127.0.0.1", "icar.org.in"}, 0)

	app.GET("/api/knowledge/articles", h.Articles)
	app.GET("/api/knowledge/articles/:id", h.Article)
	app.GET("/api/knowledge/videos", h.Videos)
	app.GET("/api/knowledge/search", h.Search)
	app.POST("/api/knowledge/ingest", h.IngestText)
	app.POST("/api/knowledge/ingest/url", h.IngestURL)
	return app, srv
}

type list struct {
	Items []map[string]interface{} `json:"items"`
	Count int                      `json:"count"`
}

func TestArticlesAndVideos(t *testing.T) {
	app, _ := newApp(t)

	rec := app.Do(t, http.MethodGet, "/api/knowledge/articles?category=pest&language=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out list
	apitest.Decode(t, rec, &out)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Integrated pest management in cotton", out.Items[0]["title"])

	id := uint(out.Items[0]["doc_id"].(float64))
	rec = app.Do(t, http.MethodGet, fmt.Sprintf("/api/knowledge/articles/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pheromone traps")

	assert.Equal(t, http.StatusNotFound, app.Do(t, http.MethodGet, "/api/knowledge/articles/999", nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.Do(t, http.MethodGet, "/api/knowledge/articles/x", nil).Code)

	rec = app.Do(t, http.MethodGet, "/api/knowledge/videos?category=schemes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apitest.Decode(t, rec, &out)
	assert.Equal(t, 1, out.Count)
}

func TestSearch(t *testing.T) {
	app, _ := newApp(t)

	rec := app.Do(t, http.MethodGet, "/api/knowledge/search?q=e-KYC&k=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hits []struct {
		DocTitle string `json:"doc_title"`
	}
	apitest.Decode(t, rec, &hits)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Getting PM-KISAN instalments on time", hits[0].DocTitle)

	rec = app.Do(t, http.MethodGet, "/api/knowledge/search?q=zzzz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, app.Do(t, http.MethodGet, "/api/knowledge/search", nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.Do(t, http.MethodGet, "/api/knowledge/search?q=a&k=0", nil).Code)
}

func TestIngestText(t *testing.T) {
	app, _ := newApp(t)

	rec := app.Do(t, http.MethodPost, "/api/knowledge/ingest", map[string]string{
		"title": "Azolla as cattle feed", "category": "crops", "text": "Azolla grows fast in shallow pits.\nFeed 1 kg per animal per day.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		Chunks int `json:"chunks"`
	}
	apitest.Decode(t, rec, &out)
	assert.Equal(t, 1, out.Chunks)

	rec = app.Do(t, http.MethodGet, "/api/knowledge/search?q=azolla", nil)
	assert.Contains(t, rec.Body.String(), "Azolla as cattle feed")

	rec = app.Do(t, http.MethodPost, "/api/knowledge/ingest", map[string]string{"title": "x", "category": "astrology"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var fields map[string]string
	apitest.Decode(t, rec, &fields)
	assert.Contains(t, fields, "text")
	assert.Contains(t, fields, "category")
}

func TestIngestURL(t *testing.T) {
	app, srv := newApp(t)

	rec := app.Do(t, http.MethodPost, "/api/knowledge/ingest/url", map[string]string{"url": srv.URL + "/zbnf", "tags": "natural"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		Doc struct {
			Title     string `json:"title"`
			SourceURL string `json:"source_url"`
			Summary   string `json:"summary"`
		} `json:"doc"`
		Chunks int `json:"chunks"`
	}
	apitest.Decode(t, rec, &out)
	assert.Equal(t, "Zero Budget Natural Farming", out.Doc.Title)
	assert.Equal(t, srv.URL+"/zbnf", out.Doc.SourceURL)
	assert.Equal(t, "Jeevamrutha", out.Doc.Summary)
	assert.Equal(t, 1, out.Chunks)

	rec = app.Do(t, http.MethodPost, "/api/knowledge/ingest/url", map[string]string{"url": "https://evil.example.com/x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.Do(t, http.MethodPost, "/api/knowledge/ingest/url", map[string]string{"url": srv.URL + "/moved"})
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"error":"permission denied"}`, rec.Body.String())

	rec = app.Do(t, http.MethodPost, "/api/knowledge/ingest/url", map[string]string{"url": srv.URL + "/moved-inside", "title": "Jeevamrutha again"})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.Do(t, http.MethodPost, "/api/knowledge/ingest/url", map[string]string{"url": "ftp://icar.org.in/file"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.Do(t, http.MethodPost, "/api/knowledge/ingest/url", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckRedirect(t *testing.T) {
	h := New(nil, nil, nil, []string{"icar.org.in"}, 0)
	hop := func(raw string) *http.Request {
		req, err := http.NewRequest(http.MethodGet, raw, nil)
		require.NoError(t, err)
		return req
	}
	assert.NoError(t, h.checkRedirect(hop("https://iari.icar.org.in/a"), nil))
	assert.ErrorIs(t, h.checkRedirect(hop("http://localhost:8080/a"), nil), errRedirectBlocked)
	assert.ErrorIs(t, h.checkRedirect(hop("file:///etc/passwd"), nil), errRedirectBlocked)
	assert.Error(t, h.checkRedirect(hop("https://icar.org.in/a"), make([]*http.Request, 10)))
}

func TestAllowed(t *testing.T) {
	h := New(nil, nil, nil, []string{" ICAR.org.in ", ""}, 0)
	assert.True(t, h.allowed("icar.org.in"))
	assert.True(t, h.allowed("iari.icar.org.in"))
	assert.False(t, h.allowed("noticar.org.in"))
	assert.False(t, h.allowed("icar.org.in.evil.com"))
}
