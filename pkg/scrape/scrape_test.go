package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsPage = `<html><head><title>Krishi Samachar</title></head><body>
<article data-category="market">
  <h2><a href="/story/onion-exports">Onion export duty cut</a></h2>
  <time datetime="2025-10-12T08:30:00+05:30"></time>
  <p>Exporters welcome the   decision.</p>
</article>
<article>
  <a href="https://other.example/rain">Monsoon withdraws from Rajasthan</a>
  <p>IMD says dry weather ahead.</p>
</article>
<article><h3>No link here</h3></article>
<article data-category="market">
  <h2><a href="/story/onion-exports">Onion export duty cut</a></h2>
</article>
</body></html>`

const headingPage = `<html><body>
<h2><a href="item/1">Wheat MSP raised</a></h2><p>Rs 150 more per quintal.</p>
<h2>Section title</h2>
<a href="item/2"><h3>Drone subsidy extended</h3></a>
</body></html>`

const articlePage = `<html><head><title> Soil Testing </title></head><body>
<nav><p>Home</p></nav>
<main><h1>Soil testing</h1><p>Collect samples from 15 cm depth.</p><ul><li>Dry in shade</li></ul></main>
</body></html>`

func server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	html := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, body)
		}
	}
	mux.HandleFunc("/news", html(newsPage))
	mux.HandleFunc("/headings/", html(headingPage))
	mux.HandleFunc("/article", html(articlePage))
	mux.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "Drip irrigation basics\nUse filters.")
	})
	mux.HandleFunc("/pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF")
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Length", "5000")
		fmt.Fprint(w, strings.Repeat("x", 5000))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHeadlines_Articles(t *testing.T) {
	srv := server(t)
	p, err := Fetch(context.Background(), srv.Client(), srv.URL+"/news", 0)
	require.NoError(t, err)
	assert.Equal(t, "Krishi Samachar", p.Title)

	hs := p.Headlines()
	require.Len(t, hs, 3)
	assert.Equal(t, "Onion export duty cut", hs[0].Title)
	assert.Equal(t, srv.URL+"/story/onion-exports", hs[0].URL)
	assert.Equal(t, "Exporters welcome the decision.", hs[0].Summary)
	assert.Equal(t, "market", hs[0].Category)
	assert.Equal(t, time.Date(2025, 10, 12, 3, 0, 0, 0, time.UTC), hs[0].Published)

	assert.Equal(t, "Monsoon withdraws from Rajasthan", hs[1].Title)
	assert.Equal(t, "https://other.example/rain", hs[1].URL)
	assert.True(t, hs[1].Published.IsZero())

	assert.Equal(t, "No link here", hs[2].Title)
	assert.Empty(t, hs[2].URL)
}

func TestHeadlines_Headings(t *testing.T) {
	srv := server(t)
	p, err := Fetch(context.Background(), srv.Client(), srv.URL+"/headings/", 0)
	require.NoError(t, err)

	hs := p.Headlines()
	require.Len(t, hs, 2)
	assert.Equal(t, srv.URL+"/headings/item/1", hs[0].URL)
	assert.Equal(t, "Rs 150 more per quintal.", hs[0].Summary)
	assert.Equal(t, "Drone subsidy extended", hs[1].Title)
}

func TestMainText(t *testing.T) {
	srv := server(t)
	p, err := Fetch(context.Background(), srv.Client(), srv.URL+"/article", 0)
	require.NoError(t, err)
	assert.Equal(t, "Soil Testing", p.Title)
	assert.Equal(t, "Soil testing\nCollect samples from 15 cm depth.\nDry in shade", p.MainText())

	p, err = Fetch(context.Background(), srv.Client(), srv.URL+"/plain", 0)
	require.NoError(t, err)
	assert.Equal(t, "Drip irrigation basics", p.Title)
	assert.Nil(t, p.Headlines())
	assert.Contains(t, p.MainText(), "Use filters.")
}

func TestFetch_Errors(t *testing.T) {
	srv := server(t)
	ctx := context.Background()

	_, err := Fetch(ctx, srv.Client(), srv.URL+"/pdf", 0)
	assert.Equal(t, ErrContentType, errors.Cause(err))

	_, err = Fetch(ctx, srv.Client(), srv.URL+"/big", 1000)
	assert.Equal(t, ErrTooLarge, errors.Cause(err))

	_, err = Fetch(ctx, srv.Client(), srv.URL+"/missing", 0)
	assert.Error(t, err)
}
