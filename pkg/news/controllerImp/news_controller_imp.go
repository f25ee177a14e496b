package controllerImp

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"kisansetu/pkg/httperr"
	"kisansetu/pkg/i18n"
	"kisansetu/pkg/middleware"
	"kisansetu/pkg/news"
)

// Feed is satisfied by *news.Refresher.
type Feed interface {
	Snapshot() (articles []news.Article, updated time.Time, fallback bool)
	Refresh(ctx context.Context) error
}

type NewsCtrl struct {
	feed Feed
	tr   *i18n.Bundle
	now  func() time.Time
}

func New(feed Feed, tr *i18n.Bundle) *NewsCtrl {
	return &NewsCtrl{feed: feed, tr: tr, now: time.Now}
}

type articleView struct {
	news.Article
	DisplayTitle string `json:"display_title"`
	PublishedAgo string `json:"published_ago"`
}

// Response headers of List. The notice is percent-encoded because it may be
// in a non-Latin script.
const (
	TotalCountHeader = "X-Total-Count"
	FallbackHeader   = "X-News-Fallback"
	NoticeHeader     = "X-News-Notice"
)

// List answers with a bare array of articles; freshness travels in headers.
func (h *NewsCtrl) List(c echo.Context) error {
	var q news.Query
	if err := c.Bind(&q); err != nil {
		return httperr.BadRequest(err)
	}
	if q.Limit < 0 {
		return httperr.BadRequest(nil, httperr.FieldError{Field: "limit", Error: "limit must be 0 or greater"})
	}
	lang := middleware.Lang(c)
	articles, updated, fallback := h.feed.Snapshot()
	now := h.now()

	list := news.Filter(articles, q)
	items := make([]articleView, 0, len(list))
	for _, a := range list {
		v := articleView{Article: a, DisplayTitle: a.Title, PublishedAgo: humanize.RelTime(a.PublishedAt, now, "ago", "from now")}
		if lang == "hi" && a.TitleHi != "" {
			v.DisplayTitle = a.TitleHi
		}
		items = append(items, v)
	}

	hdr := c.Response().Header()
	hdr.Set(TotalCountHeader, strconv.Itoa(len(items)))
	hdr.Set(FallbackHeader, strconv.FormatBool(fallback))
	if fallback {
		hdr.Set(NoticeHeader, url.PathEscape(h.tr.T(lang, "news.fallback_notice")))
	} else if !updated.IsZero() {
		hdr.Set(echo.HeaderLastModified, updated.UTC().Format(http.TimeFormat))
	}
	return c.JSON(http.StatusOK, items)
}

// Refresh fetches the sources now instead of waiting for the next tick.
func (h *NewsCtrl) Refresh(c echo.Context) error {
	err := h.feed.Refresh(c.Request().Context())
	switch {
	case errors.Cause(err) == news.ErrBusy:
		return c.JSON(http.StatusConflict, echo.Map{"error": "refresh already running"})
	case err != nil:
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	_, updated, _ := h.feed.Snapshot()
	return c.JSON(http.StatusOK, echo.Map{"updated_at": updated})
}
