package controllerImp

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kisansetu/pkg/httperr"
	"kisansetu/pkg/i18n"
	"kisansetu/pkg/knowledge"
	"kisansetu/pkg/knowledge/service"
	"kisansetu/pkg/middleware"
	"kisansetu/pkg/scrape"
)

const searchLimit = 6

type KnowledgeCtrl struct {
	s        service.KnowledgeService
	videos   *knowledge.Videos
	tr       *i18n.Bundle
	allow    []string
	maxBytes int
	httpc    *http.Client
}

// New wires the handlers. allow lists the hosts URL ingest may fetch; a
// listed domain also admits its subdomains.
func New(s service.KnowledgeService, videos *knowledge.Videos, tr *i18n.Bundle, allow []string, maxBytes int) *KnowledgeCtrl {
	if maxBytes <= 0 {
		maxBytes = 1500000
	}
	hosts := make([]string, 0, len(allow))
	for _, h := range allow {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	h := &KnowledgeCtrl{s: s, videos: videos, tr: tr, allow: hosts, maxBytes: maxBytes}
	h.httpc = &http.Client{Timeout: scrape.DefaultClient.Timeout, CheckRedirect: h.checkRedirect}
	return h
}

var errRedirectBlocked = errors.New("redirect leaves the allowed hosts")

// checkRedirect holds every hop of a URL ingest to the allow list.
func (h *KnowledgeCtrl) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	if (req.URL.Scheme != "http" && req.URL.Scheme != "https") || !h.allowed(req.URL.Hostname()) {
		return errors.Wrap(errRedirectBlocked, req.URL.Host)
	}
	return nil
}

func (h *KnowledgeCtrl) allowed(host string) bool {
	host = strings.ToLower(host)
	for _, a := range h.allow {
		if host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}
	return false
}

func (h *KnowledgeCtrl) Articles(c echo.Context) error {
	var q service.ArticleQuery
	if err := c.Bind(&q); err != nil {
		return httperr.BadRequest(err)
	}
	docs, err := h.s.Articles(q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"items": docs, "count": len(docs)})
}

func (h *KnowledgeCtrl) Article(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.s.Article(uint(id))
	if errors.Cause(err) == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": h.tr.T(middleware.Lang(c), "error.not_found")})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *KnowledgeCtrl) Videos(c echo.Context) error {
	var q knowledge.VideoQuery
	if err := c.Bind(&q); err != nil {
		return httperr.BadRequest(err)
	}
	items := h.videos.List(q)
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

func (h *KnowledgeCtrl) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q required"})
	}
	k := searchLimit
	if v := c.QueryParam("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 50 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "k must be between 1 and 50"})
		}
		k = n
	}
	hits, err := h.s.Search(c.Request().Context(), q, k)
	if err != nil {
		return err
	}
	if hits == nil {
		hits = []service.Hit{}
	}
	return c.JSON(http.StatusOK, hits)
}

func (h *KnowledgeCtrl) IngestText(c echo.Context) error {
	var req service.IngestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	doc, n, err := h.s.Ingest(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"doc": doc, "chunks": n})
}

type ingestURLReq struct {
	URL      string `json:"url" validate:"required,url"`
	Title    string `json:"title" validate:"max=200"`
	Tags     string `json:"tags" validate:"max=200"`
	Category string `json:"category" validate:"omitempty,oneof=crops soil water pest schemes technology"`
	Language string `json:"language" validate:"omitempty,len=2"`
}

func (h *KnowledgeCtrl) IngestURL(c echo.Context) error {
	var body ingestURLReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	u, err := url.Parse(body.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad url"})
	}
	if !h.allowed(u.Hostname()) {
		return httperr.ErrForbidden
	}

	page, err := scrape.Fetch(c.Request().Context(), h.httpc, body.URL, h.maxBytes)
	if errors.Is(err, errRedirectBlocked) {
		return httperr.ErrForbidden
	}
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	text := page.MainText()
	if strings.TrimSpace(text) == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no readable text on page"})
	}
	title := body.Title
	if title == "" {
		title = page.Title
	}
	if title == "" {
		title = u.Host
	}

	doc, n, err := h.s.Ingest(c.Request().Context(), service.IngestRequest{
		Title: title, Tags: body.Tags, Category: body.Category, Language: body.Language,
		Text: text, SourceURL: body.URL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"doc": doc, "chunks": n})
}
