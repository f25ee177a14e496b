package controllerImp

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kisansetu/entities"
	svc "kisansetu/pkg/community/service"
	"kisansetu/pkg/httperr"
	"kisansetu/pkg/i18n"
	"kisansetu/pkg/listing"
	"kisansetu/pkg/middleware"
)

type CommunityCtrl struct {
	s   svc.CommunityService
	tr  *i18n.Bundle
	now func() time.Time
}

func New(s svc.CommunityService, tr *i18n.Bundle) *CommunityCtrl {
	return &CommunityCtrl{s: s, tr: tr, now: time.Now}
}

type postView struct {
	entities.CommunityPost
	TagList   []string `json:"tag_list"`
	PostedAgo string   `json:"posted_ago"`
}

type replyView struct {
	entities.CommunityReply
	PostedAgo string `json:"posted_ago"`
}

func (h *CommunityCtrl) ago(t time.Time) string {
	return humanize.RelTime(t, h.now(), "ago", "from now")
}

func (h *CommunityCtrl) post(p entities.CommunityPost) postView {
	v := postView{CommunityPost: p, TagList: []string{}, PostedAgo: h.ago(p.CreatedAt)}
	for _, t := range strings.Split(p.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			v.TagList = append(v.TagList, t)
		}
	}
	return v
}

func (h *CommunityCtrl) ListPosts(c echo.Context) error {
	var q listing.Query
	if err := c.Bind(&q); err != nil {
		return httperr.BadRequest(err)
	}
	posts, err := h.s.ListPosts(q)
	if err != nil {
		return err
	}
	items := make([]postView, 0, len(posts))
	for _, p := range posts {
		items = append(items, h.post(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

func (h *CommunityCtrl) CreatePost(c echo.Context) error {
	var in svc.PostRequest
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if err := c.Validate(&in); err != nil {
		return err
	}
	p, err := h.s.CreatePost(in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, h.post(*p))
}

func (h *CommunityCtrl) Like(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.s.Like(uint(id))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, h.post(*p))
}

func (h *CommunityCtrl) ListReplies(c echo.Context) error {
	id, err := strconv.ParseUint(c.QueryParam("post_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "post_id required"})
	}
	list, err := h.s.ListReplies(uint(id))
	if err != nil {
		return h.fail(c, err)
	}
	items := make([]replyView, 0, len(list))
	for _, r := range list {
		items = append(items, replyView{CommunityReply: r, PostedAgo: h.ago(r.CreatedAt)})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

func (h *CommunityCtrl) CreateReply(c echo.Context) error {
	var in svc.ReplyRequest
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if err := c.Validate(&in); err != nil {
		return err
	}
	r, err := h.s.CreateReply(in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, replyView{CommunityReply: *r, PostedAgo: h.ago(r.CreatedAt)})
}

func (h *CommunityCtrl) fail(c echo.Context, err error) error {
	switch errors.Cause(err) {
	case gorm.ErrRecordNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": h.tr.T(middleware.Lang(c), "error.not_found")})
	case svc.ErrBlank:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return err
}
