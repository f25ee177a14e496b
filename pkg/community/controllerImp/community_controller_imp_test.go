package controllerImp

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kisansetu/database"
	"kisansetu/pkg/apitest"
	"kisansetu/pkg/community/repositoryImp"
	"kisansetu/pkg/community/serviceImp"
)

var now = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func newApp(t *testing.T) *apitest.App {
	t.Helper()
	app := apitest.New()
	s := serviceImp.New(repositoryImp.New(database.MustOpenMemory()))
	_, err := s.Seed(now)
	require.NoError(t, err)

	h := New(s, app.I18n)
	h.now = func() time.Time { return now }
	app.GET("/api/community/posts", h.ListPosts)
	app.POST("/api/community/posts", h.CreatePost)
	app.POST("/api/community/posts/:id/like", h.Like)
	app.GET("/api/community/replies", h.ListReplies)
	app.POST("/api/community/replies", h.CreateReply)
	return app
}

type post struct {
	ID        uint     `json:"id"`
	Author    string   `json:"author"`
	Likes     int      `json:"likes"`
	Replies   int      `json:"replies"`
	TagList   []string `json:"tag_list"`
	PostedAgo string   `json:"posted_ago"`
}

type postList struct {
	Items []post `json:"items"`
	Count int    `json:"count"`
}

func TestListPosts(t *testing.T) {
	app := newApp(t)
	rec := app.Do(t, http.MethodGet, "/api/community/posts?sort=popular", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out postList
	apitest.Decode(t, rec, &out)
	require.Equal(t, 5, out.Count)
	top := out.Items[0]
	assert.Equal(t, "Harjit Kaur", top.Author)
	assert.Equal(t, "2 days ago", top.PostedAgo)
	assert.Equal(t, []string{"wheat", "residue", "happy seeder"}, top.TagList)
}

func TestPostLikeReply(t *testing.T) {
	app := newApp(t)

	rec := app.Do(t, http.MethodPost, "/api/community/posts", map[string]string{
		"author": "Kavita", "category": "crops", "title": "Sugarcane spacing", "content": "Is 4 feet trench planting better?",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p post
	apitest.Decode(t, rec, &p)
	assert.Empty(t, p.TagList)

	rec = app.Do(t, http.MethodPost, fmt.Sprintf("/api/community/posts/%d/like", p.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apitest.Decode(t, rec, &p)
	assert.Equal(t, 1, p.Likes)

	rec = app.Do(t, http.MethodPost, "/api/community/replies", map[string]interface{}{
		"post_id": p.ID, "author": "Ravi", "content": "Yes, it improves tillering.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.Do(t, http.MethodGet, fmt.Sprintf("/api/community/replies?post_id=%d", p.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var replies struct {
		Count int `json:"count"`
	}
	apitest.Decode(t, rec, &replies)
	assert.Equal(t, 1, replies.Count)
}

func TestRejects(t *testing.T) {
	app := newApp(t)

	rec := app.Do(t, http.MethodPost, "/api/community/posts", map[string]string{"author": "A", "category": "gossip"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var fields map[string]string
	apitest.Decode(t, rec, &fields)
	assert.Contains(t, fields, "category")
	assert.Contains(t, fields, "title")

	assert.Equal(t, http.StatusNotFound, app.Do(t, http.MethodPost, "/api/community/posts/999/like", nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.Do(t, http.MethodPost, "/api/community/posts/abc/like", nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.Do(t, http.MethodGet, "/api/community/replies", nil).Code)
	assert.Equal(t, http.StatusNotFound, app.Do(t, http.MethodGet, "/api/community/replies?post_id=999", nil).Code)

	rec = app.Do(t, http.MethodPost, "/api/community/replies", map[string]interface{}{"post_id": 999, "author": "a", "content": "b"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
