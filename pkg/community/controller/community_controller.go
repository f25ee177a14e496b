package controller

import "github.com/labstack/echo/v4"

type CommunityController interface {
	ListPosts(c echo.Context) error
	CreatePost(c echo.Context) error
	Like(c echo.Context) error
	ListReplies(c echo.Context) error
	CreateReply(c echo.Context) error
}
