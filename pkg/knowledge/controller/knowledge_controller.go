package controller

import "github.com/labstack/echo/v4"

type KnowledgeController interface {
	Articles(c echo.Context) error
	Article(c echo.Context) error
	Videos(c echo.Context) error
	Search(c echo.Context) error
	IngestText(c echo.Context) error
	IngestURL(c echo.Context) error
}
