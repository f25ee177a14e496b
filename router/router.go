package router

import (
	"github.com/labstack/echo/v4"

	calcCtrl "kisansetu/pkg/calculator/controller"
	calCtrl "kisansetu/pkg/calendar/controller"
	chatCtrl "kisansetu/pkg/chat/controller"
	commCtrl "kisansetu/pkg/community/controller"
	eqCtrl "kisansetu/pkg/equipment/controller"
	healthCtrl "kisansetu/pkg/health/controller"
	i18nCtrl "kisansetu/pkg/i18n/controller"
	kCtrl "kisansetu/pkg/knowledge/controller"
	mktCtrl "kisansetu/pkg/market/controller"
	"kisansetu/pkg/middleware"
	newsCtrl "kisansetu/pkg/news/controller"
	schemeCtrl "kisansetu/pkg/scheme/controller"
)

// Handlers is every controller the API serves.
type Handlers struct {
	Calculator calcCtrl.CalculatorController
	Calendar   calCtrl.CalendarController
	Equipment  eqCtrl.EquipmentController
	Market     mktCtrl.MarketController
	Schemes    schemeCtrl.SchemeController
	News       newsCtrl.NewsController
	Community  commCtrl.CommunityController
	Knowledge  kCtrl.KnowledgeController
	Chat       chatCtrl.ChatController
	I18n       i18nCtrl.I18nController
	Health     healthCtrl.HealthController
}

// Guards are the extra middleware some routes run behind.
type Guards struct {
	// Admin protects ingest and refresh endpoints.
	Admin echo.MiddlewareFunc
	// Chat rate-limits the assistant.
	Chat echo.MiddlewareFunc
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func New(e *echo.Echo, h Handlers, g Guards) *echo.Echo {
	if g.Admin == nil {
		g.Admin = middleware.AdminToken("")
	}
	if g.Chat == nil {
		g.Chat = passThrough
	}

	e.GET("/health", h.Health.Health)
	api := e.Group("/api")

	api.GET("/languages", h.I18n.Languages)
	api.GET("/i18n/:lang", h.I18n.Table)

	api.GET("/crops", h.Calculator.Crops)
	calc := api.Group("/calculator")
	calc.POST("/crop", h.Calculator.Crop)
	calc.POST("/fertilizer", h.Calculator.Fertilizer)
	calc.POST("/irrigation", h.Calculator.Irrigation)

	api.GET("/calendar", h.Calendar.Seasonal)
	api.POST("/calendar/plan", h.Calendar.Plan)

	eq := api.Group("/equipment")
	eq.GET("", h.Equipment.List)
	eq.GET("/bookings", h.Equipment.Bookings)
	eq.PATCH("/bookings/:id", h.Equipment.PatchBooking)
	eq.GET("/:id", h.Equipment.Get)
	eq.POST("/:id/bookings", h.Equipment.Book)

	mkt := api.Group("/market")
	mkt.GET("/prices", h.Market.Prices)
	mkt.GET("/summary", h.Market.Summary)
	mkt.GET("/export", h.Market.Export)

	api.GET("/schemes", h.Schemes.List)
	api.GET("/schemes/:id", h.Schemes.Get)

	api.GET("/agriculture-news", h.News.List)
	api.POST("/agriculture-news/refresh", h.News.Refresh, g.Admin)

	comm := api.Group("/community")
	comm.GET("/posts", h.Community.ListPosts)
	comm.POST("/posts", h.Community.CreatePost)
	comm.POST("/posts/:id/like", h.Community.Like)
	comm.GET("/replies", h.Community.ListReplies)
	comm.POST("/replies", h.Community.CreateReply)

	kb := api.Group("/knowledge")
	kb.GET("/articles", h.Knowledge.Articles)
	kb.GET("/articles/:id", h.Knowledge.Article)
	kb.GET("/videos", h.Knowledge.Videos)
	kb.GET("/search", h.Knowledge.Search)
	kb.POST("/ingest", h.Knowledge.IngestText, g.Admin)
	kb.POST("/ingest/url", h.Knowledge.IngestURL, g.Admin)

	api.POST("/chat", h.Chat.Ask, g.Chat)
	api.GET("/chat/:id", h.Chat.History)
	return e
}
