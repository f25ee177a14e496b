package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"kisansetu/pkg/news"
)

var appStart = time.Now()

// NewsFeed is the part of the news refresher health reports on.
type NewsFeed interface {
	Snapshot() ([]news.Article, time.Time, bool)
}

type HealthCtrl struct {
	db   *gorm.DB
	feed NewsFeed
	llm  string
}

// NewHealthCtrl reports on db, and on feed and the LLM provider name when
// given. Only the database decides the status code.
func NewHealthCtrl(db *gorm.DB, feed NewsFeed, llm string) *HealthCtrl {
	return &HealthCtrl{db: db, feed: feed, llm: llm}
}

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := h.checkDB(ctx)
	status := http.StatusOK
	if !db.OK {
		status = http.StatusServiceUnavailable
	}

	checks := map[string]any{"database": db}
	if h.feed != nil {
		arts, updated, fallback := h.feed.Snapshot()
		n := map[string]any{"articles": len(arts), "fallback": fallback}
		if !updated.IsZero() {
			n["updated_at"] = updated.Format(time.RFC3339)
		}
		checks["news"] = n
	}
	if h.llm != "" {
		checks["llm"] = map[string]any{"provider": h.llm}
	}

	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": db.OK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     checks,
		"time":       time.Now().Format(time.RFC3339),
	})
}

func (h *HealthCtrl) checkDB(ctx context.Context) sub {
	if h.db == nil {
		return sub{Err: "gorm db is nil"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return sub{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return sub{Err: "ping: " + err.Error()}
	}
	return sub{OK: true}
}
