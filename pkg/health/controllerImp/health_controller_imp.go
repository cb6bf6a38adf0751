package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storyhub/entities"
	"storyhub/pkg/health/controller"
)

var appStart = time.Now()

type healthCtrl struct {
	db *gorm.DB
}

func NewHealthCtrl(db *gorm.DB) controller.HealthController { return &healthCtrl{db: db} }

type check struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

// Health pings the database and reports how many stories sit in each status.
func (h *healthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := check{OK: true}
	stories := map[entities.StoryStatus]int64{}
	if h.db == nil {
		db = check{Err: "gorm db is nil"}
	} else if sqlDB, err := h.db.DB(); err != nil {
		db = check{Err: "db.DB(): " + err.Error()}
	} else if err := sqlDB.PingContext(ctx); err != nil {
		db = check{Err: "ping: " + err.Error()}
	} else {
		var rows []struct {
			Status entities.StoryStatus
			N      int64
		}
		err := h.db.WithContext(ctx).Model(&entities.Story{}).
			Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error
		if err != nil {
			db = check{Err: "count stories: " + err.Error()}
		}
		for _, r := range rows {
			stories[r.Status] = r.N
		}
	}

	status := http.StatusOK
	if !db.OK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, echo.Map{
		"status":     echo.Map{"ok": db.OK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     echo.Map{"database": db},
		"stories":    stories,
		"time":       time.Now().Format(time.RFC3339),
	})
}
