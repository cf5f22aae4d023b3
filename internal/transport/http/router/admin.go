package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tiendaonline-web/internal/core/database"
	"tiendaonline-web/internal/core/server"
	mdw "tiendaonline-web/internal/transport/http/middleware"
	resp "tiendaonline-web/internal/transport/http/response"
)

// NewAdminEngine 运维端口：健康、就绪（带数据库探测）与 Prometheus 指标
func NewAdminEngine(l *zap.Logger, db *gorm.DB, o server.Options) *gin.Engine {
	r := server.NewRouter(l, o)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(50, 100),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	r.GET("/ready", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, resp.Msg("database not configured"))
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			l.Warn("readiness ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, resp.Msg(err.Error()))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
