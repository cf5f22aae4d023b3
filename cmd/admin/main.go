package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tiendaonline-web/internal/core/config"
	"tiendaonline-web/internal/core/database"
	"tiendaonline-web/internal/core/logger"
	"tiendaonline-web/internal/core/server"
	"tiendaonline-web/internal/transport/http/router"
)

// 独立的运维进程：/health、/ready（探测 SQL Server）、/metrics
func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// 就绪探针依赖数据库；打不开也照常启动，/ready 返回 503
	db, err := database.NewGorm(database.Opts{
		Driver:       cfg.DB.Driver,
		DSN:          cfg.DB.DSN,
		Username:     cfg.DB.Username,
		Password:     cfg.DB.Password,
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		LogLevel:     "silent",
		Logger:       log,
	})
	if err != nil {
		log.Warn("database unavailable", zap.Error(err))
		db = nil
	} else {
		defer func() { _ = database.Close(db) }()
	}

	a := cfg.App.Admin
	r := router.NewAdminEngine(log, db, server.Options{Mode: gin.ReleaseMode})
	srv := server.BuildServer(server.Addr(a.Host, a.Port), r, 5*time.Second, 10*time.Second, 60*time.Second)

	baseURL := server.HumanURL(a.Host, a.Port)
	log.Info("ops server starting",
		zap.String("health", baseURL+"/health"),
		zap.String("ready", baseURL+"/ready"),
		zap.String("metrics", baseURL+"/metrics"),
	)
	errc := server.Serve(srv, "ops", log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errc:
		log.Error("listen failed", zap.Error(err))
	}
	server.Shutdown(10*time.Second, log, srv)
	log.Info("ops server stopped gracefully")
}
