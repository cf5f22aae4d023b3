package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"tiendaonline-web/internal/core/auth"
	"tiendaonline-web/internal/core/config"
	"tiendaonline-web/internal/core/database"
	"tiendaonline-web/internal/core/logger"
	"tiendaonline-web/internal/core/server"
	"tiendaonline-web/internal/core/session"
	"tiendaonline-web/internal/repo"
	"tiendaonline-web/internal/service"
	"tiendaonline-web/internal/transport/http/handler"
	"tiendaonline-web/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}
	log, cleanup := newLogger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	gin.DefaultWriter = logger.ToWriter(log.Named("gin"), zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log.Named("gin"), zapcore.ErrorLevel)

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 会话
	ttl := time.Duration(cfg.Session.TTLMin) * time.Minute
	store, stopStore := mustSessionStore(cfg, ttl, log)
	defer stopStore()
	signer, err := auth.NewSigner(cfg.Session.Secret, cfg.App.Name, ttl)
	if err != nil {
		log.Fatal("session signer", zap.Error(err))
	}

	// 依赖
	userRepo := repo.NewUserRepo(db).WithBcrypt(cfg.Auth.PasswordMode == "bcrypt")
	authSvc := service.NewAuthService(userRepo, log.Named("auth"))
	invSvc := service.NewInventoryService(repo.NewProductRepo(db), log.Named("catalog"))
	dbtestSvc := service.NewDBTestService(repo.NewProcedureRepo(db), userRepo, service.DemoParams{
		ClientEmail:      cfg.Demo.ClientEmail,
		Warehouse:        cfg.Demo.Warehouse,
		AgingDiscountPct: cfg.Demo.AgingDiscountPct,
		AgingDays:        cfg.Demo.AgingDays,
	}, log.Named("dbtest"))

	srvOpts := server.Options{Mode: ginMode(cfg.App.Env), CorsOrigins: cfg.App.HTTP.CorsOrigins}
	r := router.NewAPIEngine(log, router.APIDeps{
		Auth:           authSvc,
		Catalog:        invSvc,
		DBTests:        dbtestSvc,
		Store:          store,
		Signer:         signer,
		Cookie:         handler.CookieOptions{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure},
		StaticDir:      cfg.App.HTTP.StaticDir,
		RequestTimeout: time.Duration(cfg.App.HTTP.RequestTimeoutSec) * time.Second,
		Server:         srvOpts,
	})

	// HTTP Server
	h := cfg.App.HTTP
	srv := server.BuildServer(
		server.Addr(h.Host, h.Port), r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)
	servers := []*http.Server{srv}
	baseURL := server.HumanURL(h.Host, h.Port)
	log.Info("tienda web starting",
		zap.String("open", baseURL+handler.LoginPage),
		zap.String("health", baseURL+"/health"),
	)
	errc := server.Serve(srv, "tienda web", log)

	// 运维端口
	var admErr <-chan error
	if a := cfg.App.Admin; a.Embedded && a.Port > 0 {
		adm := server.BuildServer(server.Addr(a.Host, a.Port), router.NewAdminEngine(log, db, srvOpts),
			5*time.Second, 10*time.Second, 60*time.Second)
		servers = append(servers, adm)
		admErr = server.Serve(adm, "ops", log)
		log.Info("ops endpoints", zap.String("metrics", server.HumanURL(a.Host, a.Port)+"/metrics"))
	}

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errc:
		log.Error("listen failed", zap.Error(err))
	case err := <-admErr:
		log.Error("listen failed", zap.Error(err))
	}
	server.Shutdown(10*time.Second, log, servers...)
	log.Info("tienda web stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	f := cfg.Log.File
	return logger.Build(logger.Options{
		App:   cfg.App.Name,
		Level: cfg.Log.Level,
		JSON:  cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     f.Enable,
			Filename:   f.Filename,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		},
	})
}

func ginMode(env string) string {
	if env == "prod" || env == "production" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

// mustSessionStore redis 不可达时直接退出；内存存储起一个定时清理
func mustSessionStore(cfg *config.Config, ttl time.Duration, l *zap.Logger) (session.Store, func()) {
	if cfg.Session.Store == "redis" {
		rdb := session.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			l.Fatal("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		l.Info("session store: redis", zap.String("addr", cfg.Redis.Addr))
		return session.NewRedisStore(rdb, cfg.Session.KeyPrefix, ttl), func() { _ = rdb.Close() }
	}

	mem := session.NewMemoryStore(ttl)
	tick := time.NewTicker(time.Minute)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-tick.C:
				if n := mem.Sweep(); n > 0 {
					l.Debug("expired sessions swept", zap.Int("count", n))
				}
			case <-done:
				return
			}
		}
	}()
	l.Info("session store: memory")
	return mem, func() { tick.Stop(); close(done) }
}
