package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Mode        string   // gin.ReleaseMode / gin.DebugMode / gin.TestMode
	CorsOrigins []string // 为空则不挂 CORS（页面与接口同源）
}

// NewRouter 裸引擎 + panic 恢复（500）+ 可选 CORS
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	if o.Mode != "" {
		gin.SetMode(o.Mode)
	}
	r := gin.New()
	r.Use(ginzap.RecoveryWithZap(l, true))
	if len(o.CorsOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = o.CorsOrigins
		cfg.AllowCredentials = true
		r.Use(cors.New(cfg))
	}
	return r
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// HumanURL 启动日志里打印可点击的地址
func HumanURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// Serve 异步启动；监听失败通过返回的 channel 报告
func Serve(srv *http.Server, name string, l *zap.Logger) <-chan error {
	errc := make(chan error, 1)
	go func() {
		l.Info(name+" starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("%s: %w", name, err)
		}
		close(errc)
	}()
	return errc
}

// Shutdown 优雅关闭多个 server，共用一个超时
func Shutdown(timeout time.Duration, l *zap.Logger, servers ...*http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for _, s := range servers {
		if err := s.Shutdown(ctx); err != nil {
			l.Warn("shutdown", zap.String("addr", s.Addr), zap.Error(err))
		}
	}
}
