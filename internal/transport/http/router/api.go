package router

import (
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tiendaonline-web/internal/core/auth"
	"tiendaonline-web/internal/core/server"
	"tiendaonline-web/internal/core/session"
	"tiendaonline-web/internal/domain"
	httpez "tiendaonline-web/internal/transport/http/ez"
	"tiendaonline-web/internal/transport/http/handler"
	mdw "tiendaonline-web/internal/transport/http/middleware"
	resp "tiendaonline-web/internal/transport/http/response"
)

type APIDeps struct {
	Auth    handler.Authenticator
	Catalog handler.Catalog
	DBTests handler.DBTests

	Store  session.Store
	Signer *auth.Signer
	Cookie handler.CookieOptions

	StaticDir      string
	RequestTimeout time.Duration
	Server         server.Options
}

func NewAPIEngine(l *zap.Logger, d APIDeps) *gin.Engine {
	r := server.NewRouter(l, d.Server)
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 10 * time.Second
	}

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(64, 2*time.Second),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(d.RequestTimeout, l),
		mdw.Metrics(nil),
		mdw.LoadSession(d.Store, d.Signer, d.Cookie.Name, l),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, handler.LoginPage) })

	authH := handler.NewAuthHandler(d.Auth, d.Store, d.Signer, d.Cookie, l)
	r.POST("/login", mdw.RateLimitPerIP(5, 10, 10*time.Minute), authH.Login)
	r.GET("/logout", authH.Logout)

	api := httpez.New(r.Group("/api"))

	httpez.RegisterAction(api, httpez.Action[struct{}, domain.Identity]{
		Method: http.MethodGet, Path: "/me", Auth: true, Handler: authH.Me,
	})

	catH := handler.NewCatalogHandler(d.Catalog)
	httpez.RegisterAction(api, httpez.Action[struct{}, []domain.Product]{
		Method: http.MethodGet, Path: "/catalogo", Auth: true, Handler: catH.List,
	})
	httpez.RegisterAction(api, httpez.Action[handler.ProductIDIn, *domain.Product]{
		Method: http.MethodGet, Path: "/catalogo/:id", Binder: httpez.BindURI, Auth: true, Handler: catH.Get,
	})

	mountDBTests(api, handler.NewDBTestHandler(d.DBTests))

	r.NoRoute(staticFiles(d.StaticDir))
	return r
}

// 存储过程测试按钮；OWNER 在 ez 层总是放行
func mountDBTests(api httpez.EZ, h *handler.DBTestHandler) {
	type act = httpez.Action[struct{}, resp.Message]
	owner := []string{domain.RoleOwner}
	gestor := []string{domain.RoleGestorInventario}
	vendedor := []string{domain.RoleVendedor}

	for _, a := range []act{
		{Path: "/tests/owner/registrar-producto", Roles: owner, Handler: h.RegisterProduct},
		{Path: "/tests/owner/entrada-inventario", Roles: owner, Handler: h.InventoryEntry},
		{Path: "/tests/owner/revisar-envejecido", Roles: owner, Handler: h.AgingReview},
		{Path: "/tests/gestor/entrada-inventario", Roles: gestor, Handler: h.InventoryEntry},
		{Path: "/tests/gestor/revisar-envejecido", Roles: gestor, Handler: h.AgingReview},
		{Path: "/tests/vendedor/venta-demo", Roles: vendedor, Handler: h.DemoSale},
	} {
		a.Method = http.MethodPost
		httpez.RegisterAction(api, a)
	}
}

// staticFiles 未匹配的 GET/HEAD 从静态目录取文件（登录页与各角色页面）
func staticFiles(dir string) gin.HandlerFunc {
	fs := gin.Dir(dir, false)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, ""))
			return
		}
		name := path.Clean("/" + c.Request.URL.Path)
		if strings.HasSuffix(name, "/") || !isFile(dir, name) {
			c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, ""))
			return
		}
		c.FileFromFS(name, fs)
	}
}

func isFile(dir, name string) bool {
	st, err := os.Stat(path.Join(dir, name))
	return err == nil && !st.IsDir()
}
