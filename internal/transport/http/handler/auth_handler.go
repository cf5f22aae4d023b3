package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tiendaonline-web/internal/core/auth"
	"tiendaonline-web/internal/core/session"
	"tiendaonline-web/internal/domain"
	mdw "tiendaonline-web/internal/transport/http/middleware"
	resp "tiendaonline-web/internal/transport/http/response"
)

const LoginPage = "/login.html"

// 登录成功后按角色跳转
var landingPages = map[string]string{
	domain.RoleOwner:            "/owner.html",
	domain.RoleGestorInventario: "/gestor.html",
	domain.RoleVendedor:         "/vendedor.html",
	domain.RoleCliente:          "/cliente.html",
}

// LandingPage 未知角色回登录页
func LandingPage(role string) string {
	if p, ok := landingPages[strings.ToUpper(role)]; ok {
		return p
	}
	return LoginPage
}

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.Identity, error)
}

type CookieOptions struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	svc    Authenticator
	store  session.Store
	signer *auth.Signer
	cookie CookieOptions
	log    *zap.Logger
}

func NewAuthHandler(svc Authenticator, store session.Store, signer *auth.Signer, cookie CookieOptions, l *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, store: store, signer: signer, cookie: cookie, log: l}
}

// Login POST /login（表单 email + password）
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := h.svc.Login(ctx, c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, ""))
		return
	}
	if id == nil {
		c.String(http.StatusUnauthorized, resp.MsgBadCredentials)
		return
	}

	// 已有会话先作废，避免会话固定
	if old := mdw.CurrentSID(c); old != "" {
		_ = h.store.Destroy(ctx, old)
	}
	sid, err := h.store.Create(ctx, *id)
	if err != nil {
		h.log.Error("session create failed", zap.Int("user_id", id.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, ""))
		return
	}
	token, err := h.signer.Sign(sid, id.RoleName)
	if err != nil {
		_ = h.store.Destroy(ctx, sid)
		h.log.Error("session token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, ""))
		return
	}

	h.setCookie(c, token, h.store.TTL())
	h.log.Info("login ok", zap.Int("user_id", id.ID), zap.String("role", id.RoleName))
	c.Redirect(http.StatusFound, LandingPage(id.RoleName))
}

// Logout GET /logout，未登录也直接跳回登录页
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid := mdw.CurrentSID(c); sid != "" {
		if err := h.store.Destroy(c.Request.Context(), sid); err != nil {
			h.log.Warn("session destroy failed", zap.Error(err))
		}
	}
	h.setCookie(c, "", -time.Second)
	c.Redirect(http.StatusFound, LoginPage)
}

// Me GET /api/me
func (h *AuthHandler) Me(c *gin.Context, _ *struct{}) (domain.Identity, error) {
	return *mdw.CurrentIdentity(c), nil
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, ttl time.Duration) {
	maxAge := int(ttl / time.Second)
	if ttl < 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
