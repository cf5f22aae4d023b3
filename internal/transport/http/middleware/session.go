package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tiendaonline-web/internal/core/auth"
	"tiendaonline-web/internal/core/session"
	"tiendaonline-web/internal/domain"
)

const (
	ctxKeyIdentity = "identity"
	ctxKeySID      = "sid"
)

// LoadSession 从 cookie 还原会话身份。失败时按匿名继续，由具体路由决定 401。
func LoadSession(store session.Store, signer *auth.Signer, cookieName string, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}
		claims, err := signer.Verify(raw)
		if err != nil {
			l.Debug("session cookie rejected", zap.Error(err))
			c.Next()
			return
		}
		sid := claims.SessionID()
		id, err := store.Get(c.Request.Context(), sid)
		switch {
		case errors.Is(err, session.ErrNotFound):
		case err != nil:
			l.Warn("session store unavailable", zap.Error(err))
		default:
			c.Set(ctxKeyIdentity, id)
			c.Set(ctxKeySID, sid)
		}
		c.Next()
	}
}

// CurrentIdentity 未登录返回 nil
func CurrentIdentity(c *gin.Context) *domain.Identity {
	v, ok := c.Get(ctxKeyIdentity)
	if !ok {
		return nil
	}
	id, _ := v.(*domain.Identity)
	return id
}

func CurrentSID(c *gin.Context) string { return c.GetString(ctxKeySID) }
