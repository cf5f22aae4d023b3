package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "tiendaonline-web/internal/transport/http/response"
)

// MaxBodyBytes 声明长度超限直接 413；未声明长度的（chunked）读取时截断
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.Header("Connection", "close")
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(http.StatusRequestEntityTooLarge, ""))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
