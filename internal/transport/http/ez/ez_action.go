package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	mdw "tiendaonline-web/internal/transport/http/middleware"
	resp "tiendaonline-web/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindNone  Binder = "none"
	BindQuery Binder = "query"
	BindURI   Binder = "uri"  // 路径参数，如 /:id
	BindForm  Binder = "form" // application/x-www-form-urlencoded
)

// AErr 带 HTTP 状态码的错误；Msg 为空时用状态码默认文案
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func NotFound(msg string) error   { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Action 一个接口一条定义：I 入参，O 出参（原样序列化为 JSON）
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Auth    bool     // 要求已登录
	Roles   []string // 限定角色，OWNER 总是放行；非空时隐含 Auth
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth || len(a.Roles) > 0 {
			id := mdw.CurrentIdentity(c)
			if id == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, ""))
				return
			}
			if !id.HasAnyRole(a.Roles...) {
				c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(http.StatusForbidden, ""))
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindURI:
			bindErr = c.ShouldBindUri(&in)
		case BindForm:
			bindErr = c.ShouldBind(&in)
		}
		if bindErr != nil {
			c.JSON(http.StatusBadRequest, resp.Error(http.StatusBadRequest, ""))
			return
		}

		// 3) 执行 + 错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			var ae *AErr
			if errors.As(err, &ae) {
				if ae.Err != nil {
					_ = c.Error(ae.Err)
				}
				c.JSON(ae.Code, resp.Error(ae.Code, ae.Msg))
				return
			}
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, ""))
			return
		}
		c.JSON(http.StatusOK, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
