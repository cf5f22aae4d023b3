package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	resp "tiendaonline-web/internal/transport/http/response"
)

// DBTests 执行结果总是一段文本（失败也不返回 error）
type DBTests interface {
	RunDemoRegisterProduct(ctx context.Context) string
	RunDemoInventoryEntry(ctx context.Context) string
	RunDemoSaleForDemoClient(ctx context.Context) string
	RunDemoAgingReview(ctx context.Context) string
}

type DBTestHandler struct{ svc DBTests }

func NewDBTestHandler(svc DBTests) *DBTestHandler { return &DBTestHandler{svc: svc} }

func (h *DBTestHandler) RegisterProduct(c *gin.Context, _ *struct{}) (resp.Message, error) {
	return resp.Msg(h.svc.RunDemoRegisterProduct(c.Request.Context())), nil
}

func (h *DBTestHandler) InventoryEntry(c *gin.Context, _ *struct{}) (resp.Message, error) {
	return resp.Msg(h.svc.RunDemoInventoryEntry(c.Request.Context())), nil
}

func (h *DBTestHandler) DemoSale(c *gin.Context, _ *struct{}) (resp.Message, error) {
	return resp.Msg(h.svc.RunDemoSaleForDemoClient(c.Request.Context())), nil
}

func (h *DBTestHandler) AgingReview(c *gin.Context, _ *struct{}) (resp.Message, error) {
	return resp.Msg(h.svc.RunDemoAgingReview(c.Request.Context())), nil
}
