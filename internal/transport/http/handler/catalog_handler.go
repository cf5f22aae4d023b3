package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"tiendaonline-web/internal/domain"
	httpez "tiendaonline-web/internal/transport/http/ez"
)

const msgCatalogFailed = "No se pudo obtener el catálogo"

type Catalog interface {
	GetCatalog(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
}

type CatalogHandler struct{ svc Catalog }

func NewCatalogHandler(svc Catalog) *CatalogHandler { return &CatalogHandler{svc: svc} }

// List GET /api/catalogo
func (h *CatalogHandler) List(c *gin.Context, _ *struct{}) ([]domain.Product, error) {
	list, err := h.svc.GetCatalog(c.Request.Context())
	if err != nil {
		return nil, httpez.Internal(msgCatalogFailed, err)
	}
	if list == nil {
		list = []domain.Product{}
	}
	return list, nil
}

type ProductIDIn struct {
	ID int `uri:"id" binding:"required,min=1"`
}

// Get GET /api/catalogo/:id
func (h *CatalogHandler) Get(c *gin.Context, in *ProductIDIn) (*domain.Product, error) {
	p, err := h.svc.GetProduct(c.Request.Context(), in.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httpez.NotFound("")
	}
	if err != nil {
		return nil, httpez.Internal(msgCatalogFailed, err)
	}
	return p, nil
}
