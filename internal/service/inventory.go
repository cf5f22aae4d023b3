package service

import (
	"context"

	"go.uber.org/zap"

	"tiendaonline-web/internal/domain"
)

type InventoryService struct {
	products domain.ProductRepository
	log      *zap.Logger
}

func NewInventoryService(products domain.ProductRepository, l *zap.Logger) *InventoryService {
	return &InventoryService{products: products, log: l}
}

// GetCatalog 返回可展示的商品目录
func (s *InventoryService) GetCatalog(ctx context.Context) ([]domain.Product, error) {
	list, err := s.products.ListCatalog(ctx)
	if err != nil {
		s.log.Error("catalog query failed", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *InventoryService) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		s.log.Error("product query failed", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
