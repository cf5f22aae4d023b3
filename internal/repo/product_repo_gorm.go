package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tiendaonline-web/internal/domain"
	"tiendaonline-web/internal/feature/catalog"
)

var _ domain.ProductRepository = (*ProductRepo)(nil)

var (
	sqlCatalog     = "SELECT " + catalog.Columns + " FROM " + catalog.View
	sqlCatalogByID = sqlCatalog + " WHERE codigo_producto = ?"
)

// ProductRepo 只读视图 dbo.v_CatalogoProductos
type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) ListCatalog(ctx context.Context) ([]domain.Product, error) {
	var rows []catalog.ViewRow
	if err := r.db.WithContext(ctx).Raw(sqlCatalog).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Product())
	}
	return out, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	var row catalog.ViewRow
	tx := r.db.WithContext(ctx).Raw(sqlCatalogByID, id).Scan(&row)
	if tx.Error != nil {
		return nil, fmt.Errorf("find product %d: %w", id, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}
	p := row.Product()
	return &p, nil
}
