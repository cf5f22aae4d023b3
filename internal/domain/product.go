package domain

import "context"

// Product 对应视图 dbo.v_CatalogoProductos 的一行
type Product struct {
	ID                    int     `json:"id"`
	Name                  string  `json:"name"`
	Size                  string  `json:"size"`
	Color                 string  `json:"color"`
	Style                 string  `json:"style"`
	Price                 float64 `json:"price"`
	ImageURL              string  `json:"imageUrl"`
	Stock                 int     `json:"stock"`
	ActiveDiscountPercent float64 `json:"activeDiscountPercent"`
	FinalPrice            float64 `json:"finalPrice"`
}

type ProductRepository interface {
	ListCatalog(ctx context.Context) ([]Product, error)
	// FindByID 查不到返回 (nil, nil)
	FindByID(ctx context.Context, id int) (*Product, error)
}
