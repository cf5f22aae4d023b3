package catalog

import (
	"database/sql"

	"tiendaonline-web/internal/domain"
)

// ViewRow 视图 dbo.v_CatalogoProductos 的列；可空列按 NULL → 零值处理
type ViewRow struct {
	CodigoProducto     int             `gorm:"column:codigo_producto"`
	Nombre             string          `gorm:"column:nombre"`
	Talla              sql.NullString  `gorm:"column:talla"`
	Color              sql.NullString  `gorm:"column:color"`
	Estilo             sql.NullString  `gorm:"column:estilo"`
	PrecioVenta        float64         `gorm:"column:precio_venta"`
	ImagenURL          sql.NullString  `gorm:"column:imagen_url"`
	StockTotal         sql.NullInt64   `gorm:"column:stock_total"`
	DescuentoPctActivo sql.NullFloat64 `gorm:"column:descuento_pct_activo"`
	PrecioConDescuento sql.NullFloat64 `gorm:"column:precio_con_descuento"`
}

// Columns SELECT 列表，顺序与视图定义一致
const Columns = "codigo_producto, nombre, talla, color, estilo, precio_venta, imagen_url, stock_total, descuento_pct_activo, precio_con_descuento"

const View = "dbo.v_CatalogoProductos"

func (r ViewRow) Product() domain.Product {
	p := domain.Product{
		ID:                    r.CodigoProducto,
		Name:                  r.Nombre,
		Size:                  r.Talla.String,
		Color:                 r.Color.String,
		Style:                 r.Estilo.String,
		Price:                 r.PrecioVenta,
		ImageURL:              r.ImagenURL.String,
		Stock:                 int(r.StockTotal.Int64),
		ActiveDiscountPercent: r.DescuentoPctActivo.Float64,
		FinalPrice:            r.PrecioVenta,
	}
	if r.PrecioConDescuento.Valid {
		p.FinalPrice = r.PrecioConDescuento.Float64
	}
	return p
}
