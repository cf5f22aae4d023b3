package catalog

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewRow_Product(t *testing.T) {
	row := ViewRow{
		CodigoProducto:     1,
		Nombre:             "Blazer Demo",
		Talla:              sql.NullString{String: "M", Valid: true},
		Color:              sql.NullString{String: "Negro", Valid: true},
		Estilo:             sql.NullString{String: "Formal", Valid: true},
		PrecioVenta:        45990.0,
		ImagenURL:          sql.NullString{String: "/images/blazer.jpg", Valid: true},
		StockTotal:         sql.NullInt64{Int64: 5, Valid: true},
		DescuentoPctActivo: sql.NullFloat64{Float64: 20, Valid: true},
		PrecioConDescuento: sql.NullFloat64{Float64: 36792.0, Valid: true},
	}
	p := row.Product()

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Blazer Demo", p.Name)
	assert.Equal(t, "M", p.Size)
	assert.Equal(t, "Negro", p.Color)
	assert.Equal(t, "Formal", p.Style)
	assert.InDelta(t, 45990.0, p.Price, 1e-9)
	assert.Equal(t, "/images/blazer.jpg", p.ImageURL)
	assert.Equal(t, 5, p.Stock)
	assert.InDelta(t, 20.0, p.ActiveDiscountPercent, 1e-9)
	assert.InDelta(t, 36792.0, p.FinalPrice, 1e-9)
}

func TestViewRow_NullsBecomeZero(t *testing.T) {
	p := ViewRow{CodigoProducto: 7, Nombre: "Camisa", PrecioVenta: 9990}.Product()

	assert.Empty(t, p.Size)
	assert.Empty(t, p.ImageURL)
	assert.Zero(t, p.Stock)
	assert.Zero(t, p.ActiveDiscountPercent)
	// 没有折扣价时最终价等于售价
	assert.InDelta(t, 9990.0, p.FinalPrice, 1e-9)
}
