package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tiendaonline-web/internal/domain"
)

// 存储过程调用：参数名与顺序是与数据库的契约；"@x = ?" 中的空格不能省（gorm 命名参数解析）。
const (
	sqlFirstProduct = "SELECT TOP(1) codigo_producto FROM dbo.productos ORDER BY codigo_producto"

	sqlRegistrarProducto = "EXEC dbo.sp_RegistrarProducto " +
		"@nombre = ?, @talla = ?, @color = ?, @estilo = ?, " +
		"@precio_venta = ?, @imagen_url = ?, @cantidad_inicial = ?, " +
		"@fecha_ingreso = ?, @ubicacion_bodega = ?, @codigo_producto_out = ?"

	sqlEntradaInventario = "EXEC dbo.sp_RegistrarEntradaInventario " +
		"@codigo_producto = ?, @cantidad = ?, @fecha_ingreso = ?, @ubicacion_bodega = ?"

	sqlVentaSimple = "EXEC dbo.sp_RegistrarVentaSimple " +
		"@id_usuario_cliente = ?, @canal = ?, @metodo_pago = ?, " +
		"@codigo_producto = ?, @cantidad = ?"

	sqlRevisarEnvejecido = "EXEC dbo.sp_RevisarInventarioEnvejecido " +
		"@descuento_por_defecto = ?, @dias_en_bodega = ?"
)

type NewProduct struct {
	Name            string
	Size            string
	Color           string
	Style           string
	Price           float64
	ImageURL        string
	InitialQuantity int
	EntryDate       time.Time
	Warehouse       string
}

type InventoryEntry struct {
	ProductID int
	Quantity  int
	EntryDate time.Time
	Warehouse string
}

type SimpleSale struct {
	ClientID      int
	Channel       string
	PaymentMethod string
	ProductID     int
	Quantity      int
}

// ProcedureRepo EXEC 的错误原样返回，调用方要把驱动的报错文本展示给用户。
type ProcedureRepo struct{ db *gorm.DB }

func NewProcedureRepo(db *gorm.DB) *ProcedureRepo { return &ProcedureRepo{db: db} }

// FirstProductID 按 codigo_producto 升序取第一个；没有产品返回 domain.ErrNotFound
func (r *ProcedureRepo) FirstProductID(ctx context.Context) (int, error) {
	var ids []int
	if err := r.db.WithContext(ctx).Raw(sqlFirstProduct).Scan(&ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, domain.ErrNotFound
	}
	return ids[0], nil
}

func (r *ProcedureRepo) RegisterProduct(ctx context.Context, p NewProduct) error {
	return r.db.WithContext(ctx).Exec(sqlRegistrarProducto,
		p.Name, p.Size, p.Color, p.Style,
		p.Price, p.ImageURL, p.InitialQuantity,
		p.EntryDate, p.Warehouse,
		0, // OUTPUT 参数，这里不读取
	).Error
}

func (r *ProcedureRepo) RegisterInventoryEntry(ctx context.Context, e InventoryEntry) error {
	return r.db.WithContext(ctx).Exec(sqlEntradaInventario,
		e.ProductID, e.Quantity, e.EntryDate, e.Warehouse,
	).Error
}

func (r *ProcedureRepo) RegisterSimpleSale(ctx context.Context, s SimpleSale) error {
	return r.db.WithContext(ctx).Exec(sqlVentaSimple,
		s.ClientID, s.Channel, s.PaymentMethod, s.ProductID, s.Quantity,
	).Error
}

func (r *ProcedureRepo) ReviewAgedInventory(ctx context.Context, discountPct float64, days int) error {
	if days <= 0 {
		return fmt.Errorf("dias_en_bodega must be positive, got %d", days)
	}
	return r.db.WithContext(ctx).Exec(sqlRevisarEnvejecido, discountPct, days).Error
}
