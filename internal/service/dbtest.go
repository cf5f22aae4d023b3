package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"tiendaonline-web/internal/domain"
	"tiendaonline-web/internal/repo"
)

const (
	spRegistrarProducto        = "sp_RegistrarProducto"
	spRegistrarEntrada         = "sp_RegistrarEntradaInventario"
	spRegistrarVentaSimple     = "sp_RegistrarVentaSimple"
	spRevisarInventarioAntiguo = "sp_RevisarInventarioEnvejecido"
)

var dbtestRuns = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "dbtest_runs_total", Help: "Stored procedure demo runs"},
	[]string{"procedure", "outcome"},
)

func init() { prometheus.MustRegister(dbtestRuns) }

// Procedures 由 repo.ProcedureRepo 实现
type Procedures interface {
	FirstProductID(ctx context.Context) (int, error)
	RegisterProduct(ctx context.Context, p repo.NewProduct) error
	RegisterInventoryEntry(ctx context.Context, e repo.InventoryEntry) error
	RegisterSimpleSale(ctx context.Context, s repo.SimpleSale) error
	ReviewAgedInventory(ctx context.Context, discountPct float64, days int) error
}

type DemoParams struct {
	ClientEmail      string
	Warehouse        string
	AgingDiscountPct float64
	AgingDays        int
}

func DefaultDemoParams() DemoParams {
	return DemoParams{
		ClientEmail:      "cliente@tienda.local",
		Warehouse:        "Bodega Central - WebTest",
		AgingDiscountPct: 20.0,
		AgingDays:        60,
	}
}

// DBTestService 每个方法对应页面上的一个"测试按钮"，结果以可读文本返回，错误不向上抛。
type DBTestService struct {
	procs  Procedures
	users  domain.UserRepository
	params DemoParams
	log    *zap.Logger
	now    func() time.Time
}

func NewDBTestService(procs Procedures, users domain.UserRepository, p DemoParams, l *zap.Logger) *DBTestService {
	d := DefaultDemoParams()
	if p.ClientEmail == "" {
		p.ClientEmail = d.ClientEmail
	}
	if p.Warehouse == "" {
		p.Warehouse = d.Warehouse
	}
	if p.AgingDiscountPct <= 0 {
		p.AgingDiscountPct = d.AgingDiscountPct
	}
	if p.AgingDays <= 0 {
		p.AgingDays = d.AgingDays
	}
	return &DBTestService{procs: procs, users: users, params: p, log: l, now: time.Now}
}

// today 与 DATE 列对应，只保留日期
func (s *DBTestService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func (s *DBTestService) RunDemoRegisterProduct(ctx context.Context) string {
	err := s.procs.RegisterProduct(ctx, repo.NewProduct{
		Name:            "Blazer Demo Web",
		Size:            "M",
		Color:           "Negro",
		Style:           "Formal",
		Price:           45990.0,
		ImageURL:        "/images/blazer_demo_web.jpg",
		InitialQuantity: 5,
		EntryDate:       s.today(),
		Warehouse:       s.params.Warehouse,
	})
	if err != nil {
		return s.failed(spRegistrarProducto, err)
	}
	s.succeeded(spRegistrarProducto)
	return "sp_RegistrarProducto ejecutado correctamente desde la web."
}

func (s *DBTestService) RunDemoInventoryEntry(ctx context.Context) string {
	productID, err := s.procs.FirstProductID(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return "No hay productos para probar la entrada de inventario."
	}
	if err != nil {
		return s.failed(spRegistrarEntrada, err)
	}

	err = s.procs.RegisterInventoryEntry(ctx, repo.InventoryEntry{
		ProductID: productID,
		Quantity:  3,
		EntryDate: s.today(),
		Warehouse: s.params.Warehouse,
	})
	if err != nil {
		return s.failed(spRegistrarEntrada, err)
	}
	s.succeeded(spRegistrarEntrada, zap.Int("product_id", productID))
	return fmt.Sprintf("sp_RegistrarEntradaInventario ejecutado correctamente para producto %d.", productID)
}

func (s *DBTestService) RunDemoSale(ctx context.Context, clientID int) string {
	productID, err := s.procs.FirstProductID(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return "No hay productos para probar la venta."
	}
	if err != nil {
		return s.failed(spRegistrarVentaSimple, err)
	}

	err = s.procs.RegisterSimpleSale(ctx, repo.SimpleSale{
		ClientID:      clientID,
		Channel:       "web",
		PaymentMethod: "Tarjeta",
		ProductID:     productID,
		Quantity:      1,
	})
	if err != nil {
		return s.failed(spRegistrarVentaSimple, err)
	}
	s.succeeded(spRegistrarVentaSimple, zap.Int("product_id", productID), zap.Int("client_id", clientID))
	return fmt.Sprintf("sp_RegistrarVentaSimple ejecutado correctamente para producto %d.", productID)
}

// RunDemoSaleForDemoClient 先找演示客户（seed 数据里的 cliente@tienda.local）再下单
func (s *DBTestService) RunDemoSaleForDemoClient(ctx context.Context) string {
	clientID, err := s.users.FindIDByEmail(ctx, s.params.ClientEmail)
	if errors.Is(err, domain.ErrNotFound) {
		err = fmt.Errorf("Cliente demo %s no encontrado.", s.params.ClientEmail)
	}
	if err != nil {
		s.log.Warn("demo client lookup failed", zap.String("email", s.params.ClientEmail), zap.Error(err))
		return "No se pudo localizar cliente demo: " + err.Error()
	}
	return s.RunDemoSale(ctx, clientID)
}

func (s *DBTestService) RunDemoAgingReview(ctx context.Context) string {
	if err := s.procs.ReviewAgedInventory(ctx, s.params.AgingDiscountPct, s.params.AgingDays); err != nil {
		return s.failed(spRevisarInventarioAntiguo, err)
	}
	s.succeeded(spRevisarInventarioAntiguo)
	return "sp_RevisarInventarioEnvejecido ejecutado correctamente."
}

func (s *DBTestService) failed(sp string, err error) string {
	dbtestRuns.WithLabelValues(sp, "error").Inc()
	s.log.Error("stored procedure failed", zap.String("procedure", sp), zap.Error(err))
	return "Error al ejecutar " + sp + ": " + err.Error()
}

func (s *DBTestService) succeeded(sp string, fields ...zap.Field) {
	dbtestRuns.WithLabelValues(sp, "ok").Inc()
	s.log.Info("stored procedure executed", append(fields, zap.String("procedure", sp))...)
}
