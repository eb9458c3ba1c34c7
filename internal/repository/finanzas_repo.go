package repository

import (
	"context"

	"gyscontrol/internal/dto"
	"gyscontrol/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FinanzasRepository agrupa cuentas por cobrar y por pagar; ambas comparten el
// mismo patrón de documento con pagos hijos inmutables.
type FinanzasRepository interface {
	CreateCuentaCobrar(ctx context.Context, c *model.CuentaCobrar) error
	FindCuentaCobrarByID(ctx context.Context, id uuid.UUID) (*model.CuentaCobrar, error)
	ListCuentasCobrar(ctx context.Context, filter dto.CuentaFilter) ([]model.CuentaCobrar, int64, error)
	// ListCobrarPendientes returns every receivable still holding saldo,
	// regardless of estado page filters. Feeds the aging report.
	ListCobrarPendientes(ctx context.Context) ([]model.CuentaCobrar, error)
	SiguienteCorrelativoCobrar(ctx context.Context) (int64, error)

	CreatePagoTx(tx *gorm.DB, p *model.PagoCobranza) error
	ListPagos(ctx context.Context, cuentaCobrarID uuid.UUID) ([]model.PagoCobranza, error)

	CreateCuentaPagar(ctx context.Context, c *model.CuentaPagar) error
	FindCuentaPagarByID(ctx context.Context, id uuid.UUID) (*model.CuentaPagar, error)
	ListCuentasPagar(ctx context.Context, filter dto.CuentaFilter) ([]model.CuentaPagar, int64, error)
	SiguienteCorrelativoPagar(ctx context.Context) (int64, error)

	DB() *gorm.DB
}

type finanzasRepo struct{ db *gorm.DB }

func NewFinanzasRepository(db *gorm.DB) FinanzasRepository { return &finanzasRepo{db: db} }

func (r *finanzasRepo) CreateCuentaCobrar(ctx context.Context, c *model.CuentaCobrar) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *finanzasRepo) FindCuentaCobrarByID(ctx context.Context, id uuid.UUID) (*model.CuentaCobrar, error) {
	var c model.CuentaCobrar
	err := r.db.WithContext(ctx).Preload("Pagos").First(&c, id).Error
	return &c, err
}

func (r *finanzasRepo) ListCuentasCobrar(ctx context.Context, filter dto.CuentaFilter) ([]model.CuentaCobrar, int64, error) {
	var cuentas []model.CuentaCobrar
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CuentaCobrar{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ProyectoID != "" {
		q = q.Where("proyecto_id = ?", filter.ProyectoID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("fecha_vencimiento ASC").Limit(filter.Limit).Offset(offset).Find(&cuentas).Error
	return cuentas, total, err
}

func (r *finanzasRepo) ListCobrarPendientes(ctx context.Context) ([]model.CuentaCobrar, error) {
	var cuentas []model.CuentaCobrar
	err := r.db.WithContext(ctx).
		Where("estado IN ('emitida', 'parcial') AND saldo > 0").
		Order("fecha_vencimiento ASC").
		Find(&cuentas).Error
	return cuentas, err
}

func (r *finanzasRepo) SiguienteCorrelativoCobrar(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('cuentas_cobrar_codigo_seq')").Scan(&n).Error
	return n, err
}

// CreatePagoTx inserts the payment row inside the transition's transaction so
// the recomputed saldo always matches the ledger.
func (r *finanzasRepo) CreatePagoTx(tx *gorm.DB, p *model.PagoCobranza) error {
	return tx.Create(p).Error
}

func (r *finanzasRepo) ListPagos(ctx context.Context, cuentaCobrarID uuid.UUID) ([]model.PagoCobranza, error) {
	var pagos []model.PagoCobranza
	err := r.db.WithContext(ctx).Where("cuenta_cobrar_id = ?", cuentaCobrarID).Order("created_at ASC").Find(&pagos).Error
	return pagos, err
}

func (r *finanzasRepo) CreateCuentaPagar(ctx context.Context, c *model.CuentaPagar) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *finanzasRepo) FindCuentaPagarByID(ctx context.Context, id uuid.UUID) (*model.CuentaPagar, error) {
	var c model.CuentaPagar
	err := r.db.WithContext(ctx).Preload("Adjuntos").First(&c, id).Error
	return &c, err
}

func (r *finanzasRepo) ListCuentasPagar(ctx context.Context, filter dto.CuentaFilter) ([]model.CuentaPagar, int64, error) {
	var cuentas []model.CuentaPagar
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CuentaPagar{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("fecha_vencimiento ASC").Limit(filter.Limit).Offset(offset).Find(&cuentas).Error
	return cuentas, total, err
}

func (r *finanzasRepo) SiguienteCorrelativoPagar(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('cuentas_pagar_codigo_seq')").Scan(&n).Error
	return n, err
}

func (r *finanzasRepo) DB() *gorm.DB { return r.db }
