package repository

import (
	"context"

	"gyscontrol/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BancoRepository interface {
	CreateCuenta(ctx context.Context, c *model.CuentaBancaria) error
	FindCuentaByID(ctx context.Context, id uuid.UUID) (*model.CuentaBancaria, error)
	ListCuentas(ctx context.Context) ([]model.CuentaBancaria, error)
	UpdateCuenta(ctx context.Context, c *model.CuentaBancaria) error

	// Movimientos are append-only: the ledger is the source of truth for the
	// saldo, and saldo updates ride the same tx as the movimiento insert.
	FindCuentaForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.CuentaBancaria, error)
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoBancario) error
	UpdateSaldoTx(tx *gorm.DB, c *model.CuentaBancaria) error
	ListMovimientos(ctx context.Context, cuentaID uuid.UUID) ([]model.MovimientoBancario, error)

	DB() *gorm.DB
}

type bancoRepo struct{ db *gorm.DB }

func NewBancoRepository(db *gorm.DB) BancoRepository { return &bancoRepo{db: db} }

func (r *bancoRepo) CreateCuenta(ctx context.Context, c *model.CuentaBancaria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *bancoRepo) FindCuentaByID(ctx context.Context, id uuid.UUID) (*model.CuentaBancaria, error) {
	var c model.CuentaBancaria
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *bancoRepo) ListCuentas(ctx context.Context) ([]model.CuentaBancaria, error) {
	var cuentas []model.CuentaBancaria
	err := r.db.WithContext(ctx).Where("activa = true").Order("banco ASC").Find(&cuentas).Error
	return cuentas, err
}

func (r *bancoRepo) UpdateCuenta(ctx context.Context, c *model.CuentaBancaria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *bancoRepo) FindCuentaForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.CuentaBancaria, error) {
	var c model.CuentaBancaria
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error
	return &c, err
}

func (r *bancoRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoBancario) error {
	return tx.Create(m).Error
}

func (r *bancoRepo) UpdateSaldoTx(tx *gorm.DB, c *model.CuentaBancaria) error {
	return tx.Model(&model.CuentaBancaria{}).Where("id = ?", c.ID).Update("saldo_actual", c.SaldoActual).Error
}

func (r *bancoRepo) ListMovimientos(ctx context.Context, cuentaID uuid.UUID) ([]model.MovimientoBancario, error) {
	var movs []model.MovimientoBancario
	err := r.db.WithContext(ctx).Where("cuenta_bancaria_id = ?", cuentaID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *bancoRepo) DB() *gorm.DB { return r.db }
