package repository

import (
	"context"

	"gyscontrol/internal/dto"
	"gyscontrol/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HojaGastosRepository covers the CRUD side of expense sheets. Lifecycle
// transitions never go through here; they only enter via workflow.Ejecutor.
type HojaGastosRepository interface {
	Create(ctx context.Context, h *model.HojaGastos) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.HojaGastos, error)
	List(ctx context.Context, filter dto.HojaGastosFilter) ([]model.HojaGastos, int64, error)
	Update(ctx context.Context, h *model.HojaGastos) error
	SiguienteCorrelativo(ctx context.Context) (int64, error)

	CreateLinea(ctx context.Context, l *model.GastoLinea) error
	FindLineaByID(ctx context.Context, id uuid.UUID) (*model.GastoLinea, error)
	ListLineas(ctx context.Context, hojaID uuid.UUID) ([]model.GastoLinea, error)
	UpdateLinea(ctx context.Context, l *model.GastoLinea) error
	DeleteLinea(ctx context.Context, id uuid.UUID) error

	CreateAnticipo(ctx context.Context, a *model.Anticipo) error
	FindAnticipoByID(ctx context.Context, id uuid.UUID) (*model.Anticipo, error)
	UpdateAnticipoTx(tx *gorm.DB, a *model.Anticipo) error
	FindAnticipoForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Anticipo, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type hojaGastosRepo struct{ db *gorm.DB }

func NewHojaGastosRepository(db *gorm.DB) HojaGastosRepository { return &hojaGastosRepo{db: db} }

func (r *hojaGastosRepo) Create(ctx context.Context, h *model.HojaGastos) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *hojaGastosRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.HojaGastos, error) {
	var h model.HojaGastos
	err := r.db.WithContext(ctx).Preload("Lineas").First(&h, id).Error
	return &h, err
}

func (r *hojaGastosRepo) List(ctx context.Context, filter dto.HojaGastosFilter) ([]model.HojaGastos, int64, error) {
	var hojas []model.HojaGastos
	var total int64

	q := r.db.WithContext(ctx).Model(&model.HojaGastos{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ProyectoID != "" {
		q = q.Where("proyecto_id = ?", filter.ProyectoID)
	}
	if filter.SolicitanteID != "" {
		q = q.Where("solicitante_id = ?", filter.SolicitanteID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&hojas).Error
	return hojas, total, err
}

func (r *hojaGastosRepo) Update(ctx context.Context, h *model.HojaGastos) error {
	return r.db.WithContext(ctx).Save(h).Error
}

// SiguienteCorrelativo takes the next value of the HG-XXXX sequence.
func (r *hojaGastosRepo) SiguienteCorrelativo(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('hojas_gastos_codigo_seq')").Scan(&n).Error
	return n, err
}

func (r *hojaGastosRepo) CreateLinea(ctx context.Context, l *model.GastoLinea) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *hojaGastosRepo) FindLineaByID(ctx context.Context, id uuid.UUID) (*model.GastoLinea, error) {
	var l model.GastoLinea
	err := r.db.WithContext(ctx).First(&l, id).Error
	return &l, err
}

func (r *hojaGastosRepo) ListLineas(ctx context.Context, hojaID uuid.UUID) ([]model.GastoLinea, error) {
	var lineas []model.GastoLinea
	err := r.db.WithContext(ctx).Where("hoja_gastos_id = ?", hojaID).Order("fecha ASC").Find(&lineas).Error
	return lineas, err
}

func (r *hojaGastosRepo) UpdateLinea(ctx context.Context, l *model.GastoLinea) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *hojaGastosRepo) DeleteLinea(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.GastoLinea{}, id).Error
}

func (r *hojaGastosRepo) CreateAnticipo(ctx context.Context, a *model.Anticipo) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *hojaGastosRepo) FindAnticipoByID(ctx context.Context, id uuid.UUID) (*model.Anticipo, error) {
	var a model.Anticipo
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

// Anticipo liquidation runs inside the same tx as the hoja transition, so the
// repo exposes tx-scoped variants.
func (r *hojaGastosRepo) FindAnticipoForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Anticipo, error) {
	var a model.Anticipo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, id).Error
	return &a, err
}

func (r *hojaGastosRepo) UpdateAnticipoTx(tx *gorm.DB, a *model.Anticipo) error {
	return tx.Save(a).Error
}

func (r *hojaGastosRepo) DB() *gorm.DB { return r.db }
