package repository

import (
	"context"

	"gyscontrol/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdjuntoRepository interface {
	Create(ctx context.Context, a *model.Adjunto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Adjunto, error)
	ListPorHoja(ctx context.Context, hojaID uuid.UUID) ([]model.Adjunto, error)
	ListPorLinea(ctx context.Context, lineaID uuid.UUID) ([]model.Adjunto, error)
	ListPorCuentaPagar(ctx context.Context, cuentaID uuid.UUID) ([]model.Adjunto, error)
	ListPorOrdenCompra(ctx context.Context, ordenID uuid.UUID) ([]model.Adjunto, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type adjuntoRepo struct{ db *gorm.DB }

func NewAdjuntoRepository(db *gorm.DB) AdjuntoRepository { return &adjuntoRepo{db: db} }

func (r *adjuntoRepo) Create(ctx context.Context, a *model.Adjunto) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *adjuntoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Adjunto, error) {
	var a model.Adjunto
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *adjuntoRepo) ListPorHoja(ctx context.Context, hojaID uuid.UUID) ([]model.Adjunto, error) {
	var adjuntos []model.Adjunto
	err := r.db.WithContext(ctx).Where("hoja_gastos_id = ?", hojaID).Order("created_at ASC").Find(&adjuntos).Error
	return adjuntos, err
}

func (r *adjuntoRepo) ListPorLinea(ctx context.Context, lineaID uuid.UUID) ([]model.Adjunto, error) {
	var adjuntos []model.Adjunto
	err := r.db.WithContext(ctx).Where("gasto_linea_id = ?", lineaID).Find(&adjuntos).Error
	return adjuntos, err
}

func (r *adjuntoRepo) ListPorCuentaPagar(ctx context.Context, cuentaID uuid.UUID) ([]model.Adjunto, error) {
	var adjuntos []model.Adjunto
	err := r.db.WithContext(ctx).Where("cuenta_pagar_id = ?", cuentaID).Find(&adjuntos).Error
	return adjuntos, err
}

func (r *adjuntoRepo) ListPorOrdenCompra(ctx context.Context, ordenID uuid.UUID) ([]model.Adjunto, error) {
	var adjuntos []model.Adjunto
	err := r.db.WithContext(ctx).Where("orden_compra_id = ?", ordenID).Find(&adjuntos).Error
	return adjuntos, err
}

func (r *adjuntoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Adjunto{}, id).Error
}
