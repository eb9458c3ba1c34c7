package repository

import (
	"context"
	"time"

	"gyscontrol/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HorasRepository interface {
	Create(ctx context.Context, rh *model.RegistroHoras) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RegistroHoras, error)
	Update(ctx context.Context, rh *model.RegistroHoras) error
	ListPorColaborador(ctx context.Context, colaboradorID uuid.UUID, desde, hasta time.Time) ([]model.RegistroHoras, error)
	ListPorProyecto(ctx context.Context, proyectoID uuid.UUID, desde, hasta time.Time) ([]model.RegistroHoras, error)
	ListPendientes(ctx context.Context) ([]model.RegistroHoras, error)
}

type horasRepo struct{ db *gorm.DB }

func NewHorasRepository(db *gorm.DB) HorasRepository { return &horasRepo{db: db} }

func (r *horasRepo) Create(ctx context.Context, rh *model.RegistroHoras) error {
	return r.db.WithContext(ctx).Create(rh).Error
}

func (r *horasRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.RegistroHoras, error) {
	var rh model.RegistroHoras
	err := r.db.WithContext(ctx).First(&rh, id).Error
	return &rh, err
}

func (r *horasRepo) Update(ctx context.Context, rh *model.RegistroHoras) error {
	return r.db.WithContext(ctx).Save(rh).Error
}

func (r *horasRepo) ListPorColaborador(ctx context.Context, colaboradorID uuid.UUID, desde, hasta time.Time) ([]model.RegistroHoras, error) {
	var registros []model.RegistroHoras
	err := r.db.WithContext(ctx).
		Where("colaborador_id = ? AND fecha >= ? AND fecha < ?", colaboradorID, desde, hasta).
		Order("fecha ASC").
		Find(&registros).Error
	return registros, err
}

func (r *horasRepo) ListPorProyecto(ctx context.Context, proyectoID uuid.UUID, desde, hasta time.Time) ([]model.RegistroHoras, error) {
	var registros []model.RegistroHoras
	err := r.db.WithContext(ctx).
		Where("proyecto_id = ? AND fecha >= ? AND fecha < ?", proyectoID, desde, hasta).
		Order("fecha ASC").
		Find(&registros).Error
	return registros, err
}

func (r *horasRepo) ListPendientes(ctx context.Context) ([]model.RegistroHoras, error) {
	var registros []model.RegistroHoras
	err := r.db.WithContext(ctx).Where("estado = 'pendiente'").Order("fecha ASC").Find(&registros).Error
	return registros, err
}
