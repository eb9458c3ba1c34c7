package repository

import (
	"context"

	"gyscontrol/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProyectoRepository interface {
	Create(ctx context.Context, p *model.Proyecto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proyecto, error)
	List(ctx context.Context, estado string) ([]model.Proyecto, error)
	Update(ctx context.Context, p *model.Proyecto) error
	SiguienteCorrelativo(ctx context.Context) (int64, error)

	CreateFases(ctx context.Context, fases []model.FaseProyecto) error
	ListFases(ctx context.Context, proyectoID uuid.UUID) ([]model.FaseProyecto, error)
	UpdateFase(ctx context.Context, f *model.FaseProyecto) error

	CreatePlantilla(ctx context.Context, p *model.PlantillaCronograma) error
	FindPlantillaByID(ctx context.Context, id uuid.UUID) (*model.PlantillaCronograma, error)
	ListPlantillas(ctx context.Context) ([]model.PlantillaCronograma, error)
}

type proyectoRepo struct{ db *gorm.DB }

func NewProyectoRepository(db *gorm.DB) ProyectoRepository { return &proyectoRepo{db: db} }

func (r *proyectoRepo) Create(ctx context.Context, p *model.Proyecto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proyectoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proyecto, error) {
	var p model.Proyecto
	err := r.db.WithContext(ctx).Preload("Fases").First(&p, id).Error
	return &p, err
}

func (r *proyectoRepo) List(ctx context.Context, estado string) ([]model.Proyecto, error) {
	var proyectos []model.Proyecto
	q := r.db.WithContext(ctx)
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	err := q.Order("created_at DESC").Find(&proyectos).Error
	return proyectos, err
}

func (r *proyectoRepo) Update(ctx context.Context, p *model.Proyecto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *proyectoRepo) SiguienteCorrelativo(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('proyectos_codigo_seq')").Scan(&n).Error
	return n, err
}

func (r *proyectoRepo) CreateFases(ctx context.Context, fases []model.FaseProyecto) error {
	return r.db.WithContext(ctx).Create(&fases).Error
}

func (r *proyectoRepo) ListFases(ctx context.Context, proyectoID uuid.UUID) ([]model.FaseProyecto, error) {
	var fases []model.FaseProyecto
	err := r.db.WithContext(ctx).Where("proyecto_id = ?", proyectoID).Order("orden ASC").Find(&fases).Error
	return fases, err
}

func (r *proyectoRepo) UpdateFase(ctx context.Context, f *model.FaseProyecto) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *proyectoRepo) CreatePlantilla(ctx context.Context, p *model.PlantillaCronograma) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proyectoRepo) FindPlantillaByID(ctx context.Context, id uuid.UUID) (*model.PlantillaCronograma, error) {
	var p model.PlantillaCronograma
	err := r.db.WithContext(ctx).Preload("Fases", func(db *gorm.DB) *gorm.DB {
		return db.Order("orden ASC")
	}).First(&p, id).Error
	return &p, err
}

func (r *proyectoRepo) ListPlantillas(ctx context.Context) ([]model.PlantillaCronograma, error) {
	var plantillas []model.PlantillaCronograma
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&plantillas).Error
	return plantillas, err
}
