package repository

import (
	"context"

	"gyscontrol/internal/dto"
	"gyscontrol/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrdenCompraRepository interface {
	Create(ctx context.Context, o *model.OrdenCompra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenCompra, error)
	List(ctx context.Context, filter dto.OrdenCompraFilter) ([]model.OrdenCompra, int64, error)
	Update(ctx context.Context, o *model.OrdenCompra) error
	SiguienteCorrelativo(ctx context.Context) (int64, error)

	CreateItem(ctx context.Context, it *model.OrdenCompraItem) error
	ListItems(ctx context.Context, ordenID uuid.UUID) ([]model.OrdenCompraItem, error)
	UpdateItem(ctx context.Context, it *model.OrdenCompraItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	DB() *gorm.DB
}

type ordenCompraRepo struct{ db *gorm.DB }

func NewOrdenCompraRepository(db *gorm.DB) OrdenCompraRepository { return &ordenCompraRepo{db: db} }

func (r *ordenCompraRepo) Create(ctx context.Context, o *model.OrdenCompra) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *ordenCompraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenCompra, error) {
	var o model.OrdenCompra
	err := r.db.WithContext(ctx).Preload("Items").Preload("Proveedor").First(&o, id).Error
	return &o, err
}

func (r *ordenCompraRepo) List(ctx context.Context, filter dto.OrdenCompraFilter) ([]model.OrdenCompra, int64, error) {
	var ordenes []model.OrdenCompra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.OrdenCompra{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}
	if filter.ProyectoID != "" {
		q = q.Where("proyecto_id = ?", filter.ProyectoID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&ordenes).Error
	return ordenes, total, err
}

func (r *ordenCompraRepo) Update(ctx context.Context, o *model.OrdenCompra) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *ordenCompraRepo) SiguienteCorrelativo(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('ordenes_compra_codigo_seq')").Scan(&n).Error
	return n, err
}

func (r *ordenCompraRepo) CreateItem(ctx context.Context, it *model.OrdenCompraItem) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *ordenCompraRepo) ListItems(ctx context.Context, ordenID uuid.UUID) ([]model.OrdenCompraItem, error) {
	var items []model.OrdenCompraItem
	err := r.db.WithContext(ctx).Where("orden_compra_id = ?", ordenID).Find(&items).Error
	return items, err
}

func (r *ordenCompraRepo) UpdateItem(ctx context.Context, it *model.OrdenCompraItem) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *ordenCompraRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.OrdenCompraItem{}, id).Error
}

func (r *ordenCompraRepo) DB() *gorm.DB { return r.db }
