package repository

import (
	"context"

	"gyscontrol/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CotizacionRepository interface {
	Create(ctx context.Context, c *model.Cotizacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error)
	List(ctx context.Context, clienteNombre string) ([]model.Cotizacion, error)
	Update(ctx context.Context, c *model.Cotizacion) error
	SiguienteCorrelativo(ctx context.Context) (int64, error)

	CreateVersion(ctx context.Context, v *model.CotizacionVersion) error
	FindVersionByID(ctx context.Context, id uuid.UUID) (*model.CotizacionVersion, error)
	ListVersiones(ctx context.Context, cotizacionID uuid.UUID) ([]model.CotizacionVersion, error)
	MaxNumeroVersion(ctx context.Context, cotizacionID uuid.UUID) (int, error)

	// Approval supersedes every sibling version and stamps the parent's
	// monto, all in the same transaction.
	MarcarSuperadasTx(tx *gorm.DB, cotizacionID, exceptoVersionID uuid.UUID) error
	EstamparMontoTx(tx *gorm.DB, cotizacionID uuid.UUID, monto decimal.Decimal) error

	CreateLinea(ctx context.Context, l *model.CotizacionLinea) error
	ListLineas(ctx context.Context, versionID uuid.UUID) ([]model.CotizacionLinea, error)
	DeleteLinea(ctx context.Context, id uuid.UUID) error

	DB() *gorm.DB
}

type cotizacionRepo struct{ db *gorm.DB }

func NewCotizacionRepository(db *gorm.DB) CotizacionRepository { return &cotizacionRepo{db: db} }

func (r *cotizacionRepo) Create(ctx context.Context, c *model.Cotizacion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cotizacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error) {
	var c model.Cotizacion
	err := r.db.WithContext(ctx).Preload("Versiones").First(&c, id).Error
	return &c, err
}

func (r *cotizacionRepo) List(ctx context.Context, clienteNombre string) ([]model.Cotizacion, error) {
	var cotizaciones []model.Cotizacion
	q := r.db.WithContext(ctx)
	if clienteNombre != "" {
		q = q.Where("cliente_nombre ILIKE ?", "%"+clienteNombre+"%")
	}
	err := q.Order("created_at DESC").Find(&cotizaciones).Error
	return cotizaciones, err
}

func (r *cotizacionRepo) Update(ctx context.Context, c *model.Cotizacion) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cotizacionRepo) SiguienteCorrelativo(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('cotizaciones_codigo_seq')").Scan(&n).Error
	return n, err
}

func (r *cotizacionRepo) CreateVersion(ctx context.Context, v *model.CotizacionVersion) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *cotizacionRepo) FindVersionByID(ctx context.Context, id uuid.UUID) (*model.CotizacionVersion, error) {
	var v model.CotizacionVersion
	err := r.db.WithContext(ctx).Preload("Lineas").First(&v, id).Error
	return &v, err
}

func (r *cotizacionRepo) ListVersiones(ctx context.Context, cotizacionID uuid.UUID) ([]model.CotizacionVersion, error) {
	var versiones []model.CotizacionVersion
	err := r.db.WithContext(ctx).Where("cotizacion_id = ?", cotizacionID).Order("numero ASC").Find(&versiones).Error
	return versiones, err
}

func (r *cotizacionRepo) MaxNumeroVersion(ctx context.Context, cotizacionID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&model.CotizacionVersion{}).
		Where("cotizacion_id = ?", cotizacionID).
		Select("COALESCE(MAX(numero), 0)").Scan(&max).Error
	return max, err
}

func (r *cotizacionRepo) MarcarSuperadasTx(tx *gorm.DB, cotizacionID, exceptoVersionID uuid.UUID) error {
	return tx.Model(&model.CotizacionVersion{}).
		Where("cotizacion_id = ? AND id <> ?", cotizacionID, exceptoVersionID).
		Update("superada", true).Error
}

func (r *cotizacionRepo) EstamparMontoTx(tx *gorm.DB, cotizacionID uuid.UUID, monto decimal.Decimal) error {
	return tx.Model(&model.Cotizacion{}).
		Where("id = ?", cotizacionID).
		Update("monto_total", monto).Error
}

func (r *cotizacionRepo) CreateLinea(ctx context.Context, l *model.CotizacionLinea) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *cotizacionRepo) ListLineas(ctx context.Context, versionID uuid.UUID) ([]model.CotizacionLinea, error) {
	var lineas []model.CotizacionLinea
	err := r.db.WithContext(ctx).Where("version_id = ?", versionID).Find(&lineas).Error
	return lineas, err
}

func (r *cotizacionRepo) DeleteLinea(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CotizacionLinea{}, id).Error
}

func (r *cotizacionRepo) DB() *gorm.DB { return r.db }
