package repository

import (
	"context"

	"gyscontrol/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificacionRepository interface {
	Create(ctx context.Context, n *model.Notificacion) error
	ListPorUsuario(ctx context.Context, usuarioID uuid.UUID, soloNoLeidas bool) ([]model.Notificacion, error)
	MarcarLeida(ctx context.Context, id uuid.UUID) error
	MarcarTodasLeidas(ctx context.Context, usuarioID uuid.UUID) error
}

type notificacionRepo struct{ db *gorm.DB }

func NewNotificacionRepository(db *gorm.DB) NotificacionRepository { return &notificacionRepo{db: db} }

func (r *notificacionRepo) Create(ctx context.Context, n *model.Notificacion) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificacionRepo) ListPorUsuario(ctx context.Context, usuarioID uuid.UUID, soloNoLeidas bool) ([]model.Notificacion, error) {
	q := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID)
	if soloNoLeidas {
		q = q.Where("leida = false")
	}
	var notificaciones []model.Notificacion
	err := q.Order("created_at DESC").Limit(100).Find(&notificaciones).Error
	return notificaciones, err
}

func (r *notificacionRepo) MarcarLeida(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Notificacion{}).Where("id = ?", id).Update("leida", true).Error
}

func (r *notificacionRepo) MarcarTodasLeidas(ctx context.Context, usuarioID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Notificacion{}).Where("usuario_id = ? AND leida = false", usuarioID).Update("leida", true).Error
}
