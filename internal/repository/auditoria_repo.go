package repository

import (
	"context"

	"gyscontrol/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditoriaRepository only reads. Events are written exclusively by the
// workflow executor inside the transition transaction.
type AuditoriaRepository interface {
	ListPorDocumento(ctx context.Context, tipo model.TipoDocumento, documentoID uuid.UUID) ([]model.EventoAuditoria, error)
	ListPorActor(ctx context.Context, actorID uuid.UUID, limit int) ([]model.EventoAuditoria, error)
}

type auditoriaRepo struct{ db *gorm.DB }

func NewAuditoriaRepository(db *gorm.DB) AuditoriaRepository { return &auditoriaRepo{db: db} }

func (r *auditoriaRepo) ListPorDocumento(ctx context.Context, tipo model.TipoDocumento, documentoID uuid.UUID) ([]model.EventoAuditoria, error) {
	var eventos []model.EventoAuditoria
	err := r.db.WithContext(ctx).
		Where("tipo_documento = ? AND documento_id = ?", tipo, documentoID).
		Order("created_at ASC").
		Find(&eventos).Error
	return eventos, err
}

func (r *auditoriaRepo) ListPorActor(ctx context.Context, actorID uuid.UUID, limit int) ([]model.EventoAuditoria, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var eventos []model.EventoAuditoria
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&eventos).Error
	return eventos, err
}
