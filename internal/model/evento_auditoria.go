package model

import (
	"time"

	"github.com/google/uuid"
)

// EventoAuditoria is an immutable audit record for one document transition.
// Append-only: never updated or deleted by application code. Guards must not
// read this table — decisions depend only on current document state.
type EventoAuditoria struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentoID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_eventos_documento"`
	TipoDocumento  TipoDocumento   `gorm:"type:varchar(30);not null;index:idx_eventos_documento"`
	Accion         AccionDocumento `gorm:"type:varchar(30);not null"`
	Descripcion    string          `gorm:"not null"`
	EstadoAnterior EstadoDocumento `gorm:"type:varchar(20);not null"`
	EstadoNuevo    EstadoDocumento `gorm:"type:varchar(20);not null"`
	ActorID        uuid.UUID       `gorm:"type:uuid;not null"`
	// Metadata carries action payload context (comentario, montos) as JSON
	Metadata  *string   `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"index"`
}

func (EventoAuditoria) TableName() string { return "eventos_auditoria" }
