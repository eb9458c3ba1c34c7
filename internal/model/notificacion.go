package model

import (
	"time"

	"github.com/google/uuid"
)

// Notificacion is a persisted in-app notification created by the worker pool
// after a document transition. Delivery is best-effort; failures never affect
// the transition that produced it.
type Notificacion struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	DocumentoID   uuid.UUID     `gorm:"type:uuid;not null"`
	TipoDocumento TipoDocumento `gorm:"type:varchar(30);not null"`
	Titulo        string        `gorm:"not null"`
	Mensaje       string        `gorm:"not null"`
	Leida         bool          `gorm:"not null;default:false;index"`
	CreatedAt     time.Time
}

func (Notificacion) TableName() string { return "notificaciones" }
