package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegistroHoras is one day of worked hours by a collaborator on a project.
// Estado: "pendiente" | "aprobado" | "rechazado" — a lightweight review flag,
// not a full lifecycle document. Rejected entries may be corrected and
// resubmitted by their creator only.
type RegistroHoras struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ColaboradorID uuid.UUID       `gorm:"type:uuid;not null;index:idx_horas_colaborador_fecha"`
	ProyectoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fecha         time.Time       `gorm:"not null;index:idx_horas_colaborador_fecha"`
	Horas         decimal.Decimal `gorm:"type:decimal(4,2);not null"`
	Descripcion   string
	Estado        string `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (RegistroHoras) TableName() string { return "registros_horas" }
