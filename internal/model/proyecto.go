package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Proyecto is an execution project, usually born from an approved quotation.
// Estado: "activo" | "pausado" | "finalizado" — projects are not lifecycle
// documents; their fases are generated from a PlantillaCronograma.
type Proyecto struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo       string     `gorm:"type:varchar(20);uniqueIndex;not null"`
	Nombre       string     `gorm:"not null"`
	CotizacionID *uuid.UUID `gorm:"type:uuid;index"`
	GestorID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	FechaInicio  time.Time  `gorm:"not null"`
	FechaFin     time.Time  `gorm:"not null"`
	Estado       string     `gorm:"type:varchar(20);not null;default:'activo'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Fases []FaseProyecto `gorm:"foreignKey:ProyectoID;constraint:OnDelete:CASCADE"`
}

func (Proyecto) TableName() string { return "proyectos" }

// FaseProyecto is a scheduled phase generated by applying a plantilla to the
// project date range.
type FaseProyecto struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProyectoID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre           string    `gorm:"not null"`
	Orden            int       `gorm:"not null"`
	FechaInicio      time.Time `gorm:"not null"`
	FechaFin         time.Time `gorm:"not null"`
	Estado           string    `gorm:"type:varchar(20);not null;default:'pendiente'"` // "pendiente" | "en_curso" | "completada"
	PorcentajeAvance int       `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (FaseProyecto) TableName() string { return "fases_proyecto" }

// PlantillaCronograma is a reusable schedule template: an ordered list of
// phases, each owning a percentage of the total project duration.
// Defined by administracion, applied at project creation.
type PlantillaCronograma struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Activa    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Fases []PlantillaFase `gorm:"foreignKey:PlantillaID;constraint:OnDelete:CASCADE"`
}

func (PlantillaCronograma) TableName() string { return "plantillas_cronograma" }

// PlantillaFase declares one phase of a template. PorcentajeDuracion across
// all fases of a plantilla must sum to 100.
type PlantillaFase struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlantillaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Nombre             string          `gorm:"not null"`
	Orden              int             `gorm:"not null"`
	PorcentajeDuracion decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CreatedAt          time.Time
}

func (PlantillaFase) TableName() string { return "plantilla_fases" }
