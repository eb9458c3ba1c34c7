package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cotizacion is a commercial quotation. The lifecycle lives on each
// CotizacionVersion; the parent only aggregates the approved snapshot.
type Cotizacion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo        string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	ClienteNombre string    `gorm:"not null"`
	ComercialID   uuid.UUID `gorm:"type:uuid;not null;index"`
	// MontoTotal se estampa desde la versión aprobada
	MontoTotal decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Moneda     string          `gorm:"type:varchar(3);not null;default:'PEN'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Versiones []CotizacionVersion `gorm:"foreignKey:CotizacionID;constraint:OnDelete:CASCADE"`
}

func (Cotizacion) TableName() string { return "cotizaciones" }

// CotizacionVersion is one immutable-once-sent snapshot of a quotation.
// Estado: borrador → enviado → aprobado | rechazado (re-enviable) | cancelado
// Approving a version supersedes its siblings.
type CotizacionVersion struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CotizacionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Numero       int             `gorm:"not null"`
	AutorID      uuid.UUID       `gorm:"type:uuid;not null"`
	MontoTotal   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Estado       EstadoDocumento `gorm:"type:varchar(20);not null;default:'borrador';index"`
	// Superada marca versiones hermanas cuando otra es aprobada
	Superada  bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Lineas []CotizacionLinea `gorm:"foreignKey:VersionID;constraint:OnDelete:CASCADE"`
}

func (CotizacionVersion) TableName() string { return "cotizacion_versiones" }

func (v *CotizacionVersion) DocumentoID() uuid.UUID          { return v.ID }
func (v *CotizacionVersion) TipoDocumento() TipoDocumento    { return TipoCotizacion }
func (v *CotizacionVersion) EstadoActual() EstadoDocumento   { return v.Estado }
func (v *CotizacionVersion) CambiarEstado(e EstadoDocumento) { v.Estado = e }
func (v *CotizacionVersion) PropietarioID() uuid.UUID        { return v.AutorID }

// CotizacionLinea is one service/equipment line inside a version.
type CotizacionLinea struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VersionID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Descripcion    string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time
}

func (CotizacionLinea) TableName() string { return "cotizacion_lineas" }
