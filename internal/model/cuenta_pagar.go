package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CuentaPagar is an account payable (supplier invoice to settle).
// Estado: borrador → emitida → aprobado → pagada → cerrado
// Deflection: anulada (terminal). Pagar requires the comprobante de pago
// attachment to be present (completeness guard).
type CuentaPagar struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo           string          `gorm:"type:varchar(20);uniqueIndex;not null"`
	ProveedorID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrdenCompraID    *uuid.UUID      `gorm:"type:uuid;index"`
	ResponsableID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoTotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Moneda           string          `gorm:"type:varchar(3);not null;default:'PEN'"`
	FechaVencimiento time.Time       `gorm:"not null;index"`
	Estado           EstadoDocumento `gorm:"type:varchar(20);not null;default:'borrador';index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
	Adjuntos  []Adjunto  `gorm:"foreignKey:CuentaPagarID"`
}

func (CuentaPagar) TableName() string { return "cuentas_pagar" }

func (c *CuentaPagar) DocumentoID() uuid.UUID          { return c.ID }
func (c *CuentaPagar) TipoDocumento() TipoDocumento    { return TipoCuentaPagar }
func (c *CuentaPagar) EstadoActual() EstadoDocumento   { return c.Estado }
func (c *CuentaPagar) CambiarEstado(e EstadoDocumento) { c.Estado = e }
func (c *CuentaPagar) PropietarioID() uuid.UUID        { return c.ResponsableID }
