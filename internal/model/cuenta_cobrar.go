package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CuentaCobrar is an account receivable issued to a client.
// Estado: borrador → emitida → [parcial] → pagada → cerrado
// Deflection: anulada (terminal). Payments are immutable PagoCobranza rows;
// the saldo is recomputed from them on every cobro.
type CuentaCobrar struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo           string          `gorm:"type:varchar(20);uniqueIndex;not null"`
	ClienteNombre    string          `gorm:"not null"`
	ClienteRUC       *string         `gorm:"column:cliente_ruc;type:varchar(20)"`
	ProyectoID       *uuid.UUID      `gorm:"type:uuid;index"`
	ResponsableID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoTotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoCobrado     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Saldo            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Moneda           string          `gorm:"type:varchar(3);not null;default:'PEN'"`
	FechaVencimiento time.Time       `gorm:"not null;index"`
	Estado           EstadoDocumento `gorm:"type:varchar(20);not null;default:'borrador';index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Pagos []PagoCobranza `gorm:"foreignKey:CuentaCobrarID;constraint:OnDelete:CASCADE"`
}

func (CuentaCobrar) TableName() string { return "cuentas_cobrar" }

func (c *CuentaCobrar) DocumentoID() uuid.UUID          { return c.ID }
func (c *CuentaCobrar) TipoDocumento() TipoDocumento    { return TipoCuentaCobrar }
func (c *CuentaCobrar) EstadoActual() EstadoDocumento   { return c.Estado }
func (c *CuentaCobrar) CambiarEstado(e EstadoDocumento) { c.Estado = e }
func (c *CuentaCobrar) PropietarioID() uuid.UUID        { return c.ResponsableID }

// MontoBase is the invoiced total the saldo is derived from.
func (c *CuentaCobrar) MontoBase() decimal.Decimal { return c.MontoTotal }

func (c *CuentaCobrar) AplicarTotales(cobrado, saldo, _ decimal.Decimal) {
	c.MontoCobrado = cobrado
	c.Saldo = saldo
}

// PagoCobranza is an immutable payment received against a CuentaCobrar.
// Corrections create inverse entries, never updates.
type PagoCobranza struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CuentaCobrarID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CuentaBancariaID *uuid.UUID      `gorm:"type:uuid;index"`
	Monto            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Metodo           string          `gorm:"type:varchar(20);not null"` // "efectivo" | "transferencia" | "cheque" | "deposito"
	Moneda           string          `gorm:"type:varchar(3);not null;default:'PEN'"`
	Referencia       *string
	CreatedAt        time.Time
}

func (PagoCobranza) TableName() string { return "pagos_cobranza" }
