package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CuentaBancaria is a company bank account.
type CuentaBancaria struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Banco       string          `gorm:"not null"`
	Numero      string          `gorm:"uniqueIndex;not null"`
	Moneda      string          `gorm:"type:varchar(3);not null;default:'PEN'"`
	SaldoActual decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Activa      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Movimientos []MovimientoBancario `gorm:"foreignKey:CuentaBancariaID"`
}

func (CuentaBancaria) TableName() string { return "cuentas_bancarias" }

// MovimientoBancario is an immutable entry in a bank account ledger.
// Tipo: "cobro" | "pago" | "deposito_anticipo" | "ajuste"
// Movements are NEVER modified or deleted — corrections create inverse entries.
type MovimientoBancario struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CuentaBancariaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo             string          `gorm:"type:varchar(30);not null"`
	Monto            decimal.Decimal `gorm:"type:decimal(14,2);not null"` // positive = entrada, negative = salida
	Descripcion      string          `gorm:"not null"`
	// ReferenciaID links to the originating PagoCobranza, CuentaPagar or HojaGastos
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

func (MovimientoBancario) TableName() string { return "movimientos_bancarios" }
