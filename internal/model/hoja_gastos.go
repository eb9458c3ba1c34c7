package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HojaGastos is an expense reimbursement sheet.
// Estado: borrador → enviado → aprobado → [depositado] → rendido → validado → cerrado
// Deflections: rechazado (re-enviable), cancelado (terminal).
// Invariante: saldo = monto_depositado - monto_gastado después de cada transición.
type HojaGastos struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo           string          `gorm:"type:varchar(20);uniqueIndex;not null"`
	Descripcion      string          `gorm:"not null"`
	ProyectoID       *uuid.UUID      `gorm:"type:uuid;index"`
	SolicitanteID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	RequiereAnticipo bool            `gorm:"not null;default:false"`
	AnticipoID       *uuid.UUID      `gorm:"type:uuid;index"`
	MontoSolicitado  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoDepositado  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoGastado     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Saldo            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// PorcentajeRendido = monto_gastado / monto_depositado * 100, recalculado al rendir
	PorcentajeRendido decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Estado            EstadoDocumento `gorm:"type:varchar(20);not null;default:'borrador';index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Lineas   []GastoLinea `gorm:"foreignKey:HojaGastosID;constraint:OnDelete:CASCADE"`
	Anticipo *Anticipo    `gorm:"foreignKey:AnticipoID"`
}

func (HojaGastos) TableName() string { return "hojas_gastos" }

func (h *HojaGastos) DocumentoID() uuid.UUID          { return h.ID }
func (h *HojaGastos) TipoDocumento() TipoDocumento    { return TipoHojaGastos }
func (h *HojaGastos) EstadoActual() EstadoDocumento   { return h.Estado }
func (h *HojaGastos) CambiarEstado(e EstadoDocumento) { h.Estado = e }
func (h *HojaGastos) PropietarioID() uuid.UUID        { return h.SolicitanteID }

// MontoBase is the amount the saldo is derived from (what was deposited).
func (h *HojaGastos) MontoBase() decimal.Decimal { return h.MontoDepositado }

func (h *HojaGastos) AplicarTotales(gastado, saldo, porcentaje decimal.Decimal) {
	h.MontoGastado = gastado
	h.Saldo = saldo
	h.PorcentajeRendido = porcentaje
}

func (h *HojaGastos) RegistrarDeposito(monto decimal.Decimal) { h.MontoDepositado = monto }

// GastoLinea is a single expense line inside a sheet. Lines may only be
// mutated while the sheet is in an editable estado (borrador, depositado,
// rechazado); deleting the sheet cascades.
type GastoLinea struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HojaGastosID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Descripcion  string          `gorm:"not null"`
	Categoria    string          `gorm:"type:varchar(30);not null"` // "transporte" | "alimentacion" | "hospedaje" | "materiales" | "otros"
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Moneda       string          `gorm:"type:varchar(3);not null;default:'PEN'"`
	Fecha        time.Time       `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Adjuntos []Adjunto `gorm:"foreignKey:GastoLineaID"`
}

func (GastoLinea) TableName() string { return "gasto_lineas" }

// Anticipo is a cash advance handed to a collaborator before travel/field
// work. When the linked hoja de gastos reaches validado, the rendered amount
// liquidates against it in the same transaction (never as a follow-up write).
type Anticipo struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo         string          `gorm:"type:varchar(20);uniqueIndex;not null"`
	BeneficiarioID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProyectoID     *uuid.UUID      `gorm:"type:uuid;index"`
	MontoOtorgado  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoLiquidado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoPendiente decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Anticipo) TableName() string { return "anticipos" }
